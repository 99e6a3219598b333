// Package manifest reads deck manifests: the ordered list of slides and the
// static props each one is rendered with.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Slide kinds.
const (
	KindTitle    = "title"
	KindMarkdown = "markdown"
	KindTOC      = "toc"
	KindRemote   = "remote"
)

// Deck is a parsed manifest.
type Deck struct {
	Title  string  `yaml:"title"`
	Theme  Theme   `yaml:"theme"`
	Slides []Slide `yaml:"slides" validate:"required,min=1,dive"`
}

// Theme holds deck-wide defaults.
type Theme struct {
	Accent string `yaml:"accent" validate:"omitempty,hexcolor"`
}

// Slide is one manifest entry.
type Slide struct {
	Kind     string         `yaml:"kind" validate:"required,oneof=title markdown toc remote"`
	Source   string         `yaml:"source" validate:"required_if=Kind markdown"`
	URL      string         `yaml:"url" validate:"required_if=Kind remote,omitempty,url"`
	Title    string         `yaml:"title"`
	Subtitle string         `yaml:"subtitle"`
	Accent   string         `yaml:"accent" validate:"omitempty,hexcolor"`
	Section  int            `yaml:"section" validate:"gte=0"`
	Latency  time.Duration  `yaml:"latency" validate:"gte=0"`
	Props    map[string]any `yaml:"props"`
}

// StaticProps merges the named fields over the free-form props. The
// result is what the slide receives untouched.
func (s Slide) StaticProps(theme Theme) map[string]any {
	out := make(map[string]any, len(s.Props)+4)
	for k, v := range s.Props {
		out[k] = v
	}
	if s.Title != "" {
		out["title"] = s.Title
	}
	if s.Subtitle != "" {
		out["subtitle"] = s.Subtitle
	}
	accent := s.Accent
	if accent == "" {
		accent = theme.Accent
	}
	if accent != "" {
		out["accent"] = accent
	}
	if s.Section > 0 {
		out["section"] = s.Section
	}
	return out
}

// Load reads and validates the manifest at path.
func Load(path string) (Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return Deck{}, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a manifest.
func Parse(r io.Reader) (Deck, error) {
	var d Deck
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return Deck{}, fmt.Errorf("decode manifest: empty document")
		}
		return Deck{}, fmt.Errorf("decode manifest: %w", err)
	}
	if err := Validate(d); err != nil {
		return Deck{}, err
	}
	return d, nil
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
	})
	return validate
}

// Validate checks d against the manifest rules and reports every failing
// field in one error.
func Validate(d Deck) error {
	err := getValidator().Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate manifest: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldPath(e)+": "+describe(e))
	}
	return fmt.Errorf("invalid manifest: %s", strings.Join(msgs, "; "))
}

func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		return "must have at least " + e.Param() + " entries"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "hexcolor":
		return "must be a hex color"
	case "url":
		return "must be a valid URL"
	case "gte":
		return "must not be negative"
	default:
		return "failed " + e.Tag()
	}
}
