package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"

	"github.com/jask/slidedeck/internal/config"
	"github.com/jask/slidedeck/internal/database"
	"github.com/jask/slidedeck/internal/database/repository"
	"github.com/jask/slidedeck/internal/deck"
	"github.com/jask/slidedeck/internal/logging"
	"github.com/jask/slidedeck/internal/manifest"
	"github.com/jask/slidedeck/internal/service"
	"github.com/jask/slidedeck/internal/slides"
	"github.com/jask/slidedeck/internal/theme"
	"github.com/jask/slidedeck/internal/tui"
)

const usage = `usage:
  slidedeck [play] <deck.yaml>   present a deck
  slidedeck check <deck.yaml>    load every slide and report failures
  slidedeck stats <deck.yaml>    mean dwell time per slide from rehearsals
  slidedeck reset                delete all recorded rehearsals
  slidedeck config               write the default config file`

func main() {
	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("config")
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "play":
		err = withDeckArg(rest, func(path string) error { return play(ctx, cfg, path) })
	case "check":
		err = withDeckArg(rest, func(path string) error { return check(ctx, cfg, path) })
	case "stats":
		err = withDeckArg(rest, func(path string) error { return stats(ctx, cfg, path) })
	case "reset":
		err = reset(ctx, cfg)
	case "config":
		err = writeConfig()
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		err = play(ctx, cfg, cmd)
	}
	if err != nil {
		boot.Fatal().Err(err).Msg(cmd)
	}
}

func withDeckArg(args []string, fn func(path string) error) error {
	if len(args) != 1 {
		return errors.New("expected one deck manifest path\n" + usage)
	}
	return fn(args[0])
}

// loadDeck reads the manifest at path and builds its registry.
func loadDeck(cfg config.Config, path string) (manifest.Deck, *deck.Registry, error) {
	d, err := manifest.Load(path)
	if err != nil {
		return manifest.Deck{}, nil, err
	}
	entries, err := slides.Build(d, slides.Options{
		BaseDir:       filepath.Dir(path),
		Client:        &http.Client{Timeout: cfg.Remote.Timeout},
		MarkdownStyle: cfg.Markdown.Style,
	})
	if err != nil {
		return manifest.Deck{}, nil, err
	}
	reg, err := deck.NewRegistry(entries)
	if err != nil {
		return manifest.Deck{}, nil, err
	}
	return d, reg, nil
}

func play(ctx context.Context, cfg config.Config, path string) error {
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	d, reg, err := loadDeck(cfg, path)
	if err != nil {
		return err
	}
	policy, err := deck.ParsePolicy(cfg.Transition.Policy)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cache := deck.NewCache(ctx, reg, logging.Component(logger, "cache"))
	sched := deck.NewScheduler(cache, cfg.Preload.Radius)
	ctrl := deck.NewController(reg, sched, deck.NewOrchestrator(cfg.Transition.Duration),
		deck.WithPolicy(policy),
		deck.WithLogger(logging.Component(logger, "controller")),
		deck.WithSlideNavigation(cfg.Input.SlideNavigation),
	)
	if cfg.Preload.WarmAll {
		go func() {
			failed, err := sched.Warm(ctx, cfg.Preload.WarmLimit)
			if err != nil {
				logger.Debug().Err(err).Msg("warm deck stopped")
				return
			}
			logger.Info().Int("failed", len(failed)).Int("slides", reg.Len()).Msg("deck warmed")
		}()
	}

	var rec tui.Recorder
	if cfg.Rehearsal.Enabled {
		svc, db, err := openRehearsal(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		if _, err := svc.Start(ctx, deckTitle(d, path), reg.Len(), database.Now()); err != nil {
			return err
		}
		defer func() {
			if err := svc.Finish(context.Background(), database.Now()); err != nil {
				logger.Error().Err(err).Msg("finish rehearsal")
			}
		}()
		rec = svc
	}

	app := tui.New(ctx, tui.Options{
		Title:      d.Title,
		Controller: ctrl,
		Keys:       cfg.Keys,
		ClickZones: cfg.Input.ClickZones,
		FPS:        cfg.Transition.FPS,
		Recorder:   rec,
		Logger:     logging.Component(logger, "tui"),
		Now:        database.Now,
	})
	defer app.Close()

	logger.Info().Str("deck", path).Int("slides", reg.Len()).Str("policy", string(policy)).Msg("presenting")
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func openRehearsal(cfg config.Config) (*service.RehearsalService, io.Closer, error) {
	path := cfg.Rehearsal.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, nil, err
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return &service.RehearsalService{
		Sessions:    repository.NewSessionRepo(db),
		Navigations: repository.NewNavigationRepo(db),
	}, db, nil
}

// deckTitle keys rehearsal sessions; untitled decks use the file name.
func deckTitle(d manifest.Deck, path string) string {
	if d.Title != "" {
		return d.Title
	}
	return filepath.Base(path)
}

func stderrLogger(cfg config.Config) (zerolog.Logger, io.Closer, error) {
	lc := cfg.Log
	lc.Path = "-"
	lc.Format = "console"
	return logging.New(lc)
}

func check(ctx context.Context, cfg config.Config, path string) error {
	logger, closer, err := stderrLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	_, reg, err := loadDeck(cfg, path)
	if err != nil {
		return err
	}
	cache := deck.NewCache(ctx, reg, logging.Component(logger, "cache"))
	failed, err := deck.NewScheduler(cache, 0).Warm(ctx, cfg.Preload.WarmLimit)
	if err != nil {
		return err
	}
	titles := reg.Titles()
	for _, f := range failed {
		fmt.Printf("✗ %d %s: %v\n", f.Index+1, titles[f.Index], f.Err)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d slides failed to load", len(failed), reg.Len())
	}
	fmt.Printf("✓ all %d slides loaded\n", reg.Len())
	return nil
}

func stats(ctx context.Context, cfg config.Config, path string) error {
	d, err := manifest.Load(path)
	if err != nil {
		return err
	}
	svc, db, err := openRehearsal(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	dwell, err := svc.Dwell(ctx, deckTitle(d, path))
	if err != nil {
		return err
	}
	if len(dwell) == 0 {
		fmt.Println("no rehearsals recorded for this deck")
		return nil
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Dimmed)).
		Headers("#", "Title", "Visits", "Mean", "Total")
	for _, sd := range dwell {
		title := ""
		if sd.Index < len(d.Slides) {
			title = d.Slides[sd.Index].Title
		}
		t.Row(strconv.Itoa(sd.Index+1), title, strconv.Itoa(sd.Visits),
			sd.Mean().Round(time.Second).String(), sd.Total.Round(time.Second).String())
	}
	fmt.Println(t.Render())
	return nil
}

func reset(ctx context.Context, cfg config.Config) error {
	path := cfg.Rehearsal.DBPath
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Println("nothing to reset")
		return nil
	}
	db, err := database.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.RunMigrationsWithDB(db); err != nil {
		return err
	}
	if err := (&service.MaintenanceService{DB: db}).Reset(ctx); err != nil {
		return err
	}
	fmt.Println("rehearsal log cleared")
	return nil
}

func writeConfig() error {
	path := config.Path()
	if _, err := os.Stat(path); err == nil {
		fmt.Println(path, "already exists")
		return nil
	}
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}
