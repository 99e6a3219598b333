package deck

// Module is a resolved slide. The engine never looks inside it beyond
// rendering it and, optionally, offering it keys.
type Module interface {
	Render(props Props, width, height int) string
}

// KeyHandler is implemented by slides that react to keys while active.
// HandleKey reports whether the key was consumed, and any error from a
// navigation the key triggered.
type KeyHandler interface {
	HandleKey(props Props, key string) (bool, error)
}

// Props is everything a slide receives from the deck. Static is passed
// through unexamined.
type Props struct {
	Index  int
	Total  int
	Static map[string]any

	OnNext func()
	OnPrev func()
	// OnNavigate is nil when slide-driven jumps are disabled.
	OnNavigate func(int) error
}

// String returns a static prop as a string, or "" if absent.
func (p Props) String(key string) string {
	if p.Static == nil {
		return ""
	}
	if s, ok := p.Static[key].(string); ok {
		return s
	}
	return ""
}

// Int returns a static prop as an int, or 0 if absent.
func (p Props) Int(key string) int {
	if p.Static == nil {
		return 0
	}
	switch v := p.Static[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
