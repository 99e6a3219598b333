package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/slidedeck/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "deck.log")
	log, closer, err := New(config.LogConfig{Level: "debug", Format: "json", Path: path})
	require.NoError(t, err)

	deckLog := Component(log, "deck")
	deckLog.Debug().Int("slide", 3).Msg("navigate")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(b)
	require.Contains(t, line, `"component":"deck"`)
	require.Contains(t, line, `"slide":3`)
	require.Contains(t, line, `"message":"navigate"`)
}

func TestNewFiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.log")
	log, closer, err := New(config.LogConfig{Level: "warn", Path: path})
	require.NoError(t, err)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(b), "hidden"))
	require.Contains(t, string(b), "shown")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	log, closer, err := New(config.LogConfig{Level: "loud", Path: "-"})
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	require.Equal(t, "info", log.GetLevel().String())
}
