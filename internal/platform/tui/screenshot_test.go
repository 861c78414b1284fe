package tui

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

func TestWriteScreenshotWithState(t *testing.T) {
	g := t2048.New()
	cfg := core.DefaultConfig()
	cfg.Seed = 7
	g.Reset(cfg)

	screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
	g.Render(screen)

	dir := t.TempDir()
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	path, err := writeScreenshot(dir, g, screen, at)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "2048_20240301_123000.txt"), path)

	text, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, screen.String(), string(text))

	data, err := os.ReadFile(strings.TrimSuffix(path, ".txt") + ".yaml")
	require.NoError(t, err)
	var snap t2048.Snapshot
	require.NoError(t, yaml.Unmarshal(data, &snap))
	assert.Equal(t, g.Snapshot().Board, snap.Board)
	assert.Equal(t, "campaign", snap.Mode)
}

func TestWriteScreenshotTextOnly(t *testing.T) {
	dir := t.TempDir()
	screen := core.NewScreen(4, 1)
	screen.DrawText(0, 0, "over")

	path, err := writeScreenshot(dir, &scriptGame{}, screen, time.Now())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.FileExists(t, path)
}
