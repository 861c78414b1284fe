package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

func screenshotDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".t2048", "screenshots"), nil
}

// writeScreenshot stores the rendered screen as <id>_<time>.txt in dir. For
// 2048 games the board state goes next to it as YAML. It returns the path
// of the text file.
func writeScreenshot(dir string, game registry.Game, screen *core.Screen, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	base := filepath.Join(dir, game.ID()+"_"+at.Format("20060102_150405"))
	if err := os.WriteFile(base+".txt", []byte(screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	if g, ok := game.(interface{ Snapshot() t2048.Snapshot }); ok {
		data, err := yaml.Marshal(g.Snapshot())
		if err != nil {
			return "", fmt.Errorf("screenshot: %w", err)
		}
		if err := os.WriteFile(base+".yaml", data, 0o600); err != nil {
			return "", fmt.Errorf("screenshot: %w", err)
		}
	}
	return base + ".txt", nil
}
