package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// tileShades are the background and text colors for tiles 2, 4, 8 and up,
// warming from beige to red and then cooling to blue for huge tiles.
var tileShades = [core.TileShades][2]string{
	{"254", "238"}, // 2
	{"223", "238"}, // 4
	{"215", "231"}, // 8
	{"209", "231"}, // 16
	{"203", "231"}, // 32
	{"196", "231"}, // 64
	{"222", "238"}, // 128
	{"221", "238"}, // 256
	{"220", "238"}, // 512
	{"214", "231"}, // 1024
	{"208", "231"}, // 2048
	{"63", "231"},  // 4096+
}

// palette maps every core.Color slot to a style.
var palette = func() map[core.Color]lipgloss.Style {
	p := map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
		core.ColorFrame:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		core.ColorTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		core.ColorMuted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		core.ColorAccent:  lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true),
	}
	for c := core.ColorTile; c.IsTile(); c++ {
		shade := tileShades[c-core.ColorTile]
		p[c] = lipgloss.NewStyle().
			Background(lipgloss.Color(shade[0])).
			Foreground(lipgloss.Color(shade[1])).
			Bold(true)
	}
	return p
}()

func styleFor(c core.Color) lipgloss.Style {
	if s, ok := palette[c]; ok {
		return s
	}
	return palette[core.ColorDefault]
}

// RenderScreen turns a Screen into styled terminal output. Each run of
// same-colored cells in a row is styled once.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	var run strings.Builder

	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			if color == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}
