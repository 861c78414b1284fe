package core

// Color is a palette slot. Games pick slots by role and the platform maps
// them to terminal styles, so a theme change never touches game code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorFrame         // board grid lines
	ColorTitle         // headings
	ColorMuted         // secondary text
	ColorAccent        // highlights such as a fresh merge

	// ColorTile is the first of TileShades consecutive tile slots; see
	// TileColor.
	ColorTile
)

// TileShades is the number of distinct tile colors. Larger tiles share
// the last shade.
const TileShades = 12

// TileColor returns the slot for a tile whose value is 2^power. Power 1
// (a 2 tile) is the first shade.
func TileColor(power int) Color {
	shade := Clamp(power-1, 0, TileShades-1)
	return ColorTile + Color(shade)
}

// IsTile reports whether c is one of the tile shades.
func (c Color) IsTile() bool {
	return c >= ColorTile && c < ColorTile+TileShades
}
