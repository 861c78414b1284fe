package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start 2048 with an interactive menu",
	Long: `Pick campaign or endless, choose a start level and cycle the
difficulty, or browse the scoreboard. Finished games return to the menu.

Controls:
  Up/Down/j/k    - Navigate menu
  Left/Right     - Change difficulty
  Enter          - Select
  Q              - Quit

Examples:
  t2048 menu
  t2048 menu --difficulty hard
  t2048 menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := openStoreOrWarn()
		if store != nil {
			defer store.Close()
		}
		return tui.RunSession(store, terminalConfig(), preset())
	},
}
