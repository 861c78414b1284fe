package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available modes",
	Long:  `Shows every registered mode and the campaign level targets.`,
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		var modes [][]string
		for _, g := range registry.List() {
			modes = append(modes, []string{g.ID, g.Title, strings.Join(g.Aliases, ", ")})
		}
		printTable([]string{"ID", "Title", "Aliases"}, modes)

		var levels [][]string
		targets := t2048.LevelTargets()
		for i, name := range t2048.LevelNames() {
			levels = append(levels, []string{strconv.Itoa(i + 1), name, strconv.Itoa(targets[i])})
		}
		fmt.Println("Campaign levels:")
		printTable([]string{"Level", "Name", "Target"}, levels)
		fmt.Println(mutedStyle.Render("Run 't2048 play campaign' or 't2048 play endless' to start."))
	},
}
