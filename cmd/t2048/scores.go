package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagClear bool

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 results for campaign (default) or endless mode.

Examples:
  t2048 scores
  t2048 scores endless
  t2048 scores campaign --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the mode")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID, err := modeID(args)
	if err != nil {
		return err
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", game.Title())
		return nil
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	if len(scores) == 0 {
		fmt.Println(mutedStyle.Render("No scores recorded yet. Finish a game to set one."))
		return nil
	}

	rows := make([][]string, len(scores))
	for i, s := range scores {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Score),
			strconv.Itoa(s.MaxTile),
			strconv.Itoa(s.Moves),
			s.CreatedAt.Format("2006-01-02 15:04"),
		}
	}
	printTable([]string{"Rank", "Score", "Tile", "Moves", "Date"}, rows)

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("Games: %d  Best: %d  Best tile: %d  Average: %.0f",
		stats.GamesCount, stats.HighScore, stats.BestTile, stats.AvgScore)))
	return nil
}
