package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweepmind/sweepmind/director/deduce"
	"github.com/sweepmind/sweepmind/game"
)

var numGames int

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Play games headlessly with a director",
	Long: `solve plays one or more games to completion without opening a
window, and reports how they went. Games are played sequentially, each with
its own board and knowledge; the seed is advanced by one per game so a run
is reproducible with --seed.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if numGames < 1 {
			return fmt.Errorf("--games must be at least 1")
		}

		if err := prepareGameConfig(); err != nil {
			return err
		}

		if directorName == "" {
			directorName = "deduce"
		}

		wins := 0
		totals := deduce.Stats{}

		for i := 0; i < numGames; i++ {
			config := gameConfig
			config.Seed = gameConfig.Seed + int64(i)

			director, err := newDirector(directorName)
			if err != nil {
				return err
			}
			config.Director = director

			board := game.RunHeadless(config)

			if board.State() == game.Won {
				wins++
			}

			fields := logrus.Fields{
				"game":  i + 1,
				"state": board.State(),
				"seed":  config.Seed,
			}
			if deducer, ok := director.(*deduce.Director); ok {
				stats := deducer.Stats()
				totals.SafeMoves += stats.SafeMoves
				totals.FlagMoves += stats.FlagMoves
				totals.RandomMoves += stats.RandomMoves

				fields["safe"] = stats.SafeMoves
				fields["flags"] = stats.FlagMoves
				fields["random"] = stats.RandomMoves
			}
			Log.WithFields(fields).Info("Game finished")
		}

		fmt.Printf("Won %d of %d games (%.1f%%)\n", wins, numGames, 100*float64(wins)/float64(numGames))
		if directorName == "deduce" {
			fmt.Printf("Moves: %d proven safe, %d mines flagged, %d random probes\n",
				totals.SafeMoves, totals.FlagMoves, totals.RandomMoves)
		}
		return nil
	},
}

func init() {
	registerBoardFlags(solveCmd)
	solveCmd.Flags().StringVarP(&directorName, "director", "d", "", "Director to play with (random or deduce; deduce by default)")
	solveCmd.Flags().IntVarP(&numGames, "games", "n", 1, "Number of games to play")

	rootCmd.AddCommand(solveCmd)
}
