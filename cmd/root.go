package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/pixel/pixelgl"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweepmind/sweepmind/director/deduce"
	"github.com/sweepmind/sweepmind/director/random"
	"github.com/sweepmind/sweepmind/game"
)

var Log = logrus.StandardLogger()

var gameConfig = game.NewGameConfig()

var (
	directorName string
	seed         int64
	logLevel     string
	snapshotPath string
)

var rootCmd = &cobra.Command{
	Use:   "sweepmind",
	Short: "Play manual or computer-deduced Minesweeper",
	Long: `sweepmind is a Minesweeper game which supports human- or
computer-driven playing.

Run with no arguments to play manually
	sweepmind

Use the director flag to make the computer play for you
	sweepmind --director deduce

Use the solve subcommand to play without a window
	sweepmind solve -n 100
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prepareGameConfig(); err != nil {
			return err
		}

		director, err := newDirector(directorName)
		if err != nil {
			return err
		}
		gameConfig.Director = director

		pixelgl.Run(func() {
			game.Run(gameConfig)
		})
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// prepareGameConfig resolves the flags shared by every command: the seed and
// the snapshot to play from, if any.
func prepareGameConfig() error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gameConfig.Seed = seed

	if snapshotPath != "" {
		contents, err := os.ReadFile(snapshotPath)
		if err != nil {
			return err
		}

		snapshot, err := game.LoadSnapshot(string(contents))
		if err != nil {
			return fmt.Errorf("%s: %w", snapshotPath, err)
		}
		gameConfig.Snapshot = snapshot
	}

	return nil
}

var directors = map[string]func() game.Director{
	"":       func() game.Director { return nil },
	"random": func() game.Director { return &random.Director{} },
	"deduce": func() game.Director { return &deduce.Director{} },
}

func newDirector(name string) (game.Director, error) {
	create, isValid := directors[name]
	if !isValid {
		return nil, fmt.Errorf("unknown director %q (have: random, deduce)", name)
	}
	return create(), nil
}

type gameModeValue game.GameMode

func newGameModeValue(val game.GameMode, p *game.GameMode) *gameModeValue {
	*p = val
	return (*gameModeValue)(p)
}

var gameModes = map[string]game.GameMode{
	"win7":    game.Win7,
	"classic": game.Classic,
}

func (modeVal *gameModeValue) String() string {
	for name, mode := range gameModes {
		if mode == game.GameMode(*modeVal) {
			return name
		}
	}
	return fmt.Sprint(*modeVal)
}

func (modeVal *gameModeValue) Set(value string) error {
	if mode, isValid := gameModes[value]; isValid {
		*modeVal = gameModeValue(mode)
		return nil
	} else {
		return fmt.Errorf("invalid game mode")
	}
}

func (modeVal *gameModeValue) Type() string {
	return "game.GameMode"
}

func registerBoardFlags(cmd *cobra.Command) {
	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	cmd.Flags().Bool("help", false, "Help for this command")

	cmd.Flags().UintVarP(&gameConfig.Width, "width", "w", 30, "Width of game board, in cells")
	cmd.Flags().UintVarP(&gameConfig.Height, "height", "h", 16, "Height of game board, in cells")
	cmd.Flags().UintVarP(&gameConfig.NumMines, "mines", "m", 99, "Number of mines to place in the game board")
	cmd.Flags().Var(newGameModeValue(game.Win7, &gameConfig.Mode), "mode", `Game mode, controlling behaviour of first click.
win7: all cells surrounding the first-clicked cell are cleared of mines (first click never loses)
classic: mines are left as is (first click can lose the game)`)
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Play the board saved in this snapshot file")
	cmd.Flags().BoolVar(&gameConfig.LoadSnapshotFresh, "fresh", true, "Drop reveals and flags when loading a snapshot")
}

func init() {
	registerBoardFlags(rootCmd)
	rootCmd.Flags().StringVarP(&directorName, "director", "d", "", "Make the computer play (random or deduce)")

	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for mine placement and random moves (0 seeds from the clock)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warning, error)")
	rootCmd.PersistentFlags().StringVar(&gameConfig.SavedSnapshotsDir, "snapshots", "", "Directory to save final board snapshots into")
}
