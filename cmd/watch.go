package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/morler/frontpack/constants/lipgloss"
	"github.com/morler/frontpack/utils"
	"github.com/morler/frontpack/watcher"
)

// watchCmd: frontpack watch
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Type-check the project and re-check whenever a source changes.",
	Long: `The 'watch' subcommand runs an initial type-check pass, then watches the .ts,
.tsx and .vue files under the script input folder. Bursts of saves are coalesced
into one pass after a quiet period. Failing to load the project ends the command
before watching starts; once watching, type errors never end the session. Press
Ctrl+C to stop.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
		if err := handleWatchCommand(rootDependencies); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
	},
}

func handleWatchCommand(rootDependencies *RootDependencies) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go utils.GracefulShutdown(ctx, cancel, nil)

	if err := rootDependencies.loadProject(ctx); err != nil {
		return err
	}

	sessionWatcher := watcher.NewWatcher(rootDependencies.Store, rootDependencies.TypeChecker, watcher.Options{
		Root:     rootDependencies.Config.ScriptInputFolder,
		Debounce: rootDependencies.Config.WatchDebounce(),
	})

	return sessionWatcher.Run(ctx)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
