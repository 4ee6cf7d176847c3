package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/morler/frontpack/constants/lipgloss"
)

// checkCmd: frontpack check
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Type-check the project once and exit.",
	Long: `The 'check' subcommand loads the entry file, every declaration file and every
Vue component under the script input folder, runs a single type-check and lint
pass, and prints the diagnostics. It exits with status 1 when any are found.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
		os.Exit(handleCheckCommand(rootDependencies))
	},
}

func handleCheckCommand(rootDependencies *RootDependencies) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootDependencies.loadProject(ctx); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return 1
	}

	result, err := rootDependencies.TypeChecker.TypeCheck(ctx)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Type check failed: %v", err)))
		return 1
	}
	if result.HasErrors() {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
