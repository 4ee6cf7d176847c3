package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/morler/frontpack/constants/lipgloss"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Load the project and show source store statistics.",
	Long: `The 'stats' command loads the entry file, declaration files and components the
way 'check' does and prints what the source store holds: records, synthetic
component mappings, root files and parse counters. With --check it also runs a
type-check pass after loading and the parse counters describe that pass alone.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCheck, _ := cmd.Flags().GetBool("check")

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}

		handleStatsCommand(rootDependencies, runCheck)
	},
}

func init() {
	statsCmd.Flags().Bool("check", false, "Run a type-check pass before printing statistics")

	rootCmd.AddCommand(statsCmd)
}

func handleStatsCommand(rootDependencies *RootDependencies, runCheck bool) {
	ctx := context.Background()

	if err := rootDependencies.loadProject(ctx); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %v", err)))
	}

	if runCheck {
		// counters then describe the pass alone
		rootDependencies.Store.ResetStats()
		if _, err := rootDependencies.TypeChecker.TypeCheck(ctx); err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %v", err)))
		}
	}

	stats := rootDependencies.Store.Stats()
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Println(lipgloss.Info.Render("Source Store Statistics:"))
	for _, key := range keys {
		fmt.Printf("  %-18s %v\n", key+":", stats[key])
	}
}
