package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/morler/frontpack/compiler"
	"github.com/morler/frontpack/config"
	"github.com/morler/frontpack/constants/lipgloss"
	"github.com/morler/frontpack/diagnostics"
	"github.com/morler/frontpack/linter"
	lintcontracts "github.com/morler/frontpack/linter/contracts"
	"github.com/morler/frontpack/source_store"
	"github.com/morler/frontpack/type_checker"
	checkercontracts "github.com/morler/frontpack/type_checker/contracts"
	"github.com/morler/frontpack/utils"
)

// RootDependencies holds everything a subcommand needs.
type RootDependencies struct {
	Cwd             string
	Config          *config.Config
	CompilerOptions *compiler.CompilerOptions
	Store           *source_store.VirtualSourceStore
	Host            *compiler.SourceStoreHost
	Linter          lintcontracts.ILinter
	Renderer        *diagnostics.Renderer
	TypeChecker     checkercontracts.ITypeChecker
}

var rootCmd = &cobra.Command{
	Use:   "frontpack",
	Short: "Incremental TypeScript and Vue type checking for front-end projects.",
	Long: `frontpack keeps a virtual view of a project's .ts, .tsx and .vue sources and
reports syntax errors, unresolved imports, missing exports and lint failures.
Use 'check' for a single pass or 'watch' to re-check on every save.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("version: %s", config.DefaultConfig.Version)))
			return
		}
		_ = cmd.Help()
	},
}

func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	var err error
	rootDependencies := &RootDependencies{}

	rootDependencies.Cwd, err = os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	rootDependencies.Config, err = config.LoadConfigs(rootCmd, rootDependencies.Cwd)
	if err != nil {
		return nil, err
	}

	rootDependencies.CompilerOptions, err = rootDependencies.Config.BuildCompilerOptions()
	if err != nil {
		return nil, err
	}

	rootDependencies.Store = source_store.NewVirtualSourceStore(source_store.StoreOptions{
		Target: rootDependencies.CompilerOptions.Target,
	})

	baseHost, err := compiler.NewCompilerHost(rootDependencies.CompilerOptions)
	if err != nil {
		return nil, err
	}
	rootDependencies.Host, err = compiler.NewSourceStoreHost(baseHost, rootDependencies.Store)
	if err != nil {
		return nil, err
	}

	if rootDependencies.Config.EnableLint {
		rootDependencies.Linter, err = loadLinter(rootDependencies.Config, rootDependencies.Cwd)
		if err != nil {
			return nil, err
		}
	}

	rootDependencies.Renderer = diagnostics.NewRenderer(rootDependencies.Store, diagnostics.RendererOptions{
		BaseDir:    rootDependencies.Cwd,
		CodeFrames: rootDependencies.Config.CodeFrames,
		Theme:      rootDependencies.Config.Theme,
	})

	rootDependencies.TypeChecker = type_checker.NewTypeChecker(rootDependencies.Store, rootDependencies.Host, type_checker.Options{
		CompilerOptions: rootDependencies.CompilerOptions,
		Linter:          rootDependencies.Linter,
		Renderer:        rootDependencies.Renderer,
	})

	return rootDependencies, nil
}

func loadLinter(cfg *config.Config, cwd string) (lintcontracts.ILinter, error) {
	var lintConfig *linter.LintConfig
	var err error

	if cfg.LintConfig != "" {
		lintConfig, err = linter.LoadConfig(cfg.LintConfig)
	} else {
		lintConfig, err = linter.DiscoverConfig(cwd)
	}
	if err != nil {
		return nil, err
	}
	if lintConfig == nil {
		return nil, nil
	}

	fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("Using lint rules from %s", lintConfig.Path)))
	return linter.NewLinter(lintConfig)
}

// loadProject registers the entry file, declaration files and components
// with the store and reads them all.
func (d *RootDependencies) loadProject(ctx context.Context) error {
	inputFolder := d.Config.ScriptInputFolder

	d.Store.IncludeFile(d.Config.EntryFile)

	declarations, err := doublestar.Glob(filepath.Join(inputFolder, "**", "*.d.ts"))
	if err != nil {
		return fmt.Errorf("failed to find declaration files: %w", err)
	}
	for _, declaration := range declarations {
		if !utils.IsDefaultIgnoredBelow(inputFolder, declaration) {
			d.Store.IncludeFile(declaration)
		}
	}

	if err := d.Store.RegisterSyntheticGlob(filepath.Join(inputFolder, "**", "*.vue")); err != nil {
		return err
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)
	spinnerLoad, _ := spinner.Start("Loading sources...")

	err = d.Store.Preload(ctx)

	spinnerLoad.Stop()
	fmt.Print("\r")

	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}
