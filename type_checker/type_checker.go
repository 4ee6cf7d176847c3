// Package type_checker runs full type-check and lint passes over the files
// of a virtual source store.
package type_checker

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pterm/pterm"

	"github.com/morler/frontpack/compiler"
	"github.com/morler/frontpack/diagnostics"
	lintcontracts "github.com/morler/frontpack/linter/contracts"
	storecontracts "github.com/morler/frontpack/source_store/contracts"
	"github.com/morler/frontpack/syntax"
	"github.com/morler/frontpack/type_checker/contracts"
	"github.com/morler/frontpack/type_checker/models"
)

// Options wires a TypeChecker. Linter may be nil when no lint configuration
// was found; Output defaults to stdout.
type Options struct {
	CompilerOptions *compiler.CompilerOptions
	Linter          lintcontracts.ILinter
	Renderer        *diagnostics.Renderer
	Output          io.Writer
}

// TypeChecker keeps the previous program between passes so unchanged files
// are not re-checked for syntax errors.
type TypeChecker struct {
	store    storecontracts.ISourceStore
	host     *compiler.SourceStoreHost
	options  Options
	previous *compiler.Program
}

func NewTypeChecker(store storecontracts.ISourceStore, host *compiler.SourceStoreHost, options Options) contracts.ITypeChecker {
	if options.CompilerOptions == nil {
		options.CompilerOptions = compiler.DefaultCompilerOptions()
	}
	if options.Renderer == nil {
		options.Renderer = diagnostics.NewRenderer(store, diagnostics.RendererOptions{})
	}
	if options.Output == nil {
		options.Output = os.Stdout
	}

	return &TypeChecker{
		store:   store,
		host:    host,
		options: options,
	}
}

// TypeCheck builds a program from the store's entry files and collects
// syntactic, semantic and lint diagnostics for every non-declaration file.
// Failing to build the program is returned as an error. Failures inside a
// single file become diagnostics and are also returned, aggregated.
func (c *TypeChecker) TypeCheck(ctx context.Context) (*models.Result, error) {
	start := time.Now()
	c.host.ResetReadCache()

	program, err := compiler.CreateProgram(c.store.EntryFilePaths(), c.options.CompilerOptions, c.host, c.previous)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	c.previous = program

	result := &models.Result{}
	var errs *multierror.Error

	for _, sf := range program.SourceFiles() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sf.IsDeclaration {
			continue
		}

		found, err := c.checkFile(program, sf)
		if err != nil {
			errs = multierror.Append(errs, err)
			found = append(found, diagnostics.CompilerDiagnostic{
				Location: diagnostics.Location{File: sf.FileName, LineNumber: 1, ColumnNumber: 1},
				Category: diagnostics.CategoryError,
				Text:     err.Error(),
			})
		}

		result.Diagnostics = append(result.Diagnostics, found...)
		result.FilesChecked++
	}

	diagnostics.Sort(result.Diagnostics)
	result.Duration = time.Since(start)

	if err := c.report(result); err != nil {
		errs = multierror.Append(errs, err)
	}

	return result, errs.ErrorOrNil()
}

// checkFile returns the diagnostics of sf. Lint rules only run on files
// the compiler found no problems in.
func (c *TypeChecker) checkFile(program *compiler.Program, sf *syntax.SourceFile) (found []diagnostics.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error while checking %s: %v", c.store.ResolveRealPath(sf.FileName), r)
		}
	}()

	found = append(found, program.GetSyntacticDiagnostics(sf)...)
	if len(found) == 0 {
		found = append(found, program.GetSemanticDiagnostics(sf)...)
	}

	if c.options.Linter != nil && len(found) == 0 {
		found = append(found, c.options.Linter.Lint(sf)...)
	}

	return found, nil
}

func (c *TypeChecker) report(result *models.Result) error {
	out := c.options.Output

	if !result.HasErrors() {
		pterm.Success.WithWriter(out).Printfln("No problems found in %d files (%s).", result.FilesChecked, result.Duration.Round(time.Millisecond))
		return nil
	}

	if err := c.options.Renderer.Render(out, result.Diagnostics); err != nil {
		return fmt.Errorf("failed to render diagnostics: %w", err)
	}

	noun := "problems"
	if len(result.Diagnostics) == 1 {
		noun = "problem"
	}
	pterm.Error.WithWriter(out).Printfln("Found %d %s in %d files.", len(result.Diagnostics), noun, result.FilesChecked)
	return nil
}
