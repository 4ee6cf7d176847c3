package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/morler/frontpack/constants/lipgloss"
	"github.com/morler/frontpack/vue_extractor"
)

// PathResolver maps a virtual path to the file on disk.
type PathResolver interface {
	ResolveRealPath(virtualPath string) string
}

type RendererOptions struct {
	// BaseDir makes displayed paths relative when set.
	BaseDir string
	// CodeFrames prints the offending line below each diagnostic.
	CodeFrames bool
	// Theme is the chroma style used to highlight code frames.
	Theme string
}

// Renderer formats diagnostics for humans.
type Renderer struct {
	resolver PathResolver
	options  RendererOptions
}

func NewRenderer(resolver PathResolver, options RendererOptions) *Renderer {
	if options.Theme == "" {
		options.Theme = "dracula"
	}
	return &Renderer{resolver: resolver, options: options}
}

// DisplayPath returns the path a user should see for fileName. Synthetic
// component paths are always shown as the component file.
func (r *Renderer) DisplayPath(fileName string) string {
	path := fileName
	if r.resolver != nil {
		path = r.resolver.ResolveRealPath(fileName)
	}

	syntheticSuffix := vue_extractor.SyntheticExtension + vue_extractor.VirtualSuffix
	if strings.HasSuffix(path, syntheticSuffix) {
		path = strings.TrimSuffix(path, vue_extractor.VirtualSuffix)
	}

	if r.options.BaseDir != "" && filepath.IsAbs(path) {
		if relative, err := filepath.Rel(r.options.BaseDir, path); err == nil && !strings.HasPrefix(relative, "..") {
			path = relative
		}
	}

	return filepath.ToSlash(path)
}

// Format renders a single diagnostic on one line without styling.
func (r *Renderer) Format(d Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d - %s", r.DisplayPath(d.FileName()), d.Line(), d.Column(), describe(d))
}

// Render writes every diagnostic, styled, followed by an optional code frame.
func (r *Renderer) Render(w io.Writer, diagnostics []Diagnostic) error {
	for _, d := range diagnostics {
		location := fmt.Sprintf("%s:%d:%d", r.DisplayPath(d.FileName()), d.Line(), d.Column())

		severity := lipgloss.Red
		if d.Kind() == KindLint {
			severity = lipgloss.Yellow
		}

		if _, err := fmt.Fprintf(w, "%s - %s\n", lipgloss.FilePath.Render(location), severity.Render(describe(d))); err != nil {
			return err
		}

		if r.options.CodeFrames && d.LineText() != "" {
			if err := r.renderCodeFrame(w, d); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *Renderer) renderCodeFrame(w io.Writer, d Diagnostic) error {
	gutter := fmt.Sprintf("%d", d.Line())

	var highlighted bytes.Buffer
	if err := quick.Highlight(&highlighted, d.LineText(), "typescript", "terminal256", r.options.Theme); err != nil {
		highlighted.Reset()
		highlighted.WriteString(d.LineText())
	}

	marker := strings.Repeat(" ", max(d.Column()-1, 0)) + "^"

	_, err := fmt.Fprintf(w, "\n%s %s\n%s %s\n\n",
		lipgloss.Gray.Render(gutter+" |"), strings.TrimRight(highlighted.String(), "\n"),
		lipgloss.Gray.Render(strings.Repeat(" ", len(gutter))+" |"), lipgloss.Red.Render(marker))
	return err
}

func describe(d Diagnostic) string {
	switch v := d.(type) {
	case CompilerDiagnostic:
		if v.Code == 0 {
			return fmt.Sprintf("%s: %s", v.Category, v.Text)
		}
		return fmt.Sprintf("%s TS%d: %s", v.Category, v.Code, v.Text)
	case LintFailure:
		return fmt.Sprintf("lint(%s): %s", v.RuleName, v.Failure)
	default:
		return d.Message()
	}
}
