package compiler

import (
	"github.com/evanw/esbuild/pkg/api"

	"github.com/morler/frontpack/diagnostics"
	"github.com/morler/frontpack/syntax"
)

// syntaxErrorCode is TS1005, the generic "expected token" code. esbuild
// messages do not carry TypeScript codes.
const syntaxErrorCode = 1005

// syntacticDiagnostics runs the file through the esbuild TypeScript parser.
// esbuild stops at the first syntax error, so at most one error is reported
// per file.
func syntacticDiagnostics(sf *syntax.SourceFile) []diagnostics.Diagnostic {
	loader := api.LoaderTS
	if sf.IsTSX {
		loader = api.LoaderTSX
	}

	result := api.Transform(sf.Text, api.TransformOptions{
		Loader:     loader,
		Sourcefile: sf.FileName,
		Target:     api.ESNext,
		LogLevel:   api.LogLevelSilent,
	})

	found := make([]diagnostics.Diagnostic, 0, len(result.Errors))
	for _, message := range result.Errors {
		location := diagnostics.Location{File: sf.FileName, LineNumber: 1, ColumnNumber: 1}
		if message.Location != nil {
			location.LineNumber = message.Location.Line
			location.ColumnNumber = syntax.ColumnOf(message.Location.LineText, message.Location.Column)
			location.SourceLine = message.Location.LineText
		}

		found = append(found, diagnostics.CompilerDiagnostic{
			Location: location,
			Code:     syntaxErrorCode,
			Category: diagnostics.CategoryError,
			Text:     message.Text,
		})
	}

	return found
}
