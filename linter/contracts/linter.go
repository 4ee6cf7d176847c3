package contracts

import (
	"github.com/morler/frontpack/diagnostics"
	"github.com/morler/frontpack/syntax"
)

type ILinter interface {
	Lint(sf *syntax.SourceFile) []diagnostics.Diagnostic
	RuleNames() []string
}
