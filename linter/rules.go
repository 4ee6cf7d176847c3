package linter

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/morler/frontpack/diagnostics"
	"github.com/morler/frontpack/syntax"
)

// Rule checks one source file.
type Rule interface {
	Name() string
	Apply(sf *syntax.SourceFile, queries *queryRunner) []diagnostics.LintFailure
}

type ruleFactory func(options []interface{}) (Rule, error)

var ruleFactories = map[string]ruleFactory{
	"no-debugger":     func([]interface{}) (Rule, error) { return noDebugger{}, nil },
	"no-console":      newNoConsole,
	"no-var-keyword":  func([]interface{}) (Rule, error) { return noVarKeyword{}, nil },
	"triple-equals":   newTripleEquals,
	"max-line-length": newMaxLineLength,
	"no-empty":        newNoEmpty,
}

func failureAt(sf *syntax.SourceFile, node *sitter.Node, rule string, message string) diagnostics.LintFailure {
	line, column, lineText := sf.Position(node)
	return diagnostics.LintFailure{
		Location: diagnostics.Location{
			File:         sf.FileName,
			LineNumber:   line,
			ColumnNumber: column,
			SourceLine:   lineText,
		},
		RuleName: rule,
		Failure:  message,
	}
}

type noDebugger struct{}

func (noDebugger) Name() string { return "no-debugger" }

func (r noDebugger) Apply(sf *syntax.SourceFile, queries *queryRunner) []diagnostics.LintFailure {
	var failures []diagnostics.LintFailure
	queries.each(sf, r.Name(), func(captures map[string]*sitter.Node) {
		failures = append(failures, failureAt(sf, captures["node"], r.Name(), "Use of debugger statements is forbidden"))
	})
	return failures
}

type noConsole struct {
	banned map[string]struct{}
}

func newNoConsole(options []interface{}) (Rule, error) {
	rule := noConsole{banned: make(map[string]struct{})}
	for _, method := range optionStrings(options) {
		rule.banned[method] = struct{}{}
	}
	return rule, nil
}

func (noConsole) Name() string { return "no-console" }

func (r noConsole) Apply(sf *syntax.SourceFile, queries *queryRunner) []diagnostics.LintFailure {
	var failures []diagnostics.LintFailure
	queries.each(sf, r.Name(), func(captures map[string]*sitter.Node) {
		if sf.Content(captures["object"]) != "console" {
			return
		}
		method := sf.Content(captures["method"])
		if len(r.banned) > 0 {
			if _, ok := r.banned[method]; !ok {
				return
			}
		}
		failures = append(failures, failureAt(sf, captures["node"], r.Name(),
			fmt.Sprintf("Calls to 'console.%s' are not allowed.", method)))
	})
	return failures
}

type noVarKeyword struct{}

func (noVarKeyword) Name() string { return "no-var-keyword" }

func (r noVarKeyword) Apply(sf *syntax.SourceFile, queries *queryRunner) []diagnostics.LintFailure {
	var failures []diagnostics.LintFailure
	queries.each(sf, r.Name(), func(captures map[string]*sitter.Node) {
		node := captures["node"]
		if parent := node.Parent(); parent != nil && parent.Type() == "ambient_declaration" {
			return
		}
		failures = append(failures, failureAt(sf, node, r.Name(), "Forbidden 'var' keyword, use 'let' or 'const' instead"))
	})
	return failures
}

type tripleEquals struct {
	allowNull      bool
	allowUndefined bool
}

func newTripleEquals(options []interface{}) (Rule, error) {
	return tripleEquals{
		allowNull:      hasOption(options, "allow-null-check"),
		allowUndefined: hasOption(options, "allow-undefined-check"),
	}, nil
}

func (tripleEquals) Name() string { return "triple-equals" }

func (r tripleEquals) Apply(sf *syntax.SourceFile, queries *queryRunner) []diagnostics.LintFailure {
	var failures []diagnostics.LintFailure
	queries.each(sf, r.Name(), func(captures map[string]*sitter.Node) {
		if r.exempt(captures["left"]) || r.exempt(captures["right"]) {
			return
		}
		operator := captures["operator"]
		message := "== should be ==="
		if operator.Type() == "!=" {
			message = "!= should be !=="
		}
		failures = append(failures, failureAt(sf, operator, r.Name(), message))
	})
	return failures
}

func (r tripleEquals) exempt(operand *sitter.Node) bool {
	if operand == nil {
		return false
	}
	return (r.allowNull && operand.Type() == "null") || (r.allowUndefined && operand.Type() == "undefined")
}

type maxLineLength struct {
	limit   int
	ignored *regexp.Regexp
}

func newMaxLineLength(options []interface{}) (Rule, error) {
	rule := maxLineLength{}
	for _, option := range options {
		if limit, ok := optionInt(option); ok {
			rule.limit = limit
			continue
		}
		settings, ok := option.(map[string]interface{})
		if !ok {
			continue
		}
		if limit, ok := optionInt(settings["limit"]); ok {
			rule.limit = limit
		}
		if pattern, ok := settings["ignore-pattern"].(string); ok {
			ignored, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid max-line-length ignore-pattern %q: %w", pattern, err)
			}
			rule.ignored = ignored
		}
	}
	if rule.limit <= 0 {
		return nil, fmt.Errorf("max-line-length requires a positive limit")
	}
	return rule, nil
}

func (maxLineLength) Name() string { return "max-line-length" }

func (r maxLineLength) Apply(sf *syntax.SourceFile, _ *queryRunner) []diagnostics.LintFailure {
	var failures []diagnostics.LintFailure
	for i, line := range strings.Split(sf.Text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if syntax.ColumnOf(line, len(line))-1 <= r.limit {
			continue
		}
		if r.ignored != nil && r.ignored.MatchString(line) {
			continue
		}
		failures = append(failures, diagnostics.LintFailure{
			Location: diagnostics.Location{
				File:         sf.FileName,
				LineNumber:   i + 1,
				ColumnNumber: 1,
				SourceLine:   line,
			},
			RuleName: r.Name(),
			Failure:  fmt.Sprintf("Exceeds maximum line length of %d", r.limit),
		})
	}
	return failures
}

var functionBodyParents = map[string]struct{}{
	"function_declaration":           {},
	"function_expression":            {},
	"function":                       {},
	"generator_function_declaration": {},
	"generator_function":             {},
	"arrow_function":                 {},
	"method_definition":              {},
}

type noEmpty struct {
	allowFunctions bool
	allowCatch     bool
}

func newNoEmpty(options []interface{}) (Rule, error) {
	return noEmpty{
		allowFunctions: hasOption(options, "allow-empty-functions"),
		allowCatch:     hasOption(options, "allow-empty-catch"),
	}, nil
}

func (noEmpty) Name() string { return "no-empty" }

func (r noEmpty) Apply(sf *syntax.SourceFile, queries *queryRunner) []diagnostics.LintFailure {
	var failures []diagnostics.LintFailure
	queries.each(sf, r.Name(), func(captures map[string]*sitter.Node) {
		block := captures["node"]
		// comments are named children, so a commented block is not empty
		if block.NamedChildCount() > 0 {
			return
		}
		if parent := block.Parent(); parent != nil && r.exempt(parent) {
			return
		}
		failures = append(failures, failureAt(sf, block, r.Name(), "block is empty"))
	})
	return failures
}

func (r noEmpty) exempt(parent *sitter.Node) bool {
	if r.allowCatch && parent.Type() == "catch_clause" {
		return true
	}
	if _, ok := functionBodyParents[parent.Type()]; !ok {
		return false
	}
	return r.allowFunctions || hasParameterProperties(parent)
}

// hasParameterProperties reports a constructor like
// `constructor(private readonly api: Api) {}` whose body may be empty.
func hasParameterProperties(function *sitter.Node) bool {
	parameters := function.ChildByFieldName("parameters")
	if parameters == nil {
		return false
	}
	for i := 0; i < int(parameters.NamedChildCount()); i++ {
		parameter := parameters.NamedChild(i)
		for j := 0; j < int(parameter.ChildCount()); j++ {
			switch parameter.Child(j).Type() {
			case "accessibility_modifier", "readonly", "override_modifier":
				return true
			}
		}
	}
	return false
}
