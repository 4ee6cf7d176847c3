// Package linter runs tslint-style rules over parsed TypeScript sources.
package linter

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/morler/frontpack/diagnostics"
	"github.com/morler/frontpack/linter/contracts"
	"github.com/morler/frontpack/syntax"
)

//go:embed queries/typescript.json
var typescriptQueries []byte

// Linter applies the enabled rules of a LintConfig.
type Linter struct {
	rules   []Rule
	queries *queryRunner
}

// NewLinter builds the enabled rules of config. Unknown rule names are
// reported once and ignored.
func NewLinter(config *LintConfig) (contracts.ILinter, error) {
	queries, err := newQueryRunner(typescriptQueries)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(config.Rules))
	for name := range config.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	linter := &Linter{queries: queries}
	for _, name := range names {
		ruleConfig := config.Rules[name]
		if !ruleConfig.Enabled {
			continue
		}
		factory, ok := ruleFactories[name]
		if !ok {
			log.Printf("Warning: unsupported lint rule %q is ignored", name)
			continue
		}
		rule, err := factory(ruleConfig.Options)
		if err != nil {
			return nil, fmt.Errorf("invalid options for lint rule %s: %w", name, err)
		}
		linter.rules = append(linter.rules, rule)
	}

	return linter, nil
}

// Lint returns the failures of every rule for sf.
func (l *Linter) Lint(sf *syntax.SourceFile) []diagnostics.Diagnostic {
	var found []diagnostics.Diagnostic
	for _, rule := range l.rules {
		for _, failure := range rule.Apply(sf, l.queries) {
			found = append(found, failure)
		}
	}
	diagnostics.Sort(found)
	return found
}

// RuleNames returns the enabled rules.
func (l *Linter) RuleNames() []string {
	names := make([]string, 0, len(l.rules))
	for _, rule := range l.rules {
		names = append(names, rule.Name())
	}
	return names
}

// queryRunner compiles rule queries once per grammar.
type queryRunner struct {
	patterns map[string]string

	mutex    sync.Mutex
	compiled map[*sitter.Language]map[string]*sitter.Query
}

func newQueryRunner(data []byte) (*queryRunner, error) {
	patterns := make(map[string]string)
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("failed to parse lint queries: %w", err)
	}
	return &queryRunner{
		patterns: patterns,
		compiled: make(map[*sitter.Language]map[string]*sitter.Query),
	}, nil
}

func (q *queryRunner) query(lang *sitter.Language, rule string) (*sitter.Query, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	byRule, ok := q.compiled[lang]
	if !ok {
		byRule = make(map[string]*sitter.Query)
		q.compiled[lang] = byRule
	}
	if query, ok := byRule[rule]; ok {
		return query, nil
	}

	pattern, ok := q.patterns[rule]
	if !ok {
		return nil, fmt.Errorf("no query for rule %s", rule)
	}
	query, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query for rule %s: %w", rule, err)
	}
	byRule[rule] = query
	return query, nil
}

// each calls visit with the named captures of every match of the rule's
// query in sf.
func (q *queryRunner) each(sf *syntax.SourceFile, rule string, visit func(captures map[string]*sitter.Node)) {
	query, err := q.query(sf.Language(), rule)
	if err != nil {
		log.Printf("Warning: %v", err)
		return
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, sf.RootNode())

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		captures := make(map[string]*sitter.Node, len(match.Captures))
		for _, capture := range match.Captures {
			node := capture.Node
			captures[query.CaptureNameForId(capture.Index)] = node
		}
		visit(captures)
	}
}
