package models

import (
	"time"

	"github.com/morler/frontpack/diagnostics"
)

// Result is the outcome of one type-check pass.
type Result struct {
	Diagnostics  []diagnostics.Diagnostic
	FilesChecked int
	Duration     time.Duration
}

func (r *Result) HasErrors() bool {
	return len(r.Diagnostics) > 0
}
