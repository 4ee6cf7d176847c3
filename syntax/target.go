package syntax

import (
	"fmt"
	"strings"
)

// Target is the configured ECMAScript language level.
type Target string

const (
	TargetES3    Target = "ES3"
	TargetES5    Target = "ES5"
	TargetES2015 Target = "ES2015"
	TargetES2016 Target = "ES2016"
	TargetES2017 Target = "ES2017"
	TargetES2018 Target = "ES2018"
	TargetES2019 Target = "ES2019"
	TargetES2020 Target = "ES2020"
	TargetES2021 Target = "ES2021"
	TargetES2022 Target = "ES2022"
	TargetESNext Target = "ESNext"

	// TargetLatest is what "latest" resolves to.
	TargetLatest = TargetESNext
)

var knownTargets = []Target{
	TargetES3, TargetES5, TargetES2015, TargetES2016, TargetES2017, TargetES2018,
	TargetES2019, TargetES2020, TargetES2021, TargetES2022, TargetESNext,
}

// ParseTarget accepts tsconfig style target names, case-insensitively.
// "latest" and "esnext" map to TargetESNext, "es6" to TargetES2015.
func ParseTarget(name string) (Target, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "", "latest", "esnext":
		return TargetLatest, nil
	case "es6":
		return TargetES2015, nil
	}

	for _, target := range knownTargets {
		if strings.ToLower(string(target)) == normalized {
			return target, nil
		}
	}

	return "", fmt.Errorf("unknown language target %q", name)
}
