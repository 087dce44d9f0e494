package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quangdv/declutter/pkg/scan"
)

// Strategy names a per-kind reduction rule.
type Strategy string

const (
	StrategyKeepAll           Strategy = "keep-all"
	StrategyMarkerFilter      Strategy = "filter-by-marker"
	StrategyColumnProjection  Strategy = "column-projection"
	StrategyStructuralSummary Strategy = "structural-summary"
	StrategySkipPlaceholder   Strategy = "skip-with-placeholder"
)

// Policy maps file kinds to reduction strategies and bounds unit size.
type Policy struct {
	// Ceiling is the maximum number of characters a single extracted unit
	// may occupy. Keep-all output under the ceiling passes through unchanged;
	// everything else is truncated with an explicit marker.
	Ceiling int `yaml:"ceiling"`

	// Markers are the case-sensitive annotation tokens that identify
	// human-authored lines inside machine-generated text.
	Markers []string `yaml:"markers"`

	Strategies map[scan.Kind]Strategy `yaml:"strategies"`
}

// DefaultPolicy returns the compiled-in rule set.
func DefaultPolicy() Policy {
	return Policy{
		Ceiling: 2000,
		Markers: []string{"NOTE", "TODO", "FIXME", "REMINDER", "XXX", "HACK"},
		Strategies: map[scan.Kind]Strategy{
			scan.KindNote:    StrategyKeepAll,
			scan.KindLog:     StrategyMarkerFilter,
			scan.KindCSV:     StrategyColumnProjection,
			scan.KindJSON:    StrategyStructuralSummary,
			scan.KindCode:    StrategyKeepAll,
			scan.KindImage:   StrategySkipPlaceholder,
			scan.KindUnknown: StrategyKeepAll,
		},
	}
}

// LoadPolicy reads a YAML policy file. Fields left empty fall back to the
// default policy, so a file can override just the ceiling or just one kind.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	var loaded Policy
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}

	p := DefaultPolicy()
	if loaded.Ceiling > 0 {
		p.Ceiling = loaded.Ceiling
	}
	if len(loaded.Markers) > 0 {
		p.Markers = loaded.Markers
	}
	for kind, strategy := range loaded.Strategies {
		p.Strategies[kind] = strategy
	}
	return p, nil
}

func (p Policy) strategyFor(kind scan.Kind) Strategy {
	if s, ok := p.Strategies[kind]; ok {
		return s
	}
	return StrategyKeepAll
}
