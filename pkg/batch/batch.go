// Package batch assembles extracted units into the single aggregated request
// sent to the classification model. Units are concatenated in a stable order
// with per-file delimiters so the model's answers can be attributed back to
// their source files.
package batch

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/quangdv/declutter/pkg/extract"
)

// ErrBudgetExceeded is returned when adding a unit would push the aggregate
// over its character budget. The caller should tighten extraction ceilings
// rather than silently drop files.
var ErrBudgetExceeded = errors.New("batch: aggregate budget exceeded")

// DefaultBudget is roughly 3% of a large model context window, leaving the
// rest for the instruction prompt and the response.
const DefaultBudget = 6000

// Builder accumulates units and tracks cumulative size.
type Builder struct {
	budget int
	units  []extract.Unit
	size   int
}

// NewBuilder creates a Builder with the given character budget
// (0 means DefaultBudget).
func NewBuilder(budget int) *Builder {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Builder{budget: budget}
}

// Add appends a unit, failing if the delimited text would exceed the budget.
// A failed Add leaves the builder unchanged.
func (b *Builder) Add(u extract.Unit) error {
	cost := len(delimiter(u)) + len(u.Text) + 1
	if b.size+cost > b.budget {
		return fmt.Errorf("%w: %d + %d > %d (file %s)", ErrBudgetExceeded, b.size, cost, b.budget, u.Name)
	}
	b.units = append(b.units, u)
	b.size += cost
	return nil
}

// Size returns the cumulative character count of the assembled batch.
// It is monotonically non-decreasing across Add calls.
func (b *Builder) Size() int { return b.size }

// Budget returns the configured ceiling.
func (b *Builder) Budget() int { return b.budget }

// Units returns the accepted units in insertion order.
func (b *Builder) Units() []extract.Unit { return b.units }

// String renders the batch: units sorted by path, each prefixed with its
// file delimiter. Sorting here keeps the output deterministic even if the
// caller extracted files concurrently.
func (b *Builder) String() string {
	sorted := make([]extract.Unit, len(b.units))
	copy(sorted, b.units)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var sb strings.Builder
	for _, u := range sorted {
		sb.WriteString(delimiter(u))
		sb.WriteString(u.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func delimiter(u extract.Unit) string {
	return fmt.Sprintf("\n--- FILE: %s (%s) ---\n", u.Name, u.Kind)
}
