package adjudicator

import (
	"fmt"
	"strings"
)

type traceBuilder struct {
	steps []TraceStep
}

// add appends the next step; numbering is 1-based and contiguous.
func (b *traceBuilder) add(description, value string) {
	b.steps = append(b.steps, TraceStep{
		Step:        len(b.steps) + 1,
		Description: description,
		Value:       value,
	})
}

// FormatTrace renders a trace one step per line as "<step>. <description>: <value>".
func FormatTrace(trace []TraceStep) string {
	var sb strings.Builder
	for _, s := range trace {
		fmt.Fprintf(&sb, "%d. %s: %s\n", s.Step, s.Description, s.Value)
	}
	return sb.String()
}
