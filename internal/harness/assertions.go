package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/cricscore/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Trace    []engine.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", FormatEvent(ev))
		}
	}

	return buf.String()
}

// FormatEvent renders an event as one line, e.g.
// "[3] runs:4 innings 1 4/0 (0.1)".
func FormatEvent(ev engine.Event) string {
	name := string(ev.Kind)
	if ev.Value != "" {
		name += ":" + ev.Value
	}
	return fmt.Sprintf("[%d] %s innings %d %s", ev.Seq, name, ev.Innings, ev.Score)
}

// matchEvent reports whether ev matches a "kind" or "kind:value" pattern.
func matchEvent(ev engine.Event, pattern string) bool {
	kind, value, hasValue := strings.Cut(pattern, ":")
	if string(ev.Kind) != kind {
		return false
	}
	return !hasValue || ev.Value == value
}

// assertTraceContains checks that some event matches the pattern.
func assertTraceContains(trace []engine.Event, assertion Assertion) error {
	for _, ev := range trace {
		if matchEvent(ev, assertion.Event) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("event %s", assertion.Event),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the events appear in the given order.
// Events don't need to be consecutive (intervening events are allowed).
func assertTraceOrder(trace []engine.Event, assertion Assertion) error {
	pos := 0
	for _, want := range assertion.Events {
		found := false
		for pos < len(trace) {
			ev := trace[pos]
			pos++
			if matchEvent(ev, want) {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %v", assertion.Events),
				Actual:   fmt.Sprintf("%s not found after earlier events", want),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that exactly Count events match.
func assertTraceCount(trace []engine.Event, assertion Assertion) error {
	count := 0
	for _, ev := range trace {
		if matchEvent(ev, assertion.Event) {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Event),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertExchanged checks that some exchange of the given kinds contains
// the message.
func assertExchanged(result *Result, assertion Assertion, kinds ...string) error {
	var seen []string
	for _, x := range result.Exchanges {
		for _, k := range kinds {
			if x.Kind != k {
				continue
			}
			if strings.Contains(x.Prompt, assertion.Message) {
				return nil
			}
			seen = append(seen, fmt.Sprintf("%q", x.Prompt))
		}
	}
	return &AssertionError{
		Type:     assertion.Type,
		Expected: fmt.Sprintf("message containing %q", assertion.Message),
		Actual:   fmt.Sprintf("got [%s]", strings.Join(seen, ", ")),
	}
}

// assertSaved checks the records written through the persistence port.
func assertSaved(saved []recordView, assertion Assertion) error {
	if len(saved) != assertion.Count {
		return &AssertionError{
			Type:     AssertSaved,
			Expected: fmt.Sprintf("%d saved match(es)", assertion.Count),
			Actual:   fmt.Sprintf("%d saved", len(saved)),
		}
	}
	if len(assertion.Expect) == 0 {
		return nil
	}
	if len(saved) == 0 {
		return &AssertionError{
			Type:     AssertSaved,
			Expected: fmt.Sprintf("newest record with %v", assertion.Expect),
			Actual:   "no records",
		}
	}

	newest := saved[0]
	for _, key := range sortedKeys(assertion.Expect) {
		want := assertion.Expect[key]
		got, ok := newest[key]
		if !ok {
			return fmt.Errorf("saved: unknown field %q", key)
		}
		if got != want {
			return &AssertionError{
				Type:     AssertSaved,
				Expected: fmt.Sprintf("%s = %q", key, want),
				Actual:   fmt.Sprintf("%s = %q", key, got),
			}
		}
	}
	return nil
}

// recordView exposes the comparable fields of a saved record.
type recordView map[string]string

func viewRecords(result *Result) []recordView {
	views := make([]recordView, len(result.Saved))
	for i, rec := range result.Saved {
		views[i] = recordView{
			"id":     rec.ID,
			"team_a": rec.TeamA,
			"team_b": rec.TeamB,
			"result": rec.Result,
		}
	}
	return views
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertNotified:
			err = assertExchanged(result, assertion, "notify")
		case AssertPrompted:
			err = assertExchanged(result, assertion, "text", "confirm")
		case AssertSaved:
			err = assertSaved(viewRecords(result), assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
