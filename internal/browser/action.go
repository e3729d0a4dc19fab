package browser

import (
	"fmt"
	"time"
)

// Outcome describes what happened when an optional UI action was attempted
type Outcome int

const (
	// Performed - the target existed and every click succeeded
	Performed Outcome = iota
	// Absent - the page has no such element; treated as a no-op
	Absent
	// Failed - the element existed but interacting with it errored
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Performed:
		return "performed"
	case Absent:
		return "absent"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Action is a best-effort click that reveals collapsed content
type Action struct {
	Name     string
	Selector string
	// Click every match instead of only the first
	All     bool
	Timeout time.Duration
}

// ActionResult is the outcome of running one Action on a page
type ActionResult struct {
	Name    string
	Outcome Outcome
	Clicked int
	Err     error
}

func (r ActionResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %s after %d clicks (%v)", r.Name, r.Outcome, r.Clicked, r.Err)
	}
	return fmt.Sprintf("%s: %s (%d clicks)", r.Name, r.Outcome, r.Clicked)
}

// Rendered is the page markup after all actions ran
type Rendered struct {
	URL     string
	HTML    string
	Actions []ActionResult
}
