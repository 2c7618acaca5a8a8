package ai

// Result is the outcome of a behavior tree node tick.
type Result int

const (
	NotStarted Result = iota
	Success
	Failed
	Running
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case Failed:
		return "Failed"
	case Running:
		return "Running"
	default:
		return "NotStarted"
	}
}

// Terminal reports whether the result ends a behavior activation.
// Running and NotStarted are non-terminal.
func (r Result) Terminal() bool {
	return r == Success || r == Failed
}
