package validation

// Result is the tagged outcome of validating a single value: either Ok or
// Error carrying a user-facing message.
type Result struct {
	message string
	failed  bool
}

// Ok reports a passing value.
func Ok() Result {
	return Result{}
}

// Error reports a failing value with the supplied message.
func Error(message string) Result {
	return Result{message: message, failed: true}
}

// IsOk reports whether the value passed.
func (r Result) IsOk() bool {
	return !r.failed
}

// Message returns the failure message, or "" for Ok results.
func (r Result) Message() string {
	return r.message
}

func (r Result) String() string {
	if r.IsOk() {
		return "ok"
	}
	return "error: " + r.message
}
