package mailer

// Status is the terminal state of one submission attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is either Success or Failure(message). Delivered separates a real
// provider acceptance from the simulated success of the unconfigured mode.
type Result struct {
	Status       Status `json:"status"`
	Message      string `json:"message,omitempty"`
	Delivered    bool   `json:"delivered"`
	SubmissionID string `json:"submissionId,omitempty"`
}

// Success reports an accepted submission.
func Success(delivered bool) Result {
	return Result{Status: StatusSuccess, Delivered: delivered}
}

// Failure reports a rejected submission with a user-safe message.
func Failure(message string) Result {
	return Result{Status: StatusFailure, Message: message}
}

// IsSuccess reports whether the submission was accepted.
func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}
