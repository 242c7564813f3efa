package pipeline

// Build steps reported through ProgressCallback
const (
	StepShortlist  = "shortlist"
	StepSelection  = "selection"
	StepFallback   = "fallback"
	StepAssignment = "assignment"
	StepComplete   = "complete"
)

// ProgressEvent represents a progress update during a build
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when build progress occurs
type ProgressCallback func(event ProgressEvent)

// emit calls the progress callback if configured
func emit(cb ProgressCallback, step, message string, content any) {
	if cb != nil {
		cb(ProgressEvent{Step: step, Message: message, Content: content})
	}
}
