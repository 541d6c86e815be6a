package analysis

import "fmt"

// ErrorKind classifies an analysis failure. Classification happens once,
// at the backend boundary; callers branch on the kind, never on message
// text.
type ErrorKind string

const (
	KindMissingInput          ErrorKind = "missing_input"
	KindAlreadyRunning        ErrorKind = "already_running"
	KindTransportUnreachable  ErrorKind = "transport_unreachable"
	KindReferenceRejected     ErrorKind = "reference_rejected"
	KindVideoAnalysisRejected ErrorKind = "video_analysis_rejected"
)

// Error is a classified analysis failure. Message carries the backend's
// own wording when one was available.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Hint returns user-facing guidance for the error kind.
func (k ErrorKind) Hint() string {
	switch k {
	case KindMissingInput:
		return "Upload both a reference face image and a video to analyze."
	case KindAlreadyRunning:
		return "An analysis is already in progress. Wait for it to finish before starting another."
	case KindTransportUnreachable:
		return "Cannot reach the ML backend. Make sure the analysis service is running and reachable."
	case KindReferenceRejected:
		return "Upload a clear face image where the face is visible and well-lit."
	case KindVideoAnalysisRejected:
		return "Check the video file is a supported format (MP4, MOV, AVI) and not corrupted."
	}
	return ""
}
