package models

// DetectionEvent is one backend-reported appearance of the reference
// subject in the analyzed video. The time label is backend-defined and
// kept as an opaque string.
type DetectionEvent struct {
	Time       string  `json:"time"`
	Confidence float64 `json:"confidence"`
	CameraID   string  `json:"cameraId"`
	Location   string  `json:"location"`
}

// SubjectDescriptor describes the matched subject of an analysis run.
// It is synthesized from the staged reference image, not from the backend.
type SubjectDescriptor struct {
	Name        string   `json:"name"`
	Offense     string   `json:"crime"`
	Severity    Severity `json:"severity"`
	PortraitURL string   `json:"image"`
}

// AnalysisStats are the aggregate figures reported for one run.
type AnalysisStats struct {
	TotalFacesDetected      int     `json:"totalFacesDetected"`
	TargetDetections        int     `json:"targetDetections"`
	DifferentPeopleDetected int     `json:"differentPeopleDetected"`
	ConfidenceThreshold     float64 `json:"confidenceThreshold"`
	Method                  string  `json:"analysisMethod"`
	AccuracyNote            string  `json:"accuracyNote"`
}

// AnalysisResult is the normalized outcome of one completed run.
// Timestamps keep the backend's chronological order and are never
// re-sorted here.
type AnalysisResult struct {
	MatchFound   bool              `json:"matchFound"`
	Subject      SubjectDescriptor `json:"criminal"`
	Timestamps   []DetectionEvent  `json:"timestamps"`
	AnalysisTime string            `json:"analysisTime"`
	TotalFrames  int               `json:"totalFrames"`
	Stats        AnalysisStats     `json:"mlStats"`
}
