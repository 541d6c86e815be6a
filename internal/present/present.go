// Package present maps analysis results to display structures. It is
// pure: nothing here mutates the stored result or talks to the network.
package present

import "github.com/your-org/cid/internal/models"

// Emphasis is the display weight of a detection's confidence value.
type Emphasis string

const (
	EmphasisHigh   Emphasis = "high"
	EmphasisMedium Emphasis = "medium"
	EmphasisLow    Emphasis = "low"
)

// ConfidenceEmphasis buckets a confidence percentage for display.
// The bucketing is presentational only.
func ConfidenceEmphasis(confidence float64) Emphasis {
	switch {
	case confidence > 90:
		return EmphasisHigh
	case confidence > 80:
		return EmphasisMedium
	default:
		return EmphasisLow
	}
}

// TimelineEntry is one detection event decorated for display.
type TimelineEntry struct {
	models.DetectionEvent
	Emphasis Emphasis `json:"emphasis"`
}

// Timeline builds the chronological detection list for a result. The
// order is the backend's detection order, untouched. A nil result yields
// an empty timeline.
func Timeline(result *models.AnalysisResult) []TimelineEntry {
	if result == nil {
		return []TimelineEntry{}
	}

	entries := make([]TimelineEntry, 0, len(result.Timestamps))
	for _, ev := range result.Timestamps {
		entries = append(entries, TimelineEntry{
			DetectionEvent: ev,
			Emphasis:       ConfidenceEmphasis(ev.Confidence),
		})
	}
	return entries
}
