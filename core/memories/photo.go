// Package memories holds the data model shared by the search and narration
// workflows: photos returned by the embedding search, the narration generated
// for a selected photo and the audio segments built from it.
package memories

import (
	"fmt"
	"math"
)

// DefaultRelevance is used when the backend reports neither a similarity nor
// a relevance score for a photo.
const DefaultRelevance = 0.5

type Photo struct {
	ID          string
	URL         string
	Title       string
	Description string
	// Tags are kept in the order the backend returned them.
	Tags []string

	// SimilarityScore is the cosine similarity in [0,1] reported by the
	// embedding search, if any.
	SimilarityScore *float64
	// RelevanceScore is the legacy percentage score in [0,100] some backends
	// send instead of SimilarityScore.
	RelevanceScore *float64
}

// Relevance returns the photo relevance as a fraction in [0,1].
//
// SimilarityScore wins when present, then RelevanceScore/100, then
// [DefaultRelevance].
func (p Photo) Relevance() float64 {
	if p.SimilarityScore != nil && *p.SimilarityScore != 0 {
		return *p.SimilarityScore
	}
	if p.RelevanceScore != nil && *p.RelevanceScore != 0 {
		return *p.RelevanceScore / 100
	}
	return DefaultRelevance
}

// RelevancePercent returns Relevance scaled to a percentage and rounded to one
// decimal place.
func (p Photo) RelevancePercent() float64 {
	return math.Round(p.Relevance()*1000) / 10
}

// FormatRelevance renders a [0,1] score the way result cards show it, e.g.
// 0.873 becomes "87.3%".
func FormatRelevance(score float64) string {
	return fmt.Sprintf("%.1f%%", math.Round(score*1000)/10)
}
