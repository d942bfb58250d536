package models

import "time"

// Niche is a content category.
type Niche string

const (
	NicheComedy      Niche = "Viral Comedy & Relatable Skits"
	NicheCuriosities Niche = "Mind-Blowing Curiosities"
	NicheLuxury      Niche = "High-End Luxury"
	NicheMotivation  Niche = "Stoic Discipline"
	NicheTech        Niche = "Future Technologies"
	NicheWealth      Niche = "Web3 & Wealth"
)

// Niches lists every category in display order.
var Niches = []Niche{
	NicheComedy,
	NicheCuriosities,
	NicheLuxury,
	NicheMotivation,
	NicheTech,
	NicheWealth,
}

// ParseNiche matches s against the known categories.
func ParseNiche(s string) (Niche, bool) {
	for _, n := range Niches {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Script is the structured output of the script-generation call.
// Every field is required; a missing one fails the cycle.
type Script struct {
	Hook         string   `json:"hook" validate:"required"`
	VisualPrompt string   `json:"visualPrompt" validate:"required"`
	Narration    string   `json:"narration" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Tags         []string `json:"tags" validate:"required"`
}

type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Analytics figures are synthetic placeholders, not measurements.
type Analytics struct {
	ProjectedViews   int64   `json:"projectedViews"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
	EngagementRate   float64 `json:"engagementRate"`
}

type PlatformStatus struct {
	Platform string `json:"platform"`
	Linked   bool   `json:"linked"`
	Uploaded bool   `json:"uploaded"`
}

// GenerationResult is one committed content cycle. Never mutated after creation.
type GenerationResult struct {
	ID        string           `json:"id"`
	Niche     Niche            `json:"niche"`
	Hook      string           `json:"hook"`
	VideoURL  string           `json:"videoUrl"`
	AudioURL  string           `json:"audioUrl,omitempty"`
	Timestamp int64            `json:"timestamp"`
	Platforms []PlatformStatus `json:"platforms"`
	Metadata  Metadata         `json:"metadata"`
	Analytics Analytics        `json:"analytics"`
}

// CreatedAt converts the millisecond timestamp.
func (r GenerationResult) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// AnalyticsSummary aggregates the synthetic figures of every result.
type AnalyticsSummary struct {
	TotalProjectedReach int64   `json:"totalProjectedReach"`
	TotalRevenue        float64 `json:"totalRevenue"`
	ActiveChannels      int     `json:"activeChannels"`
	Items               int     `json:"items"`
}
