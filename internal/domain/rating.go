package domain

import "strings"

// Tone is the closed categorization of a rating label. Rating strings are
// parsed exactly once, at the boundary; everything downstream branches on
// the Tone value.
type Tone int

const (
	ToneUnknown Tone = iota
	ToneExcellent
	ToneGood
	ToneAverage
	TonePoor
)

// ParseTone buckets a free-form rating label. Matching is case-insensitive
// substring matching, mirroring how the backend phrases its ratings
// ("Excellent", "Good", "Average", "Poor", "No Data").
func ParseTone(rating string) Tone {
	r := strings.ToLower(strings.TrimSpace(rating))
	switch {
	case strings.Contains(r, "excellent"):
		return ToneExcellent
	case strings.Contains(r, "good"):
		return ToneGood
	case strings.Contains(r, "average"):
		return ToneAverage
	case strings.Contains(r, "poor"):
		return TonePoor
	default:
		return ToneUnknown
	}
}

func (t Tone) String() string {
	switch t {
	case ToneExcellent:
		return "excellent"
	case ToneGood:
		return "good"
	case ToneAverage:
		return "average"
	case TonePoor:
		return "poor"
	default:
		return "unknown"
	}
}
