package analysis

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// MissingSkillsMessage replaces an empty missing-skills list in the results view.
const MissingSkillsMessage = "Great news! No critical skills seem to be missing."

type Category struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tone        string `json:"tone"`
}

func CategoryFor(score float64) Category {
	switch {
	case score >= 90:
		return Category{Title: "Outstanding", Description: "You're a near-perfect match for this role!", Tone: "success"}
	case score >= 80:
		return Category{Title: "Excellent", Description: "You are a very strong candidate for this position.", Tone: "success"}
	case score >= 50:
		return Category{Title: "Good Match", Description: "Your skills align well with the job requirements.", Tone: "primary"}
	case score >= 30:
		return Category{Title: "Needs Improvement", Description: "There are several areas you can improve to be a better fit.", Tone: "warning"}
	default:
		return Category{Title: "Poor Match", Description: "This role may not be the best fit based on your current resume.", Tone: "destructive"}
	}
}

// BadgeVariant picks the history badge style for a score.
func BadgeVariant(score float64) string {
	switch {
	case score >= 80:
		return "default"
	case score >= 50:
		return "secondary"
	default:
		return "destructive"
	}
}

// Trends compares each record with the next-older one. Records must be
// ordered newest first; the oldest record is always TrendSame.
func Trends(records []ScoreRecord) []Trend {
	out := make([]Trend, len(records))
	for i := range records {
		if i == len(records)-1 {
			out[i] = TrendSame
			continue
		}
		cur, prev := records[i].Score, records[i+1].Score
		switch {
		case cur > prev:
			out[i] = TrendUp
		case cur < prev:
			out[i] = TrendDown
		default:
			out[i] = TrendSame
		}
	}
	return out
}
