package score

// Tier boundaries for feedback banding. The three cut points are a
// contract shared with downstream reporting.
const (
	tierExcellent = 0.8
	tierGood      = 0.6
	tierFair      = 0.4
)

// GenerateFeedback maps a ScoreSet onto the four-tier verdict wording.
func GenerateFeedback(scores ScoreSet) Feedback {
	return Feedback{
		Integrity: band(scores.Integrity,
			"Excellent statistical integrity. All constraints passed.",
			"Good statistical integrity. Minor issues detected.",
			"Fair statistical integrity. Some constraints failed.",
			"Poor statistical integrity. Critical issues found."),
		Fairness: band(scores.Fairness,
			"FAIR principles fully met. Complete metadata.",
			"Good FAIR compliance. Minor metadata missing.",
			"Partial FAIR compliance. License/identifier/version needed.",
			"Poor FAIR compliance. Essential metadata missing."),
		FHIRCompliance: band(scores.FHIRCompliance,
			"Full resource-model compliance. Valid structure.",
			"Good resource-model compliance. Minor validation issues.",
			"Partial resource-model compliance. Some required fields missing.",
			"Poor resource-model compliance. Invalid structure."),
		Overall: band(scores.Overall,
			"High-quality evidence. Ready for clinical use.",
			"Moderate-quality evidence. Review recommended.",
			"Low-quality evidence. Significant issues need addressing.",
			"Evidence not suitable for clinical use. Major revisions required."),
	}
}

func band(v float64, excellent, good, fair, poor string) string {
	switch {
	case v >= tierExcellent:
		return excellent
	case v >= tierGood:
		return good
	case v >= tierFair:
		return fair
	default:
		return poor
	}
}
