package progress

// EfficiencyTier buckets a user's lifetime question savings into a display
// tier. saved is total questions saved across completed assessments.
func EfficiencyTier(saved int) string {
	if saved >= 100 {
		return "platinum"
	}
	if saved >= 50 {
		return "gold"
	}
	if saved >= 20 {
		return "silver"
	}
	return "bronze"
}

// masteryMilestones maps an objectives-mastered count to the milestone
// earned at that count.
var masteryMilestones = map[int]string{
	1:  "first_mastery",
	5:  "five_objectives",
	10: "ten_objectives",
	25: "twenty_five_objectives",
	50: "fifty_objectives",
}

// MilestoneForMastered returns the milestone earned at exactly this mastered
// count, if any.
func MilestoneForMastered(count int) (string, bool) {
	name, ok := masteryMilestones[count]
	return name, ok
}
