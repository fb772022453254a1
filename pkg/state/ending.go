package state

import "github.com/xingmeng/stardream/pkg/gamedata"

// Ending thresholds. Trust and skill values are 0-100.
const (
	trustLeaveBelow  = 20
	trustTrueAtLeast = 70
	avgTrustHappy    = 50.0
	avgSkillTrue     = 50.0
	avgSkillHappy    = 40.0
)

// EvaluateEnding returns the ending id the state has earned, or "" if
// the game goes on. Checks run in precedence order: bankruptcy, mass
// departure, true ending, happy ending, and last the neutral landing
// which only exists once the final month is reached. Callers enforce
// that a reached ending is final; an already-set EndingID is returned
// unchanged.
func EvaluateEnding(gs *GameState) string {
	if gs.EndingID != "" {
		return gs.EndingID
	}

	trainees := gs.TraineeIDs()
	if len(trainees) == 0 {
		return ""
	}

	if gs.Resources.Money <= 0 {
		return "be-bankrupt"
	}

	allLow := true
	for _, id := range trainees {
		if gs.CharacterStats[id]["trust"] >= trustLeaveBelow {
			allLow = false
			break
		}
	}
	if allLow {
		return "be-all-leave"
	}

	var trustSum, skillSum float64
	allHigh := true
	for _, id := range trainees {
		stats := gs.CharacterStats[id]
		trust := stats["trust"]
		trustSum += float64(trust)
		if trust < trustTrueAtLeast {
			allHigh = false
		}
		skillSum += float64(stats["dance"]+stats["singing"]+stats["variety"]) / 3
	}
	avgTrust := trustSum / float64(len(trainees))
	avgSkill := skillSum / float64(len(trainees))

	if allHigh && gs.HasTriggered(gamedata.EventAuntTruth) && avgSkill >= avgSkillTrue {
		return "te-legacy"
	}
	if avgTrust >= avgTrustHappy && avgSkill >= avgSkillHappy {
		return "he-debut"
	}
	if gs.Month >= gamedata.MaxMonths {
		return "ne-landing"
	}
	return ""
}
