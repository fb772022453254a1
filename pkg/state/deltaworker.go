package state

// DeltaWorker applies parsed stat changes and calendar ticks to a
// GameState. All character stats clamp to [0,100]; agency resources
// floor at 0.
type DeltaWorker struct {
	gs *GameState
}

func NewDeltaWorker(gs *GameState) *DeltaWorker {
	return &DeltaWorker{gs: gs}
}

// Apply folds one turn's parsed changes into the state. Changes for
// unknown characters or stats never parse in the first place, so every
// entry here lands.
func (w *DeltaWorker) Apply(charChanges []CharChange, globalChanges []GlobalChange) {
	for _, c := range charChanges {
		stats, ok := w.gs.CharacterStats[c.CharID]
		if !ok {
			continue
		}
		stats[c.Stat] = clampStat(stats[c.Stat] + c.Delta)
	}
	for _, g := range globalChanges {
		switch g.Resource {
		case "money":
			w.gs.Resources.Money = floorZero(w.gs.Resources.Money + g.Delta)
		case "fame":
			w.gs.Resources.Fame = floorZero(w.gs.Resources.Fame + g.Delta)
		}
	}
}

// MonthlyTick runs the upkeep of a month boundary: the agency expense,
// the debut countdown, and each trainee's auto-incrementing stats.
// It returns the ids of trainees whose stress has crossed the crisis
// threshold, for the caller to report.
func (w *DeltaWorker) MonthlyTick() []string {
	gs := w.gs
	gs.Resources.Money = floorZero(gs.Resources.Money - gs.MonthlyExpense)
	gs.DebutCountdown = floorZero(gs.DebutCountdown - 1)

	var crisis []string
	for _, id := range gs.TraineeIDs() {
		c := gs.Characters[id]
		stats := gs.CharacterStats[id]
		if stats == nil {
			continue
		}
		for _, meta := range c.StatMetas {
			if meta.AutoIncrement != 0 {
				stats[meta.Key] = clampStat(stats[meta.Key] + meta.AutoIncrement)
			}
		}
		if stats["stress"] > StressCrisisThreshold {
			crisis = append(crisis, id)
		}
	}
	return crisis
}

// StressCrisisThreshold is the exclusive stress level above which a
// trainee counts as in crisis after the monthly tick.
const StressCrisisThreshold = 80

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
