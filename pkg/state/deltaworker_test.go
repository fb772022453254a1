package state

import (
	"testing"

	"github.com/xingmeng/stardream/pkg/gamedata"
)

func TestDeltaWorkerApplyClamping(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{"normal add", 50, 5, 55},
		{"normal subtract", 50, -20, 30},
		{"clamp at ceiling", 95, 20, 100},
		{"clamp at floor", 10, -50, 0},
		{"exact ceiling", 90, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState("测试", "unspecified")
			gs.CharacterStats["minsu"]["trust"] = tt.start

			NewDeltaWorker(gs).Apply(
				[]CharChange{{CharID: "minsu", Stat: "trust", Delta: tt.delta}}, nil)

			if got := gs.CharacterStats["minsu"]["trust"]; got != tt.want {
				t.Errorf("trust = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDeltaWorkerApplyGlobals(t *testing.T) {
	gs := NewGameState("测试", "unspecified")
	gs.Resources = GlobalResources{Money: 40, Fame: 10}

	NewDeltaWorker(gs).Apply(nil, []GlobalChange{
		{Resource: "money", Delta: -60},
		{Resource: "fame", Delta: 5},
	})

	if gs.Resources.Money != 0 {
		t.Errorf("money = %d, want floor at 0", gs.Resources.Money)
	}
	if gs.Resources.Fame != 15 {
		t.Errorf("fame = %d, want 15", gs.Resources.Fame)
	}
}

func TestDeltaWorkerApplyUnknownCharacter(t *testing.T) {
	gs := NewGameState("测试", "unspecified")

	// Must not panic or create a stats entry.
	NewDeltaWorker(gs).Apply([]CharChange{{CharID: "ghost", Stat: "trust", Delta: 5}}, nil)

	if _, ok := gs.CharacterStats["ghost"]; ok {
		t.Error("stats entry created for unknown character")
	}
}

func TestDeltaWorkerMonthlyTick(t *testing.T) {
	gs := NewGameState("测试", "unspecified")
	gs.Resources.Money = 100
	gs.DebutCountdown = 10
	startStress := gs.CharacterStats["minsu"]["stress"]

	crisis := NewDeltaWorker(gs).MonthlyTick()

	if gs.Resources.Money != 100-gamedata.MonthlyExpense {
		t.Errorf("money = %d, want %d", gs.Resources.Money, 100-gamedata.MonthlyExpense)
	}
	if gs.DebutCountdown != 9 {
		t.Errorf("debut countdown = %d, want 9", gs.DebutCountdown)
	}
	if got := gs.CharacterStats["minsu"]["stress"]; got != startStress+2 {
		t.Errorf("stress = %d, want %d", got, startStress+2)
	}
	// The rival has no auto-incrementing stats.
	if got := gs.CharacterStats["arin"]["attitude"]; got != 40 {
		t.Errorf("rival attitude = %d, want unchanged 40", got)
	}
	if len(crisis) != 0 {
		t.Errorf("crisis = %v, want none at starting stress", crisis)
	}
}

func TestDeltaWorkerMonthlyTickStressCrisis(t *testing.T) {
	gs := NewGameState("测试", "unspecified")
	gs.CharacterStats["jiyeon"]["stress"] = 85

	crisis := NewDeltaWorker(gs).MonthlyTick()

	if len(crisis) != 1 || crisis[0] != "jiyeon" {
		t.Errorf("crisis = %v, want [jiyeon]", crisis)
	}
}

func TestDeltaWorkerMonthlyTickFloors(t *testing.T) {
	gs := NewGameState("测试", "unspecified")
	gs.Resources.Money = 10
	gs.DebutCountdown = 0

	NewDeltaWorker(gs).MonthlyTick()

	if gs.Resources.Money != 0 {
		t.Errorf("money = %d, want 0", gs.Resources.Money)
	}
	if gs.DebutCountdown != 0 {
		t.Errorf("debut countdown = %d, want 0", gs.DebutCountdown)
	}
}
