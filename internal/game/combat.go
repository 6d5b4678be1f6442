package game

import (
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/pkg/battle"
)

// TotalAttackForce sums the committed attack force and every reinforcement
// sent to the war. The total is informational; battle resolution consumes
// only the committed AttackForce.
func TotalAttackForce(w *model.War) battle.Force {
	total := w.AttackForce
	for _, r := range w.Reinforcements {
		total = total.Add(r.Force)
	}
	return total
}

// DefenderStrength reads the defender's holdings at resolution time: the
// full live force bag plus the defense system level.
func DefenderStrength(u *model.User) battle.Defender {
	return battle.Defender{
		Force:   liveForce(u),
		Defense: u.Resources[model.ResourceDefense],
	}
}
