// Package battle implements the multi-domain combat engine: force bags,
// per-domain loss computation, and overall battle outcome scoring.
// The package is pure — all randomness is injected by the caller.
package battle

// Force is a named set of military unit counts. The same shape is used for
// attack declarations and reinforcements.
type Force struct {
	Soldiers   int `json:"soldiers"`
	Tanks      int `json:"tanks"`
	Aircraft   int `json:"aircraft"`
	Missiles   int `json:"missiles"`
	Submarines int `json:"submarines"`
	Ships      int `json:"ships"`
}

// Unit weights for the overall power score.
const (
	weightSoldier   = 1
	weightTank      = 10
	weightAircraft  = 20
	weightMissile   = 50
	weightSubmarine = 40
	weightShip      = 30
	weightDefense   = 15
)

// IsZero reports whether the force contains no units.
func (f Force) IsZero() bool {
	return f == Force{}
}

// Add returns the element-wise sum of two forces.
func (f Force) Add(o Force) Force {
	return Force{
		Soldiers:   f.Soldiers + o.Soldiers,
		Tanks:      f.Tanks + o.Tanks,
		Aircraft:   f.Aircraft + o.Aircraft,
		Missiles:   f.Missiles + o.Missiles,
		Submarines: f.Submarines + o.Submarines,
		Ships:      f.Ships + o.Ships,
	}
}

// NavalPower is the naval domain strength.
func (f Force) NavalPower() int {
	return f.Ships + f.Submarines
}

// GroundPower is the ground domain strength.
func (f Force) GroundPower() int {
	return f.Tanks + f.Soldiers
}

// PowerScore is the weighted overall strength of the force.
func (f Force) PowerScore() int {
	return f.Soldiers*weightSoldier +
		f.Tanks*weightTank +
		f.Aircraft*weightAircraft +
		f.Missiles*weightMissile +
		f.Submarines*weightSubmarine +
		f.Ships*weightShip
}
