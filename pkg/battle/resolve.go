package battle

import "math"

// Domain loss caps. Each is the maximum fraction of a unit type that can be
// destroyed in a single engagement.
const (
	maxDefenseEffectiveness = 0.8
	defensePerLevel         = 0.1

	attackerShipLossCap = 0.3
	attackerSubLossCap  = 0.2
	defenderShipLossCap = 0.4
	defenderSubLossCap  = 0.3

	attackerTankLossCap    = 0.25
	attackerSoldierLossCap = 0.2
	defenderTankLossCap    = 0.35
	defenderSoldierLossCap = 0.3

	defenseDamageCap = 0.1

	// winMargin is the factor by which one side's damage score must exceed
	// the other's to count as a win rather than a draw.
	winMargin = 1.2
)

// Outcome is the overall result of an engagement.
type Outcome string

const (
	AttackerWins Outcome = "attacker"
	DefenderWins Outcome = "defender"
	Draw         Outcome = "draw"
)

// Defender is the defending side's strength at resolution time: its full
// live force bag plus its defense system level.
type Defender struct {
	Force   Force `json:"force"`
	Defense int   `json:"defense"`
}

// Result is the statistics snapshot attached to a war when it resolves.
type Result struct {
	AttackerLosses Force   `json:"attacker_losses"`
	DefenderLosses Force   `json:"defender_losses"`
	DefenseDamage  int     `json:"defense_damage"`
	AttackerPower  int     `json:"attacker_power"`
	DefenderPower  int     `json:"defender_power"`
	DamageDealt    int     `json:"damage_dealt"`
	DamageReceived int     `json:"damage_received"`
	Outcome        Outcome `json:"outcome"`
}

// Rand is the source of randomness for loss rolls. Each call must return a
// value in [0, 1). math/rand's *Rand satisfies it via Float64.
type Rand interface {
	Float64() float64
}

// Resolve computes the outcome of an engagement between a committed attack
// force and the defender's strength as read at resolution time. Every loss
// roll is independently randomized.
func Resolve(attack Force, defender Defender, rng Rand) Result {
	var res Result

	// Air: the defense system shoots down a share of incoming aircraft and
	// missiles, capped at 80% effectiveness.
	eff := math.Min(float64(defender.Defense)*defensePerLevel, maxDefenseEffectiveness)
	res.AttackerLosses.Aircraft = int(float64(attack.Aircraft) * eff * rng.Float64())
	res.AttackerLosses.Missiles = int(float64(attack.Missiles) * eff * rng.Float64())

	// Naval: loss fractions scale with the power ratio. The stronger the
	// attacker fleet relative to the defender's, the less it loses and the
	// more it sinks.
	navalRatio := ratio(attack.NavalPower(), defender.Force.NavalPower())
	res.AttackerLosses.Ships = roll(attack.Ships, attackerShipLossCap, inverse(navalRatio), rng)
	res.AttackerLosses.Submarines = roll(attack.Submarines, attackerSubLossCap, inverse(navalRatio), rng)
	res.DefenderLosses.Ships = roll(defender.Force.Ships, defenderShipLossCap, forward(navalRatio), rng)
	res.DefenderLosses.Submarines = roll(defender.Force.Submarines, defenderSubLossCap, forward(navalRatio), rng)

	// Ground: same ratio pattern over tanks and soldiers.
	groundRatio := ratio(attack.GroundPower(), defender.Force.GroundPower())
	res.AttackerLosses.Tanks = roll(attack.Tanks, attackerTankLossCap, inverse(groundRatio), rng)
	res.AttackerLosses.Soldiers = roll(attack.Soldiers, attackerSoldierLossCap, inverse(groundRatio), rng)
	res.DefenderLosses.Tanks = roll(defender.Force.Tanks, defenderTankLossCap, forward(groundRatio), rng)
	res.DefenderLosses.Soldiers = roll(defender.Force.Soldiers, defenderSoldierLossCap, forward(groundRatio), rng)

	res.DefenseDamage = int(float64(defender.Defense) * defenseDamageCap * rng.Float64())

	res.AttackerPower = attack.PowerScore()
	res.DefenderPower = defender.Force.PowerScore() + defender.Defense*weightDefense
	res.DamageDealt = int(float64(res.AttackerPower) / math.Max(float64(res.DefenderPower), 1) * 100)
	res.DamageReceived = int(float64(res.DefenderPower) / math.Max(float64(res.AttackerPower), 1) * 100)

	switch {
	case float64(res.DamageDealt) > float64(res.DamageReceived)*winMargin:
		res.Outcome = AttackerWins
	case float64(res.DamageReceived) > float64(res.DamageDealt)*winMargin:
		res.Outcome = DefenderWins
	default:
		res.Outcome = Draw
	}
	return res
}

// ratio is attacker power over defender power, with the denominator floored
// at 1 to avoid division by zero.
func ratio(attacker, defender int) float64 {
	return float64(attacker) / math.Max(float64(defender), 1)
}

// forward scales defender losses: a stronger attacker sinks more, capped at
// the full loss fraction.
func forward(r float64) float64 {
	return math.Min(r, 1)
}

// inverse scales attacker losses: a stronger attacker loses less.
func inverse(r float64) float64 {
	return math.Min(1/math.Max(r, 1e-9), 1)
}

// roll computes the units destroyed out of count, given the domain's maximum
// loss fraction and the ratio scale for this side.
func roll(count int, frac, scale float64, rng Rand) int {
	if count <= 0 {
		return 0
	}
	return int(float64(count) * frac * scale * rng.Float64())
}
