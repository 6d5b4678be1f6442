package game

import (
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

// declareWar creates an active war after the invariant guards pass. The
// declared force is deducted from the aggressor immediately and
// unconditionally: it is paid up front regardless of the battle outcome.
func (s *State) declareWar(a Action) (*State, error) {
	p := a.Payload.(DeclareWarPayload)
	ai := s.UserIndex(p.AggressorID)
	di := s.UserIndex(p.DefenderID)
	if ai < 0 || di < 0 {
		return s, ErrUserNotFound
	}
	if p.AggressorID == p.DefenderID {
		return s, ErrSelfTarget
	}
	aggressor := &s.Users[ai]
	defender := &s.Users[di]
	if aggressor.CountryID == "" || defender.CountryID == "" {
		return s, ErrNoCountry
	}
	// Shield protects a newly settled aggressor from declaring, not from
	// being attacked. The asymmetry is intentional.
	if s.shieldActive(aggressor, a.Now) {
		return s, ErrShieldActive
	}
	if s.SharedAlliance(p.AggressorID, p.DefenderID) {
		return s, ErrSameAlliance
	}
	if s.ActiveWarBetween(p.AggressorID, p.DefenderID) >= 0 {
		return s, ErrWarAlreadyActive
	}
	if p.Force.IsZero() {
		return s, ErrEmptyForce
	}
	cost := forceResources(p.Force)
	if !holdsResources(aggressor, cost) {
		return s, ErrInsufficientStock
	}

	next := s.shallow()
	next.Users = replaceUser(s.Users, ai, debitUser(*aggressor, cost, 0))
	next.Wars = appended(s.Wars, model.War{
		ID:          p.WarID,
		AggressorID: p.AggressorID,
		DefenderID:  p.DefenderID,
		Status:      model.WarActive,
		AttackForce: p.Force,
		StartTime:   a.Now,
	})
	next.notify(p.DefenderID, "war_declared", "War has been declared on you", a.Now)
	return next, nil
}

// shieldActive reports whether the user is within the shield protection
// window anchored at country selection.
func (s *State) shieldActive(u *model.User, now time.Time) bool {
	if u.CountrySelectedAt == nil {
		return false
	}
	window := time.Duration(s.Settings.ShieldProtectionHours) * time.Hour
	return now.Before(u.CountrySelectedAt.Add(window))
}

// sendWarReinforcement deducts the force from the sender and appends it to
// the war's reinforcement list. Any user may reinforce any active war; the
// force does not alter the already-committed attack force.
func (s *State) sendWarReinforcement(a Action) (*State, error) {
	p := a.Payload.(SendWarReinforcementPayload)
	wi := s.WarIndex(p.WarID)
	if wi < 0 {
		return s, ErrWarNotFound
	}
	if s.Wars[wi].Status != model.WarActive {
		return s, ErrWarNotActive
	}
	si := s.UserIndex(p.SenderID)
	if si < 0 {
		return s, ErrUserNotFound
	}
	if p.Force.IsZero() {
		return s, ErrEmptyForce
	}
	cost := forceResources(p.Force)
	if !holdsResources(&s.Users[si], cost) {
		return s, ErrInsufficientStock
	}

	war := s.Wars[wi]
	war.Reinforcements = appended(war.Reinforcements, model.WarReinforcement{
		SenderID: p.SenderID,
		Force:    p.Force,
		SentAt:   a.Now,
	})
	next := s.shallow()
	next.Users = replaceUser(s.Users, si, debitUser(s.Users[si], cost, 0))
	next.Wars = replaceWar(s.Wars, wi, war)
	return next, nil
}

// retreatFromWar lets the aggressor unilaterally end an active war. No
// resolution is computed and no losses are applied.
func (s *State) retreatFromWar(a Action) (*State, error) {
	p := a.Payload.(RetreatFromWarPayload)
	wi := s.WarIndex(p.WarID)
	if wi < 0 {
		return s, ErrWarNotFound
	}
	war := s.Wars[wi]
	if war.Status != model.WarActive {
		return s, ErrWarNotActive
	}
	if war.AggressorID != p.UserID {
		return s, ErrNotAggressor
	}
	now := a.Now
	war.Status = model.WarEnded
	war.EndTime = &now
	next := s.shallow()
	next.Wars = replaceWar(s.Wars, wi, war)
	return next, nil
}

// updateWarStatistics attaches the battle result exactly once and ends the
// war. A war that is no longer active — retreat or peace raced the timer —
// is left untouched, so a pending resolution can never double-fire.
func (s *State) updateWarStatistics(a Action) (*State, error) {
	p := a.Payload.(UpdateWarStatisticsPayload)
	wi := s.WarIndex(p.WarID)
	if wi < 0 {
		return s, ErrWarNotFound
	}
	war := s.Wars[wi]
	// Attaching statistics ends the war, so the status guard alone makes
	// the attach exactly-once.
	if war.Status != model.WarActive {
		return s, ErrWarNotActive
	}
	now := a.Now
	result := p.Result
	war.BattleStatistics = &result
	war.Status = model.WarEnded
	war.EndTime = &now

	next := s.shallow()
	next.Wars = replaceWar(s.Wars, wi, war)
	next.notify(war.AggressorID, "battle_resolved", "Your war has been resolved", a.Now)
	next.notify(war.DefenderID, "battle_resolved", "The war against you has been resolved", a.Now)
	return next, nil
}

// applyBattleLosses debits both belligerents with the losses recorded in the
// war's statistics, using the ledger's clamped debit. Guarded so a second
// application is a no-op on the terminal state.
func (s *State) applyBattleLosses(a Action) (*State, error) {
	p := a.Payload.(ApplyBattleLossesPayload)
	wi := s.WarIndex(p.WarID)
	if wi < 0 {
		return s, ErrWarNotFound
	}
	war := s.Wars[wi]
	if war.BattleStatistics == nil {
		return s, ErrStatisticsNotReady
	}
	if war.LossesApplied {
		return s, ErrLossesApplied
	}
	ai := s.UserIndex(war.AggressorID)
	di := s.UserIndex(war.DefenderID)
	if ai < 0 || di < 0 {
		return s, ErrUserNotFound
	}

	stats := war.BattleStatistics
	defenderCost := forceResources(stats.DefenderLosses)
	if stats.DefenseDamage > 0 {
		defenderCost[model.ResourceDefense] = stats.DefenseDamage
	}

	users := make([]model.User, len(s.Users))
	copy(users, s.Users)
	users[ai] = debitUser(users[ai], forceResources(stats.AttackerLosses), 0)
	users[di] = debitUser(users[di], defenderCost, 0)

	war.LossesApplied = true
	next := s.shallow()
	next.Users = users
	next.Wars = replaceWar(s.Wars, wi, war)
	return next, nil
}
