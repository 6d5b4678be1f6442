package game

import (
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/pkg/battle"
)

// The resource ledger. Both operations return a fresh user value with cloned
// maps; the input user is never modified.

// creditUser adds resources and money to a user without bound.
func creditUser(u model.User, res model.Resources, money int) model.User {
	next := u
	next.Resources = u.Resources.Clone()
	for r, n := range res {
		next.Resources[r] += n
	}
	next.Money += money
	return next
}

// debitUser removes resources and money from a user, clamping every field at
// zero. Removing more than the user holds is deliberate admin behavior and
// must never produce a negative balance.
func debitUser(u model.User, res model.Resources, money int) model.User {
	next := u
	next.Resources = u.Resources.Clone()
	for r, n := range res {
		v := next.Resources[r] - n
		if v < 0 {
			v = 0
		}
		next.Resources[r] = v
	}
	next.Money -= money
	if next.Money < 0 {
		next.Money = 0
	}
	return next
}

// holdsResources reports whether the user has at least the given amounts.
func holdsResources(u *model.User, res model.Resources) bool {
	for r, n := range res {
		if u.Resources[r] < n {
			return false
		}
	}
	return true
}

// forceResources converts a force bag to the equivalent resource deltas.
func forceResources(f battle.Force) model.Resources {
	res := model.Resources{}
	if f.Soldiers > 0 {
		res[model.ResourceSoldiers] = f.Soldiers
	}
	if f.Tanks > 0 {
		res[model.ResourceTanks] = f.Tanks
	}
	if f.Aircraft > 0 {
		res[model.ResourceAircraft] = f.Aircraft
	}
	if f.Missiles > 0 {
		res[model.ResourceMissiles] = f.Missiles
	}
	if f.Submarines > 0 {
		res[model.ResourceSubmarines] = f.Submarines
	}
	if f.Ships > 0 {
		res[model.ResourceShips] = f.Ships
	}
	return res
}

// liveForce reads a user's current military holdings as a force bag. Used for
// the defender side at battle resolution time.
func liveForce(u *model.User) battle.Force {
	return battle.Force{
		Soldiers:   u.Resources[model.ResourceSoldiers],
		Tanks:      u.Resources[model.ResourceTanks],
		Aircraft:   u.Resources[model.ResourceAircraft],
		Missiles:   u.Resources[model.ResourceMissiles],
		Submarines: u.Resources[model.ResourceSubmarines],
		Ships:      u.Resources[model.ResourceShips],
	}
}
