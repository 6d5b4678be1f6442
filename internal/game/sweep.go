package game

import (
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

// sweepExpirations is the minute sweep: expired ceasefires flip back to
// active, lapsed mutes and timeouts clear, and stale game events and
// notifications are dropped. The action always reads the tree it is applied
// to — the dispatcher must not capture an older tree in a closure.
func (s *State) sweepExpirations(a Action) (*State, error) {
	now := a.Now
	next := s.shallow()
	changed := false

	var wars []model.War
	for i := range s.Wars {
		w := &s.Wars[i]
		if w.Status == model.WarCeasefire && w.CeasefireEndTime != nil && !now.Before(*w.CeasefireEndTime) {
			if wars == nil {
				wars = make([]model.War, len(s.Wars))
				copy(wars, s.Wars)
			}
			wars[i].Status = model.WarActive
			wars[i].CeasefireEndTime = nil
		}
	}
	if wars != nil {
		next.Wars = wars
		changed = true
	}

	var users []model.User
	for i := range s.Users {
		u := &s.Users[i]
		expiredMute := u.IsMuted && u.MuteExpiresAt != nil && !now.Before(*u.MuteExpiresAt)
		expiredTimeout := u.IsTimedOut && u.TimeoutExpiresAt != nil && !now.Before(*u.TimeoutExpiresAt)
		if !expiredMute && !expiredTimeout {
			continue
		}
		if users == nil {
			users = make([]model.User, len(s.Users))
			copy(users, s.Users)
		}
		if expiredMute {
			users[i].IsMuted = false
			users[i].MuteExpiresAt = nil
		}
		if expiredTimeout {
			users[i].IsTimedOut = false
			users[i].TimeoutExpiresAt = nil
		}
	}
	if users != nil {
		next.Users = users
		changed = true
	}

	if events, dropped := dropExpiredEvents(s.GameEvents, now); dropped {
		next.GameEvents = events
		changed = true
	}
	if notifs, dropped := dropExpiredNotifications(s.Notifications, now); dropped {
		next.Notifications = notifs
		changed = true
	}

	if !changed {
		return s, nil
	}
	return next, nil
}

func dropExpiredEvents(events []model.GameEvent, now time.Time) ([]model.GameEvent, bool) {
	kept := events[:0:0]
	for i := range events {
		if now.Before(events[i].ExpiresAt) {
			kept = append(kept, events[i])
		}
	}
	if len(kept) == len(events) {
		return events, false
	}
	return kept, true
}

func dropExpiredNotifications(notifs []model.Notification, now time.Time) ([]model.Notification, bool) {
	kept := notifs[:0:0]
	for i := range notifs {
		if now.Before(notifs[i].ExpiresAt) {
			kept = append(kept, notifs[i])
		}
	}
	if len(kept) == len(notifs) {
		return notifs, false
	}
	return kept, true
}
