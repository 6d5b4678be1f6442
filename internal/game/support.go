package game

import (
	"github.com/efreeman/world-war/api/internal/model"
)

func (s *State) createSupportRequest(a Action) (*State, error) {
	p := a.Payload.(CreateSupportRequestPayload)
	if s.UserIndex(p.RequesterID) < 0 || s.UserIndex(p.TargetID) < 0 {
		return s, ErrUserNotFound
	}
	if p.RequesterID == p.TargetID {
		return s, ErrSelfTarget
	}
	if p.Amount <= 0 {
		return s, ErrInvalidAmount
	}
	if p.Resource != "" && !model.ValidResource(p.Resource) {
		return s, ErrInvalidResource
	}
	next := s.shallow()
	next.SupportRequests = appended(s.SupportRequests, model.SupportRequest{
		ID:          p.RequestID,
		RequesterID: p.RequesterID,
		TargetID:    p.TargetID,
		Resource:    p.Resource,
		Amount:      p.Amount,
		Status:      model.RequestPending,
		CreatedAt:   a.Now,
	})
	next.notify(p.TargetID, "support_requested", "A player asked you for support", a.Now)
	return next, nil
}

// respondSupportRequest settles or rejects a pending request. On accept, the
// target's balance is re-validated at acceptance time: holdings may have
// changed since the request was created. An underfunded accept rejects the
// request and reports the failure instead of corrupting state.
func (s *State) respondSupportRequest(a Action) (*State, error) {
	p := a.Payload.(RespondSupportRequestPayload)
	ri := -1
	for i := range s.SupportRequests {
		if s.SupportRequests[i].ID == p.RequestID {
			ri = i
			break
		}
	}
	if ri < 0 {
		return s, ErrRequestNotFound
	}
	req := s.SupportRequests[ri]
	if req.Status != model.RequestPending {
		return s, ErrRequestClosed
	}

	setStatus := func(status model.RequestStatus) []model.SupportRequest {
		reqs := make([]model.SupportRequest, len(s.SupportRequests))
		copy(reqs, s.SupportRequests)
		reqs[ri].Status = status
		return reqs
	}

	if !p.Accept {
		next := s.shallow()
		next.SupportRequests = setStatus(model.RequestRejected)
		return next, nil
	}

	si := s.UserIndex(req.TargetID)    // sender of the funds
	di := s.UserIndex(req.RequesterID) // recipient
	if si < 0 || di < 0 {
		return s, ErrUserNotFound
	}

	var goods model.Resources
	var money int
	if req.Resource == "" {
		money = req.Amount
		if s.Users[si].Money < money {
			next := s.shallow()
			next.SupportRequests = setStatus(model.RequestRejected)
			return next, ErrInsufficientFunds
		}
	} else {
		goods = model.Resources{req.Resource: req.Amount}
		if !holdsResources(&s.Users[si], goods) {
			next := s.shallow()
			next.SupportRequests = setStatus(model.RequestRejected)
			return next, ErrInsufficientStock
		}
	}

	users := make([]model.User, len(s.Users))
	copy(users, s.Users)
	users[si] = debitUser(users[si], goods, money)
	users[di] = creditUser(users[di], goods, money)

	next := s.shallow()
	next.Users = users
	next.SupportRequests = setStatus(model.RequestAccepted)
	next.notify(req.RequesterID, "support_accepted", "Your support request was accepted", a.Now)
	return next, nil
}
