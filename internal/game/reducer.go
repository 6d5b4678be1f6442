package game

import (
	"errors"

	"github.com/rs/zerolog/log"
)

// Rejection reasons. A rejected action leaves the tree untouched; the error
// tells the caller why, so it can be surfaced to the acting user.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrCountryNotFound    = errors.New("country not found")
	ErrCountryOccupied    = errors.New("country already occupied")
	ErrCountrySelected    = errors.New("user already holds a country")
	ErrNoCountry          = errors.New("user has not selected a country")
	ErrInsufficientFunds  = errors.New("insufficient money")
	ErrInsufficientStock  = errors.New("insufficient resources")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidResource    = errors.New("unknown resource")
	ErrProposalNotFound   = errors.New("proposal not found")
	ErrProposalClosed     = errors.New("proposal already settled")
	ErrOfferNotFound      = errors.New("counter-offer not found")
	ErrRequestNotFound    = errors.New("request not found")
	ErrRequestClosed      = errors.New("request already answered")
	ErrWarNotFound        = errors.New("war not found")
	ErrWarNotActive       = errors.New("war is not active")
	ErrWarAlreadyActive   = errors.New("war already active between these countries")
	ErrNoActiveWar        = errors.New("no active war between these users")
	ErrShieldActive       = errors.New("shield protection still active")
	ErrSameAlliance       = errors.New("cannot attack an alliance member")
	ErrSelfTarget         = errors.New("cannot target yourself")
	ErrNotAggressor       = errors.New("only the aggressor can retreat")
	ErrEmptyForce         = errors.New("attack force is empty")
	ErrMuted              = errors.New("user is muted or timed out")
	ErrNotPermitted       = errors.New("not permitted")
	ErrLossesApplied      = errors.New("battle losses already applied")
	ErrStatisticsNotReady = errors.New("battle statistics not set")

	// ErrInternal covers a panic inside a handler. The tree survives unchanged.
	ErrInternal = errors.New("internal reducer error")
)

// Reduce applies one action to the tree and returns the next tree. It never
// panics past its boundary: any handler panic is recovered and the prior
// state is returned unchanged. Unknown action types return the same state
// reference with no error.
func Reduce(s *State, a Action) (next *State, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("action", string(a.Type)).
				Msg("Reducer panic recovered, state unchanged")
			next, err = s, ErrInternal
		}
	}()

	switch a.Type {
	case ActionRegister:
		return s.register(a)
	case ActionLogin:
		return s.login(a)
	case ActionLogout:
		return s.logout(a)
	case ActionSelectCountry:
		return s.selectCountry(a)
	case ActionSendMessage:
		return s.sendMessage(a)

	case ActionCreateTradeProposal:
		return s.createTradeProposal(a)
	case ActionAcceptTradeProposal:
		return s.acceptTradeProposal(a)
	case ActionCancelTradeProposal:
		return s.cancelTradeProposal(a)
	case ActionCreateCounterOffer:
		return s.createCounterOffer(a)
	case ActionAcceptCounterOffer:
		return s.acceptCounterOffer(a)
	case ActionSellToRobot:
		return s.sellToRobot(a)

	case ActionCreateSupportRequest:
		return s.createSupportRequest(a)
	case ActionRespondSupportRequest:
		return s.respondSupportRequest(a)

	case ActionDeclareWar:
		return s.declareWar(a)
	case ActionSendWarReinforcement:
		return s.sendWarReinforcement(a)
	case ActionRetreatFromWar:
		return s.retreatFromWar(a)
	case ActionUpdateWarStatistics:
		return s.updateWarStatistics(a)
	case ActionApplyBattleLosses:
		return s.applyBattleLosses(a)

	case ActionCreatePeaceProposal:
		return s.createPeaceProposal(a)
	case ActionRespondPeaceProposal:
		return s.respondPeaceProposal(a)

	case ActionCreateAllianceInvitation:
		return s.createAllianceInvitation(a)
	case ActionRespondAllianceInvitation:
		return s.respondAllianceInvitation(a)

	case ActionGiftItems:
		return s.giftItems(a)
	case ActionRemoveItems:
		return s.removeItems(a)
	case ActionSetRole:
		return s.setRole(a)
	case ActionMuteUser:
		return s.muteUser(a)
	case ActionUnmuteUser:
		return s.unmuteUser(a)
	case ActionTimeoutUser:
		return s.timeoutUser(a)
	case ActionClearTimeout:
		return s.clearTimeout(a)
	case ActionSuspendUser:
		return s.suspendUser(a)
	case ActionRemoveUser:
		return s.removeUser(a)
	case ActionUpdateSettings:
		return s.updateSettings(a)
	case ActionSetMarketPrices:
		return s.setMarketPrices(a)
	case ActionCreateGameEvent:
		return s.createGameEvent(a)

	case ActionLoadData:
		return s.loadData(a)
	case ActionSweepExpirations:
		return s.sweepExpirations(a)

	default:
		return s, nil
	}
}
