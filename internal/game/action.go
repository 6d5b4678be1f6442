package game

import (
	"time"

	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/pkg/battle"
)

// ActionType tags a dispatched action. The set is closed: the reducer has
// exactly one handler per type and unknown types are a no-op.
type ActionType string

const (
	ActionRegister      ActionType = "REGISTER"
	ActionLogin         ActionType = "LOGIN"
	ActionLogout        ActionType = "LOGOUT"
	ActionSelectCountry ActionType = "SELECT_COUNTRY"
	ActionSendMessage   ActionType = "SEND_MESSAGE"

	ActionCreateTradeProposal ActionType = "CREATE_TRADE_PROPOSAL"
	ActionAcceptTradeProposal ActionType = "ACCEPT_TRADE_PROPOSAL"
	ActionCancelTradeProposal ActionType = "CANCEL_TRADE_PROPOSAL"
	ActionCreateCounterOffer  ActionType = "CREATE_COUNTER_OFFER"
	ActionAcceptCounterOffer  ActionType = "ACCEPT_COUNTER_OFFER"
	ActionSellToRobot         ActionType = "SELL_TO_ROBOT"

	ActionCreateSupportRequest  ActionType = "CREATE_SUPPORT_REQUEST"
	ActionRespondSupportRequest ActionType = "RESPOND_SUPPORT_REQUEST"

	ActionDeclareWar          ActionType = "DECLARE_WAR"
	ActionSendWarReinforcement ActionType = "SEND_WAR_REINFORCEMENT"
	ActionRetreatFromWar      ActionType = "RETREAT_FROM_WAR"
	ActionUpdateWarStatistics ActionType = "UPDATE_WAR_STATISTICS"
	ActionApplyBattleLosses   ActionType = "APPLY_BATTLE_LOSSES"

	ActionCreatePeaceProposal  ActionType = "CREATE_PEACE_PROPOSAL"
	ActionRespondPeaceProposal ActionType = "RESPOND_PEACE_PROPOSAL"

	ActionCreateAllianceInvitation  ActionType = "CREATE_ALLIANCE_INVITATION"
	ActionRespondAllianceInvitation ActionType = "RESPOND_ALLIANCE_INVITATION"

	ActionGiftItems      ActionType = "GIFT_ITEMS"
	ActionRemoveItems    ActionType = "REMOVE_ITEMS"
	ActionSetRole        ActionType = "SET_ROLE"
	ActionMuteUser       ActionType = "MUTE_USER"
	ActionUnmuteUser     ActionType = "UNMUTE_USER"
	ActionTimeoutUser    ActionType = "TIMEOUT_USER"
	ActionClearTimeout   ActionType = "CLEAR_TIMEOUT"
	ActionSuspendUser    ActionType = "SUSPEND_USER"
	ActionRemoveUser     ActionType = "REMOVE_USER"
	ActionUpdateSettings ActionType = "UPDATE_SETTINGS"
	ActionSetMarketPrices ActionType = "SET_MARKET_PRICES"
	ActionCreateGameEvent ActionType = "CREATE_GAME_EVENT"

	ActionLoadData         ActionType = "LOAD_DATA"
	ActionSweepExpirations ActionType = "SWEEP_EXPIRATIONS"
)

// Action is one dispatched command. Now is stamped by the store at dispatch
// time so handlers never read the wall clock themselves.
type Action struct {
	Type    ActionType
	Now     time.Time
	Payload any
}

// Payloads. Entity IDs are generated by the caller (the reducer is pure).

type RegisterPayload struct {
	UserID      string
	Username    string
	DisplayName string
	Role        model.Role // empty = player
}

type LoginPayload struct {
	UserID string
}

type SelectCountryPayload struct {
	UserID    string
	CountryID string
}

type SendMessagePayload struct {
	MessageID   string
	SenderID    string
	RecipientID string // empty = public
	Content     string
}

type CreateTradeProposalPayload struct {
	ProposalID string
	ProposerID string
	Type       model.TradeType
	Resource   model.Resource
	Amount     int
	Price      int // per unit
}

type AcceptTradeProposalPayload struct {
	ProposalID string
	AccepterID string
}

type CancelTradeProposalPayload struct {
	ProposalID string
	UserID     string
}

type CreateCounterOfferPayload struct {
	ProposalID string
	OfferID    string
	SenderID   string
	Amount     int
	Price      int // per unit
}

// AcceptCounterOfferPayload: only the original proposer may accept a counter,
// so the accepting party is implied by the proposal.
type AcceptCounterOfferPayload struct {
	ProposalID string
	OfferID    string
}

type SellToRobotPayload struct {
	UserID   string
	Resource model.Resource
	Amount   int
}

type CreateSupportRequestPayload struct {
	RequestID   string
	RequesterID string
	TargetID    string
	Resource    model.Resource // empty = money
	Amount      int
}

type RespondSupportRequestPayload struct {
	RequestID string
	Accept    bool
}

type DeclareWarPayload struct {
	WarID       string
	AggressorID string
	DefenderID  string
	Force       battle.Force
}

type SendWarReinforcementPayload struct {
	WarID    string
	SenderID string
	Force    battle.Force
}

type RetreatFromWarPayload struct {
	WarID  string
	UserID string
}

type UpdateWarStatisticsPayload struct {
	WarID  string
	Result battle.Result
}

type ApplyBattleLossesPayload struct {
	WarID string
}

type CreatePeaceProposalPayload struct {
	ProposalID    string
	ProposerID    string
	TargetID      string
	Type          model.PeaceType
	DurationHours int
}

type RespondPeaceProposalPayload struct {
	ProposalID string
	Accept     bool
}

type CreateAllianceInvitationPayload struct {
	InvitationID string
	SenderID     string
	TargetID     string
	AllianceName string
}

// RespondAllianceInvitationPayload carries a pre-generated alliance ID used
// only when acceptance creates a brand-new alliance.
type RespondAllianceInvitationPayload struct {
	InvitationID  string
	Accept        bool
	NewAllianceID string
}

type GiftItemsPayload struct {
	TargetID  string
	Resources model.Resources
	Money     int
}

type RemoveItemsPayload struct {
	TargetID  string
	Resources model.Resources
	Money     int
}

type SetRolePayload struct {
	TargetID string
	Role     model.Role
}

type MuteUserPayload struct {
	TargetID string
	Until    *time.Time // nil = indefinite
}

type UnmuteUserPayload struct {
	TargetID string
}

type TimeoutUserPayload struct {
	TargetID string
	Until    *time.Time
}

type ClearTimeoutPayload struct {
	TargetID string
}

type SuspendUserPayload struct {
	TargetID  string
	Suspended bool
}

type RemoveUserPayload struct {
	TargetID string
}

type UpdateSettingsPayload struct {
	Settings model.GameSettings
}

type SetMarketPricesPayload struct {
	Prices map[model.Resource]int
}

type CreateGameEventPayload struct {
	Event model.GameEvent
}

// LoadDataPayload bulk-replaces the tree, used to restore a persisted snapshot.
type LoadDataPayload struct {
	State *State
}
