package model

import (
	"time"

	"github.com/efreeman/world-war/api/pkg/battle"
)

// Role is a user's permission level.
type Role string

const (
	RolePlayer    Role = "player"
	RoleAssistant Role = "assistant"
	RoleAdmin     Role = "admin"
)

// Resource identifies one of the tradeable resource classes.
type Resource string

const (
	ResourceOil         Resource = "oil"
	ResourceFood        Resource = "food"
	ResourceMetals      Resource = "metals"
	ResourceWeapons     Resource = "weapons"
	ResourceSoldiers    Resource = "soldiers"
	ResourceGoods       Resource = "goods"
	ResourceAircraft    Resource = "aircraft"
	ResourceTanks       Resource = "tanks"
	ResourceMissiles    Resource = "missiles"
	ResourceSubmarines  Resource = "submarines"
	ResourceElectricity Resource = "electricity"
	ResourceShips       Resource = "ships"
	ResourceDefense     Resource = "defense"
)

// AllResources lists every resource class in display order.
var AllResources = []Resource{
	ResourceOil, ResourceFood, ResourceMetals, ResourceWeapons,
	ResourceSoldiers, ResourceGoods, ResourceAircraft, ResourceTanks,
	ResourceMissiles, ResourceSubmarines, ResourceElectricity,
	ResourceShips, ResourceDefense,
}

// ValidResource reports whether r names a known resource class.
func ValidResource(r Resource) bool {
	for _, known := range AllResources {
		if r == known {
			return true
		}
	}
	return false
}

// Resources is a bag of non-negative resource counters.
type Resources map[Resource]int

// Clone returns an independent copy of the bag.
func (r Resources) Clone() Resources {
	c := make(Resources, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// User is a registered player or staff member.
type User struct {
	ID                string         `json:"id"`
	Username          string         `json:"username"`
	DisplayName       string         `json:"display_name"`
	Role              Role           `json:"role"`
	Resources         Resources      `json:"resources"`
	Money             int            `json:"money"`
	CountryID         string         `json:"country_id,omitempty"`
	CountrySelectedAt *time.Time     `json:"country_selected_at,omitempty"`
	Buildings         map[string]int `json:"buildings,omitempty"`
	IsSuspended       bool           `json:"is_suspended,omitempty"`
	IsMuted           bool           `json:"is_muted,omitempty"`
	MuteExpiresAt     *time.Time     `json:"mute_expires_at,omitempty"`
	IsTimedOut        bool           `json:"is_timed_out,omitempty"`
	TimeoutExpiresAt  *time.Time     `json:"timeout_expires_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// CanChat reports whether moderation flags currently allow the user to send messages.
func (u *User) CanChat(now time.Time) bool {
	if u.IsSuspended {
		return false
	}
	if u.IsMuted && (u.MuteExpiresAt == nil || now.Before(*u.MuteExpiresAt)) {
		return false
	}
	if u.IsTimedOut && (u.TimeoutExpiresAt == nil || now.Before(*u.TimeoutExpiresAt)) {
		return false
	}
	return true
}

// Country is a static catalog entry plus live occupancy.
type Country struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Flag       string    `json:"flag"`
	BasePower  int       `json:"base_power"`
	Resources  Resources `json:"resources,omitempty"` // starting bonus granted at selection
	MapX       float64   `json:"map_x"`
	MapY       float64   `json:"map_y"`
	IsOccupied bool      `json:"is_occupied"`
	OccupiedBy string    `json:"occupied_by,omitempty"`
}

// WarStatus is a war's lifecycle state.
type WarStatus string

const (
	WarActive    WarStatus = "active"
	WarCeasefire WarStatus = "ceasefire"
	WarEnded     WarStatus = "ended"
)

// WarReinforcement is a force bag sent to an ongoing war.
type WarReinforcement struct {
	SenderID string       `json:"sender_id"`
	Force    battle.Force `json:"force"`
	SentAt   time.Time    `json:"sent_at"`
}

// War is a declared engagement between two users.
type War struct {
	ID               string             `json:"id"`
	AggressorID      string             `json:"aggressor_id"`
	DefenderID       string             `json:"defender_id"`
	Status           WarStatus          `json:"status"`
	AttackForce      battle.Force       `json:"attack_force"`
	Reinforcements   []WarReinforcement `json:"reinforcements,omitempty"`
	StartTime        time.Time          `json:"start_time"`
	EndTime          *time.Time         `json:"end_time,omitempty"`
	CeasefireEndTime *time.Time         `json:"ceasefire_end_time,omitempty"`
	BattleStatistics *battle.Result     `json:"battle_statistics,omitempty"`
	LossesApplied    bool               `json:"losses_applied,omitempty"`
}

// TradeType distinguishes buy and sell proposals.
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// TradeStatus is a proposal's lifecycle state.
type TradeStatus string

const (
	TradeActive    TradeStatus = "active"
	TradeCountered TradeStatus = "countered"
	TradeAccepted  TradeStatus = "accepted"
)

// Counter-offer statuses.
const (
	CounterPending  = "pending"
	CounterAccepted = "accepted"
)

// CounterOffer is an alternative amount/price attached to a proposal.
type CounterOffer struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Amount    int       `json:"amount"`
	Price     int       `json:"price"`  // per unit
	Status    string    `json:"status"` // pending, accepted
	CreatedAt time.Time `json:"created_at"`
}

// TradeProposal is a resource-for-money offer on the open market.
type TradeProposal struct {
	ID            string         `json:"id"`
	ProposerID    string         `json:"proposer_id"`
	Type          TradeType      `json:"type"`
	Resource      Resource       `json:"resource"`
	Amount        int            `json:"amount"`
	Price         int            `json:"price"` // per unit
	Status        TradeStatus    `json:"status"`
	AcceptedBy    string         `json:"accepted_by,omitempty"`
	CounterOffers []CounterOffer `json:"counter_offers,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// RequestStatus is the shared lifecycle of two-party requests.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// SupportRequest asks one user to send money or a resource class to another.
type SupportRequest struct {
	ID          string        `json:"id"`
	RequesterID string        `json:"requester_id"`
	TargetID    string        `json:"target_id"`
	Resource    Resource      `json:"resource,omitempty"` // empty = money
	Amount      int           `json:"amount"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PeaceType distinguishes permanent peace from a timed ceasefire.
type PeaceType string

const (
	PeacePermanent PeaceType = "peace"
	PeaceCeasefire PeaceType = "ceasefire"
)

// PeaceProposal offers to end or pause a war between two users.
type PeaceProposal struct {
	ID            string        `json:"id"`
	ProposerID    string        `json:"proposer_id"`
	TargetID      string        `json:"target_id"`
	Type          PeaceType     `json:"type"`
	DurationHours int           `json:"duration_hours,omitempty"` // ceasefire only
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// AllianceInvitation invites a user into a named alliance.
type AllianceInvitation struct {
	ID           string        `json:"id"`
	SenderID     string        `json:"sender_id"`
	TargetID     string        `json:"target_id"`
	AllianceName string        `json:"alliance_name"`
	Status       RequestStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Alliance is a named group of users. Name is the merge key (exact match).
type Alliance struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LeaderID  string    `json:"leader_id"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether the given user belongs to the alliance.
func (a *Alliance) HasMember(userID string) bool {
	for _, id := range a.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a chat message, public or direct.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id,omitempty"` // empty = public
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameEvent is an admin-created timed event with market price modifiers.
type GameEvent struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	PriceModifiers map[Resource]int `json:"price_modifiers,omitempty"` // percent of base
	ExpiresAt      time.Time        `json:"expires_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Notification is a per-user feed entry, expired by the minute sweep.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GameSettings is the process-wide tuning table. Admin actions mutate it.
type GameSettings struct {
	MarketPrices          map[Resource]int `json:"market_prices" yaml:"market_prices"`
	BuildingPrices        map[string]int   `json:"building_prices" yaml:"building_prices"`
	StartingMoney         int              `json:"starting_money" yaml:"starting_money"`
	StartingResources     Resources        `json:"starting_resources" yaml:"starting_resources"`
	DefaultBuildingLevels map[string]int   `json:"default_building_levels" yaml:"default_building_levels"`
	ShieldProtectionHours int              `json:"shield_protection_hours" yaml:"shield_protection_hours"`
	RobotBuybackPercent   int              `json:"robot_buyback_percent" yaml:"robot_buyback_percent"`
	NotificationTTLHours  int              `json:"notification_ttl_hours" yaml:"notification_ttl_hours"`
	SeasonLengthDays      int              `json:"season_length_days" yaml:"season_length_days"`
}

// DefaultSettings returns the tuning used when no settings file is provided.
func DefaultSettings() GameSettings {
	return GameSettings{
		MarketPrices: map[Resource]int{
			ResourceOil: 10, ResourceFood: 5, ResourceMetals: 8,
			ResourceWeapons: 25, ResourceSoldiers: 15, ResourceGoods: 6,
			ResourceAircraft: 200, ResourceTanks: 120, ResourceMissiles: 500,
			ResourceSubmarines: 400, ResourceElectricity: 4,
			ResourceShips: 300, ResourceDefense: 150,
		},
		BuildingPrices: map[string]int{
			"farm": 500, "refinery": 800, "mine": 700,
			"factory": 1000, "barracks": 1200, "powerplant": 900,
		},
		StartingMoney: 10000,
		StartingResources: Resources{
			ResourceOil: 100, ResourceFood: 200, ResourceMetals: 100,
			ResourceWeapons: 50, ResourceSoldiers: 100, ResourceGoods: 80,
			ResourceAircraft: 5, ResourceTanks: 10, ResourceMissiles: 2,
			ResourceSubmarines: 2, ResourceElectricity: 100,
			ResourceShips: 3, ResourceDefense: 10,
		},
		DefaultBuildingLevels: map[string]int{
			"farm": 1, "refinery": 1, "mine": 1,
			"factory": 1, "barracks": 1, "powerplant": 1,
		},
		ShieldProtectionHours: 24,
		RobotBuybackPercent:   50,
		NotificationTTLHours:  72,
		SeasonLengthDays:      90,
	}
}
