package internal

import "time"

const (
	BoardSlotCount   = 6
	StartingHandSize = 6
	MaxRounds        = 3

	// CardValueRange is the number of distinct card values per suit. Merge
	// arithmetic treats (value, level) as a base-13 number.
	CardValueRange = 13

	RoundStartDuration    = 3 * time.Second
	CardPlacementDuration = 12 * time.Second
	StealWindowDuration   = 8 * time.Second
)

type RoundState string

const (
	RoundStateUnknown       RoundState = "UNKNOWN"
	RoundStateRoundStart    RoundState = "IS_ROUND_START"
	RoundStateCardPlacement RoundState = "IS_CARD_PLACEMENT"
	RoundStateStealWindow   RoundState = "IS_STEAL_WINDOW"
	RoundStateGameOver      RoundState = "IS_GAME_OVER"
)

// Terminal reports whether the round state machine stops here.
func (s RoundState) Terminal() bool {
	return s == RoundStateGameOver || s == RoundStateUnknown
}

type CardSuit string

const (
	SuitHearts   CardSuit = "HEARTS"
	SuitDiamonds CardSuit = "DIAMONDS"
	SuitClubs    CardSuit = "CLUBS"
	SuitSpades   CardSuit = "SPADES"
)

// Suits lists every suit in dealing order.
var Suits = []CardSuit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Card is immutable once created; Id is unique within a match and is what
// hand-membership filtering keys on.
type Card struct {
	Id    int      `json:"id"`
	Suit  CardSuit `json:"suit"`
	Value int      `json:"value"`
	Level int      `json:"level"`
}

type PlayerHand struct {
	Cards []Card `json:"cards"`
}

// Clone returns a hand whose card slice shares nothing with the receiver.
func (h PlayerHand) Clone() PlayerHand {
	return PlayerHand{Cards: append([]Card(nil), h.Cards...)}
}

// BoardSlots is a player's six board positions. A nil entry is an empty
// slot, which is also what a theft leaves behind.
type BoardSlots [BoardSlotCount]*Card

// Clone copies the slots so the caller can mutate them freely.
func (b BoardSlots) Clone() BoardSlots {
	var out BoardSlots
	for i, c := range b {
		if c != nil {
			copied := *c
			out[i] = &copied
		}
	}
	return out
}

type User struct {
	Id        string `json:"id"`
	Username  string `json:"username"`
	Connected bool   `json:"is_connected"`
}

type MatchState struct {
	Round                      int        `json:"round"`
	RoundState                 RoundState `json:"round_state"`
	RoundPartTimerMilliseconds int64      `json:"round_part_timer_ms"`

	PlayerAHands PlayerHand `json:"player_a_hands"`
	PlayerBHands PlayerHand `json:"player_b_hands"`

	PlayerABoardSlots BoardSlots `json:"player_a_board_slots"`
	PlayerBBoardSlots BoardSlots `json:"player_b_board_slots"`

	// Per-side scores. Redaction strips the opposing side's field before a
	// view leaves the server, hence the pointers.
	PointsPlayerA *int `json:"points_player_a,omitempty"`
	PointsPlayerB *int `json:"points_player_b,omitempty"`

	// IsPlayerA tells the recipient which side of the board is theirs.
	IsPlayerA bool `json:"is_player_a"`
}

// Clone deep-copies the match state, including hands, boards and points.
func (m MatchState) Clone() MatchState {
	out := m
	out.PlayerAHands = m.PlayerAHands.Clone()
	out.PlayerBHands = m.PlayerBHands.Clone()
	out.PlayerABoardSlots = m.PlayerABoardSlots.Clone()
	out.PlayerBBoardSlots = m.PlayerBBoardSlots.Clone()
	if m.PointsPlayerA != nil {
		p := *m.PointsPlayerA
		out.PointsPlayerA = &p
	}
	if m.PointsPlayerB != nil {
		p := *m.PointsPlayerB
		out.PointsPlayerB = &p
	}
	return out
}

type Room struct {
	Id         string     `json:"id"`
	PlayerA    User       `json:"player_a"`
	PlayerB    User       `json:"player_b"`
	MatchState MatchState `json:"match_state"`
	Finished   bool       `json:"finished"`
}

// Clone deep-copies the room so a redacted view can be built without
// touching registry-owned state.
func (r Room) Clone() *Room {
	out := r
	out.MatchState = r.MatchState.Clone()
	return &out
}
