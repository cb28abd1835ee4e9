package game

import (
	"math/rand"
	"time"

	"github.com/pilfergame/pilfer-backend/internal"
)

// =============================================================================
// ROUND RULES & DEALING
// =============================================================================

// Rules fixes the round-part sequence, the per-part durations and the size
// of the starting deal. The default table drives production play; tests
// construct shorter ones.
type Rules struct {
	PartOrder    []internal.RoundState
	PartDuration map[internal.RoundState]time.Duration
	MaxRounds    int
	HandSize     int
}

func DefaultRules() *Rules {
	return &Rules{
		PartOrder: []internal.RoundState{
			internal.RoundStateRoundStart,
			internal.RoundStateCardPlacement,
			internal.RoundStateStealWindow,
		},
		PartDuration: map[internal.RoundState]time.Duration{
			internal.RoundStateRoundStart:    internal.RoundStartDuration,
			internal.RoundStateCardPlacement: internal.CardPlacementDuration,
			internal.RoundStateStealWindow:   internal.StealWindowDuration,
		},
		MaxRounds: internal.MaxRounds,
		HandSize:  internal.StartingHandSize,
	}
}

// PartTimer returns the duration of a round part. Terminal parts are not in
// the table and get zero, which makes the follow-up firing immediate.
func (r *Rules) PartTimer(state internal.RoundState) time.Duration {
	return r.PartDuration[state]
}

// NextRoundPart computes the state after the current round part expires.
// Wrapping past the last part increments the round counter; once the
// counter reaches MaxRounds the match goes to IS_GAME_OVER. The input is
// never modified; player actions go nowhere near this function.
func (r *Rules) NextRoundPart(state internal.MatchState) internal.MatchState {
	next := state.Clone()
	if state.RoundState.Terminal() {
		return next
	}

	idx := -1
	for i, part := range r.PartOrder {
		if part == state.RoundState {
			idx = i
			break
		}
	}
	if idx == -1 {
		next.RoundState = internal.RoundStateUnknown
		next.RoundPartTimerMilliseconds = 0
		return next
	}

	idx++
	if idx == len(r.PartOrder) {
		idx = 0
		next.Round++
	}
	if next.Round >= r.MaxRounds {
		next.RoundState = internal.RoundStateGameOver
		next.RoundPartTimerMilliseconds = 0
		return next
	}

	next.RoundState = r.PartOrder[idx]
	next.RoundPartTimerMilliseconds = r.PartTimer(next.RoundState).Milliseconds()
	return next
}

// DealStartingHands builds both starting hands with card ids unique across
// the whole match: player A gets ids [0, size), player B [size, 2*size).
func DealStartingHands(size int) (internal.PlayerHand, internal.PlayerHand) {
	deal := func(firstId int) internal.PlayerHand {
		cards := make([]internal.Card, 0, size)
		for i := 0; i < size; i++ {
			cards = append(cards, internal.Card{
				Id:    firstId + i,
				Suit:  internal.Suits[i%len(internal.Suits)],
				Value: rand.Intn(internal.CardValueRange),
				Level: 0,
			})
		}
		return internal.PlayerHand{Cards: cards}
	}
	return deal(0), deal(size)
}

// NewMatchState builds the opening snapshot for a fresh room.
func (r *Rules) NewMatchState() internal.MatchState {
	handA, handB := DealStartingHands(r.HandSize)
	pointsA, pointsB := 0, 0
	opening := r.PartOrder[0]
	return internal.MatchState{
		Round:                      0,
		RoundState:                 opening,
		RoundPartTimerMilliseconds: r.PartTimer(opening).Milliseconds(),
		PlayerAHands:               handA,
		PlayerBHands:               handB,
		PointsPlayerA:              &pointsA,
		PointsPlayerB:              &pointsB,
		IsPlayerA:                  true,
	}
}
