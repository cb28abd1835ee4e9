package game

import (
	"log"

	"github.com/pilfergame/pilfer-backend/internal"
)

// =============================================================================
// ACTION ENGINE - PLACE & STEAL
// =============================================================================

// PlaceCard writes the card into the acting side's board slot and removes
// the matching id from that side's hand. A non-empty target slot is
// replaced; the client relies on overwrite semantics. No broadcast happens
// here, opponents see the board on the next round-part tick.
func (h *Hub) PlaceCard(connId string, update internal.SlotUpdateData) error {
	if err := h.checkActor(connId, update.PlayerId); err != nil {
		return err
	}
	if update.Card == nil {
		log.Printf("[PlaceCard] %s: slot update without a card, dropping", connId)
		return ErrMissingCard
	}
	if update.SlotId < 0 || update.SlotId >= internal.BoardSlotCount {
		log.Printf("[PlaceCard] %s: slot %d out of range, dropping", connId, update.SlotId)
		return ErrSlotOutOfRange
	}

	found, err := h.registry.Update(update.RoomId, func(room *internal.Room) error {
		isPlayerA, member := sideOf(room, update.PlayerId)
		if !member {
			log.Printf("[PlaceCard] %s is not part of room %s, dropping", update.PlayerId, room.Id)
			return ErrNotInRoom
		}

		card := *update.Card
		state := &room.MatchState
		if isPlayerA {
			state.PlayerABoardSlots[update.SlotId] = &card
			state.PlayerAHands.Cards = removeCardId(state.PlayerAHands.Cards, card.Id)
		} else {
			state.PlayerBBoardSlots[update.SlotId] = &card
			state.PlayerBHands.Cards = removeCardId(state.PlayerBHands.Cards, card.Id)
		}
		return nil
	})
	if !found {
		log.Printf("[PlaceCard] no room found for room id %s", update.RoomId)
		return ErrUnknownRoom
	}
	return err
}

// StealCard clears the addressed slot on the opponent's board and, when a
// card was there, appends it to the acting side's hand. The result goes to
// the acting connection only; an empty slot yields a nil result card.
func (h *Hub) StealCard(connId string, update internal.SlotUpdateData) error {
	if err := h.checkActor(connId, update.PlayerId); err != nil {
		return err
	}
	if update.SlotId < 0 || update.SlotId >= internal.BoardSlotCount {
		log.Printf("[StealCard] %s: slot %d out of range, dropping", connId, update.SlotId)
		return ErrSlotOutOfRange
	}

	var stolen *internal.Card
	found, err := h.registry.Update(update.RoomId, func(room *internal.Room) error {
		isPlayerA, member := sideOf(room, update.PlayerId)
		if !member {
			log.Printf("[StealCard] %s is not part of room %s, dropping", update.PlayerId, room.Id)
			return ErrNotInRoom
		}

		state := &room.MatchState
		myHand := &state.PlayerAHands
		theirSlots := &state.PlayerBBoardSlots
		if !isPlayerA {
			myHand = &state.PlayerBHands
			theirSlots = &state.PlayerABoardSlots
		}

		if prior := theirSlots[update.SlotId]; prior != nil {
			card := *prior
			theirSlots[update.SlotId] = nil
			myHand.Cards = append(myHand.Cards, card)
			stolen = &card
		}
		return nil
	})
	if !found {
		log.Printf("[StealCard] no room found for room id %s", update.RoomId)
		return ErrUnknownRoom
	}
	if err != nil {
		return err
	}

	h.sender.Send(connId, internal.Message[internal.StealResultData]{
		Type: "steal_slot_result",
		Data: internal.StealResultData{ResultCard: stolen, SlotId: update.SlotId},
	})
	return nil
}

// sideOf resolves which side of the room a player id belongs to.
func sideOf(room *internal.Room, playerId string) (isPlayerA, member bool) {
	switch playerId {
	case room.PlayerA.Id:
		return true, true
	case room.PlayerB.Id:
		return false, true
	default:
		return false, false
	}
}

// removeCardId filters a card id out of a hand. Removing an id that is not
// present leaves the hand as it was.
func removeCardId(cards []internal.Card, id int) []internal.Card {
	updated := make([]internal.Card, 0, len(cards))
	for _, card := range cards {
		if card.Id == id {
			continue
		}
		updated = append(updated, card)
	}
	return updated
}

// MergeCards folds two cards of the acting player into one, treating
// (value, level) as a base-13 number. The merged card keeps the first
// card's suit and id, so a caller that adds the result to a hand while the
// inputs still exist must reissue the id first. Not called by the steal
// path; the merge rule is not live yet.
func MergeCards(cardA, cardB internal.Card) internal.Card {
	baseA := cardA.Value + pow(internal.CardValueRange, cardA.Level)
	merged := cardB.Value + pow(internal.CardValueRange, cardB.Level) + baseA - 1
	return internal.Card{
		Id:    cardA.Id,
		Suit:  cardA.Suit,
		Value: merged % internal.CardValueRange,
		Level: merged / internal.CardValueRange,
	}
}

func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
