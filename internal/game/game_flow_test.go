package game

import (
	"testing"

	"github.com/pilfergame/pilfer-backend/internal"
)

// TestFullMatchFlow walks one end-to-end exchange: two users connect and
// register, get matched, player A places a card and player B steals it.
func TestFullMatchFlow(t *testing.T) {
	h, sender := newTestHub(quietRules())

	h.OnConnect("u1")
	h.OnConnect("u2")
	if err := h.RegisterUser("u1", "alice"); err != nil {
		t.Fatalf("RegisterUser(u1) errored: %v", err)
	}
	if err := h.RegisterUser("u2", "bob"); err != nil {
		t.Fatalf("RegisterUser(u2) errored: %v", err)
	}

	var respA, respB internal.ServerResponse
	_ = h.RequestMatch("u1", func(r internal.ServerResponse) { respA = r })
	_ = h.RequestMatch("u2", func(r internal.ServerResponse) { respB = r })

	if respA.NewRoom == nil || respB.NewRoom == nil {
		t.Fatal("matchmaking did not produce a room for both players")
	}
	roomId := respA.NewRoom.Id
	if roomId != "0" {
		t.Errorf("room id = %q, want %q", roomId, "0")
	}
	if respA.NewRoom.PlayerA.Username != "alice" || respA.NewRoom.PlayerB.Username != "bob" {
		t.Errorf("usernames = %s/%s, want alice/bob",
			respA.NewRoom.PlayerA.Username, respA.NewRoom.PlayerB.Username)
	}

	// Player A plays the card with id 5 into slot 2.
	var played internal.Card
	for _, c := range respA.NewRoom.MatchState.PlayerAHands.Cards {
		if c.Id == 5 {
			played = c
		}
	}
	if played.Id != 5 {
		t.Fatal("card 5 not dealt to player A")
	}
	if err := h.PlaceCard("u1", internal.SlotUpdateData{
		RoomId:   roomId,
		PlayerId: "u1",
		SlotId:   2,
		Card:     &played,
	}); err != nil {
		t.Fatalf("PlaceCard errored: %v", err)
	}

	// Player B raids slot 2 on player A's board.
	if err := h.StealCard("u2", internal.SlotUpdateData{
		RoomId:   roomId,
		PlayerId: "u2",
		SlotId:   2,
	}); err != nil {
		t.Fatalf("StealCard errored: %v", err)
	}

	msgs := sender.messages("u2")
	if len(msgs) != 1 {
		t.Fatalf("thief received %d messages, want 1", len(msgs))
	}
	result := msgs[0].(internal.Message[internal.StealResultData])
	if result.Data.ResultCard == nil || result.Data.ResultCard.Id != 5 {
		t.Fatalf("steal result = %+v, want card 5", result.Data.ResultCard)
	}

	room, _ := h.registry.Get(roomId)
	if room.MatchState.PlayerABoardSlots[2] != nil {
		t.Error("player A slot 2 not emptied by the steal")
	}
	inHand := false
	for _, c := range room.MatchState.PlayerBHands.Cards {
		if c.Id == 5 {
			inHand = true
		}
	}
	if !inHand {
		t.Error("card 5 missing from player B's hand after the steal")
	}
	for _, c := range room.MatchState.PlayerAHands.Cards {
		if c.Id == 5 {
			t.Error("card 5 still in player A's hand")
		}
	}
}
