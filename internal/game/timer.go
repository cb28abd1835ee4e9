package game

import (
	"context"
	"log"
	"time"

	"github.com/pilfergame/pilfer-backend/internal"
)

// =============================================================================
// ROUND PART TIMER
// =============================================================================

// startRoundPartTimer schedules the next round-part advance for a room.
// Only the room id is captured: every firing re-fetches the room from the
// registry, so a tick can never write a stale snapshot back over a player
// action that landed in between.
func (h *Hub) startRoundPartTimer(roomId string, after time.Duration) {
	time.AfterFunc(after, func() {
		h.advanceRoundPart(roomId)
	})
}

// advanceRoundPart is the recurring timer body. Terminal phase (or a room
// abandoned by both players) finishes the room and stops the chain;
// otherwise the phase advances, both players get their redacted view and
// the next firing is scheduled with the new phase's duration. This is the
// only place rounds move forward.
func (h *Hub) advanceRoundPart(roomId string) {
	snapshot, ok := h.registry.Get(roomId)
	if !ok {
		log.Printf("[advanceRoundPart] no room found for room id %s, stopping timer", roomId)
		return
	}
	if snapshot.Finished {
		return
	}

	abandoned := !h.connectedUser(snapshot.PlayerA.Id) && !h.connectedUser(snapshot.PlayerB.Id)

	var (
		finished  *internal.Room
		response  *internal.ServerResponse
		nextDelay time.Duration
	)
	_, _ = h.registry.Update(roomId, func(room *internal.Room) error {
		if room.Finished {
			return nil
		}
		if room.MatchState.RoundState.Terminal() || abandoned {
			room.Finished = true
			finished = room.Clone()
			return nil
		}

		room.MatchState = h.rules.NextRoundPart(room.MatchState)
		nextDelay = h.rules.PartTimer(room.MatchState.RoundState)
		response = &internal.ServerResponse{
			Matter:  internal.MatterNextRoundPart,
			NewRoom: room.Clone(),
		}
		return nil
	})

	if finished != nil {
		if abandoned {
			log.Printf("[advanceRoundPart] room %s abandoned by both players, finishing early", roomId)
		} else {
			log.Printf("[advanceRoundPart] room %s reached %s, finished", roomId, finished.MatchState.RoundState)
		}
		h.archiveMatch(finished)
		return
	}
	if response == nil {
		return
	}

	h.sender.Send(snapshot.PlayerA.Id, internal.Message[internal.ServerResponse]{
		Type: "response",
		Data: BuildView(true, *response),
	})
	h.sender.Send(snapshot.PlayerB.Id, internal.Message[internal.ServerResponse]{
		Type: "response",
		Data: BuildView(false, *response),
	})

	h.startRoundPartTimer(roomId, nextDelay)
}

// archiveMatch hands a finished room to the result store, off the timer
// path. Archive failures are logged and otherwise ignored; play state is
// in-memory only.
func (h *Hub) archiveMatch(room *internal.Room) {
	if h.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.store.SaveMatchResult(ctx, room); err != nil {
			log.Printf("[archiveMatch] failed to archive room %s: %v", room.Id, err)
		}
	}()
}
