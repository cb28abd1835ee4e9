package game

import (
	"errors"
	"testing"

	"github.com/pilfergame/pilfer-backend/internal"
)

func TestRegistryNextId(t *testing.T) {
	reg := NewRegistry()

	for i, want := range []string{"0", "1", "2"} {
		if got := reg.NextId(); got != want {
			t.Errorf("id %d = %q, want %q", i, got, want)
		}
	}
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	points := 5
	reg.Put(&internal.Room{
		Id: "0",
		MatchState: internal.MatchState{
			PlayerAHands:  internal.PlayerHand{Cards: []internal.Card{{Id: 1}}},
			PointsPlayerA: &points,
		},
	})

	snapshot, ok := reg.Get("0")
	if !ok {
		t.Fatal("room not found")
	}

	// Mutating the snapshot must not touch the stored room.
	snapshot.MatchState.PlayerAHands.Cards[0].Id = 99
	*snapshot.MatchState.PointsPlayerA = 42
	snapshot.Finished = true

	stored, _ := reg.Get("0")
	if stored.MatchState.PlayerAHands.Cards[0].Id != 1 {
		t.Error("hand mutation leaked into the registry")
	}
	if *stored.MatchState.PointsPlayerA != 5 {
		t.Error("points mutation leaked into the registry")
	}
	if stored.Finished {
		t.Error("finished flag mutation leaked into the registry")
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Get("missing"); ok {
		t.Error("Get reported an unknown room as present")
	}
}

func TestRegistryUpdate(t *testing.T) {
	reg := NewRegistry()
	reg.Put(&internal.Room{Id: "0"})

	found, err := reg.Update("0", func(room *internal.Room) error {
		room.MatchState.Round = 2
		return nil
	})
	if !found || err != nil {
		t.Fatalf("Update = (%v, %v), want (true, nil)", found, err)
	}
	room, _ := reg.Get("0")
	if room.MatchState.Round != 2 {
		t.Errorf("round = %d, want 2", room.MatchState.Round)
	}

	sentinel := errors.New("boom")
	found, err = reg.Update("0", func(*internal.Room) error { return sentinel })
	if !found || !errors.Is(err, sentinel) {
		t.Errorf("Update = (%v, %v), want (true, sentinel)", found, err)
	}

	found, err = reg.Update("missing", func(*internal.Room) error {
		t.Error("fn must not run for an unknown room")
		return nil
	})
	if found || err != nil {
		t.Errorf("Update = (%v, %v), want (false, nil)", found, err)
	}
}

func TestRegistryMarkFinishedAndDelete(t *testing.T) {
	reg := NewRegistry()
	reg.Put(&internal.Room{Id: "0"})

	if !reg.MarkFinished("0") {
		t.Fatal("MarkFinished reported the room missing")
	}
	room, _ := reg.Get("0")
	if !room.Finished {
		t.Error("room not marked finished")
	}
	if reg.MarkFinished("missing") {
		t.Error("MarkFinished reported an unknown room as present")
	}

	reg.Delete("0")
	if _, ok := reg.Get("0"); ok {
		t.Error("room still present after Delete")
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}
