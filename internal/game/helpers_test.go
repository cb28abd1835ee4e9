package game

import (
	"sync"
	"time"

	"github.com/pilfergame/pilfer-backend/internal"
)

// fakeSender records every outbound message per recipient so tests can
// assert on delivery without a real websocket.
type fakeSender struct {
	mu   sync.Mutex
	sent map[string][]any
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[string][]any)}
}

func (f *fakeSender) Send(userId string, msg any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[userId] = append(f.sent[userId], msg)
}

func (f *fakeSender) messages(userId string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.sent[userId]...)
}

func (f *fakeSender) count(userId string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent[userId])
}

// quietRules keeps round parts long enough that no timer fires during a
// test that only exercises matchmaking or actions.
func quietRules() *Rules {
	return &Rules{
		PartOrder: []internal.RoundState{
			internal.RoundStateRoundStart,
			internal.RoundStateCardPlacement,
			internal.RoundStateStealWindow,
		},
		PartDuration: map[internal.RoundState]time.Duration{
			internal.RoundStateRoundStart:    time.Hour,
			internal.RoundStateCardPlacement: time.Hour,
			internal.RoundStateStealWindow:   time.Hour,
		},
		MaxRounds: internal.MaxRounds,
		HandSize:  internal.StartingHandSize,
	}
}

func newTestHub(rules *Rules) (*Hub, *fakeSender) {
	sender := newFakeSender()
	return NewHub(rules, sender), sender
}

// pairUsers connects and registers two users and matches them into the
// first room, returning the redacted setup responses each side received.
func pairUsers(h *Hub, idA, idB string) (respA, respB internal.ServerResponse) {
	h.OnConnect(idA)
	h.OnConnect(idB)

	sinkFor := func(out *internal.ServerResponse) ResponseSink {
		return func(resp internal.ServerResponse) { *out = resp }
	}
	_ = h.RequestMatch(idA, sinkFor(&respA))
	_ = h.RequestMatch(idB, sinkFor(&respB))
	return respA, respB
}
