package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/pilfergame/pilfer-backend/internal"
)

// =============================================================================
// HUB - USERS & MATCHMAKING
// =============================================================================

var (
	ErrUnregistered     = errors.New("user has not connected")
	ErrUnknownRoom      = errors.New("no room found for room id")
	ErrIdentityMismatch = errors.New("player id does not match connection id")
	ErrNotInRoom        = errors.New("player is not part of the room")
	ErrSlotOutOfRange   = errors.New("slot index out of range")
	ErrMissingCard      = errors.New("slot update carries no card")
)

// Sender delivers one outbound message to one connection. The websocket
// connection table implements it; tests substitute a recording fake.
type Sender interface {
	Send(userId string, msg any)
}

// ResponseSink is the one-shot callback a match request carries; it
// receives that connection's own redacted room-setup payload.
type ResponseSink func(resp internal.ServerResponse)

// ResultStore archives finished matches. It is optional and write-only:
// live play never reads from it.
type ResultStore interface {
	SaveMatchResult(ctx context.Context, room *internal.Room) error
}

type waitingEntry struct {
	userId string
	sink   ResponseSink
}

// Hub owns the user map, the matchmaking queue and the room registry, and
// validates and applies every player action. One hub is constructed at
// process start and handed to the transport layer; there are no package
// level maps.
type Hub struct {
	mu      sync.Mutex
	users   map[string]*internal.User
	waiting []waitingEntry
	userSeq int

	registry *Registry
	rules    *Rules
	sender   Sender
	store    ResultStore
}

func NewHub(rules *Rules, sender Sender) *Hub {
	return &Hub{
		users:    make(map[string]*internal.User),
		registry: NewRegistry(),
		rules:    rules,
		sender:   sender,
	}
}

// WithStore attaches a finished-match archive to the hub.
func (h *Hub) WithStore(store ResultStore) *Hub {
	h.store = store
	return h
}

// OnConnect records a new connection under a placeholder username. User
// records live for the whole process; a reconnect under a known id only
// flips the connected flag back on.
func (h *Hub) OnConnect(connId string) internal.User {
	h.mu.Lock()
	defer h.mu.Unlock()

	if user, ok := h.users[connId]; ok {
		user.Connected = true
		return *user
	}

	username := fmt.Sprintf("loser_%d", h.userSeq)
	h.userSeq++
	user := &internal.User{Id: connId, Username: username, Connected: true}
	h.users[connId] = user
	log.Printf("[OnConnect] connection %s registered as %q", connId, username)
	return *user
}

// RegisterUser updates the username chosen by the client. An empty
// username keeps the placeholder, matching the join flow of the client.
func (h *Hub) RegisterUser(connId, username string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	user, ok := h.users[connId]
	if !ok {
		log.Printf("[RegisterUser] %s: user has not connected before registering", connId)
		return ErrUnregistered
	}
	if username == "" {
		log.Printf("[RegisterUser] %s: no username supplied, keeping %q", connId, user.Username)
		return nil
	}
	user.Username = username
	log.Printf("[RegisterUser] %s is now %q", connId, username)
	return nil
}

// OnDisconnect marks the user gone and removes any pending matchmaking
// entry. The user record itself is retained so rooms can detect that both
// sides have left.
func (h *Hub) OnDisconnect(connId string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if user, ok := h.users[connId]; ok {
		user.Connected = false
	}
	for i, w := range h.waiting {
		if w.userId == connId {
			h.waiting = append(h.waiting[:i], h.waiting[i+1:]...)
			log.Printf("[OnDisconnect] removed %s from the matchmaking queue", connId)
			break
		}
	}
	log.Printf("[OnDisconnect] connection %s gone", connId)
}

// RequestMatch queues the caller, or pairs it with the longest-waiting
// user. On a pairing the waiting user becomes player A, the requester
// player B; both sinks receive their side-specific view of the fresh room
// and the round timer starts.
func (h *Hub) RequestMatch(connId string, sink ResponseSink) error {
	h.mu.Lock()

	requester, ok := h.users[connId]
	if !ok {
		h.mu.Unlock()
		log.Printf("[RequestMatch] %s: unregistered caller, dropping", connId)
		return ErrUnregistered
	}
	for _, w := range h.waiting {
		if w.userId == connId {
			h.mu.Unlock()
			log.Printf("[RequestMatch] %s is already waiting, ignoring duplicate request", connId)
			return nil
		}
	}
	if len(h.waiting) == 0 {
		h.waiting = append(h.waiting, waitingEntry{userId: connId, sink: sink})
		h.mu.Unlock()
		log.Printf("[RequestMatch] %s is waiting for an opponent", connId)
		return nil
	}

	other := h.waiting[0]
	h.waiting = h.waiting[1:]
	playerA := *h.users[other.userId]
	playerB := *requester
	h.mu.Unlock()

	room := &internal.Room{
		Id:         h.registry.NextId(),
		PlayerA:    playerA,
		PlayerB:    playerB,
		MatchState: h.rules.NewMatchState(),
	}
	h.registry.Put(room)
	log.Printf("[RequestMatch] paired %s (A) with %s (B) in room %s", playerA.Id, playerB.Id, room.Id)

	response := internal.ServerResponse{Matter: internal.MatterNewRoomSetup, NewRoom: room.Clone()}
	other.sink(BuildView(true, response))
	sink(BuildView(false, response))

	h.startRoundPartTimer(room.Id, h.rules.PartTimer(room.MatchState.RoundState))
	return nil
}

// checkActor enforces the identity constraint shared by both actions: the
// acting connection must be a registered user and must be the player it
// claims to act as.
func (h *Hub) checkActor(connId, playerId string) error {
	h.mu.Lock()
	_, ok := h.users[connId]
	h.mu.Unlock()

	if !ok {
		log.Printf("[checkActor] %s: unregistered caller, dropping intent", connId)
		return ErrUnregistered
	}
	if connId != playerId {
		log.Printf("[checkActor] player id %s does not match connection %s, dropping intent", playerId, connId)
		return ErrIdentityMismatch
	}
	return nil
}

// connectedUser reports whether the user id has a live connection.
func (h *Hub) connectedUser(userId string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	user, ok := h.users[userId]
	return ok && user.Connected
}
