package game

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pilfergame/pilfer-backend/internal"
)

// =============================================================================
// WEBSOCKET TRANSPORT GLUE
// =============================================================================

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes to a single websocket; gorilla connections do
// not support concurrent writers.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) safeWriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// ConnTable is the per-recipient delivery primitive: connection id to live
// socket. It implements Sender for the hub.
type ConnTable struct {
	mu    sync.RWMutex
	conns map[string]*wsConn
}

func NewConnTable() *ConnTable {
	return &ConnTable{conns: make(map[string]*wsConn)}
}

func (t *ConnTable) add(connId string, conn *websocket.Conn) *wsConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry := &wsConn{conn: conn}
	t.conns[connId] = entry
	return entry
}

func (t *ConnTable) remove(connId string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.conns, connId)
}

// Send implements Sender. A missing or failing connection drops the
// message; the core never blocks on delivery.
func (t *ConnTable) Send(userId string, msg any) {
	t.mu.RLock()
	entry, ok := t.conns[userId]
	t.mu.RUnlock()

	if !ok {
		log.Printf("[Send] no connection for user %s, dropping message", userId)
		return
	}
	if err := entry.safeWriteJSON(msg); err != nil {
		log.Printf("[Send] write to %s failed: %v", userId, err)
	}
}

// HandleWebSocket upgrades the HTTP connection, registers the user under a
// fresh connection id and starts the read loop.
func (h *Hub) HandleWebSocket(table *ConnTable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("Upgrade failed: ", err)
			return
		}

		connId := uuid.NewString()
		entry := table.add(connId, conn)
		user := h.OnConnect(connId)

		// The client needs its server-assigned id to fill player_id on
		// later intents.
		if err := entry.safeWriteJSON(internal.Message[internal.User]{Type: "welcome", Data: user}); err != nil {
			log.Printf("[HandleWebSocket] failed to send welcome to %s: %v", connId, err)
		}

		go h.handleMessages(table, connId, conn)
	}
}

// handleMessages reads and dispatches client intents until the connection
// goes away. Malformed payloads are logged and skipped; the core's own
// validation handles the rest.
func (h *Hub) handleMessages(table *ConnTable, connId string, conn *websocket.Conn) {
	defer func() {
		conn.Close()
		table.remove(connId)
		h.OnDisconnect(connId)
	}()

	for {
		_, rawMessage, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Read error for connection %s: %v", connId, err)
			break
		}

		var baseMsg internal.Message[json.RawMessage]
		if err := json.Unmarshal(rawMessage, &baseMsg); err != nil {
			log.Printf("Failed to parse base message: %v", err)
			continue
		}
		log.Printf("Received message type: %s from connection: %s", baseMsg.Type, connId)

		switch baseMsg.Type {
		case "register_user":
			var data internal.RegisterUserData
			if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
				log.Println("Error parsing data, wrong json", err)
				continue
			}
			_ = h.RegisterUser(connId, data.Username)

		case "join_game_request":
			_ = h.RequestMatch(connId, func(resp internal.ServerResponse) {
				table.Send(connId, internal.Message[internal.ServerResponse]{Type: "response", Data: resp})
			})

		case "slot_update_event":
			var data internal.SlotUpdateData
			if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
				log.Println("Error parsing data, wrong json", err)
				continue
			}
			_ = h.PlaceCard(connId, data)

		case "steal_slot_update_event":
			var data internal.SlotUpdateData
			if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
				log.Println("Error parsing data, wrong json", err)
				continue
			}
			_ = h.StealCard(connId, data)

		default:
			log.Printf("Unknown message type: %s", baseMsg.Type)
		}
	}
}
