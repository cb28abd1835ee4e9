package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// ServerResponseMatter distinguishes the payloads delivered through the
// generic "response" channel back to a client.
type ServerResponseMatter string

const (
	MatterNewRoomSetup  ServerResponseMatter = "NEW_ROOM_SETUP"
	MatterNextRoundPart ServerResponseMatter = "NEXT_ROUND_PART"
)

type ServerResponse struct {
	Matter  ServerResponseMatter `json:"matter"`
	NewRoom *Room                `json:"new_room,omitempty"`
}

type RegisterUserData struct {
	Username string `json:"username"`
}

// SlotUpdateData carries both the place intent (Card set) and the steal
// intent (Card nil, SlotId addressing the opponent's board).
type SlotUpdateData struct {
	RoomId   string `json:"room_id"`
	PlayerId string `json:"player_id"`
	SlotId   int    `json:"slot_id"`
	Card     *Card  `json:"card,omitempty"`
}

type StealResultData struct {
	ResultCard *Card `json:"result_card"`
	SlotId     int   `json:"slot_id"`
}
