package game

import "github.com/pilfergame/pilfer-backend/internal"

// =============================================================================
// VIEW REDACTION
// =============================================================================

// BuildView produces the per-player copy of an outbound response. The room
// is deep-copied first, then the opposing side's points field is stripped;
// for player B the perspective flag is flipped so the recipient can tell
// which side of the board is theirs. Every NEW_ROOM_SETUP and
// NEXT_ROUND_PART passes through here before leaving the server.
func BuildView(forPlayerA bool, response internal.ServerResponse) internal.ServerResponse {
	out := response
	if response.NewRoom == nil {
		return out
	}

	room := response.NewRoom.Clone()
	if forPlayerA {
		room.MatchState.PointsPlayerB = nil
	} else {
		room.MatchState.IsPlayerA = false
		room.MatchState.PointsPlayerA = nil
	}
	out.NewRoom = room
	return out
}
