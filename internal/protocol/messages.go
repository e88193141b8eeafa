package protocol

import (
	"github.com/google/uuid"

	"github.com/halcyon-games/armada/internal/models"
)

// Command types accepted from clients.
const (
	CmdReg           = "reg"
	CmdCreateRoom    = "create_room"
	CmdAddUserToRoom = "add_user_to_room"
	CmdAddShips      = "add_ships"
	CmdAttack        = "attack"
	CmdRandomAttack  = "randomAttack"
	CmdSinglePlay    = "single_play"
)

// Response and broadcast types sent to clients.
const (
	RespReg           = "reg"
	RespUpdateRoom    = "update_room"
	RespCreateGame    = "create_game"
	RespStartGame     = "start_game"
	RespAttack        = "attack"
	RespTurn          = "turn"
	RespFinish        = "finish"
	RespUpdateWinners = "update_winners"
	RespError         = "error"
)

// Finish reasons reported alongside the winner.
const (
	ReasonAllShipsSunk         = "all_ships_sunk"
	ReasonOpponentDisconnected = "opponent_disconnected"
)

// RegRequest is the payload of a reg command.
type RegRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegResponse answers a reg command, successful or not.
type RegResponse struct {
	Name      string    `json:"name"`
	Index     uuid.UUID `json:"index"`
	Error     bool      `json:"error"`
	ErrorText string    `json:"errorText"`
}

// AddUserToRoomRequest names the room the caller wants to join.
type AddUserToRoomRequest struct {
	IndexRoom uuid.UUID `json:"indexRoom"`
}

// AddShipsRequest submits a player's fleet for a match.
type AddShipsRequest struct {
	GameID      uuid.UUID     `json:"gameId"`
	IndexPlayer uuid.UUID     `json:"indexPlayer"`
	Ships       []models.Ship `json:"ships"`
}

// AttackRequest targets a single cell of the opponent's board.
type AttackRequest struct {
	GameID      uuid.UUID `json:"gameId"`
	IndexPlayer uuid.UUID `json:"indexPlayer"`
	X           int       `json:"x"`
	Y           int       `json:"y"`
}

// RandomAttackRequest asks the server to pick the target cell.
type RandomAttackRequest struct {
	GameID      uuid.UUID `json:"gameId"`
	IndexPlayer uuid.UUID `json:"indexPlayer"`
}

// CreateGameResponse tells one participant their match and player ids.
type CreateGameResponse struct {
	IDGame   uuid.UUID `json:"idGame"`
	IDPlayer uuid.UUID `json:"idPlayer"`
}

// StartGameResponse echoes the recipient's own fleet and the id of the
// side that moves first.
type StartGameResponse struct {
	Ships              []models.Ship `json:"ships"`
	CurrentPlayerIndex uuid.UUID     `json:"currentPlayerIndex"`
}

// AttackResponse reports a resolved attack to both sides.
type AttackResponse struct {
	Position      models.Position `json:"position"`
	CurrentPlayer uuid.UUID       `json:"currentPlayer"`
	Status        string          `json:"status"`
}

// TurnResponse announces which side may attack next.
type TurnResponse struct {
	CurrentPlayer uuid.UUID `json:"currentPlayer"`
}

// FinishResponse announces the winner of a finished match.
type FinishResponse struct {
	WinPlayer uuid.UUID `json:"winPlayer"`
	Reason    string    `json:"reason,omitempty"`
}

// WinnerEntry is one leaderboard row in an update_winners broadcast.
type WinnerEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// ErrorResponse is the single-shot error reply for any rejected command.
type ErrorResponse struct {
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
}
