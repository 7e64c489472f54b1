package game

import (
	"fmt"

	"github.com/beka-birhanu/maze-craze/game/maze"
)

// EventKind identifies what an Event asks the session to do.
type EventKind uint8

const (
	PlayerConnected EventKind = iota + 1
	PlayerDisconnected
	PlayerMove
	RestartRequested
)

func (k EventKind) String() string {
	switch k {
	case PlayerConnected:
		return "connect"
	case PlayerDisconnected:
		return "disconnect"
	case PlayerMove:
		return "move"
	case RestartRequested:
		return "restart"
	default:
		return fmt.Sprintf("EventKind(%d)", k)
	}
}

// Event is a request queued into a session by a listener.
type Event struct {
	Kind      EventKind
	Player    string         // Name of the player, empty for RestartRequested.
	Direction maze.Direction // Only meaningful for PlayerMove.
}

func ConnectEvent(name string) Event {
	return Event{Kind: PlayerConnected, Player: name}
}

func DisconnectEvent(name string) Event {
	return Event{Kind: PlayerDisconnected, Player: name}
}

func MoveEvent(name string, dir maze.Direction) Event {
	return Event{Kind: PlayerMove, Player: name, Direction: dir}
}

func RestartEvent() Event {
	return Event{Kind: RestartRequested}
}
