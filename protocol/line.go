/*
Package protocol decodes the colon separated text commands players send.

A command is a single line:

	name:connect
	name:disconnect
	name:move:up|right|down|left
	name:up|right|down|left    (short move form)

Whitespace around fields is ignored. Lines that do not decode are reported with an
error so listeners can drop them.
*/
package protocol

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/beka-birhanu/maze-craze/game"
	"github.com/beka-birhanu/maze-craze/game/maze"
)

const (
	separator = ":"

	actionConnect    = "connect"
	actionDisconnect = "disconnect"
	actionMove       = "move"
)

// Decode errors.
var (
	ErrMalformedLine    = errors.New("malformed command line")
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrInvalidEncoding  = errors.New("command is not valid UTF-8")
)

// DecodeBytes validates the encoding of b before decoding it.
func DecodeBytes(b []byte) (game.Event, error) {
	if !utf8.Valid(b) {
		return game.Event{}, ErrInvalidEncoding
	}
	return Decode(string(b))
}

// Decode parses one command line into a session event.
func Decode(line string) (game.Event, error) {
	if !utf8.ValidString(line) {
		return game.Event{}, ErrInvalidEncoding
	}

	parts := strings.Split(strings.TrimSpace(line), separator)
	if len(parts) < 2 || len(parts) > 3 {
		return game.Event{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	name := firstField(parts[0])
	action := strings.ToLower(firstField(parts[1]))
	if name == "" || action == "" {
		return game.Event{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	if len(parts) == 3 {
		if action != actionMove {
			return game.Event{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
		dir, err := maze.ParseDirection(firstField(parts[2]))
		if err != nil {
			return game.Event{}, fmt.Errorf("%w: %q", ErrUnknownDirection, parts[2])
		}
		return game.MoveEvent(name, dir), nil
	}

	switch action {
	case actionConnect:
		return game.ConnectEvent(name), nil
	case actionDisconnect:
		return game.DisconnectEvent(name), nil
	case actionMove:
		return game.Event{}, fmt.Errorf("%w: move without direction", ErrMalformedLine)
	}

	if dir, err := maze.ParseDirection(action); err == nil {
		return game.MoveEvent(name, dir), nil
	}
	return game.Event{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// Encode renders e in its canonical line form, without the trailing newline.
func Encode(e game.Event) (string, error) {
	if e.Player == "" || strings.ContainsAny(e.Player, separator+" \t\r\n") {
		return "", fmt.Errorf("%w: player %q", ErrMalformedLine, e.Player)
	}

	switch e.Kind {
	case game.PlayerConnected:
		return e.Player + separator + actionConnect, nil
	case game.PlayerDisconnected:
		return e.Player + separator + actionDisconnect, nil
	case game.PlayerMove:
		return e.Player + separator + actionMove + separator + e.Direction.String(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, e.Kind)
	}
}

// firstField returns the first whitespace separated token of s.
func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
