package contract

import (
	"encoding/json"

	"github.com/Cherrypick14/polkadot-hot-potato/sdk"
)

// Event represents the common structure for all emitted events.
// Each event has a type and a set of key/value attributes.
//
// Events are returned to the host alongside every state transition as
// pending notifications; delivery is the host's concern. Each event is
// also mirrored to the host log as JSON so chain hosts can pick them up
// without inspecting call results.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Event type tags.
const (
	EventGameStarted  = "gameStarted"
	EventPotatoPassed = "potatoPassed"
	EventPotatoBurned = "potatoBurned"
	EventGameEnded    = "gameEnded"
)

// GameStartedEvent records a new round: who started it, who received the
// potato, and the height the deadline counts from.
func GameStartedEvent(starter, to sdk.Address, height uint64) Event {
	return Event{
		Type: EventGameStarted,
		Attributes: map[string]string{
			"starter": starter.String(),
			"holder":  to.String(),
			"block":   uintToString(height),
		},
	}
}

// PotatoPassedEvent records a custody transfer within the deadline window.
func PotatoPassedEvent(from, to sdk.Address, height uint64) Event {
	return Event{
		Type: EventPotatoPassed,
		Attributes: map[string]string{
			"from":  from.String(),
			"to":    to.String(),
			"block": uintToString(height),
		},
	}
}

// PotatoBurnedEvent records an elimination: the holder kept the potato past
// the deadline and the round is over.
func PotatoBurnedEvent(eliminated sdk.Address, height uint64) Event {
	return Event{
		Type: EventPotatoBurned,
		Attributes: map[string]string{
			"eliminated": eliminated.String(),
			"block":      uintToString(height),
		},
	}
}

// GameEndedEvent records a manual termination by the starter.
func GameEndedEvent(starter sdk.Address, height uint64) Event {
	return Event{
		Type: EventGameEnded,
		Attributes: map[string]string{
			"starter": starter.String(),
			"block":   uintToString(height),
		},
	}
}

// emitEvent mirrors an event to the host log as JSON.
func emitEvent(host sdk.Host, ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	host.Log(string(b))
}
