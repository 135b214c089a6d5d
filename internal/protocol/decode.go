package protocol

import (
	"encoding/json"
	"fmt"
)

// ErrUnknownCommand is returned by Decode for message types the engine does
// not understand. Callers treat it as a protocol error: log and drop.
type ErrUnknownCommand struct {
	Type string
}

func (e *ErrUnknownCommand) Error() string {
	return fmt.Sprintf("unknown command type: %s", e.Type)
}

type envelope struct {
	Type string `json:"type"`
}

// Decode parses a single inbound message into its command struct.
func Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing command envelope: %w", err)
	}

	var cmd any
	switch env.Type {
	case "Move":
		cmd = &Move{}
	case "CombatAction":
		cmd = &CombatAction{}
	case "ChooseStarter":
		cmd = &ChooseStarter{}
	case "JoinPvPQueue":
		cmd = &JoinPvPQueue{}
	case "LeavePvPQueue":
		cmd = &LeavePvPQueue{}
	case "EnterCombat":
		cmd = &EnterCombat{}
	case "JoinPvEEncounter":
		cmd = &JoinPvEEncounter{}
	case "Forfeit":
		cmd = &Forfeit{}
	default:
		return nil, &ErrUnknownCommand{Type: env.Type}
	}

	if err := json.Unmarshal(data, cmd); err != nil {
		return nil, fmt.Errorf("parsing %s command: %w", env.Type, err)
	}
	return cmd, nil
}
