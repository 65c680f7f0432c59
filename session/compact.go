package session

import (
	"strings"

	"github.com/tavolagames/tavola/protocol"
)

// Compact merges every message addressed to the same recipient within one
// processing pass into a single outbound message: texts are joined with
// newlines in their original order and keyboards are stacked into one
// layout. At most one message per recipient survives.
func Compact(messages []protocol.Message) []protocol.Message {
	order := []string{}
	grouped := map[string][]protocol.Message{}
	for _, msg := range messages {
		if _, seen := grouped[msg.PlayerID]; !seen {
			order = append(order, msg.PlayerID)
		}
		grouped[msg.PlayerID] = append(grouped[msg.PlayerID], msg)
	}

	compacted := make([]protocol.Message, 0, len(order))
	for _, playerID := range order {
		texts := []string{}
		keyboard := [][]protocol.Button{}
		for _, msg := range grouped[playerID] {
			texts = append(texts, msg.Text)
			keyboard = append(keyboard, msg.Keyboard...)
		}
		if len(keyboard) == 0 {
			keyboard = nil
		}
		compacted = append(compacted, protocol.Message{
			PlayerID: playerID,
			Text:     strings.Join(texts, "\n"),
			Keyboard: keyboard,
		})
	}
	return compacted
}
