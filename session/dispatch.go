package session

import "github.com/tavolagames/tavola/protocol"

// Delivery pairs a status with the player who must receive it
type Delivery struct {
	Recipient protocol.Player
	Status    protocol.Status
}

// Route computes who receives a status. Targeted statuses go to the named
// player only. WaitingForPlayers is asymmetric: the game's initiator (the
// first roster entry) receives the actionable variant, everyone else a
// plain text echo with the same wording. Everything else is broadcast to
// the whole roster.
func Route(status protocol.Status, roster []protocol.Player) []Delivery {
	switch status.Cmd {
	case protocol.WaitingForChoice, protocol.WaitingForChoiceCustomMessage, protocol.NotifyUser:
		return []Delivery{{Recipient: status.Player, Status: status}}
	case protocol.WaitingForPlayers:
		if len(roster) == 0 {
			return nil
		}
		initiator := roster[0]
		deliveries := []Delivery{{Recipient: initiator, Status: status}}
		text, _ := render(status)
		for _, p := range roster[1:] {
			deliveries = append(deliveries, Delivery{Recipient: p, Status: protocol.NotifyUserStatus(p, text)})
		}
		return deliveries
	default:
		deliveries := make([]Delivery, 0, len(roster))
		for _, p := range roster {
			deliveries = append(deliveries, Delivery{Recipient: p, Status: status})
		}
		return deliveries
	}
}
