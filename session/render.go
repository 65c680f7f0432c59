package session

import (
	"fmt"

	"github.com/tavolagames/tavola/deck"
	"github.com/tavolagames/tavola/protocol"
)

// handKeyboardWidth is how many card buttons share a row
const handKeyboardWidth = 3

// render turns a status into message text plus optional controls
func render(status protocol.Status) (string, [][]protocol.Button) {
	switch status.Cmd {
	case protocol.RoundWon:
		return fmt.Sprintf("%s ha vinto la mano!", status.Player.Name), nil
	case protocol.GameEnded:
		return "La partita è finita!", nil
	case protocol.InProgress:
		return fmt.Sprintf("Tocca a %s", status.Player.Name), nil
	case protocol.WaitingForPlayers:
		text := fmt.Sprintf("%s si è unito alla partita", status.Player.Name)
		if !status.Ready {
			return text, nil
		}
		text += "\nLa partita può cominciare"
		// the start control survives only for the initiator; Route
		// downgrades every other copy to a plain notification
		return text, [][]protocol.Button{{{Label: "Inizia la partita", Data: "start"}}}
	case protocol.WaitingForChoice:
		return "Tocca a te! Scegli una carta da giocare", handKeyboard(status.Hand)
	case protocol.WaitingForChoiceCustomMessage:
		return status.Text, handKeyboard(status.Hand)
	case protocol.InvalidMove, protocol.NotifyUser, protocol.NotifyRoom:
		return status.Text, nil
	case protocol.CardPlayed:
		return fmt.Sprintf("%s ha giocato %s", status.Player.Name, status.Card), nil
	}
	return "", nil
}

func renderMessage(delivery Delivery) protocol.Message {
	text, keyboard := render(delivery.Status)
	return protocol.Message{PlayerID: delivery.Recipient.ID, Text: text, Keyboard: keyboard}
}

// handKeyboard lays out one button per card. Pressing a button plays the
// card: its token round-trips through the transport without any
// server-side per-button state.
func handKeyboard(hand []deck.Card) [][]protocol.Button {
	rows := [][]protocol.Button{}
	row := []protocol.Button{}
	for _, c := range hand {
		row = append(row, protocol.Button{Label: c.String(), Data: "handle_move:" + c.Token()})
		if len(row) == handKeyboardWidth {
			rows = append(rows, row)
			row = []protocol.Button{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}
