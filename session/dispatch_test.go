package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavolagames/tavola/deck"
	utils "github.com/tavolagames/tavola/internal"
	"github.com/tavolagames/tavola/protocol"
)

var (
	anna  = protocol.Player{ID: "p1", Name: "Anna"}
	bruno = protocol.Player{ID: "p2", Name: "Bruno"}
	carla = protocol.Player{ID: "p3", Name: "Carla"}
)

func TestRouteTargetedStatuses(t *testing.T) {
	roster := []protocol.Player{anna, bruno, carla}
	cases := []struct {
		name   string
		status protocol.Status
	}{
		{"choice prompt", protocol.WaitingForChoiceStatus(bruno, []deck.Card{{Rank: deck.Ace, Suit: deck.Coppe}})},
		{"custom choice prompt", protocol.CustomChoiceStatus(bruno, nil, "scegli")},
		{"private notice", protocol.NotifyUserStatus(bruno, "solo per te")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			deliveries := Route(c.status, roster)
			require.Len(t, deliveries, 1)
			utils.AssertEqual(t, deliveries[0].Recipient, bruno)
			utils.AssertDeepEqual(t, deliveries[0].Status, c.status)
		})
	}
}

func TestRouteBroadcastStatuses(t *testing.T) {
	roster := []protocol.Player{anna, bruno, carla}
	for _, status := range []protocol.Status{
		protocol.RoundWonStatus(anna),
		protocol.GameEndedStatus(),
		protocol.InProgressStatus(bruno),
		protocol.InvalidMoveStatus("no"),
		protocol.NotifyRoomStatus("a tutti"),
		protocol.CardPlayedStatus(anna, deck.Card{Rank: deck.Ace, Suit: deck.Coppe}),
	} {
		deliveries := Route(status, roster)
		require.Len(t, deliveries, len(roster))
		for i, d := range deliveries {
			utils.AssertEqual(t, d.Recipient, roster[i])
			utils.AssertDeepEqual(t, d.Status, status)
		}
	}
}

func TestRouteWaitingForPlayers(t *testing.T) {
	// three players in the lobby: only the initiator gets the start
	// control, the others get the same wording as plain text
	roster := []protocol.Player{anna, bruno, carla}
	status := protocol.WaitingForPlayersStatus(true, carla)

	deliveries := Route(status, roster)

	require.Len(t, deliveries, 3)
	utils.AssertEqual(t, deliveries[0].Recipient, anna)
	utils.AssertEqual(t, deliveries[0].Status.Cmd, protocol.WaitingForPlayers)

	initiatorMsg := renderMessage(deliveries[0])
	require.NotEmpty(t, initiatorMsg.Keyboard)
	utils.AssertEqual(t, initiatorMsg.Keyboard[0][0].Data, "start")

	for _, d := range deliveries[1:] {
		utils.AssertEqual(t, d.Status.Cmd, protocol.NotifyUser)
		msg := renderMessage(d)
		assert.Empty(t, msg.Keyboard)
		utils.AssertEqual(t, msg.Text, initiatorMsg.Text)
	}
	utils.AssertEqual(t, deliveries[1].Recipient, bruno)
	utils.AssertEqual(t, deliveries[2].Recipient, carla)
}

func TestRouteWaitingForPlayersNotReady(t *testing.T) {
	status := protocol.WaitingForPlayersStatus(false, anna)

	deliveries := Route(status, []protocol.Player{anna})

	require.Len(t, deliveries, 1)
	msg := renderMessage(deliveries[0])
	assert.Empty(t, msg.Keyboard)
	assert.Contains(t, msg.Text, "Anna si è unito alla partita")
}

func TestRenderHandKeyboard(t *testing.T) {
	hand := []deck.Card{
		{Rank: deck.Ace, Suit: deck.Coppe},
		{Rank: deck.Two, Suit: deck.Coppe},
		{Rank: deck.Three, Suit: deck.Coppe},
		{Rank: deck.Four, Suit: deck.Coppe},
	}

	_, keyboard := render(protocol.WaitingForChoiceStatus(anna, hand))

	// three buttons per row, remainder on the last row
	require.Len(t, keyboard, 2)
	require.Len(t, keyboard[0], 3)
	require.Len(t, keyboard[1], 1)

	// a button press must decode back into the very same card
	for i, row := range keyboard {
		for j, button := range row {
			card := hand[i*handKeyboardWidth+j]
			utils.AssertEqual(t, button.Label, card.String())
			utils.AssertEqual(t, button.Data, "handle_move:"+card.Token())
		}
	}
}
