package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tavolagames/tavola/deck"
	utils "github.com/tavolagames/tavola/internal"
	"github.com/tavolagames/tavola/protocol"
)

func TestVariants(t *testing.T) {
	variants := Variants()

	names := []string{}
	for _, v := range variants {
		names = append(names, v.Name())
	}
	utils.AssertDeepEqual(t, names, []string{"Briscola", "Beccaccino", "Scala 40"})

	t.Run("NewInstance returns a distinct fresh game", func(t *testing.T) {
		for _, v := range variants {
			fresh := v.NewInstance()
			utils.AssertEqual(t, fresh.Name(), v.Name())
			if fresh == v {
				t.Errorf("%s: NewInstance returned the prototype itself", v.Name())
			}
		}
	})
}

func TestScala40IsUnavailable(t *testing.T) {
	s := NewScala40()

	_, err := s.AddPlayer(anna)
	assert.Equal(t, ErrUnsupported, err)

	status := s.Start()
	utils.AssertEqual(t, status.Cmd, protocol.InvalidMove)

	statuses := s.HandleMove(anna, deck.Card{Rank: deck.Ace, Suit: deck.Coppe})
	utils.AssertEqual(t, statuses[0].Cmd, protocol.NotifyUser)

	statuses = s.HandleMessage(anna, "ciao")
	utils.AssertEqual(t, statuses[0].Cmd, protocol.NotifyUser)

	_, ok := s.NextPlayer()
	assert.False(t, ok)
}
