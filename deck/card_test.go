package deck

import (
	"testing"

	utils "github.com/tavolagames/tavola/internal"
)

func TestCard(t *testing.T) {
	cases := []struct {
		name     string
		card     Card
		expected string
	}{
		{"Ace has its own name", Card{Rank: Ace, Suit: Denari}, "Asso di 💰"},
		{"numeric rank uses the number", Card{Rank: Seven, Suit: Bastoni}, "7 di 🥢"},
		{"face card", Card{Rank: Queen, Suit: Coppe}, "🐴 di 🏆"},
		{"king of spades", Card{Rank: King, Suit: Spade}, "🤴 di 🗡"},
		{"jolly has no suit", Card{Rank: Jolly, Suit: Bastoni}, "🃏"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			utils.AssertEqual(t, c.card.String(), c.expected)
		})
	}
}

func TestCardEquality(t *testing.T) {
	utils.AssertTrue(t, Card{Rank: Three, Suit: Denari} == Card{Rank: Three, Suit: Denari})
	utils.AssertTrue(t, Card{Rank: Three, Suit: Denari} != Card{Rank: Three, Suit: Coppe})
}
