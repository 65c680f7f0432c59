package deck

import "fmt"

// Rank represents a rank in a deck of cards.
// Numeric ranks carry their face value.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Jolly
)

var rankNames = map[Rank]string{
	Ace:   "Asso",
	Jack:  "🚶‍♂️",
	Queen: "🐴",
	King:  "🤴",
	Jolly: "🃏",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("%d", int(r))
}

// Suit represents a suit in a deck of cards
type Suit int

const (
	Bastoni Suit = iota
	Coppe
	Denari
	Spade
)

var suitNames = []string{"🥢", "🏆", "💰", "🗡"}

func (s Suit) String() string {
	return suitNames[s]
}

// Card represents a playing card. It is a value type: two cards are
// the same card iff rank and suit match.
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	if c.Rank == Jolly {
		return rankNames[Jolly]
	}
	return fmt.Sprintf("%s di %s", c.Rank, c.Suit)
}
