package deck

import (
	"math/rand"
	"time"
)

// Type selects which fixed deck a game is played with
type Type int

const (
	// Briscola is the 40-card regional deck: Ace to Seven plus the
	// three face cards, in each of the four suits.
	Briscola Type = iota
	// Poker is the 54-card deck: Ace to Ten plus the three face cards
	// in each suit, and two jolly.
	Poker
)

// Deck represents a deck of cards
type Deck []Card

// New creates the full, unshuffled deck for the given type
func New(t Type) Deck {
	cards := Deck{}
	switch t {
	case Briscola:
		for suit := Bastoni; suit <= Spade; suit++ {
			for _, rank := range []Rank{Ace, Two, Three, Four, Five, Six, Seven, Jack, Queen, King} {
				cards = append(cards, Card{Rank: rank, Suit: suit})
			}
		}
	case Poker:
		for suit := Bastoni; suit <= Spade; suit++ {
			for rank := Ace; rank <= King; rank++ {
				cards = append(cards, Card{Rank: rank, Suit: suit})
			}
		}
		cards = append(cards, Card{Rank: Jolly, Suit: Bastoni}, Card{Rank: Jolly, Suit: Bastoni})
	}
	return cards
}

// Shuffle shuffles the deck of cards
func (d *Deck) Shuffle() {
	rand.Seed(time.Now().UnixNano())
	actualDeck := *d
	for i := len(actualDeck) - 1; i > 0; i-- {
		randomNumber := rand.Intn(i)
		actualDeck[i], actualDeck[randomNumber] = actualDeck[randomNumber], actualDeck[i]
	}
}

// Deal deals n number of cards from the deck, until it is empty
func (d *Deck) Deal(n int) []Card {
	numCardsInDeck := len(*d)
	if n < 0 || n > numCardsInDeck {
		return []Card{}
	}
	startingIndex := numCardsInDeck - n
	subSlice := (*d)[startingIndex:numCardsInDeck]
	*d = (*d)[:startingIndex]
	return subSlice
}
