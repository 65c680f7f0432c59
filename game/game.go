package game

import (
	"errors"
	"math/big"

	"github.com/tavolagames/tavola/deck"
	"github.com/tavolagames/tavola/protocol"
)

var (
	ErrGameFull       = errors.New("la partita è al completo")
	ErrAlreadyStarted = errors.New("la partita è già cominciata")
	ErrUnsupported    = errors.New("questo gioco non è ancora disponibile")
)

// Score is the points total of one team. Points are exact rationals:
// some variants assign fractional values (thirds) to cards and floats
// would drift over a full game.
type Score struct {
	Players []protocol.Player
	Points  *big.Rat
}

// Game is the capability contract a card game variant must implement.
// A Game instance is exclusively owned by one session worker; none of
// these methods need to be safe for concurrent use.
type Game interface {
	// Init prepares internal state. Dealing happens in Start.
	Init()
	Name() string
	CardSet() deck.Type
	// NumPlayers returns the smallest and largest playable roster
	NumPlayers() (min, max int)
	// AddPlayer registers a player. It fails with ErrGameFull or
	// ErrAlreadyStarted; on success the returned status reports
	// whether the roster satisfies the variant's minimum.
	AddPlayer(p protocol.Player) (protocol.Status, error)
	// Start deals and returns the first actionable status. Calling it
	// twice is answered with an InvalidMove status, never a re-deal.
	Start() protocol.Status
	// HandleMove applies one played card and returns the resulting
	// status sequence in order.
	HandleMove(by protocol.Player, card deck.Card) []protocol.Status
	// HandleMessage is the free-text side channel. It always returns at
	// least one status.
	HandleMessage(from protocol.Player, text string) []protocol.Status
	NextPlayer() (protocol.Player, bool)
	Players() []protocol.Player
	Scores() []Score
	// Status is a human-readable summary of the whole game state,
	// recomputed on every call.
	Status() string
	// CardRank is the point value of a rank for scoring
	CardRank(r deck.Rank) *big.Rat
	// CardSortingRank is the strength of a rank for trick resolution
	CardSortingRank(r deck.Rank) int
	// NewInstance returns a fresh, unstarted instance of the same variant
	NewInstance() Game
}

// Variants lists the playable games in menu order. Index positions are
// part of the button payload contract (init_game:<index>).
func Variants() []Game {
	return []Game{
		NewBriscola(),
		NewBeccaccino(),
		NewScala40(),
	}
}

type playedCard struct {
	player protocol.Player
	card   deck.Card
}

// resolveTrick applies the trick-winner rule shared by the trick-taking
// variants: the first card leads; a trump beats any non-trump already
// winning, evaluated in play order; within the winning suit the highest
// sorting rank wins. Deterministic for a given table, trump and ranking.
func resolveTrick(table []playedCard, trump deck.Suit, sortingRank func(deck.Rank) int) protocol.Player {
	winner := table[0].player
	winningSuit := table[0].card.Suit
	best := -1
	for _, played := range table {
		if played.card.Suit == trump && winningSuit != trump {
			winningSuit = trump
			best = sortingRank(played.card.Rank)
			winner = played.player
		}
		if played.card.Suit == winningSuit && sortingRank(played.card.Rank) > best {
			best = sortingRank(played.card.Rank)
			winner = played.player
		}
	}
	return winner
}

// removeCard takes card out of hand. A move that names a card the player
// does not hold is a desync between the engine and the session: that is
// fatal to the owning session worker, so panic rather than guess.
func removeCard(hand []deck.Card, card deck.Card, owner protocol.Player) []deck.Card {
	for i := range hand {
		if hand[i] == card {
			return append(hand[:i], hand[i+1:]...)
		}
	}
	panic("card " + card.String() + " is not in " + owner.Name + "'s hand")
}

func handContains(hand []deck.Card, suit deck.Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}
