package game

import (
	"math/big"

	"github.com/tavolagames/tavola/deck"
	"github.com/tavolagames/tavola/protocol"
)

// Scala40 is listed in the variant menu but is not playable yet: the
// rules for melds and legal moves have never been written down, so every
// operation reports the variant as unavailable instead of guessing.
type Scala40 struct{}

// NewScala40 constructs the placeholder variant
func NewScala40() *Scala40 {
	return &Scala40{}
}

func (s *Scala40) Init() {}

func (s *Scala40) Name() string {
	return "Scala 40"
}

func (s *Scala40) CardSet() deck.Type {
	return deck.Poker
}

func (s *Scala40) NumPlayers() (int, int) {
	return 2, 6
}

func (s *Scala40) AddPlayer(p protocol.Player) (protocol.Status, error) {
	return protocol.Status{}, ErrUnsupported
}

func (s *Scala40) Start() protocol.Status {
	return protocol.InvalidMoveStatus(ErrUnsupported.Error())
}

func (s *Scala40) HandleMove(by protocol.Player, card deck.Card) []protocol.Status {
	return []protocol.Status{protocol.NotifyUserStatus(by, ErrUnsupported.Error())}
}

func (s *Scala40) HandleMessage(from protocol.Player, text string) []protocol.Status {
	return []protocol.Status{protocol.NotifyUserStatus(from, ErrUnsupported.Error())}
}

func (s *Scala40) NextPlayer() (protocol.Player, bool) {
	return protocol.Player{}, false
}

func (s *Scala40) Players() []protocol.Player {
	return nil
}

func (s *Scala40) Scores() []Score {
	return nil
}

func (s *Scala40) Status() string {
	return ErrUnsupported.Error()
}

func (s *Scala40) CardRank(r deck.Rank) *big.Rat {
	return big.NewRat(int64(s.CardSortingRank(r)), 1)
}

func (s *Scala40) CardSortingRank(r deck.Rank) int {
	switch {
	case r == deck.Jolly:
		return 0
	case r >= deck.Jack:
		return 10
	}
	return int(r)
}

func (s *Scala40) NewInstance() Game {
	return NewScala40()
}
