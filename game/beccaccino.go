package game

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/tavolagames/tavola/deck"
	"github.com/tavolagames/tavola/protocol"
)

const beccaccinoHandSize = 10

// markerCard singles out the player who must choose the trump suit:
// whoever is dealt the 4 of Denari opens the game.
var markerCard = deck.Card{Rank: deck.Four, Suit: deck.Denari}

// Beccaccino is a 4-player, fixed-team trick-taking game. The whole
// 40-card deck is dealt up front; the holder of the marker card picks
// the trump suit with their first move, before leading the first trick.
// Players must follow the led suit whenever they can.
type Beccaccino struct {
	table          []playedCard
	players        []protocol.Player
	hands          map[string][]deck.Card
	wonCards       [2][]deck.Card
	lastTrickTeam  int
	briscola       deck.Suit
	briscolaChosen bool
	next           protocol.Player
	hasNext        bool
	dealt          bool
}

// NewBeccaccino constructs an empty, unstarted game
func NewBeccaccino() *Beccaccino {
	return &Beccaccino{
		hands:         map[string][]deck.Card{},
		lastTrickTeam: -1,
	}
}

func (b *Beccaccino) Init() {}

func (b *Beccaccino) Name() string {
	return "Beccaccino"
}

func (b *Beccaccino) CardSet() deck.Type {
	return deck.Briscola
}

func (b *Beccaccino) NumPlayers() (int, int) {
	return 4, 4
}

func (b *Beccaccino) AddPlayer(p protocol.Player) (protocol.Status, error) {
	if b.dealt {
		return protocol.Status{}, ErrAlreadyStarted
	}
	_, max := b.NumPlayers()
	if len(b.players) >= max {
		return protocol.Status{}, ErrGameFull
	}
	b.players = append(b.players, p)
	b.hands[p.ID] = []deck.Card{}
	min, _ := b.NumPlayers()
	return protocol.WaitingForPlayersStatus(len(b.players) >= min, p), nil
}

// Start deals the whole deck, ten cards each, and prompts the marker
// card holder to choose the trump suit
func (b *Beccaccino) Start() protocol.Status {
	if b.dealt {
		return protocol.InvalidMoveStatus("Il gioco è già iniziato, non puoi farlo reiniziare!")
	}
	d := deck.New(deck.Briscola)
	d.Shuffle()
	for _, p := range b.players {
		b.hands[p.ID] = append(b.hands[p.ID], d.Deal(beccaccinoHandSize)...)
	}
	b.dealt = true
	chooser := b.choosingPlayer()
	b.next = chooser
	b.hasNext = true
	return protocol.CustomChoiceStatus(chooser, b.hands[chooser.ID], "Scegli quale sarà il seme di briscola")
}

func (b *Beccaccino) HandleMove(by protocol.Player, card deck.Card) []protocol.Status {
	if !b.dealt {
		return []protocol.Status{protocol.InvalidMoveStatus("La partita non è ancora iniziata")}
	}

	// Sub-phase before normal play: only the marker card holder may
	// move, and their "move" names the trump suit without playing.
	if !b.briscolaChosen {
		chooser := b.choosingPlayer()
		if by.ID != chooser.ID {
			return []protocol.Status{protocol.InvalidMoveStatus("Non tocca a te scegliere la briscola!")}
		}
		b.briscola = card.Suit
		b.briscolaChosen = true
		return []protocol.Status{protocol.WaitingForChoiceStatus(chooser, b.hands[chooser.ID])}
	}

	if b.next.ID != by.ID {
		return []protocol.Status{protocol.InvalidMoveStatus("Non è ancora il tuo turno!")}
	}

	if len(b.table) > 0 {
		ledSuit := b.table[0].card.Suit
		if card.Suit != ledSuit && handContains(b.hands[by.ID], ledSuit) {
			return []protocol.Status{
				protocol.InvalidMoveStatus("Devi giocare una carta dello stesso seme della prima!"),
				protocol.WaitingForChoiceStatus(by, b.hands[by.ID]),
			}
		}
	}

	playerIdx := b.playerIndex(by)
	b.hands[by.ID] = removeCard(b.hands[by.ID], card, by)
	b.table = append(b.table, playedCard{player: by, card: card})
	b.next = b.players[(playerIdx+1)%len(b.players)]

	if len(b.table) == len(b.players) {
		winner := resolveTrick(b.table, b.briscola, b.CardSortingRank)
		team := b.playerIndex(winner) % 2
		for _, played := range b.table {
			b.wonCards[team] = append(b.wonCards[team], played.card)
		}
		b.table = nil
		if b.handsEmpty() {
			b.lastTrickTeam = team
			b.hasNext = false
			return []protocol.Status{
				protocol.RoundWonStatus(winner),
				protocol.GameEndedStatus(),
				protocol.NotifyRoomStatus(b.Status()),
			}
		}
		b.next = winner
	}

	return []protocol.Status{
		protocol.WaitingForChoiceStatus(b.next, b.hands[b.next.ID]),
		protocol.NotifyUserStatus(b.next, b.Status()),
	}
}

// HandleMessage recognises the three table-talk calls of the game.
// Anything else earns a private correction.
func (b *Beccaccino) HandleMessage(from protocol.Player, text string) []protocol.Status {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)
	switch stripped {
	case "busso":
		return []protocol.Status{protocol.NotifyRoomStatus(fmt.Sprintf("%s ha detto: Busso", from.Name))}
	case "striscio":
		return []protocol.Status{protocol.NotifyRoomStatus(fmt.Sprintf("%s ha detto: Striscio", from.Name))}
	case "volo":
		return []protocol.Status{protocol.NotifyRoomStatus(fmt.Sprintf("%s ha detto: Volo", from.Name))}
	}
	return []protocol.Status{protocol.NotifyUserStatus(from, "Puoi dire solo busso, striscio o volo.")}
}

func (b *Beccaccino) NextPlayer() (protocol.Player, bool) {
	return b.next, b.hasNext
}

func (b *Beccaccino) Players() []protocol.Player {
	players := make([]protocol.Player, len(b.players))
	copy(players, b.players)
	return players
}

// Scores pairs players 0&2 against 1&3. The team that takes the last
// trick scores one extra point.
func (b *Beccaccino) Scores() []Score {
	scores := []Score{}
	for team := 0; team < 2; team++ {
		members := []protocol.Player{}
		for i, p := range b.players {
			if i%2 == team {
				members = append(members, p)
			}
		}
		points := new(big.Rat)
		if b.lastTrickTeam == team {
			points.SetInt64(1)
		}
		for _, c := range b.wonCards[team] {
			points.Add(points, b.CardRank(c.Rank))
		}
		scores = append(scores, Score{Players: members, Points: points})
	}
	return scores
}

func (b *Beccaccino) Status() string {
	trump := "non ancora scelta"
	if b.briscolaChosen {
		trump = b.briscola.String()
	}
	return gameSummary(b, trump)
}

func (b *Beccaccino) CardRank(r deck.Rank) *big.Rat {
	switch r {
	case deck.Ace:
		return big.NewRat(1, 1)
	case deck.Two, deck.Three, deck.Jack, deck.Queen, deck.King:
		return big.NewRat(1, 3)
	}
	return new(big.Rat)
}

func (b *Beccaccino) CardSortingRank(r deck.Rank) int {
	switch r {
	case deck.Three:
		return 10
	case deck.Two:
		return 9
	case deck.Ace:
		return 8
	case deck.King:
		return 7
	case deck.Queen:
		return 6
	case deck.Jack:
		return 5
	case deck.Seven:
		return 4
	case deck.Six:
		return 3
	case deck.Five:
		return 2
	}
	return 1
}

func (b *Beccaccino) NewInstance() Game {
	return NewBeccaccino()
}

func (b *Beccaccino) choosingPlayer() protocol.Player {
	for _, p := range b.players {
		for _, c := range b.hands[p.ID] {
			if c == markerCard {
				return p
			}
		}
	}
	panic("no player holds the " + markerCard.String())
}

func (b *Beccaccino) playerIndex(p protocol.Player) int {
	for i := range b.players {
		if b.players[i].ID == p.ID {
			return i
		}
	}
	panic("player " + p.Name + " is not in the game")
}

func (b *Beccaccino) handsEmpty() bool {
	for _, hand := range b.hands {
		if len(hand) > 0 {
			return false
		}
	}
	return true
}

func (b *Beccaccino) tableCards() []playedCard {
	return b.table
}
