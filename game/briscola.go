package game

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/tavolagames/tavola/deck"
	"github.com/tavolagames/tavola/protocol"
)

const briscolaHandSize = 3

// Briscola is the classic 40-card trick-taking game for 2 to 4 players.
// The trump suit is fixed at deal time by the marker card left at the
// bottom of the shuffled deck. With 4 players it is a team game; with 3
// one filler card is removed and the last joiner plays alone.
type Briscola struct {
	table      []playedCard
	players    []protocol.Player
	hands      map[string][]deck.Card
	teams      [][]protocol.Player
	playerTeam map[string]int
	wonCards   [][]deck.Card
	deck       deck.Deck
	briscola   deck.Suit
	next       protocol.Player
	hasNext    bool
	started    bool
}

// NewBriscola constructs an empty, unstarted game
func NewBriscola() *Briscola {
	return &Briscola{
		hands:      map[string][]deck.Card{},
		teams:      [][]protocol.Player{{}, {}},
		playerTeam: map[string]int{},
		wonCards:   [][]deck.Card{{}, {}},
	}
}

// Init shuffles a fresh deck and fixes the trump suit
func (b *Briscola) Init() {
	b.deck = deck.New(deck.Briscola)
	b.deck.Shuffle()
	b.briscola = b.deck[0].Suit
}

func (b *Briscola) Name() string {
	return "Briscola"
}

func (b *Briscola) CardSet() deck.Type {
	return deck.Briscola
}

func (b *Briscola) NumPlayers() (int, int) {
	return 2, 4
}

// AddPlayer registers a player and assigns them to a team, alternating
func (b *Briscola) AddPlayer(p protocol.Player) (protocol.Status, error) {
	if b.started {
		return protocol.Status{}, ErrAlreadyStarted
	}
	_, max := b.NumPlayers()
	if len(b.players) >= max {
		return protocol.Status{}, ErrGameFull
	}
	if len(b.players) == 0 {
		b.next = p
		b.hasNext = true
	}
	b.players = append(b.players, p)
	b.hands[p.ID] = []deck.Card{}
	team := len(b.players) % 2
	b.teams[team] = append(b.teams[team], p)
	b.playerTeam[p.ID] = team
	min, _ := b.NumPlayers()
	return protocol.WaitingForPlayersStatus(len(b.players) >= min, p), nil
}

// Start deals three cards to each player. With exactly three players one
// Two is removed first so the deck divides evenly; if no Two is left the
// deck is inconsistent and the game terminates instead of proceeding.
func (b *Briscola) Start() protocol.Status {
	if b.started {
		return protocol.InvalidMoveStatus("Il gioco è già iniziato, non puoi farlo reiniziare!")
	}
	if len(b.players) == 3 {
		filler := -1
		for i, c := range b.deck {
			if c.Rank == deck.Two {
				filler = i
				break
			}
		}
		if filler == -1 {
			return protocol.GameEndedStatus()
		}
		b.deck = append(b.deck[:filler], b.deck[filler+1:]...)
		b.teams = append(b.teams, []protocol.Player{})
		b.wonCards = append(b.wonCards, []deck.Card{})
		solo := b.teams[1][len(b.teams[1])-1]
		b.teams[1] = b.teams[1][:len(b.teams[1])-1]
		b.teams[2] = append(b.teams[2], solo)
		b.playerTeam[solo.ID] = 2
	}
	b.briscola = b.deck[0].Suit
	for _, p := range b.players {
		b.hands[p.ID] = append(b.hands[p.ID], b.deck.Deal(briscolaHandSize)...)
	}
	first := b.players[0]
	b.next = first
	b.hasNext = true
	b.started = true
	return protocol.WaitingForChoiceStatus(first, b.hands[first.ID])
}

func (b *Briscola) HandleMove(by protocol.Player, card deck.Card) []protocol.Status {
	if !b.hasNext {
		return []protocol.Status{protocol.InvalidMoveStatus("La partita non è ancora iniziata")}
	}
	if b.next.ID != by.ID {
		return []protocol.Status{protocol.InvalidMoveStatus("Non è ancora il tuo turno!")}
	}
	playerIdx := b.playerIndex(by)
	nextPlayer := b.players[(playerIdx+1)%len(b.players)]
	b.hands[by.ID] = removeCard(b.hands[by.ID], card, by)
	b.table = append(b.table, playedCard{player: by, card: card})

	if len(b.table) < len(b.players) {
		b.next = nextPlayer
		return []protocol.Status{
			protocol.WaitingForChoiceStatus(nextPlayer, b.hands[nextPlayer.ID]),
			protocol.InProgressStatus(nextPlayer),
		}
	}

	winner := resolveTrick(b.table, b.briscola, b.CardSortingRank)
	winnerIdx := b.playerIndex(winner)
	team := b.playerTeam[winner.ID]
	for _, played := range b.table {
		b.wonCards[team] = append(b.wonCards[team], played.card)
	}
	b.table = nil
	if len(b.deck) >= len(b.players) {
		for i := range b.players {
			replenished := b.players[(winnerIdx+i)%len(b.players)]
			b.hands[replenished.ID] = append(b.hands[replenished.ID], b.deck.Deal(1)...)
		}
	}
	b.next = winner
	statuses := []protocol.Status{
		protocol.CardPlayedStatus(by, card),
		protocol.WaitingForChoiceStatus(winner, b.hands[winner.ID]),
		protocol.RoundWonStatus(winner),
	}
	if b.handsEmpty() {
		statuses = append(statuses, protocol.GameEndedStatus())
	}
	return statuses
}

// HandleMessage relays table talk to the whole room, attributed
func (b *Briscola) HandleMessage(from protocol.Player, text string) []protocol.Status {
	return []protocol.Status{protocol.NotifyRoomStatus(fmt.Sprintf("%s ha detto: %s", from.Name, text))}
}

func (b *Briscola) NextPlayer() (protocol.Player, bool) {
	return b.next, b.hasNext
}

func (b *Briscola) Players() []protocol.Player {
	players := make([]protocol.Player, len(b.players))
	copy(players, b.players)
	return players
}

func (b *Briscola) Scores() []Score {
	scores := []Score{}
	for i, team := range b.teams {
		points := new(big.Rat)
		for _, c := range b.wonCards[i] {
			points.Add(points, b.CardRank(c.Rank))
		}
		scores = append(scores, Score{Players: team, Points: points})
	}
	return scores
}

func (b *Briscola) Status() string {
	return gameSummary(b, b.briscola.String())
}

func (b *Briscola) CardRank(r deck.Rank) *big.Rat {
	switch r {
	case deck.Ace:
		return big.NewRat(11, 1)
	case deck.Three:
		return big.NewRat(10, 1)
	case deck.King:
		return big.NewRat(4, 1)
	case deck.Queen:
		return big.NewRat(3, 1)
	case deck.Jack:
		return big.NewRat(2, 1)
	}
	return new(big.Rat)
}

func (b *Briscola) CardSortingRank(r deck.Rank) int {
	switch r {
	case deck.Ace:
		return 10
	case deck.Three:
		return 9
	case deck.King:
		return 8
	case deck.Queen:
		return 7
	case deck.Jack:
		return 6
	case deck.Seven:
		return 5
	case deck.Six:
		return 4
	case deck.Five:
		return 3
	case deck.Four:
		return 2
	case deck.Two:
		return 1
	}
	return 0
}

func (b *Briscola) NewInstance() Game {
	return NewBriscola()
}

func (b *Briscola) playerIndex(p protocol.Player) int {
	for i := range b.players {
		if b.players[i].ID == p.ID {
			return i
		}
	}
	panic("player " + p.Name + " is not in the game")
}

func (b *Briscola) handsEmpty() bool {
	for _, hand := range b.hands {
		if len(hand) > 0 {
			return false
		}
	}
	return true
}

// summarised accessors shared with the status formatter

func (b *Briscola) tableCards() []playedCard {
	return b.table
}

// gameSummary renders the full-state summary common to the trick-taking
// variants: scores, trump, whose turn, cards on the table.
func gameSummary(g interface {
	Name() string
	Scores() []Score
	NextPlayer() (protocol.Player, bool)
	tableCards() []playedCard
}, trump string) string {
	scoreLines := []string{}
	for _, s := range g.Scores() {
		names := []string{}
		for _, p := range s.Players {
			names = append(names, p.Name)
		}
		scoreLines = append(scoreLines, fmt.Sprintf("%s: %s punti", strings.Join(names, ", "), s.Points.RatString()))
	}
	turn := ""
	if next, ok := g.NextPlayer(); ok {
		turn = next.Name
	}
	tableLines := []string{}
	for _, played := range g.tableCards() {
		tableLines = append(tableLines, fmt.Sprintf("- %s (%s)", played.card, played.player.Name))
	}
	return fmt.Sprintf(
		"Partita di %s\nPunteggi:\n%s\nBriscola è: %s\nTocca a: %s\nCarte sul tavolo:\n%s",
		g.Name(),
		strings.Join(scoreLines, "\n"),
		trump,
		turn,
		strings.Join(tableLines, "\n"),
	)
}
