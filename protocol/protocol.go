package protocol

import (
	"github.com/tavolagames/tavola/deck"
)

// Player identifies a participant. Equality is by ID; the name is
// display-only and re-derived from the transport on every event.
type Player struct {
	ID   string `json:"playerID"`
	Name string `json:"name"`
}

// Cmd tags the kind of a Status
type Cmd int

const (
	Null Cmd = iota
	RoundWon
	GameEnded
	InProgress
	WaitingForPlayers
	WaitingForChoice
	WaitingForChoiceCustomMessage
	InvalidMove
	NotifyUser
	NotifyRoom
	CardPlayed
)

var cmdNames = map[Cmd]string{
	Null:                          "Null",
	RoundWon:                      "RoundWon",
	GameEnded:                     "GameEnded",
	InProgress:                    "InProgress",
	WaitingForPlayers:             "WaitingForPlayers",
	WaitingForChoice:              "WaitingForChoice",
	WaitingForChoiceCustomMessage: "WaitingForChoiceCustomMessage",
	InvalidMove:                   "InvalidMove",
	NotifyUser:                    "NotifyUser",
	NotifyRoom:                    "NotifyRoom",
	CardPlayed:                    "CardPlayed",
}

func (c Cmd) String() string {
	return cmdNames[c]
}

// Status is an outcome emitted by a rule-engine transition. A transition
// returns an ordered sequence of them; later entries may supersede
// earlier prompts to the same player.
//
// Which fields are meaningful depends on Cmd:
//   RoundWon, InProgress                       Player
//   WaitingForPlayers                          Ready, Player (the joiner)
//   WaitingForChoice                           Player, Hand
//   WaitingForChoiceCustomMessage              Player, Hand, Text
//   InvalidMove, NotifyRoom                    Text
//   NotifyUser                                 Player, Text
//   CardPlayed                                 Player, Card
type Status struct {
	Cmd    Cmd
	Player Player
	Hand   []deck.Card
	Text   string
	Ready  bool
	Card   deck.Card
}

func RoundWonStatus(p Player) Status {
	return Status{Cmd: RoundWon, Player: p}
}

func GameEndedStatus() Status {
	return Status{Cmd: GameEnded}
}

func InProgressStatus(p Player) Status {
	return Status{Cmd: InProgress, Player: p}
}

func WaitingForPlayersStatus(ready bool, justJoined Player) Status {
	return Status{Cmd: WaitingForPlayers, Ready: ready, Player: justJoined}
}

func WaitingForChoiceStatus(p Player, hand []deck.Card) Status {
	return Status{Cmd: WaitingForChoice, Player: p, Hand: hand}
}

func CustomChoiceStatus(p Player, hand []deck.Card, prompt string) Status {
	return Status{Cmd: WaitingForChoiceCustomMessage, Player: p, Hand: hand, Text: prompt}
}

func InvalidMoveStatus(reason string) Status {
	return Status{Cmd: InvalidMove, Text: reason}
}

func NotifyUserStatus(p Player, text string) Status {
	return Status{Cmd: NotifyUser, Player: p, Text: text}
}

func NotifyRoomStatus(text string) Status {
	return Status{Cmd: NotifyRoom, Text: text}
}

func CardPlayedStatus(p Player, card deck.Card) Status {
	return Status{Cmd: CardPlayed, Player: p, Card: card}
}
