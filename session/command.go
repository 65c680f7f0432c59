package session

import (
	"github.com/tavolagames/tavola/deck"
	"github.com/tavolagames/tavola/protocol"
)

// CommandKind tags the kind of a mailbox Command
type CommandKind int

const (
	// AddPlayer registers Player with the game
	AddPlayer CommandKind = iota
	// Start deals and begins play
	Start
	// HandleMove plays Card on behalf of Player
	HandleMove
	// HandleText forwards a free-text message from Player
	HandleText
	// Ping is a liveness probe; it produces no user-visible output
	Ping
	// AboutToExpireWarning broadcasts an imminent-termination warning
	AboutToExpireWarning
	// Terminate stops the worker after the current command
	Terminate
)

var commandNames = []string{
	"AddPlayer",
	"Start",
	"HandleMove",
	"HandleText",
	"Ping",
	"AboutToExpireWarning",
	"Terminate",
}

func (k CommandKind) String() string {
	return commandNames[k]
}

// Command is one entry in a session's mailbox
type Command struct {
	Kind   CommandKind
	Player protocol.Player
	Card   deck.Card
	Text   string
}
