package session

import (
	"github.com/sirupsen/logrus"
	"github.com/tavolagames/tavola/game"
	"github.com/tavolagames/tavola/protocol"
)

// mailboxSize bounds how many commands may queue against a session.
// A full mailbox pushes back on the registry rather than growing without
// limit behind a stalled worker.
const mailboxSize = 10

// Liveness is the result of probing a session's mailbox
type Liveness int

const (
	// Alive means the probe was delivered
	Alive Liveness = iota
	// Busy means the mailbox is full but the worker has not exited
	Busy
	// Dead means the worker has exited; the session can be reaped
	Dead
)

// Handle is the registry's end of a session: the bounded, order-preserving
// mailbox plus a signal that the worker has exited.
type Handle struct {
	id       string
	commands chan Command
	done     chan struct{}
}

// ID returns the session token
func (h *Handle) ID() string {
	return h.id
}

// Send queues a command, blocking while the mailbox is full. It reports
// false if the worker has already exited.
func (h *Handle) Send(cmd Command) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.commands <- cmd:
		return true
	case <-h.done:
		return false
	}
}

// TrySend queues a command without blocking. It reports false if the
// worker has exited or the mailbox is full.
func (h *Handle) TrySend(cmd Command) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.commands <- cmd:
		return true
	default:
		return false
	}
}

// Probe attempts a non-blocking Ping. A session whose worker has gone is
// Dead and eligible for reaping; a full mailbox with a live worker is
// only Busy and must not be reaped.
func (h *Handle) Probe() Liveness {
	select {
	case <-h.done:
		return Dead
	default:
	}
	select {
	case h.commands <- Command{Kind: Ping}:
		return Alive
	default:
		return Busy
	}
}

// Spawn starts the worker goroutine for one game session and returns its
// handle. The worker owns g exclusively for its whole life.
func Spawn(id string, g game.Game, transport protocol.Transport, log *logrus.Logger) *Handle {
	h := &Handle{
		id:       id,
		commands: make(chan Command, mailboxSize),
		done:     make(chan struct{}),
	}
	go h.run(g, transport, log.WithFields(logrus.Fields{"session": id, "game": g.Name()}))
	return h
}

// run processes mailbox commands one at a time, in arrival order. Rule
// engine panics (desync between a claimed move and the actual hands) kill
// this session only; the closed done channel then surfaces through Probe.
func (h *Handle) run(g game.Game, transport protocol.Transport, log *logrus.Entry) {
	defer close(h.done)
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("session worker crashed")
		}
	}()

	g.Init()
	log.Info("session started")

	// last outbound message per recipient, edited in place on updates
	lastMessage := map[string]protocol.MessageID{}

	for {
		cmd := <-h.commands

		var statuses []protocol.Status
		switch cmd.Kind {
		case AddPlayer:
			status, err := g.AddPlayer(cmd.Player)
			if err != nil {
				statuses = []protocol.Status{protocol.NotifyUserStatus(cmd.Player, err.Error())}
			} else {
				statuses = []protocol.Status{status}
			}
		case Start:
			statuses = []protocol.Status{g.Start(), protocol.NotifyRoomStatus(g.Status())}
		case HandleMove:
			statuses = append(g.HandleMove(cmd.Player, cmd.Card), protocol.NotifyRoomStatus(g.Status()))
		case HandleText:
			statuses = g.HandleMessage(cmd.Player, cmd.Text)
		case Ping:
			continue
		case AboutToExpireWarning:
			statuses = []protocol.Status{protocol.NotifyRoomStatus("Questo gioco sarà terminato per inattività a breve!")}
		case Terminate:
			log.Info("session terminated")
			return
		}

		ended := false
		for _, status := range statuses {
			if status.Cmd == protocol.GameEnded {
				ended = true
			}
		}

		roster := g.Players()
		outbound := []protocol.Message{}
		for _, status := range statuses {
			for _, delivery := range Route(status, roster) {
				outbound = append(outbound, renderMessage(delivery))
			}
		}
		for _, msg := range Compact(outbound) {
			h.deliver(transport, lastMessage, msg, log)
		}

		if ended {
			log.Info("game ended")
			return
		}
	}
}

func (h *Handle) deliver(transport protocol.Transport, lastMessage map[string]protocol.MessageID, msg protocol.Message, log *logrus.Entry) {
	if prev, ok := lastMessage[msg.PlayerID]; ok {
		id, err := transport.Edit(prev, msg)
		if err != nil {
			log.WithError(err).WithField("player", msg.PlayerID).Warn("could not edit message")
			return
		}
		lastMessage[msg.PlayerID] = id
		return
	}
	id, err := transport.Send(msg)
	if err != nil {
		log.WithError(err).WithField("player", msg.PlayerID).Warn("could not send message")
		return
	}
	lastMessage[msg.PlayerID] = id
}
