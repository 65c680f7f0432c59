package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	uuid "github.com/satori/go.uuid"

	"github.com/tavolagames/tavola/deck"
	"github.com/tavolagames/tavola/game"
	"github.com/tavolagames/tavola/protocol"
	"github.com/tavolagames/tavola/session"
)

const (
	msgGameNotFound    = "Gioco non trovato!"
	msgAlreadyPlaying  = "Non puoi unirti a più partite contemporaneamente"
	msgJoiningGame     = "Provo ad aggiungerti alla partita..."
	msgChooseGame      = "Ciao! A che gioco vuoi giocare?"
	warnAfterIdleShare = 0.9
)

// activity is a session's idle-tracking state, owned by the registry loop
type activity struct {
	last   time.Time
	warned bool
}

// Registry is the process-wide session directory. It maps players to
// sessions, sessions to mailboxes and sessions to their last activity,
// and runs the loop that feeds transport events to session workers,
// warns and terminates idle sessions and reaps dead ones.
//
// All mutable state is owned by the loop goroutine; nothing here needs a
// lock as long as Run and Tick are never called concurrently.
type Registry struct {
	cfg       Config
	transport protocol.Transport
	variants  []game.Game
	log       *logrus.Logger

	playerSessions map[string]string
	mailboxes      map[string]*session.Handle
	activity       map[string]*activity

	// now is stubbed in tests
	now func() time.Time
}

// New constructs a Registry over the given transport
func New(cfg Config, transport protocol.Transport, log *logrus.Logger) *Registry {
	return &Registry{
		cfg:            cfg,
		transport:      transport,
		variants:       game.Variants(),
		log:            log,
		playerSessions: map[string]string{},
		mailboxes:      map[string]*session.Handle{},
		activity:       map[string]*activity{},
		now:            time.Now,
	}
}

// Run drives the registry loop until the context is cancelled
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()
	r.log.WithField("idle_timeout", r.cfg.IdleTimeout).Info("registry loop started")
	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Tick performs one loop iteration: drain inbound events, signal idle
// sessions, then reap the dead ones.
func (r *Registry) Tick() {
	for _, event := range r.transport.Poll() {
		r.handleEvent(event)
	}
	r.sweepIdle()
	r.reapDead()
}

func (r *Registry) handleEvent(event protocol.Event) {
	switch event.Kind {
	case protocol.EventText:
		r.handleText(event.From, event.Text)
	case protocol.EventButton:
		r.handleButton(event.From, event.Command, event.Arg)
	}
}

func (r *Registry) handleText(from protocol.Player, text string) {
	if strings.HasPrefix(text, "/start") {
		fields := strings.Fields(text)
		if len(fields) == 1 {
			r.sendMenu(from)
			return
		}
		r.joinSession(fields[1], from)
		return
	}
	handle, ok := r.sessionFor(from)
	if !ok {
		r.notify(from, msgGameNotFound)
		return
	}
	handle.Send(session.Command{Kind: session.HandleText, Player: from, Text: text})
}

func (r *Registry) handleButton(from protocol.Player, command, arg string) {
	switch command {
	case "init_game":
		index, err := strconv.Atoi(arg)
		if err != nil || index < 0 || index >= len(r.variants) {
			r.notify(from, msgGameNotFound)
			return
		}
		r.initGame(from, index)
	case "start":
		handle, ok := r.sessionFor(from)
		if !ok {
			r.notify(from, msgGameNotFound)
			return
		}
		r.touch(handle.ID())
		handle.Send(session.Command{Kind: session.Start})
	case "handle_move":
		card, err := deck.ParseToken(arg)
		if err != nil {
			r.notify(from, msgGameNotFound)
			return
		}
		handle, ok := r.sessionFor(from)
		if !ok {
			r.notify(from, msgGameNotFound)
			return
		}
		r.touch(handle.ID())
		handle.Send(session.Command{Kind: session.HandleMove, Player: from, Card: card})
	}
}

// sendMenu offers the variant list, one button per game
func (r *Registry) sendMenu(to protocol.Player) {
	keyboard := [][]protocol.Button{}
	for i, variant := range r.variants {
		keyboard = append(keyboard, []protocol.Button{{
			Label: variant.Name(),
			Data:  fmt.Sprintf("init_game:%d", i),
		}})
	}
	if _, err := r.transport.Send(protocol.Message{PlayerID: to.ID, Text: msgChooseGame, Keyboard: keyboard}); err != nil {
		r.log.WithError(err).Warn("could not send game menu")
	}
}

// initGame spawns a session of the chosen variant with the initiator as
// its first player and shares the join link
func (r *Registry) initGame(from protocol.Player, index int) {
	if _, playing := r.playerSessions[from.ID]; playing {
		r.notify(from, msgAlreadyPlaying)
		return
	}
	id := uuid.NewV4().String()
	handle := session.Spawn(id, r.variants[index].NewInstance(), r.transport, r.log)
	handle.Send(session.Command{Kind: session.AddPlayer, Player: from})
	r.addSession(id, from.ID, handle)
	r.notify(from, fmt.Sprintf("Per invitare altre persone condividi questo link: %s", r.transport.JoinLink(id)))
	r.log.WithFields(logrus.Fields{"session": id, "variant": r.variants[index].Name()}).Info("new game created")
}

// joinSession adds a player to an existing session addressed by token
func (r *Registry) joinSession(token string, from protocol.Player) {
	r.notify(from, msgJoiningGame)
	if _, playing := r.playerSessions[from.ID]; playing {
		r.notify(from, msgAlreadyPlaying)
		return
	}
	handle, ok := r.mailboxes[token]
	if !ok {
		r.notify(from, msgGameNotFound)
		return
	}
	r.playerSessions[from.ID] = token
	handle.Send(session.Command{Kind: session.AddPlayer, Player: from})
}

// sessionFor resolves a player's session. A player mapped to a session
// absent from the session table means the three maps were not mutated
// together; that is a bug in the registry, not a user error.
func (r *Registry) sessionFor(p protocol.Player) (*session.Handle, bool) {
	id, ok := r.playerSessions[p.ID]
	if !ok {
		return nil, false
	}
	handle, ok := r.mailboxes[id]
	if !ok {
		r.log.WithFields(logrus.Fields{"player": p.ID, "session": id}).Error("registry maps out of sync")
		delete(r.playerSessions, p.ID)
		return nil, false
	}
	return handle, true
}

// sweepIdle warns sessions idle past 90% of the timeout, once, and
// enqueues Terminate past the full timeout. Both are delivered without
// blocking: a stalled worker is the reaper's problem, not the loop's.
func (r *Registry) sweepIdle() {
	for id, act := range r.activity {
		idle := r.now().Sub(act.last)
		handle := r.mailboxes[id]
		switch {
		case idle > r.cfg.IdleTimeout:
			handle.TrySend(session.Command{Kind: session.Terminate})
		case idle > time.Duration(warnAfterIdleShare*float64(r.cfg.IdleTimeout)) && !act.warned:
			if handle.TrySend(session.Command{Kind: session.AboutToExpireWarning}) {
				act.warned = true
			}
		}
	}
}

// reapDead removes every session whose probe says the worker has exited.
// The three maps are always mutated together.
func (r *Registry) reapDead() {
	dead := []string{}
	for id, handle := range r.mailboxes {
		if handle.Probe() == session.Dead {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		r.removeSession(id)
		r.log.WithField("session", id).Info("session reaped")
	}
}

func (r *Registry) addSession(id, playerID string, handle *session.Handle) {
	r.playerSessions[playerID] = id
	r.mailboxes[id] = handle
	r.activity[id] = &activity{last: r.now()}
}

func (r *Registry) removeSession(id string) {
	delete(r.mailboxes, id)
	delete(r.activity, id)
	for playerID, sessionID := range r.playerSessions {
		if sessionID == id {
			delete(r.playerSessions, playerID)
		}
	}
}

func (r *Registry) touch(id string) {
	if act, ok := r.activity[id]; ok {
		act.last = r.now()
		act.warned = false
	}
}

func (r *Registry) notify(to protocol.Player, text string) {
	if _, err := r.transport.Send(protocol.Message{PlayerID: to.ID, Text: text}); err != nil {
		r.log.WithError(err).WithField("player", to.ID).Warn("could not notify player")
	}
}

// shutdown asks every worker to stop; workers finish their current
// command first.
func (r *Registry) shutdown() {
	for id, handle := range r.mailboxes {
		handle.TrySend(session.Command{Kind: session.Terminate})
		r.log.WithField("session", id).Debug("terminate requested")
	}
}
