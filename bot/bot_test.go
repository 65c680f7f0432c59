package bot

import (
	"io/ioutil"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/tavolagames/tavola/deck"
	utils "github.com/tavolagames/tavola/internal"
	"github.com/tavolagames/tavola/protocol"
)

var (
	anna  = protocol.Player{ID: "p1", Name: "Anna"}
	bruno = protocol.Player{ID: "p2", Name: "Bruno"}
)

// fakeTransport queues scripted inbound events and records everything
// the registry and its session workers send back
type fakeTransport struct {
	mu     sync.Mutex
	events []protocol.Event
	sent   []protocol.Message
	nextID int
}

func (t *fakeTransport) push(e protocol.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func (t *fakeTransport) Poll() []protocol.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := t.events
	t.events = nil
	return events
}

func (t *fakeTransport) Send(msg protocol.Message) (protocol.MessageID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.sent = append(t.sent, msg)
	return protocol.MessageID(strings.Repeat("m", t.nextID)), nil
}

func (t *fakeTransport) Edit(id protocol.MessageID, msg protocol.Message) (protocol.MessageID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg)
	return id, nil
}

func (t *fakeTransport) JoinLink(token string) string {
	return "https://tavola.example/join?start=" + token
}

func (t *fakeTransport) messages() []protocol.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := make([]protocol.Message, len(t.sent))
	copy(msgs, t.sent)
	return msgs
}

func (t *fakeTransport) received(playerID, substr string) bool {
	for _, msg := range t.messages() {
		if msg.PlayerID == playerID && strings.Contains(msg.Text, substr) {
			return true
		}
	}
	return false
}

func (t *fakeTransport) countReceived(playerID, substr string) int {
	n := 0
	for _, msg := range t.messages() {
		if msg.PlayerID == playerID && strings.Contains(msg.Text, substr) {
			n++
		}
	}
	return n
}

func newTestRegistry(transport protocol.Transport) *Registry {
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	cfg := Config{
		BaseURL:      "http://localhost:8000",
		IdleTimeout:  10 * time.Minute,
		PollInterval: 250 * time.Millisecond,
	}
	return New(cfg, transport, log)
}

func buttonPress(from protocol.Player, command, arg string) protocol.Event {
	return protocol.Event{Kind: protocol.EventButton, From: from, Command: command, Arg: arg}
}

func textMessage(from protocol.Player, text string) protocol.Event {
	return protocol.Event{Kind: protocol.EventText, From: from, Text: text}
}

func TestMenuListsEveryVariant(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(textMessage(anna, "/start"))
	r.Tick()

	msgs := transport.messages()
	utils.AssertEqual(t, len(msgs), 1)
	utils.AssertEqual(t, msgs[0].PlayerID, anna.ID)
	utils.AssertEqual(t, msgs[0].Text, msgChooseGame)
	utils.AssertEqual(t, len(msgs[0].Keyboard), 3)
	utils.AssertEqual(t, msgs[0].Keyboard[0][0].Label, "Briscola")
	utils.AssertEqual(t, msgs[0].Keyboard[0][0].Data, "init_game:0")
	utils.AssertEqual(t, msgs[0].Keyboard[1][0].Label, "Beccaccino")
	utils.AssertEqual(t, msgs[0].Keyboard[1][0].Data, "init_game:1")
	utils.AssertEqual(t, msgs[0].Keyboard[2][0].Data, "init_game:2")
}

func TestInitGameCreatesSession(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(buttonPress(anna, "init_game", "0"))
	r.Tick()

	token, ok := r.playerSessions[anna.ID]
	utils.AssertTrue(t, ok)
	_, ok = r.mailboxes[token]
	utils.AssertTrue(t, ok)
	_, ok = r.activity[token]
	utils.AssertTrue(t, ok)

	utils.AssertTrue(t, transport.received(anna.ID, "https://tavola.example/join?start="+token))
	require.Eventually(t, func() bool {
		return transport.received(anna.ID, "Anna si è unita alla partita")
	}, time.Second, 5*time.Millisecond)
}

func TestPlayerCannotJoinTwoGames(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(buttonPress(anna, "init_game", "0"))
	r.Tick()
	transport.push(buttonPress(anna, "init_game", "1"))
	r.Tick()

	utils.AssertTrue(t, transport.received(anna.ID, msgAlreadyPlaying))
	utils.AssertEqual(t, len(r.mailboxes), 1)
}

func TestInitGameRejectsBadVariant(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(buttonPress(anna, "init_game", "9"))
	transport.push(buttonPress(anna, "init_game", "banana"))
	r.Tick()

	utils.AssertEqual(t, transport.countReceived(anna.ID, msgGameNotFound), 2)
	utils.AssertEqual(t, len(r.mailboxes), 0)
}

func TestJoinByLink(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(buttonPress(anna, "init_game", "0"))
	r.Tick()
	token := r.playerSessions[anna.ID]

	transport.push(textMessage(bruno, "/start "+token))
	r.Tick()

	utils.AssertTrue(t, transport.received(bruno.ID, msgJoiningGame))
	utils.AssertEqual(t, r.playerSessions[bruno.ID], token)
	require.Eventually(t, func() bool {
		return transport.received(bruno.ID, "Bruno si è unito alla partita")
	}, time.Second, 5*time.Millisecond)
}

func TestJoinUnknownToken(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(textMessage(bruno, "/start nonexistent"))
	r.Tick()

	utils.AssertTrue(t, transport.received(bruno.ID, msgJoiningGame))
	utils.AssertTrue(t, transport.received(bruno.ID, msgGameNotFound))
	utils.AssertEqual(t, len(r.playerSessions), 0)
}

func TestTextWithoutSession(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(textMessage(bruno, "busso"))
	r.Tick()

	utils.AssertTrue(t, transport.received(bruno.ID, msgGameNotFound))
}

func TestMoveWithBadToken(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(buttonPress(anna, "init_game", "0"))
	r.Tick()
	transport.push(buttonPress(anna, "handle_move", "not-a-card"))
	r.Tick()

	utils.AssertTrue(t, transport.received(anna.ID, msgGameNotFound))
}

func TestIdleSessionsAreWarnedOnceThenTerminated(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)
	started := time.Now()
	clock := started
	r.now = func() time.Time { return clock }

	transport.push(buttonPress(anna, "init_game", "0"))
	r.Tick()
	token := r.playerSessions[anna.ID]

	// just under the warning threshold nothing happens
	clock = started.Add(8 * time.Minute)
	r.Tick()
	utils.AssertTrue(t, !r.activity[token].warned)

	// past 90% the warning goes out, and only once
	clock = started.Add(9*time.Minute + time.Second)
	r.Tick()
	r.Tick()
	utils.AssertTrue(t, r.activity[token].warned)
	require.Eventually(t, func() bool {
		return transport.received(anna.ID, "Questo gioco sarà terminato per inattività a breve!")
	}, time.Second, 5*time.Millisecond)
	utils.AssertEqual(t, transport.countReceived(anna.ID, "terminato per inattività"), 1)

	// activity resets the clock and re-arms the warning
	transport.push(buttonPress(anna, "start", ""))
	r.Tick()
	utils.AssertTrue(t, !r.activity[token].warned)

	// past the full timeout the session is terminated and reaped
	clock = clock.Add(10*time.Minute + time.Second)
	require.Eventually(t, func() bool {
		r.Tick()
		return len(r.mailboxes) == 0
	}, time.Second, 5*time.Millisecond)
	utils.AssertEqual(t, len(r.playerSessions), 0)
	utils.AssertEqual(t, len(r.activity), 0)
}

func TestCrashedSessionIsReaped(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRegistry(transport)

	transport.push(buttonPress(anna, "init_game", "0"))
	r.Tick()
	utils.AssertEqual(t, len(r.mailboxes), 1)

	// a move claiming a card the hand does not hold desyncs the engine,
	// killing that worker; the probe-driven reaper cleans the maps up
	card := deck.Card{Rank: deck.Ace, Suit: deck.Coppe}
	transport.push(buttonPress(anna, "handle_move", card.Token()))
	r.Tick()

	require.Eventually(t, func() bool {
		r.Tick()
		return len(r.mailboxes) == 0
	}, time.Second, 5*time.Millisecond)
	utils.AssertEqual(t, len(r.playerSessions), 0)
	utils.AssertEqual(t, len(r.activity), 0)
}
