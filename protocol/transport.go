package protocol

// Button is one interactive control in an outbound message. Data is an
// opaque command token sent back verbatim when the button is pressed.
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Message is an outbound message to a single recipient
type Message struct {
	PlayerID string     `json:"playerID"`
	Text     string     `json:"text"`
	Keyboard [][]Button `json:"keyboard,omitempty"`
}

// MessageID identifies a sent message so it can later be edited in place
type MessageID string

// EventKind tags the kind of an inbound Event
type EventKind int

const (
	EventText EventKind = iota
	EventButton
)

// Event is an inbound event from the chat transport. Text messages carry
// Text; button presses carry Command and Arg, split on the first colon of
// the button's Data token.
type Event struct {
	Kind    EventKind
	From    Player
	Text    string
	Command string
	Arg     string
}

// Transport is the boundary contract with the chat layer. Implementations
// poll inbound events at-least-once and deliver outbound messages, returning
// an identifier that allows a later in-place edit.
type Transport interface {
	Poll() []Event
	Send(Message) (MessageID, error)
	Edit(MessageID, Message) (MessageID, error)
	JoinLink(token string) string
}
