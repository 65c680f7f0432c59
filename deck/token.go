package deck

import (
	"encoding/base64"
	"errors"
)

var ErrBadToken = errors.New("malformed card token")

// Token serialises the card into an opaque string small enough to ride
// along in a button payload. ParseToken is its inverse.
func (c Card) Token() string {
	return base64.RawURLEncoding.EncodeToString([]byte{byte(c.Rank), byte(c.Suit)})
}

// ParseToken decodes a card previously encoded with Token
func ParseToken(token string) (Card, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Card{}, ErrBadToken
	}
	if len(raw) != 2 {
		return Card{}, ErrBadToken
	}
	rank, suit := Rank(raw[0]), Suit(raw[1])
	if rank < Ace || rank > Jolly || suit < Bastoni || suit > Spade {
		return Card{}, ErrBadToken
	}
	return Card{Rank: rank, Suit: suit}, nil
}
