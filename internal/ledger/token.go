package ledger

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// SessionToken is the opaque value clients send to identify their session.
//
// Tokens are random integers in [1, 2^31-1] so that clients which parse them as a 32 bit
// signed integer keep working. They are not sequential and not derived from the session id.
type SessionToken int64

// MaxSessionToken is the largest token NewSessionToken returns.
const MaxSessionToken = math.MaxInt32

var tokenRange = big.NewInt(MaxSessionToken)

// NewSessionToken returns a random token. Callers must retry on collision with an existing session.
func NewSessionToken() (SessionToken, error) {
	n, err := rand.Int(rand.Reader, tokenRange)
	if err != nil {
		return 0, fmt.Errorf("failed to generate session token: %w", err)
	}
	return SessionToken(n.Int64() + 1), nil
}

// ParseSessionToken validates the header value sent by a client.
//
// An empty, non-numeric or out of range value is an unauthorized error; whether the token
// belongs to a live session is for the store to decide.
func ParseSessionToken(s string) (SessionToken, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewUnauthorizedError("missing session token")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 1 || v > MaxSessionToken {
		return 0, NewUnauthorizedError("malformed session token")
	}
	return SessionToken(v), nil
}

func (t SessionToken) String() string { return strconv.FormatInt(int64(t), 10) }
