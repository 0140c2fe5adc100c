package session

import "fmt"

// Mode is the retention policy of the session cache. Exactly one mode is
// active at a time.
type Mode string

const (
	// ModeSessionPassword remembers passwords until the configured session
	// timeout elapses after the last put (or for the whole process lifetime
	// when the timeout is zero). This is the default.
	ModeSessionPassword Mode = "session-password"

	// ModeTimedPassword remembers passwords for a fixed window after the
	// last put.
	ModeTimedPassword Mode = "timed-password"

	// ModeKeysOnly never keeps passwords; it keeps derived keys until they
	// are explicitly cleared.
	ModeKeysOnly Mode = "keys-only"

	// ModeNoStorage keeps nothing; every open prompts.
	ModeNoStorage Mode = "no-storage"
)

// ParseMode validates s as a [Mode].
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Valid reports whether m is one of the four known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeSessionPassword, ModeTimedPassword, ModeKeysOnly, ModeNoStorage:
		return true
	default:
		return false
	}
}

// keepsPasswords reports whether passwords are retrievable in m.
func (m Mode) keepsPasswords() bool {
	return m == ModeSessionPassword || m == ModeTimedPassword
}

func (m Mode) String() string {
	return string(m)
}
