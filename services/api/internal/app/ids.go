package app

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// newTicketKey mints the opaque credential embedded in ticket links and QR
// codes. 32 random bytes; possession of the key is the only thing needed to
// view or check in the ticket, so it must not be derivable from other fields.
func newTicketKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; a zero key must
		// not reach storage regardless.
		panic(err)
	}
	return hex.EncodeToString(b)
}
