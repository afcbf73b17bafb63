package attest

import (
	"encoding/binary"
	"sync/atomic"
	"time"
)

// NonceSize is the length of a signing nonce: 8 bytes of wall-clock
// nanoseconds followed by an 8-byte counter.
const NonceSize = 16

// NonceSource produces nonces that never repeat within one source, even
// when the clock does not advance between calls.
type NonceSource struct {
	now     func() time.Time
	counter atomic.Uint64
}

func NewNonceSource(now func() time.Time) *NonceSource {
	if now == nil {
		now = time.Now
	}
	return &NonceSource{now: now}
}

func (n *NonceSource) Next() []byte {
	nonce := make([]byte, NonceSize)
	binary.BigEndian.PutUint64(nonce[:8], uint64(n.now().UnixNano()))
	binary.BigEndian.PutUint64(nonce[8:], n.counter.Add(1))
	return nonce
}
