package attest

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// CodeAlphabet has 32 symbols and omits 0/O and 1/I.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 8

	codeEntropy = 16
)

var codePattern = regexp.MustCompile(`^[` + CodeAlphabet + `]{8}(-[` + CodeAlphabet + `]{8})?$`)

// CodeAllocator draws verification codes. Uniqueness is enforced by the
// store; the allocator only makes collisions unlikely.
type CodeAllocator struct {
	rand    io.Reader
	now     func() time.Time
	counter atomic.Uint32
}

func NewCodeAllocator(r io.Reader, now func() time.Time) *CodeAllocator {
	if r == nil {
		r = rand.Reader
	}
	if now == nil {
		now = time.Now
	}
	return &CodeAllocator{rand: r, now: now}
}

// Next returns a fresh 8-character code. 16 bytes of entropy, an 8-bit
// counter and the timestamp are hashed and the first 40 bits encoded.
func (a *CodeAllocator) Next() (string, error) {
	var buf [codeEntropy + 1 + 8]byte
	if _, err := io.ReadFull(a.rand, buf[:codeEntropy]); err != nil {
		return "", fmt.Errorf("failed to read code entropy: %w", err)
	}
	buf[codeEntropy] = byte(a.counter.Add(1))
	binary.BigEndian.PutUint64(buf[codeEntropy+1:], uint64(a.now().UnixNano()))

	sum := sha256.Sum256(buf[:])
	return encode40(binary.BigEndian.Uint64(sum[:8]) >> 24), nil
}

// Suffixed appends a suffix derived from the current millisecond, used
// once the random attempts are exhausted.
func (a *CodeAllocator) Suffixed(code string) string {
	ms := uint64(a.now().UnixMilli()) & (1<<40 - 1)
	return code + "-" + encode40(ms)
}

// encode40 renders the low 40 bits of v as 8 symbols, most significant first.
func encode40(v uint64) string {
	var out [CodeLength]byte
	for i := CodeLength - 1; i >= 0; i-- {
		out[i] = CodeAlphabet[v&31]
		v >>= 5
	}
	return string(out[:])
}

// NormalizeCode uppercases user input and checks it against the code format.
func NormalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return code, codePattern.MatchString(code)
}
