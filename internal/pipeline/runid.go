package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Run IDs are ULIDs: 26 Crockford base32 characters, a millisecond timestamp
// followed by randomness, so they sort by start time.

var (
	runIDMu sync.Mutex
	lastMs  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewRunID returns a new time-ordered run identifier.
func NewRunID() string {
	runIDMu.Lock()
	defer runIDMu.Unlock()

	ms := uint64(time.Now().UnixMilli())
	if ms == lastMs {
		lastSeq++
	} else {
		lastMs = ms
		lastSeq = 0
	}

	var b [16]byte
	// 48-bit big-endian timestamp.
	binary.BigEndian.PutUint64(b[0:8], ms<<16)
	rand.Read(b[6:])
	// Sequence keeps IDs from the same millisecond ordered.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeCrockford(b)
}

// encodeCrockford writes the 128 bits of b as 26 base32 digits, five bits at
// a time from the least significant end.
func encodeCrockford(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[0:8])
	lo := binary.BigEndian.Uint64(b[8:16])

	var out [26]byte
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// RunIDTime returns the timestamp encoded in a run ID.
func RunIDTime(id string) (time.Time, bool) {
	if len(id) != 26 {
		return time.Time{}, false
	}
	var ms uint64
	for i := 0; i < 10; i++ {
		v := indexCrockford(id[i])
		if v < 0 {
			return time.Time{}, false
		}
		ms = ms<<5 | uint64(v)
	}
	// Ten digits are 50 bits: two bits of padding, then the timestamp.
	return time.UnixMilli(int64(ms)), true
}

func indexCrockford(c byte) int {
	for i := 0; i < len(crockford); i++ {
		if crockford[i] == c {
			return i
		}
	}
	return -1
}
