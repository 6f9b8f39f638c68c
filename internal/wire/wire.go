// Package wire frames stored values: the generation they were written under,
// a checksum of the payload, and the payload itself.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/cespare/xxhash/v2"
)

const (
	version byte = 1
	hdrLen       = 4 + 1 + 8 + 8 + 4
)

var (
	ErrCorrupt = errors.New("fallbackcache: corrupt entry")
	magic4     = [...]byte{'F', 'B', 'C', 'E'}
)

// Encode lays out
//
//	magic(4) | ver(1) | gen(u64 be) | sum(u64 be, xxhash64 of payload) | vlen(u32 be) | payload(vlen)
func Encode(gen uint64, payload []byte) []byte {
	b := make([]byte, hdrLen+len(payload))
	copy(b, magic4[:])
	b[4] = version
	binary.BigEndian.PutUint64(b[5:13], gen)
	binary.BigEndian.PutUint64(b[13:21], xxhash.Sum64(payload))
	binary.BigEndian.PutUint32(b[21:25], uint32(len(payload)))
	copy(b[hdrLen:], payload)
	return b
}

// Decode validates the frame and returns the generation and a payload slice
// aliasing b. Trailing bytes are rejected.
func Decode(b []byte) (gen uint64, payload []byte, err error) {
	if len(b) < hdrLen || !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	gen = binary.BigEndian.Uint64(b[5:13])
	sum := binary.BigEndian.Uint64(b[13:21])
	vlen := uint64(binary.BigEndian.Uint32(b[21:25]))
	if vlen != uint64(len(b)-hdrLen) {
		return 0, nil, ErrCorrupt
	}
	payload = b[hdrLen:]
	if xxhash.Sum64(payload) != sum {
		return 0, nil, ErrCorrupt
	}
	return gen, payload, nil
}
