// Package keys derives deterministic cache keys from unordered input.
//
// Equal content gives equal digests regardless of the order it was presented
// in: string sets are sorted (and deduplicated) and maps are encoded with
// CBOR Core Deterministic ordering before hashing.
package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/fxamacker/cbor/v2"
)

var detEnc cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	detEnc = em
}

// Strings returns the hex SHA-256 of the sorted, deduplicated set.
// The input slice is not modified.
func Strings(set []string) string {
	s := slices.Clone(set)
	slices.Sort(s)
	s = slices.Compact(s)
	if s == nil {
		s = []string{}
	}
	b, err := detEnc.Marshal(s)
	if err != nil {
		// a []string always encodes
		panic(err)
	}
	return digest(b)
}

// Map returns the hex SHA-256 of m's canonical encoding. It fails only when
// a value cannot be CBOR-encoded (channels, funcs, ...).
func Map[V any](m map[string]V) (string, error) {
	if m == nil {
		m = map[string]V{}
	}
	b, err := detEnc.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("keys: encode map: %w", err)
	}
	return digest(b), nil
}

// Prefixed joins prefix and digest as "<prefix>:<digest>".
func Prefixed(prefix, digest string) string {
	if prefix == "" {
		return digest
	}
	return prefix + ":" + digest
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
