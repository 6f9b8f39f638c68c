// Package codec turns cached values into bytes and back.
//
// A ReadThrough store frames whatever a Codec produces, so codecs need no
// versioning or integrity checks of their own.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
