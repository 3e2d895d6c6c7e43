package cache

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"hash/fnv"
	"math"
)

// Kind identifies the kind of pattern a key describes. It is part of the
// key and selects the memory estimator.
type Kind uint8

const (
	KindSolid Kind = iota
	KindLinearGradient
	KindRadialGradient
	KindHatch
	KindTile
	KindImage
	KindMarker
	KindMesh
)

var kindNames = [...]string{"solid", "linear", "radial", "hatch", "tile", "image", "marker", "mesh"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Quantization steps used when hashing floating-point attributes. Values
// closer together than a step hash identically, so numeric noise does not
// fragment the cache.
const (
	// QuantumGeometry is the step for device-space coordinates and lengths.
	QuantumGeometry = 1.0 / 1024
	// QuantumOffset is the step for gradient stop offsets.
	QuantumOffset = 1.0 / 65536
	// QuantumColor is the step for colour components in [0,1].
	QuantumColor = 1.0 / 65535
	// QuantumDPI is the step for resolution.
	QuantumDPI = 1.0 / 1000
)

// Key is a content signature. Two keys are equal exactly when their kind
// and hashed attributes are equal.
type Key struct {
	Kind Kind
	Sum  [16]byte
}

// String returns a printable form of the key.
func (k Key) String() string {
	return k.Kind.String() + ":" + hex.EncodeToString(k.Sum[:])
}

// KeyBuilder accumulates quantized attributes into a Key with FNV-128a.
type KeyBuilder struct {
	kind Kind
	h    hash.Hash
	buf  [8]byte
}

// NewKey starts a key of the given kind.
func NewKey(kind Kind) *KeyBuilder {
	b := &KeyBuilder{kind: kind, h: fnv.New128a()}
	b.h.Write([]byte{byte(kind)})
	return b
}

func (b *KeyBuilder) word(v uint64) *KeyBuilder {
	binary.LittleEndian.PutUint64(b.buf[:], v)
	b.h.Write(b.buf[:])
	return b
}

// Float adds v rounded to a multiple of quantum. NaN and infinities hash
// to fixed sentinels.
func (b *KeyBuilder) Float(v, quantum float64) *KeyBuilder {
	switch {
	case math.IsNaN(v):
		return b.word(0x7ff8000000000001)
	case math.IsInf(v, 1):
		return b.word(0x7ff0000000000000)
	case math.IsInf(v, -1):
		return b.word(0xfff0000000000000)
	}
	q := math.Round(v / quantum)
	if q == 0 {
		q = 0 // fold -0
	}
	return b.word(math.Float64bits(q))
}

// Floats adds every value of vs with the same quantum, preceded by the
// count.
func (b *KeyBuilder) Floats(vs []float64, quantum float64) *KeyBuilder {
	b.Int(int64(len(vs)))
	for _, v := range vs {
		b.Float(v, quantum)
	}
	return b
}

// Int adds an integer.
func (b *KeyBuilder) Int(v int64) *KeyBuilder {
	return b.word(uint64(v))
}

// Bool adds a boolean.
func (b *KeyBuilder) Bool(v bool) *KeyBuilder {
	if v {
		return b.word(1)
	}
	return b.word(0)
}

// String adds a length-prefixed string.
func (b *KeyBuilder) String(s string) *KeyBuilder {
	b.Int(int64(len(s)))
	b.h.Write([]byte(s))
	return b
}

// Key returns the finished key. The builder must not be used afterwards.
func (b *KeyBuilder) Key() Key {
	k := Key{Kind: b.kind}
	b.h.Sum(k.Sum[:0])
	return k
}
