package skin

import "fmt"

// Index is an unsigned index width a renderer may consume.
type Index interface {
	~uint8 | ~uint16 | ~uint32
}

// Narrow converts 32-bit indices to T. It fails on the first value that
// does not fit; nothing is truncated.
func Narrow[T Index](idx []uint32) ([]T, error) {
	limit := uint64(^T(0))
	out := make([]T, len(idx))
	for i, v := range idx {
		if uint64(v) > limit {
			return nil, fmt.Errorf("skin: index %d at position %d exceeds %d: %w", v, i, limit, ErrIndexOverflow)
		}
		out[i] = T(v)
	}
	return out, nil
}

// Indices16 narrows the merged indices to 16 bits.
func (b *Buffers) Indices16() ([]uint16, error) {
	return Narrow[uint16](b.Indices)
}

// Fits16 reports whether every merged index fits in 16 bits.
func (b *Buffers) Fits16() bool {
	for _, v := range b.Indices {
		if v > 0xffff {
			return false
		}
	}
	return true
}
