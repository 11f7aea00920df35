package cpufeatures

import "math/bits"

// MaxFeatures is the number of bit indices an [Initializer] can hold.
const MaxFeatures = 128

const initializerWords = MaxFeatures / 64

// Initializer is a fixed-capacity set of feature bit indices.
//
// The zero value is the empty set. A probe only ever adds bits to it;
// there is no way to clear a bit once set.
type Initializer struct {
	words [initializerWords]uint64
}

// Set adds index to the set. Setting an index twice has no further effect.
// Indices at or above [MaxFeatures] are ignored.
func (i *Initializer) Set(index uint32) {
	if index >= MaxFeatures {
		return
	}
	i.words[index/64] |= 1 << (index % 64)
}

// Test reports whether index is in the set.
func (i Initializer) Test(index uint32) bool {
	if index >= MaxFeatures {
		return false
	}
	return i.words[index/64]&(1<<(index%64)) != 0
}

// IsEmpty reports whether no bit is set.
func (i Initializer) IsEmpty() bool {
	return i == Initializer{}
}

// Indices returns the set bit indices in ascending order.
func (i Initializer) Indices() []uint32 {
	var out []uint32
	for w, word := range i.words {
		for word != 0 {
			b := uint32(bits.TrailingZeros64(word))
			out = append(out, uint32(w)*64+b)
			word &= word - 1
		}
	}
	return out
}

// without returns a new set holding the bits of i that are not in mask.
func (i Initializer) without(mask Initializer) Initializer {
	var out Initializer
	for _, index := range i.Indices() {
		if !mask.Test(index) {
			out.Set(index)
		}
	}
	return out
}

// enableFeature sets f's bit when cond holds.
func (i *Initializer) enableFeature(f Feature, cond bool) {
	if cond {
		i.Set(f.Index())
	}
}

// enableFeatures sets the bits of every feature in fs when cond holds.
func (i *Initializer) enableFeatures(fs []Feature, cond bool) {
	for _, f := range fs {
		i.enableFeature(f, cond)
	}
}
