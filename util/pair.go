package util

// Pair is an ordered couple, such as a key and its value
type Pair[A, B any] struct {
	Fst A
	Snd B
}

func NewPair[A, B any](fst A, snd B) Pair[A, B] {
	return Pair[A, B]{Fst: fst, Snd: snd}
}

func (p Pair[A, B]) Unpack() (A, B) {
	return p.Fst, p.Snd
}

// Unzip splits pairs into their first and second elements
func Unzip[A, B any](pairs []Pair[A, B]) ([]A, []B) {
	fsts, snds := make([]A, len(pairs)), make([]B, len(pairs))
	for i, p := range pairs {
		fsts[i], snds[i] = p.Unpack()
	}
	return fsts, snds
}
