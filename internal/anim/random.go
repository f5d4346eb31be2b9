package anim

import "hash/fnv"

// Random returns a number in [0, 1) determined only by seed. Decorative
// placement (stars, clouds) keys every coordinate by its own seed string, for
// example "star-12-x".
func Random(seed string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	x := h.Sum64()

	// splitmix64 finalizer spreads similar seeds apart
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return float64(x>>11) / (1 << 53)
}
