// Package quizgen builds Truthle question sets: a date-seeded random stream,
// the per-kind question generators, and the daily/practice set builders.
package quizgen

// Rand is the uniform source generators draw from. *RNG implements it for the
// seeded daily path; *math/rand.Rand satisfies it as-is for the practice path.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// RNG is a deterministic Mulberry32-style stream. All arithmetic is explicit
// 32-bit so the sequence is identical across platforms: same date string,
// same quiz, for everyone.
type RNG struct {
	state uint32
}

// NewDateRNG seeds the stream from a calendar date string (UTC YYYY-MM-DD).
func NewDateRNG(date string) *RNG {
	return &RNG{state: hashString(date)}
}

// hashString is a polynomial rolling hash, order-sensitive and stable.
func hashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// Float64 returns the next value in [0, 1).
func (r *RNG) Float64() float64 {
	r.state += 0x6d2b79f5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / 4294967296.0
}

// Intn returns a value in [0, n). Panics if n <= 0, matching math/rand.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("quizgen: Intn called with non-positive n")
	}
	return int(r.Float64() * float64(n))
}

// Shuffle is a Fisher-Yates shuffle driven by the seeded stream.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}
