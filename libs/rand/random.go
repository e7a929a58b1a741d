// Package rand provides a pseudo-random number generator seeded with OS
// randomness. It is used by tests that need repeat-free payloads; none of
// the provided functions are suitable for cryptographic usage.
package rand

import (
	crand "crypto/rand"
	mrand "math/rand"

	scsync "github.com/rohankumardubey/scidb/libs/sync"
)

const strChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz" // 62 characters

// Rand is a prng seeded with OS randomness.
// All of the methods here are suitable for concurrent use.
type Rand struct {
	scsync.Mutex
	rand *mrand.Rand
}

var grand *Rand

func init() {
	grand = NewRand()
}

func NewRand() *Rand {
	r := &Rand{}
	r.rand = mrand.New(mrand.NewSource(newSeed())) //nolint:gosec // not for crypto
	return r
}

func newSeed() int64 {
	bz := make([]byte, 8)
	if _, err := crand.Read(bz); err != nil {
		panic(err)
	}
	var seed uint64
	for i := 0; i < 8; i++ {
		seed |= uint64(bz[i])
		seed <<= 8
	}
	return int64(seed)
}

// Bytes returns n random bytes generated from the global prng.
func Bytes(n int) []byte {
	return grand.Bytes(n)
}

// Str constructs a random alphanumeric string of given length from the
// global prng.
func Str(length int) string {
	return grand.Str(length)
}

// Uint64 returns a random uint64 from the global prng.
func Uint64() uint64 {
	return grand.Uint64()
}

// Intn returns, as an int, a uniform pseudo-random number in [0, n).
// It panics if n <= 0.
func Intn(n int) int {
	return grand.Intn(n)
}

func (r *Rand) Bytes(n int) []byte {
	bs := make([]byte, n)
	r.Lock()
	for i := range bs {
		bs[i] = byte(r.rand.Int() & 0xFF)
	}
	r.Unlock()
	return bs
}

func (r *Rand) Str(length int) string {
	if length <= 0 {
		return ""
	}

	chars := make([]byte, 0, length)
	for {
		val := r.Uint64()
		for i := 0; i < 10; i++ {
			v := int(val & 0x3f) // rightmost 6 bits
			if v >= 62 {         // only 62 characters in strChars
				val >>= 6
				continue
			}
			chars = append(chars, strChars[v])
			if len(chars) == length {
				return string(chars)
			}
			val >>= 6
		}
	}
}

func (r *Rand) Uint64() uint64 {
	r.Lock()
	v := uint64(r.rand.Int63())<<1 | uint64(r.rand.Int63()&1)
	r.Unlock()
	return v
}

func (r *Rand) Intn(n int) int {
	r.Lock()
	v := r.rand.Intn(n)
	r.Unlock()
	return v
}
