package quotient

import (
	"unsafe"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// hashSeed keeps fingerprints deterministic across processes.
const hashSeed = 2023

// hashBytes produces a fingerprint for an arbitrary byte sequence:
// murmur3 for 32-bit filters, xxh3 for 64-bit ones. Any deterministic
// well-distributed hash would do; these are the ones we already carry.
func hashBytes[F Fingerprint](data []byte) F {
	var zero F
	if unsafe.Sizeof(zero) == 4 {
		return F(murmur3.Sum32WithSeed(data, hashSeed))
	}
	return F(xxh3.HashSeed(data, hashSeed))
}
