package texcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"
)

// HashFunc digests raw pixel bytes into a content hash. It must be
// deterministic across process runs, otherwise cache names stop matching
// persisted hit boxes.
type HashFunc func(pix []byte) string

// HashSHA256 is the default content hash: hex-encoded SHA-256.
func HashSHA256(pix []byte) string {
	sum := sha256.Sum256(pix)
	return hex.EncodeToString(sum[:])
}

// HashBLAKE2b is a faster alternative: hex-encoded BLAKE2b-256.
func HashBLAKE2b(pix []byte) string {
	sum := blake2b.Sum256(pix)
	return hex.EncodeToString(sum[:])
}

var hashFuncs = map[string]HashFunc{
	"sha256":  HashSHA256,
	"blake2b": HashBLAKE2b,
}

// HashFuncByName returns a built-in hash function ("sha256" or "blake2b").
func HashFuncByName(name string) (HashFunc, error) {
	fn, ok := hashFuncs[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hash function %q", ErrInvalidConfig, name)
	}
	return fn, nil
}

var hashPtr atomic.Pointer[HashFunc]

func init() {
	fn := HashFunc(HashSHA256)
	hashPtr.Store(&fn)
}

// SetHashFunc replaces the process-wide content hash. Call it once at
// startup, before any ImageRecord exists: records hashed with different
// functions never compare equal. Pass nil to restore HashSHA256.
func SetHashFunc(fn HashFunc) {
	if fn == nil {
		fn = HashSHA256
	}
	hashPtr.Store(&fn)
}

func contentHash(pix []byte) string {
	return (*hashPtr.Load())(pix)
}
