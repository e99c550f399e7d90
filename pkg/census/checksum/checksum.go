// Package checksum computes streaming content digests for scanned
// files. Files are read in fixed-size chunks so checksum cost is
// O(size) time and O(1) memory regardless of file size.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/gofrs/flock"
)

// chunkSize is the read buffer size used while streaming file content
// through the digest.
const chunkSize = 8 * 1024

// Algorithm identifies a supported digest algorithm.
type Algorithm string

// Supported digest algorithms. SHA256 is the default.
const (
	SHA256 Algorithm = "sha256"
	SHA1   Algorithm = "sha1"
	MD5    Algorithm = "md5"
)

// ErrUnknownAlgorithm is returned when an algorithm name is not recognized.
var ErrUnknownAlgorithm = errors.New("unknown checksum algorithm")

// ParseAlgorithm parses an algorithm name. Names are case-insensitive
// and dashes are ignored, so "SHA-256" and "sha256" are equivalent.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ReplaceAll(strings.ToLower(s), "-", "") {
	case "", "sha256":
		return SHA256, nil
	case "sha1":
		return SHA1, nil
	case "md5":
		return MD5, nil
	default:
		return SHA256, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, s)
	}
}

func (a Algorithm) hasher() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New()
	case MD5:
		return md5.New()
	default:
		return sha256.New()
	}
}

// File returns the lowercase hex SHA-256 digest of the file at path.
func File(path string) (string, error) {
	return Sum(path, SHA256)
}

// Sum returns the lowercase hex digest of the file at path using the
// given algorithm.
//
// A shared advisory lock is held for the duration of the read so a
// cooperating writer cannot mutate the file mid-digest. The lock is
// released before Sum returns. Lock acquisition is best effort: a
// filesystem without advisory locking still gets a checksum, just
// without writer exclusion.
//
// A file that no longer exists yields ("", nil): the scan may race with
// deletion, and a vanished file is not an error. Any other open or read
// failure is returned to the caller.
func Sum(path string, algo Algorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	// The lock target is opened read-only so losing a race with
	// deletion can never recreate the file in the scanned directory.
	lock := flock.New(path, flock.SetFlag(os.O_RDONLY))
	if locked, lockErr := lock.TryRLock(); lockErr == nil && locked {
		defer func() { _ = lock.Unlock() }()
	}

	digest := algo.hasher()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(digest, f, buf); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
