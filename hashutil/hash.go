package hashutil

import (
	_ "crypto/sha256" // go-digest checks that crypto.SHA256 is linked in
	"encoding/hex"
	"errors"
	"strings"

	"github.com/opencontainers/go-digest"
	pkgerrors "github.com/pkg/errors"
	"massnet.org/sha2/crypto/sha256"
)

var (
	// ErrInvalidHashLength indicates the length of hash is invalid.
	ErrInvalidHashLength = errors.New("invalid length for hash")

	// ErrUnsupportedAlgorithm indicates a content digest names an algorithm other than sha256.
	ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")
)

// Hash represents a 32-byte hash value.
type Hash [sha256.Size]byte

// SHA256 returns the sha256 of raw.
func SHA256(raw []byte) Hash {
	return sha256.Sum256(raw)
}

// DoubleSHA256 returns sha256(sha256(raw)).
func DoubleSHA256(raw []byte) Hash {
	h := SHA256(raw)
	return SHA256(h[:])
}

// Bytes converts Hash to Byte Slice.
func (h Hash) Bytes() []byte {
	var bs Hash
	copy(bs[:], h[:])
	return bs[:]
}

// String converts Hash to String.
func (h Hash) String() string {
	return EncodeToString(h[:])
}

// ContentDigest returns h in the "sha256:<hex>" content address form.
func (h Hash) ContentDigest() digest.Digest {
	return digest.NewDigestFromEncoded(digest.SHA256, h.String())
}

// EncodeToString returns the lowercase hexadecimal encoding of b,
// two characters per byte with no separators.
func EncodeToString(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeStringToHash decodes a string value to Hash,
// the length of string value must be 64.
func DecodeStringToHash(str string) (Hash, error) {
	if len(str) != 64 {
		return Hash{}, ErrInvalidHashLength
	}
	hBytes, err := hex.DecodeString(str)
	if err != nil {
		return Hash{}, err
	}
	var h = Hash{}
	copy(h[:], hBytes)

	return h, nil
}

// ParseContentDigest accepts either a bare 64-character hex string or a
// "sha256:<hex>" content digest.
func ParseContentDigest(str string) (Hash, error) {
	if !strings.Contains(str, ":") {
		return DecodeStringToHash(str)
	}
	d := digest.Digest(str)
	if d.Algorithm() != digest.SHA256 {
		return Hash{}, pkgerrors.Wrapf(ErrUnsupportedAlgorithm, "%s", d.Algorithm())
	}
	if err := d.Validate(); err != nil {
		return Hash{}, pkgerrors.Wrapf(err, "parse content digest %q", str)
	}
	return DecodeStringToHash(d.Encoded())
}
