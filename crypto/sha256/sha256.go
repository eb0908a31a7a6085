// Package sha256 implements the SHA-256 hash algorithm as defined in FIPS 180-4.
//
// The whole message must be in memory: Pad builds the padded message and Digest
// compresses it block by block. Sum256 chains the two.
package sha256

import (
	"encoding/binary"
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// The size of a SHA-256 checksum in bytes.
const Size = 32

// The blocksize of SHA-256 in bytes.
const BlockSize = 64

const (
	chunk = BlockSize
	init0 = 0x6A09E667
	init1 = 0xBB67AE85
	init2 = 0x3C6EF372
	init3 = 0xA54FF53A
	init4 = 0x510E527F
	init5 = 0x9B05688C
	init6 = 0x1F83D9AB
	init7 = 0x5BE0CD19
)

// ErrMalformedInput indicates Digest was handed data that is not a padded message.
var ErrMalformedInput = errors.New("malformed input")

// Sum256 returns the SHA-256 checksum of the data.
func Sum256(data []byte) [Size]byte {
	sum, err := Digest(Pad(data))
	if err != nil {
		// Pad always yields a non-empty multiple of BlockSize.
		panic(err)
	}
	return sum
}

// Digest compresses an already padded message. The length of padded must be
// a positive multiple of BlockSize, otherwise the returned error wraps
// ErrMalformedInput.
func Digest(padded []byte) ([Size]byte, error) {
	var sum [Size]byte
	if len(padded) == 0 || len(padded)%chunk != 0 {
		return sum, pkgerrors.Wrapf(ErrMalformedInput,
			"padded length %d is not a positive multiple of %d", len(padded), chunk)
	}

	h := [8]uint32{init0, init1, init2, init3, init4, init5, init6, init7}
	for p := padded; len(p) > 0; p = p[chunk:] {
		block(&h, p[:chunk])
	}

	for i, s := range h {
		binary.BigEndian.PutUint32(sum[i*4:], s)
	}
	return sum, nil
}
