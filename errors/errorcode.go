package errors

import (
	"encoding/hex"
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"massnet.org/sha2/crypto/sha256"
	"massnet.org/sha2/database/storage"
	"massnet.org/sha2/hashutil"
)

const (
	// input err
	ErrMalformedInput    = 1101
	ErrInvalidHashLength = 1102
	ErrDecodeHexString   = 1103
	ErrUnsupportedDigest = 1104
	ErrChecksumLine      = 1105

	// file err
	ErrFileNotFound   = 1201
	ErrFileUnreadable = 1202

	// verification err
	ErrChecksumMismatch = 1301
	ErrRecordNotFound   = 1302

	// other err
	ErrUnknownErr = 1701
)

var ErrCode = map[uint32]string{
	ErrMalformedInput:    "Input is not a padded message",
	ErrInvalidHashLength: "Digest must be 64 hexadecimal characters",
	ErrDecodeHexString:   "Argument must be hexadecimal string",
	ErrUnsupportedDigest: "Only sha256 digests are supported",
	ErrChecksumLine:      "Improperly formatted checksum line",
	ErrFileNotFound:      "No such file",
	ErrFileUnreadable:    "Failed to read file",
	ErrChecksumMismatch:  "Computed checksum did not match",
	ErrRecordNotFound:    "No recorded digest",
	ErrUnknownErr:        "Unknown error",
}

// ErrMismatch is returned by verification when at least one digest differs.
var ErrMismatch = pkgerrors.New("checksum mismatch")

// ErrBadChecksumLine is returned for a checksum line that cannot be parsed.
var ErrBadChecksumLine = pkgerrors.New("improperly formatted checksum line")

// Code classifies err into one of the codes above, 0 for nil.
func Code(err error) uint32 {
	if err == nil {
		return 0
	}
	switch cause := pkgerrors.Cause(err); {
	case cause == sha256.ErrMalformedInput:
		return ErrMalformedInput
	case cause == hashutil.ErrInvalidHashLength:
		return ErrInvalidHashLength
	case cause == hashutil.ErrUnsupportedAlgorithm:
		return ErrUnsupportedDigest
	case cause == ErrBadChecksumLine:
		return ErrChecksumLine
	case cause == ErrMismatch:
		return ErrChecksumMismatch
	case cause == storage.ErrNotFound:
		return ErrRecordNotFound
	case os.IsNotExist(cause):
		return ErrFileNotFound
	case os.IsPermission(cause):
		return ErrFileUnreadable
	}
	if _, ok := pkgerrors.Cause(err).(hex.InvalidByteError); ok {
		return ErrDecodeHexString
	}
	return ErrUnknownErr
}

// ExitCode maps err to a process exit status: 0 on success, 1 when a
// verification failed, 2 for every other error.
func ExitCode(err error) int {
	switch Code(err) {
	case 0:
		return 0
	case ErrChecksumMismatch:
		return 1
	default:
		return 2
	}
}

// Describe returns a one-line message for err prefixed by its code.
func Describe(err error) string {
	code := Code(err)
	if code == 0 {
		return ""
	}
	return fmt.Sprintf("[%d] %s: %v", code, ErrCode[code], err)
}
