package errors

import (
	"os"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"massnet.org/sha2/crypto/sha256"
	"massnet.org/sha2/database/storage"
	"massnet.org/sha2/hashutil"
)

func TestCode(t *testing.T) {
	_, malformed := sha256.Digest(make([]byte, 10))
	_, badHex := hashutil.DecodeStringToHash("zz23456789012345678901234567890123456789012345678901234567890123")
	_, missing := os.Open("/nonexistent/sha2/file")

	tests := []struct {
		name string
		err  error
		code uint32
		exit int
	}{
		{"nil", nil, 0, 0},
		{"malformed", malformed, ErrMalformedInput, 2},
		{"hash length", hashutil.ErrInvalidHashLength, ErrInvalidHashLength, 2},
		{"hex", badHex, ErrDecodeHexString, 2},
		{"algorithm", pkgerrors.Wrap(hashutil.ErrUnsupportedAlgorithm, "md5"), ErrUnsupportedDigest, 2},
		{"line", pkgerrors.Wrap(ErrBadChecksumLine, "line 3"), ErrChecksumLine, 2},
		{"mismatch", pkgerrors.Wrapf(ErrMismatch, "%d failed", 2), ErrChecksumMismatch, 1},
		{"record", storage.ErrNotFound, ErrRecordNotFound, 2},
		{"missing", missing, ErrFileNotFound, 2},
		{"unknown", pkgerrors.New("boom"), ErrUnknownErr, 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.code, Code(test.err))
			assert.Equal(t, test.exit, ExitCode(test.err))
			if test.err != nil {
				assert.NotEmpty(t, ErrCode[Code(test.err)])
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "[1301] Computed checksum did not match: checksum mismatch", Describe(ErrMismatch))
}
