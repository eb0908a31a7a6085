package testutil

import (
	"math/rand"
)

func SameErrorString(err, target error) bool {
	if err == nil && target == nil {
		return true
	}
	if err == nil || target == nil {
		return false
	}
	return err.Error() == target.Error()
}

// RandomMessages returns count messages of random length in [0, maxLen),
// generated deterministically from seed.
func RandomMessages(seed int64, count, maxLen int) [][]byte {
	rng := rand.New(rand.NewSource(seed))
	msgs := make([][]byte, count)
	for i := range msgs {
		msg := make([]byte, rng.Intn(maxLen))
		rng.Read(msg)
		msgs[i] = msg
	}
	return msgs
}
