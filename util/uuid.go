package util

import (
	"crypto/rand"
	"fmt"
)

// PsuUUID makes a pseudo-UUID from random bytes. Good enough for log
// session correlation; not a substitute for a real UUID library.
func PsuUUID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:]), nil
}
