package table

import (
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"
)

// ErrFingerprintMismatch is returned by Verify when a rendered table no
// longer matches the recorded fingerprint.
var ErrFingerprintMismatch = errors.New("table fingerprint mismatch")

// Fingerprint is a short, stable digest of rendered text, suited to
// checking that committed documentation still matches the declarations.
func Fingerprint(text string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(text))
}

// Verify compares the fingerprint of text with want.
func Verify(text, want string) error {
	if got := Fingerprint(text); got != want {
		return fmt.Errorf("%w: want %s, got %s", ErrFingerprintMismatch, want, got)
	}

	return nil
}
