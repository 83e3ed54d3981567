// Package fingerprint computes stable content digests for Lox source
// files, used by the CLI's --watch mode to detect whether a changed file
// actually changed the bytes that matter (as opposed to a touch with no
// content change) before triggering a re-run.
package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Of returns a stable hex-encoded BLAKE2b-256 digest of source.
func Of(source []byte) string {
	sum := blake2b.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Changed reports whether candidate's fingerprint differs from previous.
// previous may be empty, in which case any candidate counts as changed.
func Changed(previous string, candidate []byte) (bool, string) {
	next := Of(candidate)
	return next != previous, next
}
