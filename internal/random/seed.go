// Package random provides cryptographic seed generation helpers.
//
// Dice rolls are reproducible given a seed, so the quality of the seed is
// what stands between a player and a predictable fight. Seeds come from
// crypto/rand rather than the clock.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
