// Package cursor provides opaque pagination token encoding/decoding.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Direction indicates the pagination direction.
type Direction string

const (
	// DirectionForward paginates forward (seq > cursor).
	DirectionForward Direction = "fwd"
	// DirectionBackward paginates backward (seq < cursor).
	DirectionBackward Direction = "bwd"
)

// Cursor represents the internal state of a pagination cursor.
type Cursor struct {
	// Seq is the action sequence number to paginate from.
	Seq uint64 `json:"seq"`
	// Dir is the pagination direction (fwd = seq > cursor, bwd = seq < cursor).
	Dir Direction `json:"dir"`
	// Reverse indicates whether to temporarily reverse sort order. This is
	// needed when going to a previous page to fetch from the near edge.
	Reverse bool `json:"rev,omitempty"`
	// ScopeHash ensures tokens are invalidated when the encounter or the
	// filter they were minted for changes.
	ScopeHash string `json:"scope_hash,omitempty"`
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque base64 string to a cursor.
// Returns an error if the token is invalid or malformed.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}

	if c.Dir != DirectionForward && c.Dir != DirectionBackward {
		return Cursor{}, fmt.Errorf("invalid cursor direction: %q", c.Dir)
	}

	return c, nil
}

// HashScope computes a short hash binding a token to one encounter and
// filter combination. A 64-bit hash is sufficient for validation.
func HashScope(encounterID, filter string) string {
	h := sha256.Sum256([]byte(encounterID + "\x00" + filter))
	return hex.EncodeToString(h[:8])
}

// ValidateScope checks that the cursor was minted for the same encounter and
// filter as the current request.
func ValidateScope(c Cursor, encounterID, filter string) error {
	if c.ScopeHash != HashScope(encounterID, filter) {
		return fmt.Errorf("scope changed since cursor was created")
	}
	return nil
}

// NewNextPageCursor creates a cursor for the next page.
// For ascending order the next page starts after lastSeq; for descending
// order it starts before it.
func NewNextPageCursor(lastSeq uint64, descending bool, encounterID, filter string) Cursor {
	dir := DirectionForward
	if descending {
		dir = DirectionBackward
	}
	return Cursor{
		Seq:       lastSeq,
		Dir:       dir,
		ScopeHash: HashScope(encounterID, filter),
	}
}

// NewPrevPageCursor creates a cursor for the previous page. It points at the
// first sequence of the current page and flips the fetch direction, with
// Reverse set so the store fills the page from the near edge before restoring
// the requested order.
func NewPrevPageCursor(firstSeq uint64, descending bool, encounterID, filter string) Cursor {
	dir := DirectionBackward
	if descending {
		dir = DirectionForward
	}
	return Cursor{
		Seq:       firstSeq,
		Dir:       dir,
		Reverse:   true,
		ScopeHash: HashScope(encounterID, filter),
	}
}
