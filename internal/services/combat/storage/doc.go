// Package storage defines persistence interfaces for the combat service.
//
// It covers encounter state, combatant rows, the append-only attack action
// journal, the character/enemy/weapon source catalog, and aggregate
// statistics. Implementations (e.g., SQLite) live in subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
//   - ErrVersionConflict: optimistic save lost the race and must be retried
package storage
