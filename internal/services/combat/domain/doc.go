// Package domain models the combat encounter aggregate.
//
// An encounter owns its combatant roster, initiative order, turn pointer,
// round counter, and the record of every resolved attack. It moves through
// a strict lifecycle (not started, active, completed) and is loaded, mutated,
// and saved whole on every operation; optimistic versioning at the storage
// layer keeps concurrent resolutions from trampling each other.
//
// The package holds:
//   - combatant snapshots and their in-encounter state,
//   - initiative ordering and the turn scheduler,
//   - attack resolution against armor class with critical and fumble rules,
//   - the health-driven enemy behavior model,
//   - and end-of-combat detection per side.
//
// Everything here is synchronous and free of I/O. Randomness enters only
// through the Roller interface, so a seeded source replays an entire fight.
package domain
