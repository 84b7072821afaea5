// Package service coordinates combat encounters end to end: it instantiates
// combatants from the source catalog, loads the encounter aggregate fresh for
// every operation, applies the combat rules, and saves the result under an
// optimistic version check. A failed operation leaves no trace in the
// encounter or its journal.
package service
