package domain

import "sort"

// InitiativeEntry fixes one combatant's place in the turn order.
type InitiativeEntry struct {
	CombatantID string
	Score       int
	Tiebreaker  int
}

// BuildInitiativeOrder ranks the roster for the whole encounter: highest
// initiative score first, ties broken by the tiebreaker assigned at
// enrollment. The order is deterministic for a given roster and is never
// re-sorted once the encounter starts, so mid-combat health and status
// changes cannot shuffle turns.
func BuildInitiativeOrder(combatants []*Combatant) []InitiativeEntry {
	entries := make([]InitiativeEntry, 0, len(combatants))
	for _, combatant := range combatants {
		entries = append(entries, InitiativeEntry{
			CombatantID: combatant.ID,
			Score:       combatant.InitiativeScore,
			Tiebreaker:  combatant.Tiebreaker,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Tiebreaker < entries[j].Tiebreaker
	})
	return entries
}
