package game

import "fmt"

// Phase represents the steps of a turn. The sequence follows the usual
// turn structure; the first-strike damage step is entered only when a
// combatant has first or double strike, and the second main phase is
// collapsed into the first (nothing in the catalog casts after combat).
type Phase int

const (
	PhaseUntap Phase = iota
	PhaseUpkeep
	PhaseDraw
	PhaseMain1
	PhaseBeginCombat
	PhaseDeclareAttackers
	PhaseDeclareBlockers
	PhaseFirstStrikeDamage
	PhaseCombatDamage
	PhaseEndCombat
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseUntap:             "UNTAP",
	PhaseUpkeep:            "UPKEEP",
	PhaseDraw:              "DRAW",
	PhaseMain1:             "MAIN1",
	PhaseBeginCombat:       "BEGIN_COMBAT",
	PhaseDeclareAttackers:  "DECLARE_ATTACKERS",
	PhaseDeclareBlockers:   "DECLARE_BLOCKERS",
	PhaseFirstStrikeDamage: "FIRST_STRIKE_DAMAGE",
	PhaseCombatDamage:      "COMBAT_DAMAGE",
	PhaseEndCombat:         "END_COMBAT",
	PhaseEnd:               "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Decision reports whether the phase presents a choice to a player.
// Everything else advances automatically.
func (p Phase) Decision() bool {
	switch p {
	case PhaseMain1, PhaseDeclareAttackers, PhaseDeclareBlockers:
		return true
	}
	return false
}

// DecisionMaker returns the player who chooses at the current phase:
// the defender during blocker declaration, the active player otherwise.
func DecisionMaker(s *State) PlayerID {
	if s.Phase == PhaseDeclareBlockers {
		return s.Defender()
	}
	return s.Active
}
