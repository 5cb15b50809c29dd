package game

import (
	"github.com/dipplestix/3cbsolver/internal/game/mana"
)

// Artifact records for the curated catalog. Artifacts share the
// battlefield with everything else: they are permanents addressed by
// index like any other, and since they are not creatures the engine's
// sickness, combat and state-based rules already leave them alone.

// Mox Jet: a free artifact that taps for B. Being castable for zero
// mana, it hits the battlefield on turn one and bankrolls colored
// spells a land drop behind.
func init() {
	register(&CardInfo{
		ID:       "Mox Jet",
		Cost:     mana.MustParse(""),
		Types:    TypeArtifact,
		Produces: mana.Black,
	})
}
