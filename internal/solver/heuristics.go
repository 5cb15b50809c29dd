package solver

import (
	"github.com/dipplestix/3cbsolver/internal/game"
)

// Terminal heuristics for grinding positions. These only ever convert
// provably non-progressing positions into exact values; nothing
// approximate flows back into the search.

// grindDepth is the depth past which the grinding classifier may fire;
// unresolved grinds are settled by evaluateMaxDepth at the configured
// depth cap.
const grindDepth = 30

type boardSummary struct {
	creatures      int
	tokenGenerator bool
	grows          bool
}

func summarize(p *game.Player) boardSummary {
	var b boardSummary
	for i := range p.Battlefield {
		perm := &p.Battlefield[i]
		info := perm.Info()
		if info.TokenGenerator {
			b.tokenGenerator = true
		}
		if perm.IsCreature() && perm.Power() > 0 {
			b.creatures++
			if info.Grows {
				b.grows = true
			}
		}
	}
	return b
}

// evaluateGrinding classifies board states whose outcome is
// mathematically determined once both hands are empty: an unbounded
// token generator overwhelms a board that has creatures but neither
// generates tokens nor grows. Other boards, including a grower against
// a generator, are left undecided here. Returns the value from root's
// perspective and whether a determination was made.
func evaluateGrinding(s *game.State, root game.PlayerID, depth int) (int, bool) {
	if depth <= grindDepth {
		return 0, false
	}
	if len(s.Players[0].Hand) > 0 || len(s.Players[1].Hand) > 0 {
		return 0, false
	}
	b0 := summarize(&s.Players[0])
	b1 := summarize(&s.Players[1])

	winner := func(p game.PlayerID) (int, bool) {
		if p == root {
			return 1, true
		}
		return -1, true
	}

	// Token generator against a board that neither generates nor grows.
	if b1.tokenGenerator && !b0.tokenGenerator && !b0.grows && b0.creatures > 0 {
		return winner(1)
	}
	if b0.tokenGenerator && !b1.tokenGenerator && !b1.grows && b1.creatures > 0 {
		return winner(0)
	}
	return 0, false
}

// evaluateMaxDepth is the last resort at the configured depth cap:
// one-sided boards resolve to the side with creatures, a token generator
// beats a side that neither generates nor grows, a grower without a
// generator beats a generator that does not grow, and anything left is
// a stalemate draw.
func evaluateMaxDepth(s *game.State, root game.PlayerID) int {
	if len(s.Players[0].Hand) > 0 || len(s.Players[1].Hand) > 0 {
		return 0
	}
	b0 := summarize(&s.Players[0])
	b1 := summarize(&s.Players[1])

	value := func(p game.PlayerID) int {
		if p == root {
			return 1
		}
		return -1
	}

	if b0.creatures > 0 && b1.creatures == 0 && !b1.tokenGenerator {
		return value(0)
	}
	if b1.creatures > 0 && b0.creatures == 0 && !b0.tokenGenerator {
		return value(1)
	}
	if b1.tokenGenerator && !b0.tokenGenerator && !b0.grows {
		return value(1)
	}
	if b0.tokenGenerator && !b1.tokenGenerator && !b1.grows {
		return value(0)
	}
	if b0.grows && !b0.tokenGenerator && b1.tokenGenerator && !b1.grows {
		return value(0)
	}
	if b1.grows && !b1.tokenGenerator && b0.tokenGenerator && !b0.grows {
		return value(1)
	}
	return 0
}
