package game

import (
	"github.com/dipplestix/3cbsolver/internal/game/mana"
)

// Mana never floats between actions in this engine: sources are tapped
// while paying a specific cost and the pool is emptied at every phase
// boundary. Payment is deterministic: sources of the exact color are
// tapped in battlefield order with high-output sources first, then
// rainbow sources, then anything else for the generic part. The search
// never branches on payment; with this catalog no alternative tap order
// strictly beats the greedy one.

// manaSource describes one available source for cost payment.
type manaSource struct {
	idx    int
	color  mana.Type
	output int
}

// manaSources lists the usable sources for a player: untapped producers
// whose tap is currently legal. Creatures that produce mana (Dryad
// Arbor) cannot be tapped while summoning-sick. exclude removes one
// battlefield index, for abilities whose own source must not help pay
// (-1 for none).
func manaSources(s *State, p PlayerID, exclude int) []manaSource {
	player := &s.Players[p]
	var out []manaSource
	for i := range player.Battlefield {
		if i == exclude {
			continue
		}
		perm := &player.Battlefield[i]
		info := perm.Info()
		if info.Produces == mana.None || perm.Tapped {
			continue
		}
		if perm.IsCreature() && perm.SummoningSick() {
			continue
		}
		output := 1
		if info.ManaOutput != nil {
			output = info.ManaOutput(perm)
		}
		if output <= 0 {
			continue
		}
		out = append(out, manaSource{idx: i, color: info.Produces, output: output})
	}
	return out
}

// canPayCost reports whether the player's untapped sources cover a cost.
func canPayCost(s *State, p PlayerID, cost mana.Cost) bool {
	return canPayCostExcluding(s, p, cost, -1)
}

// canPayCostExcluding is canPayCost with one source barred from
// contributing.
func canPayCostExcluding(s *State, p PlayerID, cost mana.Cost, exclude int) bool {
	if cost.Free() {
		return true
	}
	byColor := make(map[mana.Type]int)
	wild, total := 0, 0
	for _, src := range manaSources(s, p, exclude) {
		total += src.output
		if src.color == mana.Any {
			wild += src.output
		} else {
			byColor[src.color] += src.output
		}
	}
	for color, need := range cost.Colors() {
		have := byColor[color]
		if have < need {
			wild -= need - have
			if wild < 0 {
				return false
			}
		}
	}
	return total >= cost.Converted()
}

// payCost taps sources and spends the cost from the player's pool. The
// caller must have checked canPayCost; failure here is an engine bug.
func payCost(s *State, p PlayerID, cost mana.Cost) {
	payCostExcluding(s, p, cost, -1)
}

// payCostExcluding is payCost with one source barred from contributing.
func payCostExcluding(s *State, p PlayerID, cost mana.Cost, exclude int) {
	if cost.Free() {
		return
	}
	player := &s.Players[p]
	pool := &player.Pool

	tap := func(src manaSource, as mana.Type) {
		perm := &player.Battlefield[src.idx]
		perm.Tapped = true
		pool.Add(as, src.output)
		if hook := perm.Info().Hooks.OnTapForMana; hook != nil {
			hook(s, p, src.idx)
		}
	}

	// Colored requirements: exact-color sources first, high output
	// first, then rainbow sources.
	for _, color := range []mana.Type{mana.White, mana.Blue, mana.Black, mana.Red, mana.Green} {
		need := cost.Colors()[color]
		for need > pool.Amount(color) {
			src, ok := pickSourceExcluding(s, p, color, exclude)
			if !ok {
				break
			}
			tap(src, color)
		}
	}
	// Generic remainder: any source at all, non-rainbow first.
	for pool.Total() < cost.Converted() {
		src, ok := pickGenericSource(s, p, exclude)
		if !ok {
			break
		}
		as := src.color
		if as == mana.Any {
			as = mana.Colorless
		}
		tap(src, as)
	}

	if !pool.Pay(cost) {
		panic(ErrInvariantViolation)
	}
}

// pickSource selects the next source to tap for a colored requirement.
func pickSource(s *State, p PlayerID, color mana.Type) (manaSource, bool) {
	return pickSourceExcluding(s, p, color, -1)
}

func pickSourceExcluding(s *State, p PlayerID, color mana.Type, exclude int) (manaSource, bool) {
	sources := manaSources(s, p, exclude)
	best := manaSource{idx: -1}
	for _, src := range sources {
		if src.color != color {
			continue
		}
		if best.idx < 0 || src.output > best.output {
			best = src
		}
	}
	if best.idx >= 0 {
		return best, true
	}
	for _, src := range sources {
		if src.color == mana.Any {
			return src, true
		}
	}
	return manaSource{}, false
}

// pickGenericSource selects the next source for generic mana, saving
// rainbow sources for last.
func pickGenericSource(s *State, p PlayerID, exclude int) (manaSource, bool) {
	sources := manaSources(s, p, exclude)
	for _, src := range sources {
		if src.color != mana.Any {
			return src, true
		}
	}
	if len(sources) > 0 {
		return sources[0], true
	}
	return manaSource{}, false
}
