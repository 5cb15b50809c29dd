package solver

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/dipplestix/3cbsolver/internal/game"
)

// Goldfishing: one-sided play against an inert opponent, used to
// measure a hand's fastest kill.

// GoldfishResult reports the earliest kill turn and the line reaching
// it. KillTurn is 0 when the hand cannot kill within the window.
type GoldfishResult struct {
	KillTurn int
	Line     []PVStep
	Nodes    uint64
}

const noKill = math.MaxInt32

// Goldfish searches for the fastest kill of an empty-handed opponent
// within maxTurns. The opponent never has a meaningful decision, so the
// search minimizes kill turn over the hand's own lines.
func (sv *Solver) Goldfish(ctx context.Context, hand []game.CardID, maxTurns int) (*GoldfishResult, error) {
	st, err := game.NewMatch([2][]game.CardID{hand, nil}, 0, sv.cfg.StartingLife)
	if err != nil {
		return nil, err
	}
	sv.nodes = 0

	// Memo on fingerprints, which exclude the turn counter: cache the
	// number of turns still needed from a position, not the absolute
	// kill turn.
	memo := make(map[uint64]int)
	onPath := make(map[uint64]struct{})

	remaining := sv.goldfish(st, memo, onPath, maxTurns)
	result := &GoldfishResult{Nodes: sv.nodes}
	if remaining >= noKill {
		sv.logger.Info("goldfish found no kill",
			zap.Any("hand", hand), zap.Int("max_turns", maxTurns))
		return result, nil
	}
	result.KillTurn = st.Turn + remaining
	result.Line = sv.goldfishLine(st, memo, maxTurns)
	sv.logger.Info("goldfish solved",
		zap.Any("hand", hand),
		zap.Int("kill_turn", result.KillTurn),
		zap.Uint64("nodes", result.Nodes),
	)
	return result, nil
}

// goldfish returns how many more turns the active position needs to
// kill, or noKill.
func (sv *Solver) goldfish(st *game.State, memo map[uint64]int, onPath map[uint64]struct{}, maxTurns int) int {
	sv.nodes++
	if st.Over {
		if !st.Draw && st.Winner == 0 {
			return 0
		}
		return noKill
	}
	if st.Turn > maxTurns {
		return noKill
	}

	fp := st.Fingerprint()
	if _, cyc := onPath[fp]; cyc {
		return noKill
	}
	if v, ok := memo[fp]; ok {
		return v
	}
	onPath[fp] = struct{}{}
	defer delete(onPath, fp)

	best := noKill
	for _, a := range game.LegalActions(st) {
		child, err := game.Apply(st, a)
		if err != nil {
			continue
		}
		v := sv.goldfish(child, memo, onPath, maxTurns)
		if v < noKill {
			v += child.Turn - st.Turn
			if v < best {
				best = v
			}
		}
	}
	// noKill answers can be horizon artifacts (the same position seen
	// on an earlier turn may still kill), so only kills are memoized.
	if best < noKill {
		memo[fp] = best
	}
	return best
}

// goldfishLine replays the fastest line using the warm memo.
func (sv *Solver) goldfishLine(st *game.State, memo map[uint64]int, maxTurns int) []PVStep {
	var line []PVStep
	onPath := make(map[uint64]struct{})
	for !st.Over && st.Turn <= maxTurns && len(line) < 400 {
		fp := st.Fingerprint()
		var bestAction *game.Action
		var bestChild *game.State
		best := noKill
		actions := game.LegalActions(st)
		for i := range actions {
			child, err := game.Apply(st, actions[i])
			if err != nil {
				continue
			}
			v := sv.goldfish(child, memo, onPath, maxTurns)
			if v < noKill {
				v += child.Turn - st.Turn
			}
			if v < best {
				best = v
				bestAction = &actions[i]
				bestChild = child
			}
		}
		if bestAction == nil {
			break
		}
		line = append(line, PVStep{Fingerprint: fp, Action: *bestAction})
		st = bestChild
	}
	return line
}
