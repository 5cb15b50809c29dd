package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dipplestix/3cbsolver/internal/game"
)

// ErrBudgetExceeded reports that the search ran out of its node or time
// budget. The root returns its best bound so far with the Partial flag
// rather than a proven value.
var ErrBudgetExceeded = errors.New("search budget exceeded")

// Config carries the tunables of a solve.
type Config struct {
	StartingLife  int
	TurnCap       int
	MaxDepth      int
	NodeBudget    uint64        // 0 = unlimited
	Timeout       time.Duration // 0 = no deadline
	TableCapacity int           // transposition entries, 0 = unbounded
}

// DefaultConfig returns the standard solve configuration.
func DefaultConfig() Config {
	return Config{
		StartingLife: 20,
		TurnCap:      50,
		MaxDepth:     500,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.StartingLife == 0 {
		c.StartingLife = d.StartingLife
	}
	if c.TurnCap == 0 {
		c.TurnCap = d.TurnCap
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = d.MaxDepth
	}
	return c
}

// Request names a matchup: two ordered hands and the first mover.
type Request struct {
	Hands [2][]game.CardID
	First game.PlayerID
}

// PVStep is one ply of the principal variation: the fingerprint of the
// state the action was chosen in, and the action.
type PVStep struct {
	Fingerprint uint64
	Action      game.Action
}

// Result is the outcome of a solve. Value is in {-1, 0, +1} from the
// first mover's perspective. Partial marks a budget-truncated bound
// rather than a proven value.
type Result struct {
	Value   int
	PV      []PVStep
	Nodes   uint64
	Partial bool
	RunID   string
	Elapsed time.Duration
}

// Solver owns the search state: transposition and dominance tables and
// the path set for repetition detection. It is single-threaded; tables
// persist across Solve calls so metagame sweeps share work.
type Solver struct {
	cfg    Config
	logger *zap.Logger

	tt   *TranspositionTable
	dom  *DominanceTable
	path map[uint64]struct{}

	nodes    uint64
	deadline time.Time
}

// New creates a solver.
func New(cfg Config, logger *zap.Logger) *Solver {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{
		cfg:    cfg,
		logger: logger,
		tt:     NewTranspositionTable(cfg.TableCapacity),
		dom:    NewDominanceTable(),
		path:   make(map[uint64]struct{}),
	}
}

// rootSalt folds the root player into table keys: values are stored
// from the root's perspective, and tables outlive a single solve.
func rootSalt(root game.PlayerID) uint64 {
	return uint64(root) * 0x9e3779b97f4a7c15
}

// Solve computes the game value of a matchup and the principal
// variation realizing it.
func (sv *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	st, err := game.NewMatch(req.Hands, req.First, sv.cfg.StartingLife)
	if err != nil {
		return nil, err
	}

	sv.nodes = 0
	sv.deadline = time.Time{}
	if sv.cfg.Timeout > 0 {
		sv.deadline = start.Add(sv.cfg.Timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok {
		if sv.deadline.IsZero() || ctxDeadline.Before(sv.deadline) {
			sv.deadline = ctxDeadline
		}
	}

	sv.logger.Info("solving matchup",
		zap.String("run_id", runID),
		zap.Any("hand0", req.Hands[0]),
		zap.Any("hand1", req.Hands[1]),
		zap.Int("first", int(req.First)),
	)

	root := req.First
	value, partial, err := sv.rootSearch(st, root)
	if err != nil {
		return nil, err
	}
	result := &Result{Nodes: sv.nodes, RunID: runID, Value: value, Partial: partial}
	if partial {
		sv.logger.Warn("budget exceeded, returning partial bound",
			zap.String("run_id", runID), zap.Uint64("nodes", sv.nodes))
	}
	if !result.Partial {
		result.PV = sv.principalVariation(st, root)
	}
	result.Elapsed = time.Since(start)

	sv.logger.Info("matchup solved",
		zap.String("run_id", runID),
		zap.Int("value", result.Value),
		zap.Bool("partial", result.Partial),
		zap.Uint64("nodes", result.Nodes),
		zap.Int("tt_entries", sv.tt.Len()),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// rootSearch runs the root action loop by hand so a budget exhaustion
// can surface the best bound proven so far instead of discarding the
// whole solve.
func (sv *Solver) rootSearch(st *game.State, root game.PlayerID) (value int, partial bool, err error) {
	if st.Over {
		return terminalValue(st, root), false, nil
	}
	actions := game.LegalActions(st)
	orderActions(actions)

	best := -2
	alpha, beta := -2, 2
	for _, a := range actions {
		child, err := game.Apply(st, a)
		if err != nil {
			return 0, false, err
		}
		v, err := sv.search(child, root, alpha, beta, 1)
		if err != nil {
			if errors.Is(err, ErrBudgetExceeded) {
				partial = true
				break
			}
			return 0, false, err
		}
		if v > best {
			best = v
		}
		if v > alpha {
			alpha = v
		}
		if alpha >= beta {
			break
		}
	}
	if best < -1 {
		// Nothing fully searched; there is no bound to report.
		return 0, partial, nil
	}
	return best, partial, nil
}

// search is alpha-beta minimax over decision states. The engine has
// already collapsed automatic phases, so every node either is terminal
// or offers actions. Values are from root's perspective throughout; the
// mover at a node is whoever holds the decision, not an alternation.
func (sv *Solver) search(st *game.State, root game.PlayerID, alpha, beta, depth int) (int, error) {
	sv.nodes++
	if sv.cfg.NodeBudget > 0 && sv.nodes > sv.cfg.NodeBudget {
		return 0, ErrBudgetExceeded
	}
	if !sv.deadline.IsZero() && sv.nodes%1024 == 0 && time.Now().After(sv.deadline) {
		return 0, ErrBudgetExceeded
	}

	if st.Over {
		return terminalValue(st, root), nil
	}
	if st.Turn > sv.cfg.TurnCap {
		return 0, nil
	}
	if v, ok := evaluateGrinding(st, root, depth); ok {
		return v, nil
	}
	if depth > sv.cfg.MaxDepth {
		return evaluateMaxDepth(st, root), nil
	}

	fp := st.Fingerprint()
	key := fp ^ rootSalt(root)
	if _, onPath := sv.path[key]; onPath {
		// Revisiting a position on the current line is non-progress:
		// score the loop as a draw.
		return 0, nil
	}
	if v, ok := sv.tt.Lookup(key, alpha, beta); ok {
		return v, nil
	}

	mover := game.DecisionMaker(st)
	boardKey := st.BoardFingerprint() ^ rootSalt(root)
	moverLife := st.Players[root].Life
	oppLife := st.Players[root.Opponent()].Life
	if v, ok := sv.dom.Check(boardKey, moverLife, oppLife); ok {
		return v, nil
	}

	actions := game.LegalActions(st)
	if len(actions) == 0 {
		return 0, fmt.Errorf("%w: no actions at %s", game.ErrInvariantViolation, st.Phase)
	}
	orderActions(actions)

	originalAlpha := alpha
	sv.path[key] = struct{}{}
	defer delete(sv.path, key)

	maximizing := mover == root
	var best int
	if maximizing {
		best = -2
	} else {
		best = 2
	}
	for _, a := range actions {
		child, err := game.Apply(st, a)
		if err != nil {
			return 0, err
		}
		v, err := sv.search(child, root, alpha, beta, depth+1)
		if err != nil {
			return 0, err
		}
		if maximizing {
			if v > best {
				best = v
			}
			if v > alpha {
				alpha = v
			}
		} else {
			if v < best {
				best = v
			}
			if v < beta {
				beta = v
			}
		}
		if alpha >= beta {
			break
		}
	}

	switch {
	case best <= originalAlpha:
		sv.tt.Store(key, best, BoundUpper, depth)
	case best >= beta:
		sv.tt.Store(key, best, BoundLower, depth)
	default:
		sv.tt.Store(key, best, BoundExact, depth)
		if best != 0 {
			sv.dom.Store(boardKey, moverLife, oppLife, best)
		}
	}
	return best, nil
}

func terminalValue(st *game.State, root game.PlayerID) int {
	if st.Draw {
		return 0
	}
	if st.Winner == root {
		return 1
	}
	return -1
}

// principalVariation replays best play from the root using the warm
// tables. It stops at a terminal, at a repeated fingerprint (a draw by
// non-progress), or at a generous length cap.
func (sv *Solver) principalVariation(st *game.State, root game.PlayerID) []PVStep {
	const maxSteps = 400
	var pv []PVStep
	seen := make(map[uint64]struct{})
	for steps := 0; steps < maxSteps && !st.Over; steps++ {
		fp := st.Fingerprint()
		if _, dup := seen[fp]; dup {
			break
		}
		seen[fp] = struct{}{}

		actions := game.LegalActions(st)
		if len(actions) == 0 {
			break
		}
		orderActions(actions)
		mover := game.DecisionMaker(st)
		maximizing := mover == root

		var bestAction *game.Action
		var bestChild *game.State
		bestValue := 2
		if maximizing {
			bestValue = -2
		}
		for i := range actions {
			child, err := game.Apply(st, actions[i])
			if err != nil {
				return pv
			}
			v, err := sv.search(child, root, -2, 2, 0)
			if err != nil {
				return pv
			}
			if (maximizing && v > bestValue) || (!maximizing && v < bestValue) {
				bestValue = v
				bestAction = &actions[i]
				bestChild = child
			}
		}
		if bestAction == nil {
			break
		}
		pv = append(pv, PVStep{Fingerprint: fp, Action: *bestAction})
		st = bestChild
	}
	return pv
}

// orderActions sorts actions by a static heuristic to raise the cut
// rate: land drops, then cheaper casts, then ability activations, then
// attacks (largest sets were generated first), blocks, and pass last.
func orderActions(actions []game.Action) {
	rank := func(a game.Action) int {
		switch a.Kind {
		case game.ActionPlayLand:
			return 0
		case game.ActionCast:
			return 1
		case game.ActionActivate:
			return 2
		case game.ActionDeclareAttackers:
			return 3
		case game.ActionBlock:
			return 4
		default:
			return 5
		}
	}
	sort.SliceStable(actions, func(i, j int) bool {
		ri, rj := rank(actions[i]), rank(actions[j])
		if ri != rj {
			return ri < rj
		}
		if actions[i].Kind == game.ActionCast {
			ci := mustCost(actions[i].Card)
			cj := mustCost(actions[j].Card)
			return ci < cj
		}
		return false
	})
}

func mustCost(id game.CardID) int {
	info, err := game.Lookup(id)
	if err != nil {
		return 0
	}
	return info.Cost.Converted()
}
