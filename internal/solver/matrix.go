package solver

import (
	"context"

	"go.uber.org/zap"

	"github.com/dipplestix/3cbsolver/internal/game"
)

// NamedHand pairs a deck name with its ordered hand for matrix solves.
type NamedHand struct {
	Name  string
	Cards []game.CardID
}

// MatrixResult is the |D|x|D| payoff matrix over a deck set: cell
// [i][j] is the solved value of deck i against deck j with deck i
// moving first, from deck i's perspective. The Nash layer on top of
// this lives outside the core.
type MatrixResult struct {
	Decks   []string
	Values  [][]int
	Partial [][]bool
	Nodes   uint64
}

// PayoffMatrix solves every ordered pair in the deck set. Tables are
// shared across cells, so mirror positions solved once are free later.
func (sv *Solver) PayoffMatrix(ctx context.Context, decks []NamedHand) (*MatrixResult, error) {
	n := len(decks)
	out := &MatrixResult{
		Decks:   make([]string, n),
		Values:  make([][]int, n),
		Partial: make([][]bool, n),
	}
	for i, d := range decks {
		out.Decks[i] = d.Name
		out.Values[i] = make([]int, n)
		out.Partial[i] = make([]bool, n)
	}
	for i := range decks {
		for j := range decks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res, err := sv.Solve(ctx, Request{
				Hands: [2][]game.CardID{decks[i].Cards, decks[j].Cards},
				First: 0,
			})
			if err != nil {
				return nil, err
			}
			out.Values[i][j] = res.Value
			out.Partial[i][j] = res.Partial
			out.Nodes += res.Nodes
		}
		sv.logger.Info("matrix row solved",
			zap.String("deck", decks[i].Name),
			zap.Ints("values", out.Values[i]),
		)
	}
	return out, nil
}
