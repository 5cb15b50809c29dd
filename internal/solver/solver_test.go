package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dipplestix/3cbsolver/internal/game"
)

var (
	studentHand = []game.CardID{"Plains", "Plains", "Student of Warfare"}
	scfHand     = []game.CardID{"Island", "Island", "Sleep-Cursed Faerie"}
	tigerHand   = []game.CardID{"Forest", "Forest", "Scythe Tiger"}
	nobleHand   = []game.CardID{"Mountain", "Mountain", "Stromkirk Noble"}
	heroHand    = []game.CardID{"Mountain", "Hammerheim", "Heartfire Hero"}
	vaultHand   = []game.CardID{"Mutavault", "Mutavault", "Mutavault"}
)

func newTestSolver(t *testing.T) *Solver {
	t.Helper()
	return New(DefaultConfig(), zaptest.NewLogger(t))
}

func solveHands(t *testing.T, h0, h1 []game.CardID, first game.PlayerID) *Result {
	t.Helper()
	sv := newTestSolver(t)
	res, err := sv.Solve(context.Background(), Request{
		Hands: [2][]game.CardID{h0, h1},
		First: first,
	})
	require.NoError(t, err)
	require.False(t, res.Partial)
	return res
}

func TestSolveValueDomain(t *testing.T) {
	res := solveHands(t, studentHand, studentHand, 0)
	require.Contains(t, []int{-1, 0, 1}, res.Value)
	require.NotZero(t, res.Nodes)
}

func TestSolveIsDeterministic(t *testing.T) {
	a := solveHands(t, studentHand, scfHand, 0)
	b := solveHands(t, studentHand, scfHand, 0)
	require.Equal(t, a.Value, b.Value)
	require.Equal(t, len(a.PV), len(b.PV))
}

// Swapping the hands and the first mover describes the same game from
// the other chair, so the value is unchanged (it is reported from the
// first mover's perspective in both solves).
func TestSolveHandSwapSymmetry(t *testing.T) {
	matchups := [][2][]game.CardID{
		{studentHand, scfHand},
		{nobleHand, studentHand},
		{tigerHand, heroHand},
	}
	for _, m := range matchups {
		a := solveHands(t, m[0], m[1], 0)
		b := solveHands(t, m[1], m[0], 1)
		require.Equal(t, a.Value, b.Value, "matchup %v", m)
	}
}

// A mirror is the same game whichever chair is labeled player 0, and
// the value is reported from the first mover's perspective either way.
func TestMirrorMatchValueConsistency(t *testing.T) {
	a := solveHands(t, studentHand, studentHand, 0)
	b := solveHands(t, studentHand, studentHand, 1)
	require.Equal(t, a.Value, b.Value)
}

// Man-lands only: neither side can ever attack profitably, so optimal
// play grinds to a draw.
func TestMutavaultMirrorIsDraw(t *testing.T) {
	res := solveHands(t, vaultHand, vaultHand, 0)
	require.Equal(t, 0, res.Value)
}

// The returned principal variation must replay to a terminal (or a
// repetition draw) whose value matches the reported one.
func TestPrincipalVariationReplays(t *testing.T) {
	res := solveHands(t, studentHand, tigerHand, 0)
	require.NotEmpty(t, res.PV)

	st, err := game.NewMatch([2][]game.CardID{studentHand, tigerHand}, 0, 20)
	require.NoError(t, err)
	for _, step := range res.PV {
		require.Equal(t, step.Fingerprint, st.Fingerprint(), "PV fingerprint mismatch")
		st, err = game.Apply(st, step.Action)
		require.NoError(t, err)
	}
	if res.Value != 0 {
		require.True(t, st.Over, "decisive PV must reach a terminal state")
		winner := game.PlayerID(0)
		if res.Value < 0 {
			winner = 1
		}
		require.False(t, st.Draw)
		require.Equal(t, winner, st.Winner)
	}
}

func TestNodeBudgetReturnsPartial(t *testing.T) {
	sv := New(Config{NodeBudget: 50}, zaptest.NewLogger(t))
	res, err := sv.Solve(context.Background(), Request{
		Hands: [2][]game.CardID{studentHand, studentHand},
		First: 0,
	})
	require.NoError(t, err)
	require.True(t, res.Partial)
}

func TestSolveUnknownCard(t *testing.T) {
	sv := newTestSolver(t)
	_, err := sv.Solve(context.Background(), Request{
		Hands: [2][]game.CardID{{"No Such Card"}, studentHand},
		First: 0,
	})
	require.ErrorIs(t, err, game.ErrUnknownCard)
}

func TestGoldfishStudent(t *testing.T) {
	sv := newTestSolver(t)
	res, err := sv.Goldfish(context.Background(), studentHand, 10)
	require.NoError(t, err)
	require.NotZero(t, res.KillTurn, "student must goldfish within ten turns")
	require.LessOrEqual(t, res.KillTurn, 7)
	require.NotEmpty(t, res.Line)

	// The line must replay cleanly to the reported kill.
	st, err := game.NewMatch([2][]game.CardID{studentHand, nil}, 0, 20)
	require.NoError(t, err)
	for _, step := range res.Line {
		st, err = game.Apply(st, step.Action)
		require.NoError(t, err)
	}
	require.True(t, st.Over)
	require.Equal(t, game.PlayerID(0), st.Winner)
	require.Equal(t, res.KillTurn, st.Turn)
}

func TestGoldfishNoKill(t *testing.T) {
	sv := newTestSolver(t)
	res, err := sv.Goldfish(context.Background(), []game.CardID{"Forest", "Forest", "Forest"}, 6)
	require.NoError(t, err)
	require.Zero(t, res.KillTurn)
	require.Empty(t, res.Line)
}

func TestPayoffMatrixShape(t *testing.T) {
	sv := newTestSolver(t)
	res, err := sv.PayoffMatrix(context.Background(), []NamedHand{
		{Name: "student", Cards: studentHand},
		{Name: "tiger", Cards: tigerHand},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"student", "tiger"}, res.Decks)
	require.Len(t, res.Values, 2)
	for i := range res.Values {
		require.Len(t, res.Values[i], 2)
		for j, v := range res.Values[i] {
			require.Contains(t, []int{-1, 0, 1}, v, "cell %d,%d", i, j)
		}
	}
}
