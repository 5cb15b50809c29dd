package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMatch(t *testing.T, hand0, hand1 []CardID, first PlayerID) *State {
	t.Helper()
	s, err := NewMatch([2][]CardID{hand0, hand1}, first, 20)
	require.NoError(t, err)
	return s
}

// findAction returns the first legal action matching the predicate.
func findAction(s *State, match func(Action) bool) (Action, bool) {
	for _, a := range LegalActions(s) {
		if match(a) {
			return a, true
		}
	}
	return Action{}, false
}

// mustApply applies the first matching legal action.
func mustApply(t *testing.T, s *State, match func(Action) bool) *State {
	t.Helper()
	a, ok := findAction(s, match)
	require.True(t, ok, "no matching action at %s among %v", s.Phase, LegalActions(s))
	ns, err := Apply(s, a)
	require.NoError(t, err)
	return ns
}

func byKindAndCard(kind ActionKind, card CardID) func(Action) bool {
	return func(a Action) bool { return a.Kind == kind && a.Card == card }
}

// pass takes the do-nothing choice at the current decision phase. A
// pending mandatory combat trigger has no do-nothing choice; its first
// option is taken instead.
func pass(t *testing.T, s *State) *State {
	t.Helper()
	if s.Phase == PhaseDeclareAttackers {
		if a, ok := findAction(s, func(a Action) bool {
			return a.Kind == ActionDeclareAttackers && len(a.Attackers) == 0
		}); ok {
			ns, err := Apply(s, a)
			require.NoError(t, err)
			return ns
		}
		return mustApply(t, s, func(a Action) bool { return a.Kind == ActionActivate })
	}
	return mustApply(t, s, func(a Action) bool { return a.Kind == ActionPass })
}

// endTurn passes through every remaining decision of the current turn.
func endTurn(t *testing.T, s *State) *State {
	t.Helper()
	turn := s.Turn
	for !s.Over && s.Turn == turn {
		s = pass(t, s)
	}
	return s
}

func TestNewMatchReachesFirstDecision(t *testing.T) {
	s := newTestMatch(t, []CardID{"Plains", "Plains", "Student of Warfare"},
		[]CardID{"Forest", "Forest", "Scythe Tiger"}, 0)

	require.Equal(t, PhaseMain1, s.Phase)
	require.Equal(t, PlayerID(0), s.Active)
	require.Equal(t, 1, s.Turn)
	require.Equal(t, 20, s.Players[0].Life)
}

func TestPlayLandAndCast(t *testing.T) {
	s := newTestMatch(t, []CardID{"Plains", "Plains", "Student of Warfare"},
		[]CardID{"Forest"}, 0)

	// No mana yet: the cast must not be offered.
	if _, ok := findAction(s, byKindAndCard(ActionCast, "Student of Warfare")); ok {
		t.Fatal("cast offered without mana")
	}

	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Plains"))
	require.True(t, s.LandPlayed)
	require.Len(t, s.Players[0].Battlefield, 1)

	// Second land drop this turn must be gone.
	if _, ok := findAction(s, byKindAndCard(ActionPlayLand, "Plains")); ok {
		t.Fatal("second land drop offered in one turn")
	}

	s = mustApply(t, s, byKindAndCard(ActionCast, "Student of Warfare"))
	require.Len(t, s.Players[0].Battlefield, 2)
	require.Len(t, s.Players[0].Hand, 1)

	student := &s.Players[0].Battlefield[1]
	require.Equal(t, CardID("Student of Warfare"), student.Card)
	require.True(t, student.SummoningSick())
	// The Plains was tapped for the cast.
	require.True(t, s.Players[0].Battlefield[0].Tapped)

	require.NoError(t, CheckInvariants(s))
}

func TestSummoningSicknessSkipsCombat(t *testing.T) {
	s := newTestMatch(t, []CardID{"Plains", "Plains", "Student of Warfare"},
		[]CardID{"Forest"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Plains"))
	s = mustApply(t, s, byKindAndCard(ActionCast, "Student of Warfare"))

	// Passing the main phase must skip combat entirely (the only
	// creature is summoning-sick) and hand the turn over.
	s = pass(t, s)
	require.Equal(t, PlayerID(1), s.Active)
	require.Equal(t, 2, s.Turn)
	require.Equal(t, PhaseMain1, s.Phase)
}

func TestApplyRejectsIllegalActions(t *testing.T) {
	s := newTestMatch(t, []CardID{"Plains", "Plains", "Student of Warfare"},
		[]CardID{"Forest"}, 0)

	// Wrong player.
	_, err := Apply(s, Action{Kind: ActionPass, Player: 1})
	require.ErrorIs(t, err, ErrIllegalAction)

	// Cast without mana.
	_, err = Apply(s, Action{Kind: ActionCast, Player: 0, Hand: 2, Card: "Student of Warfare"})
	require.ErrorIs(t, err, ErrIllegalAction)

	// Attack declaration outside the combat phase.
	_, err = Apply(s, Action{Kind: ActionDeclareAttackers, Player: 0, Attackers: []int{0}})
	require.ErrorIs(t, err, ErrIllegalAction)
}

func TestApplyIsDeterministic(t *testing.T) {
	s := newTestMatch(t, []CardID{"Plains", "Plains", "Student of Warfare"},
		[]CardID{"Forest", "Forest", "Scythe Tiger"}, 0)

	a, ok := findAction(s, byKindAndCard(ActionPlayLand, "Plains"))
	require.True(t, ok)

	s1, err := Apply(s, a)
	require.NoError(t, err)
	s2, err := Apply(s, a)
	require.NoError(t, err)

	require.Equal(t, s1.Fingerprint(), s2.Fingerprint())
	// The source state is untouched.
	require.Empty(t, s.Players[0].Battlefield)
}

func TestUntapClearsSicknessAndAllowsAttack(t *testing.T) {
	s := newTestMatch(t, []CardID{"Plains", "Plains", "Student of Warfare"},
		[]CardID{"Forest"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Plains"))
	s = mustApply(t, s, byKindAndCard(ActionCast, "Student of Warfare"))
	s = endTurn(t, s) // to opponent
	s = endTurn(t, s) // back to player 0, turn 3

	require.Equal(t, PlayerID(0), s.Active)

	// Play the second Plains, pass to combat: the Student (auto-leveled
	// off spare white mana) must be an eligible attacker now.
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Plains"))
	s = mustApply(t, s, func(a Action) bool { return a.Kind == ActionPass })
	require.Equal(t, PhaseDeclareAttackers, s.Phase)

	attack, ok := findAction(s, func(a Action) bool {
		return a.Kind == ActionDeclareAttackers && len(a.Attackers) == 1
	})
	require.True(t, ok, "student must be able to attack")
	ns, err := Apply(s, attack)
	require.NoError(t, err)
	// Unblockable board: combat resolves straight through to the
	// opponent's turn with damage dealt.
	require.Less(t, ns.Players[1].Life, 20)
}

func TestZoneInvariantHoldsAcrossTurns(t *testing.T) {
	s := newTestMatch(t, []CardID{"Forest", "Forest", "Scythe Tiger"},
		[]CardID{"Mountain", "Mountain", "Stromkirk Noble"}, 0)
	for turn := 0; turn < 6 && !s.Over; turn++ {
		if a, ok := findAction(s, func(a Action) bool { return a.Kind == ActionPlayLand }); ok {
			ns, err := Apply(s, a)
			require.NoError(t, err)
			s = ns
		}
		if a, ok := findAction(s, func(a Action) bool { return a.Kind == ActionCast }); ok {
			ns, err := Apply(s, a)
			require.NoError(t, err)
			s = ns
		}
		s = endTurn(t, s)
		require.NoError(t, CheckInvariants(s))
	}
}

func TestNewMatchRejectsUnknownAndTokenCards(t *testing.T) {
	_, err := NewMatch([2][]CardID{{"No Such Card"}, nil}, 0, 20)
	require.ErrorIs(t, err, ErrUnknownCard)

	_, err = NewMatch([2][]CardID{{"Saproling"}, nil}, 0, 20)
	require.True(t, errors.Is(err, ErrIllegalAction))
}
