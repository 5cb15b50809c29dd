package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSleepCursedFaerieStunCounters(t *testing.T) {
	s := newTestMatch(t, []CardID{"Island", "Island", "Sleep-Cursed Faerie"},
		[]CardID{"Forest"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Island"))
	s = mustApply(t, s, byKindAndCard(ActionCast, "Sleep-Cursed Faerie"))

	faerie := &s.Players[0].Battlefield[1]
	require.True(t, faerie.Tapped)
	require.Equal(t, 3, faerie.Counters.Stun)

	// Three of its controller's untap steps replace the untap with a
	// counter removal; only the fourth finally untaps it.
	for i := 0; i < 3; i++ {
		s = endTurn(t, s) // opponent's turn
		s = endTurn(t, s) // back to the faerie's controller
		faerie = &s.Players[0].Battlefield[1]
		require.Equal(t, 2-i, faerie.Counters.Stun, "after untap %d", i+1)
		require.True(t, faerie.Tapped, "after untap %d", i+1)
	}
	s = endTurn(t, s)
	s = endTurn(t, s)
	faerie = &s.Players[0].Battlefield[1]
	require.False(t, faerie.Tapped)
}

func TestScytheTigerSacrificesALand(t *testing.T) {
	s := newTestMatch(t, []CardID{"Forest", "Forest", "Scythe Tiger"},
		[]CardID{"Mountain"}, 0)

	// Turn 1: no land on the battlefield yet when the forest is still
	// in hand, so the tiger is only castable after the drop.
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Forest"))
	s = mustApply(t, s, byKindAndCard(ActionCast, "Scythe Tiger"))

	require.Len(t, s.Players[0].Battlefield, 1)
	require.Equal(t, CardID("Scythe Tiger"), s.Players[0].Battlefield[0].Card)
	require.Equal(t, []CardID{"Forest"}, s.Players[0].Graveyard)
	require.NoError(t, CheckInvariants(s))
}

func TestScytheTigerNotPayableBySickDryadArbor(t *testing.T) {
	s := newTestMatch(t, []CardID{"Dryad Arbor", "Forest", "Scythe Tiger"},
		[]CardID{"Mountain"}, 0)
	// Dryad Arbor is the land drop; it is summoning-sick, so it cannot
	// tap for G this turn and the tiger stays stranded.
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Dryad Arbor"))
	_, ok := findAction(s, byKindAndCard(ActionCast, "Scythe Tiger"))
	require.False(t, ok, "sick Dryad Arbor must not pay for the tiger")
}

func TestThallidSporesIntoSaprolings(t *testing.T) {
	s := newTestMatch(t, []CardID{"Forest", "Forest", "Thallid"},
		[]CardID{"Mountain"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Forest"))
	s = mustApply(t, s, byKindAndCard(ActionCast, "Thallid"))

	// Three upkeeps accumulate three spores; the third converts into a
	// Saproling token.
	for i := 0; i < 3; i++ {
		s = endTurn(t, s)
		s = endTurn(t, s)
	}
	var saprolings int
	for i := range s.Players[0].Battlefield {
		if s.Players[0].Battlefield[i].Card == "Saproling" {
			saprolings++
		}
	}
	require.Equal(t, 1, saprolings)
	// Tokens never count against the three-card total.
	require.NoError(t, CheckInvariants(s))
}

func TestRemoteFarmDepletes(t *testing.T) {
	s := newTestMatch(t, []CardID{"Remote Farm", "Plains", "Luminarch Aspirant"},
		[]CardID{"Mountain"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Remote Farm"))
	farm := &s.Players[0].Battlefield[0]
	require.True(t, farm.Tapped, "Remote Farm enters tapped")
	require.Equal(t, 2, farm.Counters.Depletion)

	s = endTurn(t, s)
	s = endTurn(t, s)

	// One tap pays the aspirant's {1}{W} alone and burns a counter.
	s = mustApply(t, s, byKindAndCard(ActionCast, "Luminarch Aspirant"))
	farm = &s.Players[0].Battlefield[0]
	require.Equal(t, CardID("Remote Farm"), farm.Card)
	require.Equal(t, 1, farm.Counters.Depletion)

	s = endTurn(t, s)
	s = endTurn(t, s)
	s = endTurn(t, s)
	s = endTurn(t, s)
	require.NoError(t, CheckInvariants(s))
}

func TestMutavaultAnimates(t *testing.T) {
	s := newTestMatch(t, []CardID{"Mutavault", "Mutavault", "Mutavault"},
		[]CardID{"Forest"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Mutavault"))
	s = endTurn(t, s)
	s = endTurn(t, s)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Mutavault"))

	// Two Mutavaults on the battlefield: animating one taps the other
	// for its {1}.
	s = mustApply(t, s, func(a Action) bool {
		return a.Kind == ActionActivate && a.Ability == AbilityAnimate
	})
	var animated, tappedSources int
	for i := range s.Players[0].Battlefield {
		perm := &s.Players[0].Battlefield[i]
		if perm.Animated {
			animated++
			require.True(t, perm.IsCreature())
			require.Equal(t, 2, perm.Power())
		}
		if perm.Tapped {
			tappedSources++
		}
	}
	require.Equal(t, 1, animated)
	require.Equal(t, 1, tappedSources)

	// Animation wears off in the end step.
	s = endTurn(t, s)
	for i := range s.Players[0].Battlefield {
		require.False(t, s.Players[0].Battlefield[i].Animated)
	}
}

func TestStudentAutoLevels(t *testing.T) {
	s := newTestMatch(t, []CardID{"Plains", "Plains", "Student of Warfare"},
		[]CardID{"Forest"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Plains"))
	s = mustApply(t, s, byKindAndCard(ActionCast, "Student of Warfare"))
	s = endTurn(t, s)
	s = endTurn(t, s)

	// Turn 3 upkeep taps the free Plains for a level.
	student := &s.Players[0].Battlefield[1]
	require.Equal(t, 1, student.Counters.Level)

	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Plains"))
	s = mustApply(t, s, func(a Action) bool { return a.Kind == ActionPass })
	// Start of combat levels again off the fresh land: level 2 is a
	// 3/3 first striker.
	student = &s.Players[0].Battlefield[1]
	require.Equal(t, 2, student.Counters.Level)
	require.Equal(t, 3, student.Power())
	require.True(t, student.EffectiveKeywords().Has(KeywordFirstStrike))
}

func TestBottomlessVaultAccumulatesAndReleases(t *testing.T) {
	s := newTestMatch(t, []CardID{"Bottomless Vault", "Swamp", "Tomb of Urami"},
		[]CardID{"Forest"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Bottomless Vault"))

	vault := &s.Players[0].Battlefield[0]
	require.True(t, vault.Tapped)
	require.True(t, vault.StayTapped)

	// Accumulate across three upkeeps.
	for i := 0; i < 3; i++ {
		s = endTurn(t, s)
		s = endTurn(t, s)
	}
	vault = &s.Players[0].Battlefield[0]
	require.Equal(t, 3, vault.Counters.Storage)

	// Release: the vault unlocks and untaps at the next untap step.
	s = mustApply(t, s, func(a Action) bool { return a.Ability == AbilityRelease })
	s = endTurn(t, s)
	s = endTurn(t, s)
	vault = &s.Players[0].Battlefield[0]
	require.False(t, vault.Tapped)
	// A skipped accumulation turn: still 3 counters, now spendable.
	require.Equal(t, 3, vault.Counters.Storage)
}

func TestDragonSniperVigilanceAttacksUntapped(t *testing.T) {
	s := newTestMatch(t, []CardID{"Forest", "Forest", "Dragon Sniper"},
		[]CardID{"Mountain"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Forest"))
	s = mustApply(t, s, byKindAndCard(ActionCast, "Dragon Sniper"))
	s = endTurn(t, s)
	s = endTurn(t, s)

	s = mustApply(t, s, func(a Action) bool { return a.Kind == ActionPass })
	require.Equal(t, PhaseDeclareAttackers, s.Phase)
	s = mustApply(t, s, func(a Action) bool {
		return a.Kind == ActionDeclareAttackers && len(a.Attackers) == 1
	})

	// Combat resolved straight through (no blockers); vigilance left
	// the sniper untapped and its power landed.
	sniper := &s.Players[0].Battlefield[1]
	require.False(t, sniper.Tapped)
	require.Equal(t, 19, s.Players[1].Life)
}

func TestReachBlocksFlyers(t *testing.T) {
	sniper := &Permanent{Card: "Dragon Sniper"}
	tiger := &Permanent{Card: "Scythe Tiger"}
	faerie := &Permanent{Card: "Sleep-Cursed Faerie", Attacking: true}

	require.True(t, canBlock(sniper, faerie), "reach must block flying")
	require.False(t, canBlock(tiger, faerie), "ground creature must not block flying")
}

func TestMoxJetBankrollsAnimation(t *testing.T) {
	s := newTestMatch(t, []CardID{"Mox Jet", "Mutavault", "Mutavault"},
		[]CardID{"Forest"}, 0)

	// Free cast: no mana sources needed on turn one.
	s = mustApply(t, s, byKindAndCard(ActionCast, "Mox Jet"))
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Mutavault"))

	// The mox is the only untapped source; animation taps it for {1}.
	s = mustApply(t, s, func(a Action) bool {
		return a.Kind == ActionActivate && a.Ability == AbilityAnimate
	})
	mox := &s.Players[0].Battlefield[0]
	require.Equal(t, CardID("Mox Jet"), mox.Card)
	require.True(t, mox.Tapped)
	require.False(t, mox.IsCreature())

	vault := &s.Players[0].Battlefield[1]
	require.True(t, vault.Animated)
	require.NoError(t, CheckInvariants(s))
}

func TestHammerheimTriggersValiant(t *testing.T) {
	s := newTestMatch(t, []CardID{"Mountain", "Hammerheim", "Heartfire Hero"},
		[]CardID{"Forest"}, 0)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Mountain"))
	s = mustApply(t, s, byKindAndCard(ActionCast, "Heartfire Hero"))
	s = endTurn(t, s)
	s = endTurn(t, s)
	s = mustApply(t, s, byKindAndCard(ActionPlayLand, "Hammerheim"))

	s = mustApply(t, s, func(a Action) bool {
		return a.Kind == ActionActivate && a.Ability == AbilityTarget
	})
	hero := &s.Players[0].Battlefield[1]
	require.Equal(t, 1, hero.Counters.Plus)
	require.True(t, hero.TargetedThisTurn)

	// The valiant trigger is once per turn: no second target action.
	_, ok := findAction(s, func(a Action) bool { return a.Ability == AbilityTarget })
	require.False(t, ok)
}
