package game

import (
	"fmt"

	"github.com/dipplestix/3cbsolver/internal/game/mana"
)

// Creature records for the curated catalog.

// Student of Warfare: W 1/1 with level up {W}. Levels 2-6: 3/3 first
// strike; level 7+: 4/4 double strike. Leveling is automatic whenever
// white mana is spare: an extra level is never worse, so offering it as
// a choice would only widen the tree.
func init() {
	register(&CardInfo{
		ID:         "Student of Warfare",
		Cost:       mana.MustParse("{W}"),
		Types:      TypeCreature,
		Subtypes:   []string{"Human", "Knight"},
		Power:      1,
		Toughness:  1,
		AutoLevel:  true,
		LevelColor: mana.White,
		Grows:      true,
		Hooks: Hooks{
			Stats: func(perm *Permanent) (int, int) {
				switch {
				case perm.Counters.Level >= 7:
					return 4, 4
				case perm.Counters.Level >= 2:
					return 3, 3
				default:
					return 1, 1
				}
			},
			DynamicKeywords: func(perm *Permanent) Keywords {
				switch {
				case perm.Counters.Level >= 7:
					return KeywordFirstStrike | KeywordDoubleStrike
				case perm.Counters.Level >= 2:
					return KeywordFirstStrike
				default:
					return 0
				}
			},
		},
	})
}

// Sleep-Cursed Faerie: U 3/3 flyer that enters tapped with three stun
// counters; each skipped untap removes one. (Ward never matters here,
// nothing targets; the {1}{U} self-untap is not modeled, matching the
// reference implementation.)
func init() {
	register(&CardInfo{
		ID:        "Sleep-Cursed Faerie",
		Cost:      mana.MustParse("{U}"),
		Types:     TypeCreature,
		Subtypes:  []string{"Faerie", "Wizard"},
		Power:     3,
		Toughness: 3,
		Keywords:  KeywordFlying,
		Hooks: Hooks{
			OnEnter: func(s *State, p PlayerID, permIdx int) {
				perm := &s.Players[p].Battlefield[permIdx]
				perm.Tapped = true
				perm.Counters.Add(counterStun, 3)
			},
		},
	})
}

// Scythe Tiger: G 3/2 shroud; casting it demands a land sacrifice.
func init() {
	register(&CardInfo{
		ID:        "Scythe Tiger",
		Cost:      mana.MustParse("{G}"),
		Types:     TypeCreature,
		Subtypes:  []string{"Cat"},
		Power:     3,
		Toughness: 2,
		Keywords:  KeywordShroud,
		Hooks: Hooks{
			CanCast: func(s *State, p PlayerID) bool {
				for i := range s.Players[p].Battlefield {
					if s.Players[p].Battlefield[i].Info().IsLand() {
						return true
					}
				}
				return false
			},
			OnEnter: func(s *State, p PlayerID, permIdx int) {
				for i := range s.Players[p].Battlefield {
					if s.Players[p].Battlefield[i].Info().IsLand() {
						destroyPermanent(s, p, i)
						return
					}
				}
			},
		},
	})
}

// Stromkirk Noble: R 1/1 that cannot be blocked by Humans and grows
// with every combat damage it deals to a player.
func init() {
	register(&CardInfo{
		ID:              "Stromkirk Noble",
		Cost:            mana.MustParse("{R}"),
		Types:           TypeCreature,
		Subtypes:        []string{"Vampire", "Noble"},
		Power:           1,
		Toughness:       1,
		CantBeBlockedBy: []string{"Human"},
		Grows:           true,
		Hooks: Hooks{
			OnDamagePlayer: func(s *State, p PlayerID, permIdx int) {
				s.Players[p].Battlefield[permIdx].Counters.Add(counterPlus, 1)
			},
		},
	})
}

// Heartfire Hero: R 1/1 Valiant mouse; first targeting each turn grows
// it, and its death burns the opponent for its power.
func init() {
	register(&CardInfo{
		ID:        "Heartfire Hero",
		Cost:      mana.MustParse("{R}"),
		Types:     TypeCreature,
		Subtypes:  []string{"Mouse", "Soldier"},
		Power:     1,
		Toughness: 1,
		Grows:     true,
		Hooks: Hooks{
			OnTargeted: func(s *State, p PlayerID, permIdx int) {
				perm := &s.Players[p].Battlefield[permIdx]
				if !perm.TargetedThisTurn {
					perm.TargetedThisTurn = true
					perm.Counters.Add(counterPlus, 1)
				}
			},
			OnDeath: func(s *State, p PlayerID, perm *Permanent) {
				s.Players[p.Opponent()].Life -= perm.Power()
			},
		},
	})
}

// Luminarch Aspirant: 1W 1/1; at the beginning of combat on its
// controller's turn it puts a +1/+1 counter on a creature they control.
// The trigger is mandatory: while unresolved, its target choices are
// the only legal actions in the declare-attackers phase.
func init() {
	register(&CardInfo{
		ID:        "Luminarch Aspirant",
		Cost:      mana.MustParse("{1}{W}"),
		Types:     TypeCreature,
		Subtypes:  []string{"Human", "Cleric"},
		Power:     1,
		Toughness: 1,
		Grows:     true,
		Hooks: Hooks{
			BattlefieldActions: func(s *State, p PlayerID, permIdx int) []Action {
				if s.Phase != PhaseDeclareAttackers || p != s.Active {
					return nil
				}
				self := &s.Players[p].Battlefield[permIdx]
				if self.CombatCounterUsed {
					return nil
				}
				var actions []Action
				seen := make(map[CardID]bool)
				for i := range s.Players[p].Battlefield {
					target := &s.Players[p].Battlefield[i]
					if !target.IsCreature() || seen[target.Card] {
						continue
					}
					seen[target.Card] = true
					actions = append(actions, Action{
						Kind: ActionActivate, Player: p,
						Permanent: permIdx, Ability: AbilityCombatCounter, Target: i,
						Card: "Luminarch Aspirant", TargetCard: target.Card,
					})
				}
				return actions
			},
			Activate: func(s *State, a Action) error {
				player := &s.Players[a.Player]
				self := &player.Battlefield[a.Permanent]
				if self.CombatCounterUsed {
					return fmt.Errorf("%w: combat trigger already resolved", ErrIllegalAction)
				}
				if a.Target < 0 || a.Target >= len(player.Battlefield) {
					return fmt.Errorf("%w: target %d", ErrIllegalAction, a.Target)
				}
				target := &player.Battlefield[a.Target]
				if !target.IsCreature() {
					return fmt.Errorf("%w: %s is not a creature", ErrIllegalAction, target.Card)
				}
				self.CombatCounterUsed = true
				target.Counters.Add(counterPlus, 1)
				return nil
			},
		},
	})
}

// Dragon Sniper: G 1/1 with vigilance, reach and deathtouch. No hooks;
// all three keywords are handled by the combat rules.
func init() {
	register(&CardInfo{
		ID:        "Dragon Sniper",
		Cost:      mana.MustParse("{G}"),
		Types:     TypeCreature,
		Subtypes:  []string{"Human", "Archer"},
		Power:     1,
		Toughness: 1,
		Keywords:  KeywordVigilance | KeywordReach | KeywordDeathtouch,
	})
}

// Old-Growth Dryads: G 3/3. Its enter trigger lets the opponent fetch
// a basic land from their library; libraries are empty in three-card
// play, so the drawback never does anything.
func init() {
	register(&CardInfo{
		ID:        "Old-Growth Dryads",
		Cost:      mana.MustParse("{G}"),
		Types:     TypeCreature,
		Subtypes:  []string{"Dryad"},
		Power:     3,
		Toughness: 3,
	})
}

// Sazh's Chocobo: {1} 0/1 that grows on landfall.
func init() {
	register(&CardInfo{
		ID:        "Sazh's Chocobo",
		Cost:      mana.MustParse("{1}"),
		Types:     TypeCreature,
		Subtypes:  []string{"Bird"},
		Power:     0,
		Toughness: 1,
		Grows:     true,
		Hooks: Hooks{
			OnLandfall: func(s *State, p PlayerID, permIdx int) {
				s.Players[p].Battlefield[permIdx].Counters.Add(counterPlus, 1)
			},
		},
	})
}

// Thallid: G 1/1 fungus; a spore counter each upkeep, and every third
// spore becomes a Saproling. Token creation is folded into the upkeep
// trigger because holding spores back is never better.
func init() {
	register(&CardInfo{
		ID:             "Thallid",
		Cost:           mana.MustParse("{G}"),
		Types:          TypeCreature,
		Subtypes:       []string{"Fungus"},
		Power:          1,
		Toughness:      1,
		TokenGenerator: true,
		Hooks: Hooks{
			OnUpkeep: func(s *State, p PlayerID, permIdx int) {
				perm := &s.Players[p].Battlefield[permIdx]
				perm.Counters.Add(counterSpore, 1)
				if perm.Counters.Spore >= 3 {
					perm.Counters.Remove(counterSpore, 3)
					createToken(s, p, "Saproling")
				}
			},
		},
	})
}

// Saproling: 1/1 green creature token.
func init() {
	register(&CardInfo{
		ID:        "Saproling",
		Types:     TypeCreature,
		Subtypes:  []string{"Saproling"},
		Power:     1,
		Toughness: 1,
		Token:     true,
	})
}

// Urami: legendary 5/5 flying demon token from Tomb of Urami.
func init() {
	register(&CardInfo{
		ID:        "Urami",
		Types:     TypeCreature,
		Subtypes:  []string{"Demon", "Spirit"},
		Power:     5,
		Toughness: 5,
		Keywords:  KeywordFlying,
		Token:     true,
	})
}
