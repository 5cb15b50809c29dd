package game

import (
	"fmt"

	"github.com/dipplestix/3cbsolver/internal/game/mana"
)

// Land records for the curated catalog. Each entry is a static record
// plus the hooks it contributes; the engine itself knows nothing about
// individual cards.

func registerBasicLand(name string, produces mana.Type, subtype string) {
	register(&CardInfo{
		ID:       CardID(name),
		Types:    TypeLand,
		Subtypes: []string{subtype},
		Produces: produces,
	})
}

func init() {
	registerBasicLand("Plains", mana.White, "Plains")
	registerBasicLand("Island", mana.Blue, "Island")
	registerBasicLand("Swamp", mana.Black, "Swamp")
	registerBasicLand("Mountain", mana.Red, "Mountain")
	registerBasicLand("Forest", mana.Green, "Forest")
}

// Hammerheim: legendary land, taps for R or to strip landwalk from a
// creature. The targeting mode only matters as a valiant enabler, so
// actions are generated only for targets that care about being
// targeted.
func init() {
	register(&CardInfo{
		ID:       "Hammerheim",
		Types:    TypeLand,
		Produces: mana.Red,
		Hooks: Hooks{
			BattlefieldActions: func(s *State, p PlayerID, permIdx int) []Action {
				if s.Phase != PhaseMain1 || p != s.Active {
					return nil
				}
				self := &s.Players[p].Battlefield[permIdx]
				if self.Tapped {
					return nil
				}
				var actions []Action
				for i := range s.Players[p].Battlefield {
					target := &s.Players[p].Battlefield[i]
					if target.Info().Hooks.OnTargeted == nil || target.TargetedThisTurn {
						continue
					}
					actions = append(actions, Action{
						Kind: ActionActivate, Player: p,
						Permanent: permIdx, Ability: AbilityTarget, Target: i,
						Card: "Hammerheim", TargetCard: target.Card,
					})
				}
				return actions
			},
			Activate: func(s *State, a Action) error {
				player := &s.Players[a.Player]
				self := &player.Battlefield[a.Permanent]
				if self.Tapped {
					return fmt.Errorf("%w: Hammerheim is tapped", ErrIllegalAction)
				}
				if a.Target < 0 || a.Target >= len(player.Battlefield) {
					return fmt.Errorf("%w: target %d", ErrIllegalAction, a.Target)
				}
				self.Tapped = true
				target := &player.Battlefield[a.Target]
				if hook := target.Info().Hooks.OnTargeted; hook != nil {
					hook(s, a.Player, a.Target)
				}
				return nil
			},
		},
	})
}

// Pendelhaven: legendary land, taps for G or to give a 1/1 +1/+2 until
// end of turn. The pump is offered while blocks are being declared.
func init() {
	register(&CardInfo{
		ID:       "Pendelhaven",
		Types:    TypeLand,
		Produces: mana.Green,
		Hooks: Hooks{
			BattlefieldActions: func(s *State, p PlayerID, permIdx int) []Action {
				if s.Phase != PhaseDeclareBlockers || p != s.Defender() {
					return nil
				}
				self := &s.Players[p].Battlefield[permIdx]
				if self.Tapped {
					return nil
				}
				var actions []Action
				seen := make(map[string]bool)
				for i := range s.Players[p].Battlefield {
					target := &s.Players[p].Battlefield[i]
					if !target.IsCreature() || target.Power() != 1 || target.Toughness() != 1 {
						continue
					}
					sig := permSignature(target)
					if !s.blockerAssigned(i) && seen[sig] {
						continue
					}
					seen[sig] = true
					actions = append(actions, Action{
						Kind: ActionActivate, Player: p,
						Permanent: permIdx, Ability: AbilityPump, Target: i,
						Card: "Pendelhaven", TargetCard: target.Card,
					})
				}
				return actions
			},
			Activate: func(s *State, a Action) error {
				player := &s.Players[a.Player]
				self := &player.Battlefield[a.Permanent]
				if self.Tapped {
					return fmt.Errorf("%w: Pendelhaven is tapped", ErrIllegalAction)
				}
				if a.Target < 0 || a.Target >= len(player.Battlefield) {
					return fmt.Errorf("%w: target %d", ErrIllegalAction, a.Target)
				}
				target := &player.Battlefield[a.Target]
				if !target.IsCreature() || target.Power() != 1 || target.Toughness() != 1 {
					return fmt.Errorf("%w: %s is not a 1/1", ErrIllegalAction, target.Card)
				}
				self.Tapped = true
				target.PumpPower++
				target.PumpToughness += 2
				return nil
			},
		},
	})
}

// Mutavault: taps for {C}, or animates for {1} into a 2/2 with every
// creature type until end of turn.
func init() {
	animateCost := mana.MustParse("{1}")
	register(&CardInfo{
		ID:               "Mutavault",
		Types:            TypeLand | TypeCreature,
		Produces:         mana.Colorless,
		Power:            2,
		Toughness:        2,
		NeedsAnimation:   true,
		AllCreatureTypes: true,
		Hooks: Hooks{
			BattlefieldActions: func(s *State, p PlayerID, permIdx int) []Action {
				ownMain := s.Phase == PhaseMain1 && p == s.Active
				blockWindow := s.Phase == PhaseDeclareBlockers && p == s.Defender()
				if !ownMain && !blockWindow {
					return nil
				}
				self := &s.Players[p].Battlefield[permIdx]
				if self.Animated || self.Tapped {
					return nil
				}
				if !canPayCostExcluding(s, p, animateCost, permIdx) {
					return nil
				}
				return []Action{{
					Kind: ActionActivate, Player: p,
					Permanent: permIdx, Ability: AbilityAnimate,
					Card: "Mutavault",
				}}
			},
			Activate: func(s *State, a Action) error {
				self := &s.Players[a.Player].Battlefield[a.Permanent]
				if self.Animated {
					return fmt.Errorf("%w: Mutavault already animated", ErrIllegalAction)
				}
				if !canPayCostExcluding(s, a.Player, animateCost, a.Permanent) {
					return fmt.Errorf("%w: cannot pay %s", ErrIllegalAction, animateCost)
				}
				payCostExcluding(s, a.Player, animateCost, a.Permanent)
				s.Players[a.Player].Battlefield[a.Permanent].Animated = true
				return nil
			},
		},
	})
}

// Dryad Arbor: a land that is always a 1/1 creature. It is played as
// the land drop, suffers summoning sickness, and taps for G.
func init() {
	register(&CardInfo{
		ID:        "Dryad Arbor",
		Types:     TypeLand | TypeCreature,
		Subtypes:  []string{"Forest", "Dryad"},
		Produces:  mana.Green,
		Power:     1,
		Toughness: 1,
	})
}

// Remote Farm: enters tapped with two depletion counters; each tap
// yields WW and removes a counter, sacrificing the land when none
// remain.
func init() {
	register(&CardInfo{
		ID:       "Remote Farm",
		Types:    TypeLand,
		Produces: mana.White,
		ManaOutput: func(perm *Permanent) int {
			if perm.Counters.Depletion > 0 {
				return 2
			}
			return 0
		},
		Hooks: Hooks{
			OnEnter: func(s *State, p PlayerID, permIdx int) {
				perm := &s.Players[p].Battlefield[permIdx]
				perm.Tapped = true
				perm.Counters.Add(counterDepletion, 2)
			},
			OnTapForMana: func(s *State, p PlayerID, permIdx int) {
				perm := &s.Players[p].Battlefield[permIdx]
				perm.Counters.Remove(counterDepletion, 1)
				if perm.Counters.Depletion == 0 {
					destroyPermanent(s, p, permIdx)
				}
			},
		},
	})
}

// Bottomless Vault: enters tapped and keeps itself tapped to
// accumulate storage counters at upkeep; a release action lets it
// untap, after which one tap converts every counter into B.
func init() {
	register(&CardInfo{
		ID:       "Bottomless Vault",
		Types:    TypeLand,
		Produces: mana.Black,
		ManaOutput: func(perm *Permanent) int {
			return perm.Counters.Storage
		},
		Hooks: Hooks{
			OnEnter: func(s *State, p PlayerID, permIdx int) {
				perm := &s.Players[p].Battlefield[permIdx]
				perm.Tapped = true
				perm.StayTapped = true
			},
			OnUpkeep: func(s *State, p PlayerID, permIdx int) {
				perm := &s.Players[p].Battlefield[permIdx]
				if perm.Tapped {
					perm.Counters.Add(counterStorage, 1)
				}
			},
			OnTapForMana: func(s *State, p PlayerID, permIdx int) {
				perm := &s.Players[p].Battlefield[permIdx]
				perm.Counters.Remove(counterStorage, perm.Counters.Storage)
				perm.StayTapped = true
			},
			BattlefieldActions: func(s *State, p PlayerID, permIdx int) []Action {
				if s.Phase != PhaseMain1 || p != s.Active {
					return nil
				}
				self := &s.Players[p].Battlefield[permIdx]
				if !self.Tapped || !self.StayTapped || self.Counters.Storage == 0 {
					return nil
				}
				return []Action{{
					Kind: ActionActivate, Player: p,
					Permanent: permIdx, Ability: AbilityRelease,
					Card: "Bottomless Vault",
				}}
			},
			Activate: func(s *State, a Action) error {
				self := &s.Players[a.Player].Battlefield[a.Permanent]
				if !self.Tapped || !self.StayTapped {
					return fmt.Errorf("%w: vault is not accumulating", ErrIllegalAction)
				}
				self.StayTapped = false
				return nil
			},
		},
	})
}

// Undiscovered Paradise: taps for any color and bounces to hand at the
// next untap. Tapping it without a cast is offered as an explicit
// action because the bounce re-triggers landfall.
func init() {
	register(&CardInfo{
		ID:       "Undiscovered Paradise",
		Types:    TypeLand,
		Produces: mana.Any,
		Hooks: Hooks{
			OnTapForMana: func(s *State, p PlayerID, permIdx int) {
				s.Players[p].Battlefield[permIdx].Bounce = true
			},
			BattlefieldActions: func(s *State, p PlayerID, permIdx int) []Action {
				if s.Phase != PhaseMain1 || p != s.Active {
					return nil
				}
				self := &s.Players[p].Battlefield[permIdx]
				if self.Tapped || self.Bounce {
					return nil
				}
				hasLandfall := false
				for i := range s.Players[p].Battlefield {
					if s.Players[p].Battlefield[i].Info().Hooks.OnLandfall != nil {
						hasLandfall = true
						break
					}
				}
				if !hasLandfall {
					return nil
				}
				return []Action{{
					Kind: ActionActivate, Player: p,
					Permanent: permIdx, Ability: AbilityBounce,
					Card: "Undiscovered Paradise",
				}}
			},
			Activate: func(s *State, a Action) error {
				self := &s.Players[a.Player].Battlefield[a.Permanent]
				if self.Tapped || self.Bounce {
					return fmt.Errorf("%w: paradise already spent", ErrIllegalAction)
				}
				self.Tapped = true
				self.Bounce = true
				return nil
			},
		},
	})
}

// Tomb of Urami: taps for B at the cost of a life, or taps and
// sacrifices every land its controller has for Urami, a 5/5 flying
// demon token.
func init() {
	uramiCost := mana.MustParse("{2}{B}{B}")
	register(&CardInfo{
		ID:       "Tomb of Urami",
		Types:    TypeLand,
		Produces: mana.Black,
		Hooks: Hooks{
			OnTapForMana: func(s *State, p PlayerID, permIdx int) {
				s.Players[p].Life--
			},
			BattlefieldActions: func(s *State, p PlayerID, permIdx int) []Action {
				if s.Phase != PhaseMain1 || p != s.Active {
					return nil
				}
				self := &s.Players[p].Battlefield[permIdx]
				if self.Tapped || !canPayCostExcluding(s, p, uramiCost, permIdx) {
					return nil
				}
				return []Action{{
					Kind: ActionActivate, Player: p,
					Permanent: permIdx, Ability: AbilitySummon,
					Card: "Tomb of Urami", TargetCard: "Urami",
				}}
			},
			Activate: func(s *State, a Action) error {
				p := a.Player
				self := &s.Players[p].Battlefield[a.Permanent]
				if self.Tapped {
					return fmt.Errorf("%w: tomb is tapped", ErrIllegalAction)
				}
				if !canPayCostExcluding(s, p, uramiCost, a.Permanent) {
					return fmt.Errorf("%w: cannot pay %s", ErrIllegalAction, uramiCost)
				}
				self.Tapped = true
				payCostExcluding(s, p, uramiCost, a.Permanent)
				player := &s.Players[p]
				for i := len(player.Battlefield) - 1; i >= 0; i-- {
					if player.Battlefield[i].Info().IsLand() {
						destroyPermanent(s, p, i)
					}
				}
				createToken(s, p, "Urami")
				return nil
			},
		},
	})
}
