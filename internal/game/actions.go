package game

import (
	"fmt"
	"sort"
	"strings"
)

// ActionKind tags the closed set of action variants.
type ActionKind int

const (
	ActionPlayLand ActionKind = iota
	ActionCast
	ActionActivate
	ActionDeclareAttackers
	ActionBlock
	ActionPass
)

// AbilityTag names an activated ability within a card's hooks.
type AbilityTag string

const (
	AbilityAnimate       AbilityTag = "animate"
	AbilityTarget        AbilityTag = "target"
	AbilityPump          AbilityTag = "pump"
	AbilityRelease       AbilityTag = "release"
	AbilitySummon        AbilityTag = "summon"
	AbilityBounce        AbilityTag = "bounce"
	AbilityCombatCounter AbilityTag = "combat-counter"
)

// Action is one of the closed action variants, carrying the minimum
// data needed to deterministically transform a state. Card and
// TargetCard duplicate catalog IDs for rendering; Apply also checks
// Card against the hand slot or permanent the action names.
type Action struct {
	Kind   ActionKind
	Player PlayerID

	Hand      int // hand index for PlayLand / Cast
	Permanent int // battlefield index for Activate
	Ability   AbilityTag
	Target    int // battlefield index for targeting abilities

	Attackers []int // DeclareAttackers set, ascending
	Attacker  int   // Block
	Blocker   int   // Block

	Card       CardID
	TargetCard CardID
}

func (a Action) String() string {
	switch a.Kind {
	case ActionPlayLand:
		return fmt.Sprintf("Play %s", a.Card)
	case ActionCast:
		return fmt.Sprintf("Cast %s", a.Card)
	case ActionActivate:
		if a.TargetCard != "" {
			return fmt.Sprintf("%s: %s -> %s", a.Card, a.Ability, a.TargetCard)
		}
		return fmt.Sprintf("%s: %s", a.Card, a.Ability)
	case ActionDeclareAttackers:
		if len(a.Attackers) == 0 {
			return "No attacks"
		}
		names := strings.Split(string(a.Card), "|")
		return fmt.Sprintf("Attack with %s", strings.Join(names, ", "))
	case ActionBlock:
		return fmt.Sprintf("Block %s with %s", a.TargetCard, a.Card)
	case ActionPass:
		return "Pass"
	default:
		return fmt.Sprintf("Action(%d)", a.Kind)
	}
}

// permSignature is a dedup key: two permanents with equal signatures
// are interchangeable for action generation, so only one of the pair
// spawns actions. This is what keeps token swarms tractable.
func permSignature(p *Permanent) string {
	return fmt.Sprintf("%s|%t|%t|%t|%t|%t|%d|%v|%t|%t|%t|%t|%d|%d",
		p.Card, p.Tapped, p.EnteredThisTurn, p.Animated, p.Attacking,
		p.WasBlocked, p.Damage, p.Counters, p.StayTapped, p.Bounce,
		p.TargetedThisTurn, p.CombatCounterUsed, p.PumpPower, p.PumpToughness)
}

// LegalActions enumerates the actions available to the decision maker
// at the current phase. Automatic phases never reach here; the engine
// advances through them inside Apply.
func LegalActions(s *State) []Action {
	if s.Over || !s.Phase.Decision() {
		return nil
	}
	switch s.Phase {
	case PhaseMain1:
		return mainPhaseActions(s)
	case PhaseDeclareAttackers:
		return attackActions(s)
	case PhaseDeclareBlockers:
		return blockActions(s)
	}
	return nil
}

func mainPhaseActions(s *State) []Action {
	p := s.Active
	player := &s.Players[p]
	var actions []Action

	seen := make(map[CardID]bool)
	for i, id := range player.Hand {
		if seen[id] {
			continue
		}
		seen[id] = true
		info := mustInfo(id)
		if info.IsLand() {
			if s.LandPlayed {
				continue
			}
			actions = append(actions, Action{
				Kind: ActionPlayLand, Player: p, Hand: i, Card: id,
			})
			continue
		}
		if !canPayCost(s, p, info.Cost) {
			continue
		}
		if info.Hooks.CanCast != nil && !info.Hooks.CanCast(s, p) {
			continue
		}
		actions = append(actions, Action{
			Kind: ActionCast, Player: p, Hand: i, Card: id,
		})
	}

	for i := range player.Battlefield {
		perm := &player.Battlefield[i]
		if hook := perm.Info().Hooks.BattlefieldActions; hook != nil {
			actions = append(actions, hook(s, p, i)...)
		}
	}

	actions = append(actions, Action{Kind: ActionPass, Player: p})
	return actions
}

// attackActions generates one action per attacker subset, largest sets
// first so alpha-beta tends to cut on the aggressive lines. Pending
// beginning-of-combat triggers preempt attacking: while one is
// unresolved, only its choice actions are legal.
func attackActions(s *State) []Action {
	p := s.Active
	player := &s.Players[p]

	if triggers := combatTriggerActions(s); len(triggers) > 0 {
		return triggers
	}

	type candidate struct {
		idx  int
		card CardID
	}
	var eligible []candidate
	seen := make(map[string]bool)
	for i := range player.Battlefield {
		perm := &player.Battlefield[i]
		if !canAttack(perm) {
			continue
		}
		sig := permSignature(perm)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		eligible = append(eligible, candidate{i, perm.Card})
	}

	var actions []Action
	n := len(eligible)
	for size := n; size >= 0; size-- {
		forEachSubset(n, size, func(subset []int) {
			idxs := make([]int, len(subset))
			names := make([]string, len(subset))
			for j, k := range subset {
				idxs[j] = eligible[k].idx
				names[j] = string(eligible[k].card)
			}
			sort.Ints(idxs)
			actions = append(actions, Action{
				Kind:      ActionDeclareAttackers,
				Player:    p,
				Attackers: idxs,
				Card:      CardID(strings.Join(names, "|")),
			})
		})
	}
	return actions
}

// forEachSubset calls fn for every size-k subset of [0,n), in
// lexicographic order. fn must copy the slice if it retains it.
func forEachSubset(n, k int, fn func([]int)) {
	if k > n {
		return
	}
	subset := make([]int, k)
	var rec func(start, pos int)
	rec = func(start, pos int) {
		if pos == k {
			fn(subset)
			return
		}
		for i := start; i <= n-(k-pos); i++ {
			subset[pos] = i
			rec(i+1, pos+1)
		}
	}
	rec(0, 0)
}

// combatTriggerActions returns the choice actions for unresolved
// beginning-of-combat triggers (Luminarch Aspirant). The trigger is
// mandatory: while pending, its choices are the only legal actions.
func combatTriggerActions(s *State) []Action {
	p := s.Active
	player := &s.Players[p]
	var actions []Action
	for i := range player.Battlefield {
		perm := &player.Battlefield[i]
		info := perm.Info()
		if info.Hooks.Activate == nil || perm.CombatCounterUsed {
			continue
		}
		if hook := info.Hooks.BattlefieldActions; hook != nil {
			for _, a := range hook(s, p, i) {
				if a.Ability == AbilityCombatCounter {
					actions = append(actions, a)
				}
			}
		}
	}
	return actions
}

// blockActions generates single-block assignments plus Pass. Blocks
// accumulate one at a time; Pass locks them in and moves to damage.
func blockActions(s *State) []Action {
	defender := s.Defender()
	defPlayer := &s.Players[defender]
	var actions []Action

	for i := range defPlayer.Battlefield {
		perm := &defPlayer.Battlefield[i]
		if hook := perm.Info().Hooks.BattlefieldActions; hook != nil {
			actions = append(actions, hook(s, defender, i)...)
		}
	}

	attackers := s.Attackers()
	seen := make(map[string]bool)
	for bIdx := range defPlayer.Battlefield {
		blocker := &defPlayer.Battlefield[bIdx]
		if !blocker.IsCreature() || blocker.Tapped || s.blockerAssigned(bIdx) {
			continue
		}
		bSig := permSignature(blocker)
		for _, aIdx := range attackers {
			if s.BlockerFor(aIdx) >= 0 {
				continue
			}
			attacker := &s.Players[s.Active].Battlefield[aIdx]
			if !canBlock(blocker, attacker) {
				continue
			}
			pairSig := bSig + "||" + permSignature(attacker)
			if seen[pairSig] {
				continue
			}
			seen[pairSig] = true
			actions = append(actions, Action{
				Kind:       ActionBlock,
				Player:     defender,
				Attacker:   aIdx,
				Blocker:    bIdx,
				Card:       blocker.Card,
				TargetCard: attacker.Card,
			})
		}
	}

	actions = append(actions, Action{Kind: ActionPass, Player: defender})
	return actions
}

// canAttack checks the attack eligibility rules: a creature, untapped,
// not already attacking, free of summoning sickness, and not a
// defender.
func canAttack(perm *Permanent) bool {
	if !perm.IsCreature() || perm.Tapped || perm.Attacking {
		return false
	}
	if perm.SummoningSick() {
		return false
	}
	return !perm.EffectiveKeywords().Has(KeywordDefender)
}

// canBlock checks evasion and subtype restrictions.
func canBlock(blocker, attacker *Permanent) bool {
	akw := attacker.EffectiveKeywords()
	bkw := blocker.EffectiveKeywords()
	if akw.Has(KeywordFlying) && !bkw.Has(KeywordFlying|KeywordReach) {
		return false
	}
	aInfo := attacker.Info()
	if len(aInfo.CantBeBlockedBy) > 0 {
		bInfo := blocker.Info()
		for _, sub := range aInfo.CantBeBlockedBy {
			if bInfo.AllCreatureTypes || bInfo.HasSubtype(sub) {
				return false
			}
		}
	}
	return true
}
