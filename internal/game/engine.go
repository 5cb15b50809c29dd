package game

import (
	"fmt"
	"sort"
)

// Apply executes an action against a state and returns the successor.
// The action must come from LegalActions for the current decision
// maker; anything else fails with ErrIllegalAction. The input state is
// never mutated. After the action the engine runs state-based actions
// to fixpoint and advances through automatic phases until the next
// decision point or a terminal state.
func Apply(s *State, a Action) (*State, error) {
	if s.Over {
		return nil, fmt.Errorf("%w: game is over", ErrIllegalAction)
	}
	if !s.Phase.Decision() {
		return nil, fmt.Errorf("%w: %s is not a decision phase", ErrIllegalAction, s.Phase)
	}
	if a.Player != DecisionMaker(s) {
		return nil, fmt.Errorf("%w: %s acts for player %d", ErrIllegalAction, s.Phase, a.Player)
	}

	ns := s.Clone()
	var err error
	switch a.Kind {
	case ActionPlayLand:
		err = applyPlayLand(ns, a)
	case ActionCast:
		err = applyCast(ns, a)
	case ActionActivate:
		err = applyActivate(ns, a)
	case ActionDeclareAttackers:
		err = applyDeclareAttackers(ns, a)
	case ActionBlock:
		err = applyBlock(ns, a)
	case ActionPass:
		applyPass(ns)
	default:
		err = fmt.Errorf("%w: unknown action kind %d", ErrIllegalAction, a.Kind)
	}
	if err != nil {
		return nil, err
	}

	checkStateBased(ns)
	ns.Players[0].Pool.Empty()
	ns.Players[1].Pool.Empty()
	advanceAuto(ns)
	if err := CheckInvariants(ns); err != nil {
		return nil, err
	}
	return ns, nil
}

func applyPlayLand(s *State, a Action) error {
	p := a.Player
	player := &s.Players[p]
	if s.Phase != PhaseMain1 || s.LandPlayed {
		return fmt.Errorf("%w: land drop unavailable", ErrIllegalAction)
	}
	if a.Hand < 0 || a.Hand >= len(player.Hand) || player.Hand[a.Hand] != a.Card {
		return fmt.Errorf("%w: hand index %d", ErrIllegalAction, a.Hand)
	}
	info := mustInfo(a.Card)
	if !info.IsLand() {
		return fmt.Errorf("%w: %s is not a land", ErrIllegalAction, a.Card)
	}
	enterBattlefield(s, p, a.Hand)
	s.LandPlayed = true
	fireLandfall(s, p)
	return nil
}

func applyCast(s *State, a Action) error {
	p := a.Player
	player := &s.Players[p]
	if s.Phase != PhaseMain1 {
		return fmt.Errorf("%w: cast outside main phase", ErrIllegalAction)
	}
	if a.Hand < 0 || a.Hand >= len(player.Hand) || player.Hand[a.Hand] != a.Card {
		return fmt.Errorf("%w: hand index %d", ErrIllegalAction, a.Hand)
	}
	info := mustInfo(a.Card)
	if info.IsLand() {
		return fmt.Errorf("%w: %s is a land", ErrIllegalAction, a.Card)
	}
	if !canPayCost(s, p, info.Cost) {
		return fmt.Errorf("%w: cannot pay %s for %s", ErrIllegalAction, info.Cost, a.Card)
	}
	if info.Hooks.CanCast != nil && !info.Hooks.CanCast(s, p) {
		return fmt.Errorf("%w: cast precondition for %s", ErrIllegalAction, a.Card)
	}
	payCost(s, p, info.Cost)
	enterBattlefield(s, p, a.Hand)
	return nil
}

func applyActivate(s *State, a Action) error {
	p := a.Player
	player := &s.Players[p]
	if a.Permanent < 0 || a.Permanent >= len(player.Battlefield) {
		return fmt.Errorf("%w: permanent index %d", ErrIllegalAction, a.Permanent)
	}
	perm := &player.Battlefield[a.Permanent]
	if perm.Card != a.Card {
		return fmt.Errorf("%w: permanent mismatch at %d", ErrIllegalAction, a.Permanent)
	}
	hook := perm.Info().Hooks.Activate
	if hook == nil {
		return fmt.Errorf("%w: %s has no activated ability", ErrIllegalAction, a.Card)
	}
	return hook(s, a)
}

func applyDeclareAttackers(s *State, a Action) error {
	if s.Phase != PhaseDeclareAttackers {
		return fmt.Errorf("%w: not declaring attackers", ErrIllegalAction)
	}
	player := &s.Players[s.Active]
	for _, idx := range a.Attackers {
		if idx < 0 || idx >= len(player.Battlefield) {
			return fmt.Errorf("%w: attacker index %d", ErrIllegalAction, idx)
		}
		perm := &player.Battlefield[idx]
		if !canAttack(perm) {
			return fmt.Errorf("%w: %s cannot attack", ErrIllegalAction, perm.Card)
		}
	}
	for _, idx := range a.Attackers {
		perm := &player.Battlefield[idx]
		perm.Attacking = true
		if !perm.EffectiveKeywords().Has(KeywordVigilance) {
			perm.Tapped = true
		}
	}
	if len(a.Attackers) == 0 {
		s.Phase = PhaseEndCombat
	} else {
		s.Phase = PhaseDeclareBlockers
	}
	return nil
}

func applyBlock(s *State, a Action) error {
	if s.Phase != PhaseDeclareBlockers {
		return fmt.Errorf("%w: not declaring blockers", ErrIllegalAction)
	}
	active := &s.Players[s.Active]
	defender := &s.Players[s.Defender()]
	if a.Attacker < 0 || a.Attacker >= len(active.Battlefield) ||
		a.Blocker < 0 || a.Blocker >= len(defender.Battlefield) {
		return fmt.Errorf("%w: block indices %d/%d", ErrIllegalAction, a.Attacker, a.Blocker)
	}
	attacker := &active.Battlefield[a.Attacker]
	blocker := &defender.Battlefield[a.Blocker]
	if !attacker.Attacking || s.BlockerFor(a.Attacker) >= 0 {
		return fmt.Errorf("%w: %s is not an open attacker", ErrIllegalAction, attacker.Card)
	}
	if !blocker.IsCreature() || blocker.Tapped || s.blockerAssigned(a.Blocker) {
		return fmt.Errorf("%w: %s cannot block", ErrIllegalAction, blocker.Card)
	}
	if !canBlock(blocker, attacker) {
		return fmt.Errorf("%w: %s cannot block %s", ErrIllegalAction, blocker.Card, attacker.Card)
	}
	attacker.WasBlocked = true
	s.Blocks = append(s.Blocks, Block{Attacker: a.Attacker, Blocker: a.Blocker})
	sort.Slice(s.Blocks, func(i, j int) bool { return s.Blocks[i].Attacker < s.Blocks[j].Attacker })
	return nil
}

// applyPass ends the current decision phase.
func applyPass(s *State) {
	switch s.Phase {
	case PhaseMain1:
		s.Phase = PhaseBeginCombat
	case PhaseDeclareAttackers:
		s.Phase = PhaseEndCombat
	case PhaseDeclareBlockers:
		s.Phase = phaseAfterBlocks(s)
	}
}

// phaseAfterBlocks picks the damage step that follows blocker
// declaration: the first-strike step is inserted only when a combatant
// has first or double strike.
func phaseAfterBlocks(s *State) Phase {
	if combatHasFirstStrike(s) {
		return PhaseFirstStrikeDamage
	}
	return PhaseCombatDamage
}

// enterBattlefield moves a card from hand to battlefield and runs its
// entry hook.
func enterBattlefield(s *State, p PlayerID, handIdx int) {
	player := &s.Players[p]
	id := player.Hand[handIdx]
	player.Hand = append(player.Hand[:handIdx], player.Hand[handIdx+1:]...)
	player.Battlefield = append(player.Battlefield, Permanent{
		Card:            id,
		EnteredThisTurn: true,
	})
	idx := len(player.Battlefield) - 1
	if hook := mustInfo(id).Hooks.OnEnter; hook != nil {
		hook(s, p, idx)
	}
}

// createToken puts a token permanent onto the battlefield.
func createToken(s *State, p PlayerID, id CardID) {
	s.Players[p].Battlefield = append(s.Players[p].Battlefield, Permanent{
		Card:            id,
		EnteredThisTurn: true,
	})
}

// fireLandfall notifies the controller's permanents that a land entered.
func fireLandfall(s *State, p PlayerID) {
	player := &s.Players[p]
	for i := range player.Battlefield {
		perm := &player.Battlefield[i]
		if perm.EnteredThisTurn && perm.Info().IsLand() && i == len(player.Battlefield)-1 {
			continue // the land itself
		}
		if hook := perm.Info().Hooks.OnLandfall; hook != nil {
			hook(s, p, i)
		}
	}
}

// advanceAuto steps through automatic phases, firing triggers, until a
// decision phase or a terminal state is reached.
func advanceAuto(s *State) {
	for !s.Over {
		switch s.Phase {
		case PhaseUntap:
			untapStep(s)
			s.Phase = PhaseUpkeep
		case PhaseUpkeep:
			upkeepStep(s)
			s.Phase = PhaseDraw
		case PhaseDraw:
			drawStep(s)
			if s.Over {
				return
			}
			s.Phase = PhaseMain1
		case PhaseMain1:
			return
		case PhaseBeginCombat:
			autoLevel(s, s.Active)
			s.Phase = PhaseDeclareAttackers
		case PhaseDeclareAttackers:
			if hasAttackDecision(s) {
				return
			}
			s.Phase = PhaseEndCombat
		case PhaseDeclareBlockers:
			if hasBlockDecision(s) {
				return
			}
			s.Phase = phaseAfterBlocks(s)
		case PhaseFirstStrikeDamage:
			resolveCombatDamage(s, true)
			checkStateBased(s)
			if s.Over {
				return
			}
			s.Phase = PhaseCombatDamage
		case PhaseCombatDamage:
			resolveCombatDamage(s, false)
			checkStateBased(s)
			if s.Over {
				return
			}
			s.Phase = PhaseEndCombat
		case PhaseEndCombat:
			endCombatStep(s)
			s.Phase = PhaseEnd
		case PhaseEnd:
			endStep(s)
			s.Phase = PhaseUntap
		}
	}
}

// hasAttackDecision reports whether declare-attackers actually offers a
// choice: an eligible attacker or a pending combat trigger.
func hasAttackDecision(s *State) bool {
	if len(combatTriggerActions(s)) > 0 {
		return true
	}
	player := &s.Players[s.Active]
	for i := range player.Battlefield {
		if canAttack(&player.Battlefield[i]) {
			return true
		}
	}
	return false
}

// hasBlockDecision reports whether the defender has any legal block or
// block-phase ability.
func hasBlockDecision(s *State) bool {
	actions := blockActions(s)
	for _, a := range actions {
		if a.Kind != ActionPass {
			return true
		}
	}
	return false
}

// untapStep untaps the active player's permanents, honoring stun
// counters (which replace the untap), stay-tapped storage lands, and
// bounce lands, and clears per-turn flags.
func untapStep(s *State) {
	p := s.Active
	player := &s.Players[p]
	var bounced []int
	for i := range player.Battlefield {
		perm := &player.Battlefield[i]
		switch {
		case perm.Bounce:
			bounced = append(bounced, i)
			continue
		case perm.Counters.Stun > 0:
			perm.Counters.Remove(counterStun, 1)
		case perm.StayTapped:
			// storage land chose to keep accumulating
		default:
			perm.Tapped = false
		}
		perm.EnteredThisTurn = false
		perm.TargetedThisTurn = false
		perm.CombatCounterUsed = false
	}
	for i := len(bounced) - 1; i >= 0; i-- {
		idx := bounced[i]
		card := player.Battlefield[idx].Card
		player.Battlefield = append(player.Battlefield[:idx], player.Battlefield[idx+1:]...)
		player.Hand = append(player.Hand, card)
	}
}

// upkeepStep fires upkeep triggers for the active player in permanent
// index order (the canonical trigger order), then auto-levels.
func upkeepStep(s *State) {
	p := s.Active
	// Index-based loop: triggers may add tokens at the end of the
	// battlefield; those get no upkeep this turn.
	n := len(s.Players[p].Battlefield)
	for i := 0; i < n && i < len(s.Players[p].Battlefield); i++ {
		perm := &s.Players[p].Battlefield[i]
		if hook := perm.Info().Hooks.OnUpkeep; hook != nil {
			hook(s, p, i)
		}
	}
	autoLevel(s, p)
}

// drawStep handles the draw. Libraries are empty in three-card play, so
// the step is skipped; a required draw from an empty library loses.
func drawStep(s *State) {
	p := s.Active
	player := &s.Players[p]
	if player.Deck <= 3 && player.Library == 0 {
		return
	}
	if player.Library == 0 {
		s.finish(p.Opponent())
		return
	}
	player.Library--
	// Drawn cards are already revealed in three-card play; the hand
	// was dealt in full at match start, so nothing moves here.
}

// autoLevel levels up AutoLevel creatures while spare mana of their
// level-up color remains. Making this automatic instead of a decision
// mirrors the fact that an extra level is never worse.
func autoLevel(s *State, p PlayerID) {
	player := &s.Players[p]
	for i := range player.Battlefield {
		perm := &player.Battlefield[i]
		info := perm.Info()
		if !info.AutoLevel {
			continue
		}
		for {
			src, ok := pickSource(s, p, info.LevelColor)
			if !ok {
				break
			}
			player.Battlefield[src.idx].Tapped = true
			if hook := mustInfo(player.Battlefield[src.idx].Card).Hooks.OnTapForMana; hook != nil {
				hook(s, p, src.idx)
			}
			perm.Counters.Add(counterLevel, 1)
		}
	}
}

// endCombatStep clears combat state.
func endCombatStep(s *State) {
	for i := range s.Players[s.Active].Battlefield {
		perm := &s.Players[s.Active].Battlefield[i]
		perm.Attacking = false
		perm.WasBlocked = false
	}
	s.Blocks = nil
}

// endStep is the end/cleanup step: damage unmarks, until-end-of-turn
// effects expire, creature lands revert, pools empty, and the turn
// passes.
func endStep(s *State) {
	for i := range s.Players {
		player := &s.Players[i]
		player.Pool.Empty()
		for j := range player.Battlefield {
			perm := &player.Battlefield[j]
			perm.Damage = 0
			perm.PumpPower = 0
			perm.PumpToughness = 0
			perm.Attacking = false
			perm.WasBlocked = false
			if perm.Info().NeedsAnimation {
				perm.Animated = false
			}
		}
	}
	s.Blocks = nil
	s.Active = s.Active.Opponent()
	s.LandPlayed = false
	s.Turn++
}

// checkStateBased performs state-based actions until fixpoint:
// creatures with lethal damage or a destroy mark go to the graveyard
// (firing death triggers, each followed by its own sweep), players at
// zero life or less lose.
func checkStateBased(s *State) {
	for {
		changed := false
		for pi := range s.Players {
			player := &s.Players[pi]
			for j := len(player.Battlefield) - 1; j >= 0; j-- {
				perm := &player.Battlefield[j]
				if !perm.IsCreature() {
					continue
				}
				if perm.Destroyed || perm.Damage >= perm.Toughness() || perm.Toughness() <= 0 {
					destroyPermanent(s, PlayerID(pi), j)
					changed = true
				}
			}
		}
		lost := [2]bool{s.Players[0].Life <= 0, s.Players[1].Life <= 0}
		if lost[0] || lost[1] {
			if lost[0] && lost[1] {
				s.finishDraw()
			} else if lost[0] {
				s.finish(1)
			} else {
				s.finish(0)
			}
			return
		}
		if !changed {
			return
		}
	}
}

// destroyPermanent moves a permanent to its controller's graveyard
// (tokens cease to exist) and fires its death trigger.
func destroyPermanent(s *State, p PlayerID, idx int) {
	player := &s.Players[p]
	perm := player.Battlefield[idx]
	player.Battlefield = append(player.Battlefield[:idx], player.Battlefield[idx+1:]...)
	// Dropping a permanent shifts indices; combat references must not
	// survive it. Blocks are only live during the combat steps, where
	// the resolver re-reads them before each sweep.
	dropBlockReferences(s, p, idx)
	info := mustInfo(perm.Card)
	if !info.Token {
		player.Graveyard = append(player.Graveyard, perm.Card)
	}
	if hook := info.Hooks.OnDeath; hook != nil {
		hook(s, p, &perm)
	}
}

// dropBlockReferences removes blocks touching a removed permanent and
// re-indexes the rest.
func dropBlockReferences(s *State, p PlayerID, removed int) {
	if len(s.Blocks) == 0 {
		return
	}
	isAttackerSide := p == s.Active
	out := s.Blocks[:0]
	for _, b := range s.Blocks {
		if isAttackerSide {
			if b.Attacker == removed {
				continue
			}
			if b.Attacker > removed {
				b.Attacker--
			}
		} else {
			if b.Blocker == removed {
				continue
			}
			if b.Blocker > removed {
				b.Blocker--
			}
		}
		out = append(out, b)
	}
	s.Blocks = out
}
