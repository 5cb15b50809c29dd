package game

// Combat damage resolution. The resolver is deterministic given the
// declared attackers and the block assignments; every choice point
// (which attacks, which blocks) was already branched on by the search.

// combatHasFirstStrike reports whether any combatant has first or
// double strike, which inserts the extra damage step.
func combatHasFirstStrike(s *State) bool {
	defender := &s.Players[s.Defender()]
	for _, aIdx := range s.Attackers() {
		attacker := &s.Players[s.Active].Battlefield[aIdx]
		if attacker.EffectiveKeywords().Has(KeywordFirstStrike | KeywordDoubleStrike) {
			return true
		}
		if bIdx := s.BlockerFor(aIdx); bIdx >= 0 {
			blocker := &defender.Battlefield[bIdx]
			if blocker.EffectiveKeywords().Has(KeywordFirstStrike | KeywordDoubleStrike) {
				return true
			}
		}
	}
	return false
}

// dealsInStep reports whether a combatant deals damage in the given
// step: first strikers and double strikers in the first-strike step,
// everyone except plain first strikers in the normal step.
func dealsInStep(perm *Permanent, firstStrikeStep bool) bool {
	kw := perm.EffectiveKeywords()
	if firstStrikeStep {
		return kw.Has(KeywordFirstStrike | KeywordDoubleStrike)
	}
	return !kw.Has(KeywordFirstStrike) || kw.Has(KeywordDoubleStrike)
}

// resolveCombatDamage runs one combat damage step. Damage is marked on
// creatures and dealt to players; deaths are left to the state-based
// sweep that the phase engine runs right after, via the Destroyed mark
// for deathtouch. Blocks are re-read live so creatures that died in the
// first-strike step are gone by the normal step.
func resolveCombatDamage(s *State, firstStrikeStep bool) {
	attackers := s.Attackers()
	defenderID := s.Defender()

	for _, aIdx := range attackers {
		active := &s.Players[s.Active]
		defender := &s.Players[defenderID]
		attacker := &active.Battlefield[aIdx]
		bIdx := s.BlockerFor(aIdx)

		if bIdx < 0 {
			if attacker.blockedThisCombat() {
				// Its blocker died in the first-strike step. The
				// attacker stays blocked; only trample lets damage
				// through, and with no blocker left it all tramples.
				if dealsInStep(attacker, firstStrikeStep) &&
					attacker.EffectiveKeywords().Has(KeywordTrample) {
					dealCombatDamageToPlayer(s, aIdx, attacker.Power())
				}
				continue
			}
			if dealsInStep(attacker, firstStrikeStep) {
				dealCombatDamageToPlayer(s, aIdx, attacker.Power())
			}
			continue
		}

		blocker := &defender.Battlefield[bIdx]
		if dealsInStep(attacker, firstStrikeStep) {
			power := attacker.Power()
			akw := attacker.EffectiveKeywords()
			if akw.Has(KeywordTrample) {
				lethal := blocker.Toughness() - blocker.Damage
				if akw.Has(KeywordDeathtouch) && lethal > 1 {
					lethal = 1
				}
				if lethal < 0 {
					lethal = 0
				}
				if power > lethal {
					markDamage(blocker, lethal, akw)
					gainLifelink(s, s.Active, akw, lethal)
					dealCombatDamageToPlayer(s, aIdx, power-lethal)
				} else {
					markDamage(blocker, power, akw)
					gainLifelink(s, s.Active, akw, power)
				}
			} else {
				markDamage(blocker, power, akw)
				gainLifelink(s, s.Active, akw, power)
			}
		}
		if dealsInStep(blocker, firstStrikeStep) {
			bkw := blocker.EffectiveKeywords()
			power := blocker.Power()
			markDamage(attacker, power, bkw)
			gainLifelink(s, defenderID, bkw, power)
		}
	}
}

// blockedThisCombat reports whether an attacker was blocked at any
// point this combat. Once a block is declared the attacker keeps the
// mark even if the blocker dies before normal damage.
func (p *Permanent) blockedThisCombat() bool {
	return p.WasBlocked
}

// markDamage marks combat damage on a creature; any nonzero damage
// from a deathtoucher destroys regardless of toughness.
func markDamage(target *Permanent, amount int, sourceKeywords Keywords) {
	if amount <= 0 {
		return
	}
	target.Damage += amount
	if sourceKeywords.Has(KeywordDeathtouch) {
		target.Destroyed = true
	}
}

// dealCombatDamageToPlayer applies unblocked or trampled damage to the
// defending player and fires the attacker's damage trigger.
func dealCombatDamageToPlayer(s *State, attackerIdx int, amount int) {
	if amount <= 0 {
		return
	}
	defender := s.Defender()
	s.Players[defender].Life -= amount
	attacker := &s.Players[s.Active].Battlefield[attackerIdx]
	kw := attacker.EffectiveKeywords()
	gainLifelink(s, s.Active, kw, amount)
	if hook := attacker.Info().Hooks.OnDamagePlayer; hook != nil {
		hook(s, s.Active, attackerIdx)
	}
}

// gainLifelink credits the controller with life equal to damage dealt.
func gainLifelink(s *State, controller PlayerID, kw Keywords, amount int) {
	if kw.Has(KeywordLifelink) && amount > 0 {
		s.Players[controller].Life += amount
	}
}
