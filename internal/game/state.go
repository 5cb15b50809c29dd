package game

import (
	"fmt"

	"github.com/dipplestix/3cbsolver/internal/game/counters"
	"github.com/dipplestix/3cbsolver/internal/game/mana"
)

// Shorthand for the counter kinds the engine manipulates directly.
const (
	counterLevel     = counters.TypeLevel
	counterPlus      = counters.TypeP1P1
	counterStun      = counters.TypeStun
	counterSpore     = counters.TypeSpore
	counterStorage   = counters.TypeStorage
	counterDepletion = counters.TypeDepletion
)

// PlayerID indexes the two players of a match.
type PlayerID int

// Opponent returns the other player.
func (p PlayerID) Opponent() PlayerID {
	return 1 - p
}

// Permanent is a card on the battlefield with its per-instance state.
// All cross-references (block targets, attachment) are battlefield
// indices, never pointers, so a state clones by value.
type Permanent struct {
	Card     CardID
	Tapped   bool
	EnteredThisTurn bool
	Animated bool // creature land currently a creature
	Attacking bool
	// WasBlocked sticks for the whole combat even if the blocker dies
	// in the first-strike step: a blocked attacker without trample
	// deals no player damage.
	WasBlocked bool
	Damage     int
	Destroyed  bool // marked for the next state-based sweep
	Counters  counters.Counters
	StayTapped bool // storage lands skipping their untap
	Bounce     bool // returns to hand at the next untap
	TargetedThisTurn  bool
	CombatCounterUsed bool
	// Until-end-of-turn stat changes (Pendelhaven).
	PumpPower     int
	PumpToughness int
}

// Info returns the catalog record backing this permanent.
func (p *Permanent) Info() *CardInfo {
	return mustInfo(p.Card)
}

// IsCreature reports whether the permanent is currently a creature.
func (p *Permanent) IsCreature() bool {
	info := p.Info()
	if !info.Types.Has(TypeCreature) {
		return false
	}
	if info.NeedsAnimation {
		return p.Animated
	}
	return true
}

// Power returns current power: base or level table, plus +1/+1 counters
// and until-end-of-turn pumps.
func (p *Permanent) Power() int {
	info := p.Info()
	base := info.Power
	if info.Hooks.Stats != nil {
		base, _ = info.Hooks.Stats(p)
	}
	return base + p.Counters.Plus + p.PumpPower
}

// Toughness returns current toughness.
func (p *Permanent) Toughness() int {
	info := p.Info()
	base := info.Toughness
	if info.Hooks.Stats != nil {
		_, base = info.Hooks.Stats(p)
	}
	return base + p.Counters.Plus + p.PumpToughness
}

// EffectiveKeywords returns static plus state-dependent keywords.
func (p *Permanent) EffectiveKeywords() Keywords {
	info := p.Info()
	kw := info.Keywords
	if info.Hooks.DynamicKeywords != nil {
		kw |= info.Hooks.DynamicKeywords(p)
	}
	return kw
}

// SummoningSick reports whether the permanent is still subject to
// summoning sickness.
func (p *Permanent) SummoningSick() bool {
	return p.EnteredThisTurn && !p.EffectiveKeywords().Has(KeywordHaste)
}

// Player holds one side of the match.
type Player struct {
	Life        int
	Hand        []CardID
	Battlefield []Permanent
	Graveyard   []CardID
	Library     int
	// Deck is the size of the revealed deck; the zone-count invariant
	// is checked against it. Three in a normal match, anything up to
	// three for goldfishing.
	Deck int
	Pool mana.Pool
}

// Block records one blocker assigned to one attacker, both as
// battlefield indices (attacker in the active player's battlefield,
// blocker in the defender's).
type Block struct {
	Attacker int
	Blocker  int
}

// State is a full match snapshot. It is immutable by convention: the
// engine clones it before every mutation and callers only ever see
// settled states.
type State struct {
	Players    [2]Player
	Active     PlayerID
	Phase      Phase
	Turn       int
	LandPlayed bool
	Blocks     []Block
	Over       bool
	Winner     PlayerID // valid when Over and not Draw
	Draw       bool
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	ns := *s
	for i := range ns.Players {
		p := &ns.Players[i]
		p.Hand = append([]CardID(nil), p.Hand...)
		p.Battlefield = append([]Permanent(nil), p.Battlefield...)
		p.Graveyard = append([]CardID(nil), p.Graveyard...)
	}
	ns.Blocks = append([]Block(nil), s.Blocks...)
	return &ns
}

// Defender returns the player being attacked this combat.
func (s *State) Defender() PlayerID {
	return s.Active.Opponent()
}

// Attackers returns the battlefield indices of declared attackers, in
// ascending order.
func (s *State) Attackers() []int {
	var out []int
	for i := range s.Players[s.Active].Battlefield {
		if s.Players[s.Active].Battlefield[i].Attacking {
			out = append(out, i)
		}
	}
	return out
}

// BlockerFor returns the blocker index assigned to an attacker, or -1.
func (s *State) BlockerFor(attacker int) int {
	for _, b := range s.Blocks {
		if b.Attacker == attacker {
			return b.Blocker
		}
	}
	return -1
}

// blockerAssigned reports whether a defender permanent already blocks.
func (s *State) blockerAssigned(blocker int) bool {
	for _, b := range s.Blocks {
		if b.Blocker == blocker {
			return true
		}
	}
	return false
}

// finish marks the game over with a winner.
func (s *State) finish(winner PlayerID) {
	s.Over = true
	s.Winner = winner
	s.Draw = false
}

// finishDraw marks the game over as drawn.
func (s *State) finishDraw() {
	s.Over = true
	s.Draw = true
}

// NewMatch builds the initial state for two revealed hands and advances
// it to the first decision point. Hands must contain catalog cards; up
// to three per player.
func NewMatch(hands [2][]CardID, first PlayerID, startingLife int) (*State, error) {
	if first != 0 && first != 1 {
		return nil, fmt.Errorf("%w: first mover %d", ErrIllegalAction, first)
	}
	s := &State{
		Active: first,
		Phase:  PhaseUntap,
		Turn:   1,
	}
	for i := range s.Players {
		if len(hands[i]) > 3 {
			return nil, fmt.Errorf("%w: hand of %d cards", ErrIllegalAction, len(hands[i]))
		}
		for _, id := range hands[i] {
			info, err := Lookup(id)
			if err != nil {
				return nil, err
			}
			if info.Token {
				return nil, fmt.Errorf("%w: token %q in hand", ErrIllegalAction, id)
			}
		}
		s.Players[i] = Player{
			Life: startingLife,
			Hand: append([]CardID(nil), hands[i]...),
			Deck: len(hands[i]),
		}
	}
	advanceAuto(s)
	if err := CheckInvariants(s); err != nil {
		return nil, err
	}
	return s, nil
}

// CheckInvariants verifies the structural invariants from the data
// model: zone counts, legal life/counter values, and block references.
// Violations are programming errors; the engine never repairs them.
func CheckInvariants(s *State) error {
	for i := range s.Players {
		p := &s.Players[i]
		nonTokens := 0
		for j := range p.Battlefield {
			perm := &p.Battlefield[j]
			info, err := Lookup(perm.Card)
			if err != nil {
				return err
			}
			if !info.Token {
				nonTokens++
			}
			if perm.Damage < 0 {
				return fmt.Errorf("%w: negative damage on %s", ErrInvariantViolation, perm.Card)
			}
		}
		total := len(p.Hand) + nonTokens + len(p.Graveyard) + p.Library
		if total != p.Deck {
			return fmt.Errorf("%w: player %d zone count %d, want %d",
				ErrInvariantViolation, i, total, p.Deck)
		}
	}
	active := &s.Players[s.Active]
	defender := &s.Players[s.Defender()]
	for _, b := range s.Blocks {
		if b.Attacker < 0 || b.Attacker >= len(active.Battlefield) ||
			b.Blocker < 0 || b.Blocker >= len(defender.Battlefield) {
			return fmt.Errorf("%w: dangling block %v", ErrInvariantViolation, b)
		}
	}
	return nil
}
