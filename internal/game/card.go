package game

import (
	"strings"

	"github.com/dipplestix/3cbsolver/internal/game/mana"
)

// CardID identifies a card in the catalog. IDs are the canonical card
// names; decks and actions refer to cards only by ID.
type CardID string

// CardType is a bit set of card types. Creature lands carry both the
// land and creature bits.
type CardType uint8

const (
	TypeLand CardType = 1 << iota
	TypeCreature
	TypeArtifact
)

// Has reports whether all bits in t are set.
func (c CardType) Has(t CardType) bool {
	return c&t == t
}

// Keywords is a bit set of evergreen keywords.
type Keywords uint32

const (
	KeywordFlying Keywords = 1 << iota
	KeywordReach
	KeywordFirstStrike
	KeywordDoubleStrike
	KeywordDeathtouch
	KeywordTrample
	KeywordHaste
	KeywordVigilance
	KeywordLifelink
	KeywordShroud
	KeywordDefender
)

var keywordNames = []struct {
	kw   Keywords
	name string
}{
	{KeywordFlying, "flying"},
	{KeywordReach, "reach"},
	{KeywordFirstStrike, "first strike"},
	{KeywordDoubleStrike, "double strike"},
	{KeywordDeathtouch, "deathtouch"},
	{KeywordTrample, "trample"},
	{KeywordHaste, "haste"},
	{KeywordVigilance, "vigilance"},
	{KeywordLifelink, "lifelink"},
	{KeywordShroud, "shroud"},
	{KeywordDefender, "defender"},
}

// Has reports whether any of the bits in kw are set.
func (k Keywords) Has(kw Keywords) bool {
	return k&kw != 0
}

func (k Keywords) String() string {
	var parts []string
	for _, e := range keywordNames {
		if k.Has(e.kw) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, ", ")
}

// Hooks are the behavior entry points a card contributes. All hooks are
// optional; the engine supplies generic behavior when a hook is nil.
// Hooks receive a state that the engine has already cloned for the
// current apply, so they may mutate it freely; callers of the engine
// never observe a half-applied state.
type Hooks struct {
	// CanCast adds a casting precondition beyond mana (e.g. Scythe
	// Tiger needs a land to sacrifice).
	CanCast func(s *State, p PlayerID) bool
	// OnEnter adjusts the permanent as it enters the battlefield
	// (enters tapped, entry counters, sacrifice riders).
	OnEnter func(s *State, p PlayerID, permIdx int)
	// BattlefieldActions contributes activated-ability actions while
	// the permanent is on the battlefield.
	BattlefieldActions func(s *State, p PlayerID, permIdx int) []Action
	// Activate resolves an activated ability produced by
	// BattlefieldActions.
	Activate func(s *State, a Action) error
	// OnUpkeep fires at the beginning of the controller's upkeep.
	OnUpkeep func(s *State, p PlayerID, permIdx int)
	// OnDeath fires after the permanent has been moved to the
	// graveyard. perm is the removed permanent snapshot.
	OnDeath func(s *State, p PlayerID, perm *Permanent)
	// OnDamagePlayer fires when the permanent deals combat damage to a
	// player.
	OnDamagePlayer func(s *State, p PlayerID, permIdx int)
	// OnLandfall fires when a land enters the battlefield under the
	// controller of this permanent.
	OnLandfall func(s *State, p PlayerID, permIdx int)
	// OnTargeted fires when the permanent becomes the target of an
	// ability its controller controls.
	OnTargeted func(s *State, p PlayerID, permIdx int)
	// OnTapForMana fires when the permanent is tapped for mana during
	// cost payment (depletion/storage/bounce bookkeeping).
	OnTapForMana func(s *State, p PlayerID, permIdx int)
	// Stats overrides base power/toughness (level-up tables).
	Stats func(perm *Permanent) (power, toughness int)
	// DynamicKeywords contributes keywords that depend on permanent
	// state (Student of Warfare's levels).
	DynamicKeywords func(perm *Permanent) Keywords
}

// CardInfo is the static catalog record for one card.
type CardInfo struct {
	ID       CardID
	Cost     mana.Cost
	Types    CardType
	Subtypes []string
	Power    int
	Toughness int
	Keywords Keywords

	// Produces is the mana type this permanent taps for, None for
	// non-sources, Any for rainbow sources.
	Produces mana.Type
	// ManaOutput is how much mana one tap yields when it is not the
	// default of one (depletion and storage lands).
	ManaOutput func(perm *Permanent) int

	// NeedsAnimation marks creature lands that are only creatures
	// while animated (Mutavault). Dryad Arbor carries TypeCreature
	// statically instead.
	NeedsAnimation bool
	// Token marks tokens; they never sit in hands or graveyards and do
	// not count against the three-card total.
	Token bool
	// AutoLevel marks creatures that level up whenever mana is spare
	// (Student of Warfare); the engine levels them at upkeep and at
	// the start of combat rather than branching on it. LevelColor is
	// the mana color one level costs.
	AutoLevel  bool
	LevelColor mana.Type
	// CantBeBlockedBy lists creature subtypes that cannot block this
	// creature.
	CantBeBlockedBy []string
	// AllCreatureTypes marks changelings for blocking restrictions.
	AllCreatureTypes bool
	// TokenGenerator and Grows feed the grinding detector: generators
	// accumulate blockers without bound, growers accumulate stats.
	TokenGenerator bool
	Grows          bool

	Hooks Hooks
}

// IsLand reports whether the card is a land.
func (ci *CardInfo) IsLand() bool {
	return ci.Types.Has(TypeLand)
}

// HasSubtype reports whether the card has the given creature subtype.
func (ci *CardInfo) HasSubtype(sub string) bool {
	for _, s := range ci.Subtypes {
		if s == sub {
			return true
		}
	}
	return false
}
