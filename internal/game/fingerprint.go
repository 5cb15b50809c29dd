package game

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Canonical state fingerprints. The transposition table, the dominance
// table and repetition detection all key on them, so every symmetry
// that cannot affect play must be normalized away before hashing:
// hands and battlefields are multisets, so their serialized entries are
// sorted; block assignments are serialized as pairs of permanent tuples
// rather than indices. The turn counter is excluded (the outcome
// depends on the position, not how long it took to reach), and turn
// parity is implied by the active-player field under two-player strict
// alternation.

// Fingerprint returns the canonical hash of the state, including life
// totals.
func (s *State) Fingerprint() uint64 {
	return xxhash.Sum64(s.canonicalBytes(true))
}

// BoardFingerprint is the fingerprint with life totals excluded. Two
// states sharing a board fingerprint differ only in life, which is what
// lets the dominance table compare them.
func (s *State) BoardFingerprint() uint64 {
	return xxhash.Sum64(s.canonicalBytes(false))
}

func (s *State) canonicalBytes(withLife bool) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "G|%d|%d|%t|%t|%t|%d\n", s.Active, s.Phase, s.LandPlayed, s.Over, s.Draw, s.Winner)
	if withLife {
		fmt.Fprintf(&b, "L|%d|%d\n", s.Players[0].Life, s.Players[1].Life)
	}
	for i := range s.Players {
		p := &s.Players[i]
		hand := make([]string, len(p.Hand))
		for j, id := range p.Hand {
			hand[j] = string(id)
		}
		sort.Strings(hand)
		fmt.Fprintf(&b, "H%d|%v\n", i, hand)

		perms := make([]string, len(p.Battlefield))
		for j := range p.Battlefield {
			perms[j] = permSignature(&p.Battlefield[j])
		}
		sort.Strings(perms)
		fmt.Fprintf(&b, "B%d|%v\n", i, perms)

		grave := make([]string, len(p.Graveyard))
		for j, id := range p.Graveyard {
			grave[j] = string(id)
		}
		sort.Strings(grave)
		fmt.Fprintf(&b, "Y%d|%v|%d\n", i, grave, p.Library)
	}

	if len(s.Blocks) > 0 {
		active := &s.Players[s.Active]
		defender := &s.Players[s.Defender()]
		pairs := make([]string, len(s.Blocks))
		for j, blk := range s.Blocks {
			pairs[j] = permSignature(&active.Battlefield[blk.Attacker]) +
				">>" + permSignature(&defender.Battlefield[blk.Blocker])
		}
		sort.Strings(pairs)
		fmt.Fprintf(&b, "K|%v\n", pairs)
	}
	return b.Bytes()
}
