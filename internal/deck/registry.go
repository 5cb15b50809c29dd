package deck

import (
	"fmt"
	"sort"

	"github.com/dipplestix/3cbsolver/internal/game"
)

// The deck registry maps short names to ordered three-card hands. It is
// consumed by the front-end; the solver core only ever sees hands.

// Deck is a named three-card hand.
type Deck struct {
	Name        string
	Description string
	Cards       []game.CardID
}

var registry = map[string]Deck{
	"student": {
		Name:        "student",
		Description: "Plains + Student of Warfare",
		Cards:       []game.CardID{"Plains", "Plains", "Student of Warfare"},
	},
	"scf": {
		Name:        "scf",
		Description: "Island + Sleep-Cursed Faerie",
		Cards:       []game.CardID{"Island", "Island", "Sleep-Cursed Faerie"},
	},
	"tiger": {
		Name:        "tiger",
		Description: "Forest + Scythe Tiger",
		Cards:       []game.CardID{"Forest", "Forest", "Scythe Tiger"},
	},
	"noble": {
		Name:        "noble",
		Description: "Mountain + Stromkirk Noble",
		Cards:       []game.CardID{"Mountain", "Mountain", "Stromkirk Noble"},
	},
	"hero": {
		Name:        "hero",
		Description: "Mountain + Hammerheim + Heartfire Hero",
		Cards:       []game.CardID{"Mountain", "Hammerheim", "Heartfire Hero"},
	},
	"mutavault": {
		Name:        "mutavault",
		Description: "Mutavault tribal (man-lands only)",
		Cards:       []game.CardID{"Mutavault", "Mutavault", "Mutavault"},
	},
	"aspirant": {
		Name:        "aspirant",
		Description: "Remote Farm + Plains + Luminarch Aspirant",
		Cards:       []game.CardID{"Remote Farm", "Plains", "Luminarch Aspirant"},
	},
	"thallid": {
		Name:        "thallid",
		Description: "Pendelhaven + Forest + Thallid",
		Cards:       []game.CardID{"Pendelhaven", "Forest", "Thallid"},
	},
	"urami": {
		Name:        "urami",
		Description: "Bottomless Vault + Swamp + Tomb of Urami",
		Cards:       []game.CardID{"Bottomless Vault", "Swamp", "Tomb of Urami"},
	},
	"sniper": {
		Name:        "sniper",
		Description: "Dryad Arbor + Forest + Dragon Sniper",
		Cards:       []game.CardID{"Dryad Arbor", "Forest", "Dragon Sniper"},
	},
	"moxvault": {
		Name:        "moxvault",
		Description: "Mox Jet + Mutavault",
		Cards:       []game.CardID{"Mox Jet", "Mutavault", "Mutavault"},
	},
	"dryads": {
		Name:        "dryads",
		Description: "Forest + Old-Growth Dryads",
		Cards:       []game.CardID{"Forest", "Forest", "Old-Growth Dryads"},
	},
	"chocobo": {
		Name:        "chocobo",
		Description: "Undiscovered Paradise + Forest + Sazh's Chocobo",
		Cards:       []game.CardID{"Undiscovered Paradise", "Forest", "Sazh's Chocobo"},
	},
}

// Lookup returns a registered deck by short name.
func Lookup(name string) (Deck, error) {
	d, ok := registry[name]
	if !ok {
		return Deck{}, fmt.Errorf("unknown deck %q", name)
	}
	return d, nil
}

// Names returns the registered deck names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered deck in name order.
func All() []Deck {
	var decks []Deck
	for _, name := range Names() {
		decks = append(decks, registry[name])
	}
	return decks
}
