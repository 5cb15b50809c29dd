package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost represents a parsed mana cost.
type Cost struct {
	Generic int
	White   int
	Blue    int
	Black   int
	Red     int
	Green   int
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Parse parses a mana cost string (e.g. "{1}{G}", "{W}{W}", "{2}").
// Supports generic ({1}, {2}, ...) and the five colored symbols; the
// curated catalog uses nothing else.
func Parse(costStr string) (Cost, error) {
	cost := Cost{}
	if costStr == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(costStr, -1)
	if len(matches) == 0 {
		return cost, fmt.Errorf("malformed mana cost %q", costStr)
	}
	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		switch symbol {
		case "W":
			cost.White++
		case "U":
			cost.Blue++
		case "B":
			cost.Black++
		case "R":
			cost.Red++
		case "G":
			cost.Green++
		default:
			num, err := strconv.Atoi(symbol)
			if err != nil {
				return Cost{}, fmt.Errorf("unknown mana symbol {%s}", symbol)
			}
			cost.Generic += num
		}
	}
	return cost, nil
}

// MustParse parses a cost and panics on error. For static catalog entries.
func MustParse(costStr string) Cost {
	cost, err := Parse(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

// Colored returns the total colored mana required.
func (c Cost) Colored() int {
	return c.White + c.Blue + c.Black + c.Red + c.Green
}

// Converted returns the converted (total) mana cost.
func (c Cost) Converted() int {
	return c.Generic + c.Colored()
}

// Free reports whether the cost is zero.
func (c Cost) Free() bool {
	return c.Converted() == 0
}

// Colors returns the colored component amounts keyed by mana type.
func (c Cost) Colors() map[Type]int {
	out := make(map[Type]int)
	if c.White > 0 {
		out[White] = c.White
	}
	if c.Blue > 0 {
		out[Blue] = c.Blue
	}
	if c.Black > 0 {
		out[Black] = c.Black
	}
	if c.Red > 0 {
		out[Red] = c.Red
	}
	if c.Green > 0 {
		out[Green] = c.Green
	}
	return out
}

// String returns the canonical symbol form of the cost.
func (c Cost) String() string {
	var b strings.Builder
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	for i := 0; i < c.White; i++ {
		b.WriteString("{W}")
	}
	for i := 0; i < c.Blue; i++ {
		b.WriteString("{U}")
	}
	for i := 0; i < c.Black; i++ {
		b.WriteString("{B}")
	}
	for i := 0; i < c.Red; i++ {
		b.WriteString("{R}")
	}
	for i := 0; i < c.Green; i++ {
		b.WriteString("{G}")
	}
	if b.Len() == 0 {
		return "{0}"
	}
	return b.String()
}
