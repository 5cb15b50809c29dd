package mana

// Type represents a type of mana.
type Type string

const (
	White     Type = "W"
	Blue      Type = "U"
	Black     Type = "B"
	Red       Type = "R"
	Green     Type = "G"
	Colorless Type = "C"
	// Any marks a source that can produce one mana of any color
	// (e.g. Undiscovered Paradise). It never appears inside a pool;
	// the engine picks a concrete color when the source is tapped.
	Any  Type = "*"
	None Type = ""
)

var colors = []Type{White, Blue, Black, Red, Green, Colorless}

// Pool is a player's mana pool. It is a plain value: the solver clones
// game states by value on a single goroutine, so unlike a live server
// pool it carries no lock. It empties at every phase boundary; mana only
// exists inside a single cast or activation.
type Pool struct {
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
}

// Add adds mana to the pool. Any never enters a pool and is ignored.
func (p *Pool) Add(t Type, amount int) {
	if amount <= 0 {
		return
	}
	switch t {
	case White:
		p.White += amount
	case Blue:
		p.Blue += amount
	case Black:
		p.Black += amount
	case Red:
		p.Red += amount
	case Green:
		p.Green += amount
	case Colorless:
		p.Colorless += amount
	}
}

// Amount returns the amount of a specific mana type in the pool.
func (p Pool) Amount(t Type) int {
	switch t {
	case White:
		return p.White
	case Blue:
		return p.Blue
	case Black:
		return p.Black
	case Red:
		return p.Red
	case Green:
		return p.Green
	case Colorless:
		return p.Colorless
	default:
		return 0
	}
}

// Total returns the total mana count across all types.
func (p Pool) Total() int {
	return p.White + p.Blue + p.Black + p.Red + p.Green + p.Colorless
}

// Empty removes all mana from the pool.
func (p *Pool) Empty() {
	*p = Pool{}
}

// CanPay reports whether the pool covers a cost: every colored
// requirement from its own color, the generic part from whatever remains.
func (p Pool) CanPay(c Cost) bool {
	if p.White < c.White || p.Blue < c.Blue || p.Black < c.Black ||
		p.Red < c.Red || p.Green < c.Green {
		return false
	}
	return p.Total()-c.Colored() >= c.Generic
}

// Pay spends a cost from the pool. Colored requirements are paid from
// their own colors, then the generic part is drained color by color in
// a fixed order so payment is deterministic. Returns false (pool
// unchanged) if the cost cannot be paid.
func (p *Pool) Pay(c Cost) bool {
	if !p.CanPay(c) {
		return false
	}
	p.White -= c.White
	p.Blue -= c.Blue
	p.Black -= c.Black
	p.Red -= c.Red
	p.Green -= c.Green

	remaining := c.Generic
	for _, t := range colors {
		if remaining <= 0 {
			break
		}
		spend := p.Amount(t)
		if spend > remaining {
			spend = remaining
		}
		switch t {
		case White:
			p.White -= spend
		case Blue:
			p.Blue -= spend
		case Black:
			p.Black -= spend
		case Red:
			p.Red -= spend
		case Green:
			p.Green -= spend
		case Colorless:
			p.Colorless -= spend
		}
		remaining -= spend
	}
	return true
}
