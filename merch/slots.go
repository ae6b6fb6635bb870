package merch

// Default slot ceilings for the storefront placements.
const (
	DefaultHorizontalSlots = 2
	DefaultVerticalSlots   = 3
)

// Class is a group of rows whose positions must be unique: one table,
// optionally narrowed by Scope (for example kind = "vertical").
// A Capacity of zero means the class has no ceiling.
type Class struct {
	Name     string
	Table    string
	Scope    map[string]interface{}
	Capacity int
}

func (c Class) Capped() bool {
	return c.Capacity > 0
}

// NextPosition returns the smallest free position in [1, capacity]. When every
// slot is taken it falls back to 1; callers are expected to refuse creation
// beyond capacity before getting here. Without a ceiling the smallest free
// positive position is returned.
func NextPosition(occupied []int, capacity int) int {
	taken := make(map[int]bool, len(occupied))
	for _, p := range occupied {
		taken[p] = true
	}

	if capacity <= 0 {
		p := 1
		for taken[p] {
			p++
		}
		return p
	}

	for p := 1; p <= capacity; p++ {
		if !taken[p] {
			return p
		}
	}
	return 1
}

// ValidatePosition checks a manually chosen position against the class bounds.
func ValidatePosition(c Class, position int) error {
	if position < 1 {
		return invalid("position must be at least 1, got %d", position)
	}
	if c.Capped() && position > c.Capacity {
		return invalid("position must be between 1 and %d for %s, got %d", c.Capacity, c.Name, position)
	}
	return nil
}
