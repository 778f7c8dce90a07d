package email

import "fmt"

// Importance is the closed 1-3 ordinal attached to every summary
type Importance int

const (
	ImportanceLow    Importance = 1
	ImportanceNormal Importance = 2
	ImportanceHigh   Importance = 3
)

// String returns the lowercase level name
func (i Importance) String() string {
	switch i {
	case ImportanceLow:
		return "low"
	case ImportanceNormal:
		return "normal"
	case ImportanceHigh:
		return "high"
	default:
		return fmt.Sprintf("importance(%d)", int(i))
	}
}

// Valid reports whether i is one of the three defined levels
func (i Importance) Valid() bool {
	return i >= ImportanceLow && i <= ImportanceHigh
}

// ParseImportance converts a min_score style integer into an Importance
func ParseImportance(n int) (Importance, error) {
	i := Importance(n)
	if !i.Valid() {
		return 0, Validationf("min_score must be between 1 and 3, got %d", n)
	}
	return i, nil
}
