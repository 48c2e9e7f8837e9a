package record

import (
	"cmp"
	"fmt"
	"strings"
)

// Order is the ordering selector of a sort invocation.
type Order int

const (
	// Ascending sorts by non-decreasing score.
	Ascending Order = 1
	// Descending sorts by non-increasing score.
	Descending Order = 2
	// Random labels an invocation over a shuffled input. It does not change the
	// comparison; see RandomDirection.
	Random Order = 3
)

// Direction is the comparison sense used by the engines.
type Direction int

const (
	// Up places lower scores first.
	Up Direction = iota
	// Down places higher scores first.
	Down
)

// RandomDirection is the comparison sense applied to the Random order.
// Random is a labeling selector for metrics and reports only.
const RandomDirection = Up

// ParseOrder accepts the numeric selectors 1, 2, 3 and their names.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "asc", "ascending":
		return Ascending, nil
	case "2", "desc", "descending":
		return Descending, nil
	case "3", "random":
		return Random, nil
	default:
		return 0, fmt.Errorf("unknown order %q", s)
	}
}

// Valid reports whether o is a known selector.
func (o Order) Valid() bool {
	return o == Ascending || o == Descending || o == Random
}

// Direction returns the comparison sense of o.
func (o Order) Direction() Direction {
	switch o {
	case Descending:
		return Down
	case Random:
		return RandomDirection
	default:
		return Up
	}
}

func (o Order) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// CompareScores compares two scores in direction d.
// It returns a negative value when a must come before b.
func CompareScores(d Direction, a, b float32) int {
	if d == Down {
		return cmp.Compare(b, a)
	}
	return cmp.Compare(a, b)
}

// KeyRef is a score paired with the position of its record in the original
// input. Engines move KeyRefs instead of full records.
type KeyRef struct {
	Score float32
	Pos   int64
}

// Comparator is a total order on KeyRef: score in the configured direction,
// then ascending position.
//
// Every call increments Counter when it is non-nil.
type Comparator struct {
	Direction Direction
	Counter   *int64
}

// NewComparator returns a comparator for d that counts into counter.
func NewComparator(d Direction, counter *int64) Comparator {
	return Comparator{Direction: d, Counter: counter}
}

// Compare returns a negative value when a precedes b, zero when a == b and a
// positive value otherwise.
func (c Comparator) Compare(a, b KeyRef) int {
	if c.Counter != nil {
		*c.Counter++
	}
	if r := CompareScores(c.Direction, a.Score, b.Score); r != 0 {
		return r
	}
	return cmp.Compare(a.Pos, b.Pos)
}

// Less reports whether a strictly precedes b.
func (c Comparator) Less(a, b KeyRef) bool {
	return c.Compare(a, b) < 0
}
