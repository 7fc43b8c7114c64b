package world

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is raised when a Direction value outside the closed
// enum reaches the geometry helpers. It signals a programming error, not a
// learner mistake.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction is one of the four cardinal orientations the robot can face.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
}

// Directions lists every valid direction in rotation order.
var Directions = []Direction{North, East, South, West}

// deltas maps a direction to the one-cell offset it moves by. The origin is
// the top-left corner, so north decreases y.
var deltas = map[Direction]Position{
	North: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: 1},
	West:  {X: -1, Y: 0},
}

// ParseDirection converts a lowercase name such as "east" to a Direction.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d, n := range directionNames {
		if n == name {
			return Direction(d), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Left returns the direction after a counter-clockwise quarter turn.
func (d Direction) Left() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	}
	panic(fmt.Errorf("%w: %d", ErrInvalidDirection, int(d)))
}

// Right returns the direction after a clockwise quarter turn.
func (d Direction) Right() Direction {
	return d.Left().Left().Left()
}

// Back returns the opposite direction.
func (d Direction) Back() Direction {
	return d.Left().Left()
}

// Delta returns the offset of a single step in direction d.
func (d Direction) Delta() Position {
	delta, ok := deltas[d]
	if !ok {
		panic(fmt.Errorf("%w: %d", ErrInvalidDirection, int(d)))
	}
	return delta
}
