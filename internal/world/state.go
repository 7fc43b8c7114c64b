package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidState is returned when a State does not fit on its board.
var ErrInvalidState = errors.New("invalid state")

// Beeper is a marker lying on a cell. Several beepers may share a cell.
type Beeper struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Position returns the cell the beeper lies on.
func (b Beeper) Position() Position {
	return Position{X: b.X, Y: b.Y}
}

// State is a snapshot of the robot and the beeper layout. Methods never
// modify the receiver; they return a new State whose beeper slice does not
// share a backing array with the original.
type State struct {
	X         int       `json:"x" yaml:"x"`
	Y         int       `json:"y" yaml:"y"`
	Direction Direction `json:"direction" yaml:"direction"`
	Beepers   []Beeper  `json:"beepers" yaml:"beepers"`
}

// Position returns the robot's current cell.
func (s State) Position() Position {
	return Position{X: s.X, Y: s.Y}
}

// MoveTo returns a copy of s with the robot at p.
func (s State) MoveTo(p Position) State {
	s.X, s.Y = p.X, p.Y
	return s
}

// Facing returns a copy of s with the robot facing d.
func (s State) Facing(d Direction) State {
	s.Direction = d
	return s
}

// BeepersAt counts the beepers on cell p.
func (s State) BeepersAt(p Position) int {
	n := 0
	for _, b := range s.Beepers {
		if b.Position() == p {
			n++
		}
	}
	return n
}

// WithBeeper returns a copy of s with one more beeper on the robot's cell.
func (s State) WithBeeper() State {
	beepers := make([]Beeper, len(s.Beepers), len(s.Beepers)+1)
	copy(beepers, s.Beepers)
	s.Beepers = append(beepers, Beeper{X: s.X, Y: s.Y})
	return s
}

// WithoutBeeper returns a copy of s with the first beeper found on the
// robot's cell removed. When the cell is empty the copy is unchanged.
func (s State) WithoutBeeper() State {
	idx := -1
	for i, b := range s.Beepers {
		if b.X == s.X && b.Y == s.Y {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.Clone()
	}
	beepers := make([]Beeper, 0, len(s.Beepers)-1)
	beepers = append(beepers, s.Beepers[:idx]...)
	beepers = append(beepers, s.Beepers[idx+1:]...)
	s.Beepers = beepers
	return s
}

// MarshalJSON renders a missing beeper list as an empty array.
func (s State) MarshalJSON() ([]byte, error) {
	type plain State
	if s.Beepers == nil {
		s.Beepers = []Beeper{}
	}
	return json.Marshal(plain(s))
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	if s.Beepers != nil {
		beepers := make([]Beeper, len(s.Beepers))
		copy(beepers, s.Beepers)
		s.Beepers = beepers
	}
	return s
}

// Validate checks that the robot and every beeper lie on board and that the
// direction is valid.
func (s State) Validate(board Board) error {
	if !board.Contains(s.Position()) {
		return fmt.Errorf("%w: robot at %s is outside the %s board", ErrInvalidState, s.Position(), board)
	}
	if !s.Direction.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidState, ErrInvalidDirection, int(s.Direction))
	}
	for i, b := range s.Beepers {
		if !board.Contains(b.Position()) {
			return fmt.Errorf("%w: beeper %d at %s is outside the %s board", ErrInvalidState, i, b.Position(), board)
		}
	}
	return nil
}

func (s State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "robot at %s facing %s", s.Position(), s.Direction)
	if len(s.Beepers) == 0 {
		sb.WriteString(", no beepers")
		return sb.String()
	}
	sb.WriteString(", beepers at")
	for i, b := range s.Beepers {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(b.Position().String())
	}
	return sb.String()
}
