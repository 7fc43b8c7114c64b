package world

import (
	"errors"
	"fmt"
)

// ErrInvalidBoard is returned for boards with a non-positive dimension.
var ErrInvalidBoard = errors.New("invalid board")

// Position is a cell coordinate. (0, 0) is the top-left corner.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns the component-wise sum of p and q.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Board holds the dimensions of the world for one run. It never changes
// while a program is executing.
type Board struct {
	Width  int `json:"boardWidth" yaml:"boardWidth"`
	Height int `json:"boardHeight" yaml:"boardHeight"`
}

// Validate checks that both dimensions are positive.
func (b Board) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBoard, b.Width, b.Height)
	}
	return nil
}

// Contains reports whether p lies on the board.
func (b Board) Contains(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Blocked reports whether a single step from p in direction d would leave
// the board.
func (b Board) Blocked(p Position, d Direction) bool {
	return !b.Contains(p.Add(d.Delta()))
}

// Step moves p one cell in direction d. At the edge of the board the
// position is returned unchanged.
func (b Board) Step(p Position, d Direction) Position {
	if b.Blocked(p, d) {
		return p
	}
	return p.Add(d.Delta())
}

func (b Board) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}
