package interpreter

import "github.com/vk/karelgrid/internal/world"

func move(s world.State, b world.Board) (world.State, bool) {
	return s.MoveTo(b.Step(s.Position(), s.Direction)), false
}

func turnLeft(s world.State, _ world.Board) (world.State, bool) {
	return s.Facing(s.Direction.Left()), false
}

func putBeeper(s world.State, _ world.Board) (world.State, bool) {
	return s.WithBeeper(), false
}

func pickBeeper(s world.State, _ world.Board) (world.State, bool) {
	return s.WithoutBeeper(), false
}

// blockedTowards builds a query for the cell in the direction turn(facing).
func blockedTowards(turn func(world.Direction) world.Direction) Transition {
	return func(s world.State, b world.Board) (world.State, bool) {
		return s, b.Blocked(s.Position(), turn(s.Direction))
	}
}

func facing(d world.Direction) Transition {
	return func(s world.State, _ world.Board) (world.State, bool) {
		return s, s.Direction == d
	}
}

func beepersPresent(s world.State, _ world.Board) (world.State, bool) {
	return s, s.BeepersAt(s.Position()) > 0
}

var (
	frontIsBlocked = blockedTowards(func(d world.Direction) world.Direction { return d })
	leftIsBlocked  = blockedTowards(world.Direction.Left)
	rightIsBlocked = blockedTowards(world.Direction.Right)
	backIsBlocked  = blockedTowards(world.Direction.Back)

	facingNorth = facing(world.North)
	facingEast  = facing(world.East)
	facingSouth = facing(world.South)
	facingWest  = facing(world.West)
)

func (i *Interpreter) Move()       { i.Dispatch(CmdMove, move) }
func (i *Interpreter) TurnLeft()   { i.Dispatch(CmdTurnLeft, turnLeft) }
func (i *Interpreter) PutBeeper()  { i.Dispatch(CmdPutBeeper, putBeeper) }
func (i *Interpreter) PickBeeper() { i.Dispatch(CmdPickBeeper, pickBeeper) }

func (i *Interpreter) FrontIsBlocked() bool { return i.Dispatch(CmdFrontIsBlocked, frontIsBlocked) }
func (i *Interpreter) LeftIsBlocked() bool  { return i.Dispatch(CmdLeftIsBlocked, leftIsBlocked) }
func (i *Interpreter) RightIsBlocked() bool { return i.Dispatch(CmdRightIsBlocked, rightIsBlocked) }
func (i *Interpreter) BackIsBlocked() bool  { return i.Dispatch(CmdBackIsBlocked, backIsBlocked) }

func (i *Interpreter) FacingNorth() bool { return i.Dispatch(CmdFacingNorth, facingNorth) }
func (i *Interpreter) FacingEast() bool  { return i.Dispatch(CmdFacingEast, facingEast) }
func (i *Interpreter) FacingSouth() bool { return i.Dispatch(CmdFacingSouth, facingSouth) }
func (i *Interpreter) FacingWest() bool  { return i.Dispatch(CmdFacingWest, facingWest) }

func (i *Interpreter) BeepersPresent() bool { return i.Dispatch(CmdBeepersPresent, beepersPresent) }
