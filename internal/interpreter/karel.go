package interpreter

// Command names as they appear in logs and fault messages.
const (
	CmdMove           = "move"
	CmdTurnLeft       = "turnLeft"
	CmdPutBeeper      = "putBeeper"
	CmdPickBeeper     = "pickBeeper"
	CmdFrontIsBlocked = "frontIsBlocked"
	CmdLeftIsBlocked  = "leftIsBlocked"
	CmdRightIsBlocked = "rightIsBlocked"
	CmdBackIsBlocked  = "backIsBlocked"
	CmdFacingNorth    = "facingNorth"
	CmdFacingEast     = "facingEast"
	CmdFacingSouth    = "facingSouth"
	CmdFacingWest     = "facingWest"
	CmdBeepersPresent = "beepersPresent"
)

// Karel is the command surface a program drives. Every call is one
// dispatch and appends exactly one state to the run's trajectory, queries
// included.
type Karel interface {
	Move()
	TurnLeft()
	PutBeeper()
	PickBeeper()

	FrontIsBlocked() bool
	LeftIsBlocked() bool
	RightIsBlocked() bool
	BackIsBlocked() bool

	FacingNorth() bool
	FacingEast() bool
	FacingSouth() bool
	FacingWest() bool

	BeepersPresent() bool
}

// Checker is implemented by a Karel that can tell a program, between
// commands, whether its run may go on. Programs with their own control flow
// call Check on every loop iteration and call so that a run issuing no
// commands still honors the time budget.
type Checker interface {
	Check(name string) error
}

// Program is a learner's solution. Run issues commands against k and may
// return an error to fail the run.
type Program interface {
	Run(k Karel) error
}

// ProgramFunc adapts an ordinary function to the Program interface.
type ProgramFunc func(k Karel) error

// Run calls f(k).
func (f ProgramFunc) Run(k Karel) error {
	return f(k)
}
