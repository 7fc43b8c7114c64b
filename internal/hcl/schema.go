package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Exercises []*exerciseBlock `hcl:"exercise,block"`
	Programs  []*programBlock  `hcl:"program,block"`
}

type exerciseBlock struct {
	ID          string       `hcl:"id,label"`
	Title       string       `hcl:"title"`
	Description string       `hcl:"description,optional"`
	Solution    string       `hcl:"solution,optional"`
	Cases       []*caseBlock `hcl:"case,block"`
}

type caseBlock struct {
	Board   boardBlock `hcl:"board,block"`
	Initial stateBlock `hcl:"initial,block"`
	Goal    stateBlock `hcl:"goal,block"`
}

type boardBlock struct {
	Width  int `hcl:"width"`
	Height int `hcl:"height"`
}

type stateBlock struct {
	X         int          `hcl:"x"`
	Y         int          `hcl:"y"`
	Direction string       `hcl:"direction"`
	Beepers   []beeperAttr `hcl:"beepers,optional"`
}

type beeperAttr struct {
	X int `cty:"x"`
	Y int `cty:"y"`
}

type programBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}
