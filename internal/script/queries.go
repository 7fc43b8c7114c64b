// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package script

import (
	"sort"

	"github.com/vk/karelgrid/internal/interpreter"
)

// query is one condition variable bound to the command that answers it.
type query struct {
	name string
	ask  func(k interpreter.Karel) bool
}

func not(f func(interpreter.Karel) bool) func(interpreter.Karel) bool {
	return func(k interpreter.Karel) bool { return !f(k) }
}

var queries = map[string]func(interpreter.Karel) bool{
	"front_is_blocked":   interpreter.Karel.FrontIsBlocked,
	"left_is_blocked":    interpreter.Karel.LeftIsBlocked,
	"right_is_blocked":   interpreter.Karel.RightIsBlocked,
	"back_is_blocked":    interpreter.Karel.BackIsBlocked,
	"front_is_clear":     not(interpreter.Karel.FrontIsBlocked),
	"left_is_clear":      not(interpreter.Karel.LeftIsBlocked),
	"right_is_clear":     not(interpreter.Karel.RightIsBlocked),
	"back_is_clear":      not(interpreter.Karel.BackIsBlocked),
	"facing_north":       interpreter.Karel.FacingNorth,
	"facing_east":        interpreter.Karel.FacingEast,
	"facing_south":       interpreter.Karel.FacingSouth,
	"facing_west":        interpreter.Karel.FacingWest,
	"beepers_present":    interpreter.Karel.BeepersPresent,
	"no_beepers_present": not(interpreter.Karel.BeepersPresent),
}

var primitives = map[string]func(interpreter.Karel){
	"move":        interpreter.Karel.Move,
	"turn_left":   interpreter.Karel.TurnLeft,
	"put_beeper":  interpreter.Karel.PutBeeper,
	"pick_beeper": interpreter.Karel.PickBeeper,
}

// QueryNames lists the variables a condition may use, sorted.
func QueryNames() []string {
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrimitiveNames lists the blocks that issue a single command, sorted.
func PrimitiveNames() []string {
	names := make([]string, 0, len(primitives))
	for name := range primitives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
