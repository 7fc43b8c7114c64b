// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package script compiles Karel programs written in HCL into values that
// satisfy interpreter.Program.
//
// A program is a sequence of blocks executed in source order:
//
//	program "clean_aisle" {
//	  procedure "step_and_pick" {
//	    move {}
//	    pick_beeper {}
//	  }
//
//	  pick_beeper {}
//	  while {
//	    condition = !front_is_blocked
//	    step_and_pick {}
//	  }
//	}
//
// The primitive blocks move, turn_left, put_beeper and pick_beeper issue one
// command each. repeat, while and if are the control blocks; an if block may
// hold one nested else block. Any other block name calls a procedure
// declared at the top of the same program.
//
// Conditions are HCL expressions over the query variables listed in
// QueryNames. Every variable an expression mentions is asked once, in the
// order it appears, each time the condition is evaluated; both sides of &&
// and || are always asked.
package script
