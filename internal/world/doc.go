// Package world holds the grid geometry and the value types a Karel run
// operates on: directions, positions, boards, beepers, states and test
// cases. Everything here is pure; nothing keeps run state.
package world
