// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the compiled form of a program and its execution.
//
// Statements are compiled once and never modified afterwards, so a single
// Program can be run by many graders at the same time. All per-run state
// lives in the execution value created by Run.
package script

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/karelgrid/internal/interpreter"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// MaxCallDepth bounds procedure nesting at run time.
const MaxCallDepth = 10000

var (
	// ErrCallDepth fails a run whose procedure calls nest too deeply.
	ErrCallDepth = errors.New("procedure calls nested too deeply")
	// ErrCondition fails a run whose condition does not yield a bool.
	ErrCondition = errors.New("condition did not evaluate to a bool")
)

// Program is a compiled Karel program.
type Program struct {
	name       string
	main       []stmt
	procedures map[string]*procedure
}

var _ interpreter.Program = (*Program)(nil)

// Name returns the program's label.
func (p *Program) Name() string {
	return p.name
}

// Procedures returns the number of declared procedures.
func (p *Program) Procedures() int {
	return len(p.procedures)
}

// Run executes the program against k. When k is an interpreter.Checker
// every loop iteration and procedure call is checked against the run's
// budget, so loops without commands end in time too.
func (p *Program) Run(k interpreter.Karel) error {
	e := &execution{k: k, check: func(string) error { return nil }}
	if c, ok := k.(interpreter.Checker); ok {
		e.check = c.Check
	}
	return execAll(e, p.main)
}

type execution struct {
	k     interpreter.Karel
	check func(name string) error
	depth int
}

type stmt interface {
	exec(e *execution) error
}

func execAll(e *execution, stmts []stmt) error {
	for _, s := range stmts {
		if err := s.exec(e); err != nil {
			return err
		}
	}
	return nil
}

type primitiveStmt struct {
	do func(interpreter.Karel)
}

func (s *primitiveStmt) exec(e *execution) error {
	s.do(e.k)
	return nil
}

type repeatStmt struct {
	times int
	body  []stmt
}

func (s *repeatStmt) exec(e *execution) error {
	for range s.times {
		if err := e.check(blockRepeat); err != nil {
			return err
		}
		if err := execAll(e, s.body); err != nil {
			return err
		}
	}
	return nil
}

type whileStmt struct {
	cond *condition
	body []stmt
}

func (s *whileStmt) exec(e *execution) error {
	for {
		if err := e.check(blockWhile); err != nil {
			return err
		}
		ok, err := s.cond.eval(e.k)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := execAll(e, s.body); err != nil {
			return err
		}
	}
}

type ifStmt struct {
	cond      *condition
	then      []stmt
	otherwise []stmt
}

func (s *ifStmt) exec(e *execution) error {
	ok, err := s.cond.eval(e.k)
	if err != nil {
		return err
	}
	if ok {
		return execAll(e, s.then)
	}
	return execAll(e, s.otherwise)
}

type procedure struct {
	name string
	decl hcl.Range
	body []stmt
}

type callStmt struct {
	target *procedure
	rng    hcl.Range
}

func (s *callStmt) exec(e *execution) error {
	if err := e.check(s.target.name); err != nil {
		return err
	}
	if e.depth >= MaxCallDepth {
		return fmt.Errorf("%s: calling %q: %w", s.rng, s.target.name, ErrCallDepth)
	}
	e.depth++
	defer func() { e.depth-- }()
	return execAll(e, s.target.body)
}

// condition is an expression plus the queries it reads, in source order.
type condition struct {
	expr    hcl.Expression
	queries []query
}

func (c *condition) eval(k interpreter.Karel) (bool, error) {
	vars := make(map[string]cty.Value, len(c.queries))
	for _, q := range c.queries {
		vars[q.name] = cty.BoolVal(q.ask(k))
	}

	val, diags := c.expr.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return false, diags
	}
	val, err := convert.Convert(val, cty.Bool)
	if err != nil || val.IsNull() || !val.IsKnown() {
		return false, fmt.Errorf("%s: %w", c.expr.Range(), ErrCondition)
	}

	var result bool
	if err := gocty.FromCtyValue(val, &result); err != nil {
		return false, fmt.Errorf("%s: %w", c.expr.Range(), err)
	}
	return result, nil
}
