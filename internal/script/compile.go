// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file turns HCL blocks into statements.
//
// Why compile instead of walking the HCL body on every run?
//
// Every mistake that can be found without running the program (unknown
// statements, misspelled query names, a repeat count that is not a whole
// number) is reported once, at load time, with the source range attached.
// What remains for run time is only what depends on the world.
package script

import (
	"fmt"
	"sort"

	"github.com/agext/levenshtein"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

const (
	blockProcedure = "procedure"
	blockRepeat    = "repeat"
	blockWhile     = "while"
	blockIf        = "if"
	blockElse      = "else"

	attrTimes     = "times"
	attrCondition = "condition"
)

func isReserved(name string) bool {
	switch name {
	case blockProcedure, blockRepeat, blockWhile, blockIf, blockElse:
		return true
	}
	_, ok := primitives[name]
	return ok
}

type compiler struct {
	procedures map[string]*procedure
	diags      hcl.Diagnostics
}

// Compile builds a Program from the body of a program block. The body must
// come from the native HCL syntax; JSON bodies are rejected.
func Compile(name string, body hcl.Body) (*Program, hcl.Diagnostics) {
	sb, ok := body.(*hclsyntax.Body)
	if !ok {
		rng := body.MissingItemRange()
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported program syntax",
			Detail:   fmt.Sprintf("Program %q must be written in native HCL syntax.", name),
			Subject:  &rng,
		}}
	}

	c := &compiler{procedures: make(map[string]*procedure)}
	c.noAttributes(sb, "program")

	// Declare every procedure first so calls may precede declarations.
	var decls []*hclsyntax.Block
	for _, blk := range sb.Blocks {
		if blk.Type == blockProcedure {
			if c.declare(blk) {
				decls = append(decls, blk)
			}
		}
	}
	for _, blk := range decls {
		c.procedures[blk.Labels[0]].body = c.statements(blk.Body.Blocks, false)
		c.noAttributes(blk.Body, "procedure")
	}

	main := c.statements(sb.Blocks, true)
	if c.diags.HasErrors() {
		return nil, c.diags
	}
	return &Program{name: name, main: main, procedures: c.procedures}, c.diags
}

func (c *compiler) errorf(subject hcl.Range, summary, format string, args ...any) {
	c.diags = append(c.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  subject.Ptr(),
	})
}

func (c *compiler) declare(blk *hclsyntax.Block) bool {
	if len(blk.Labels) != 1 {
		c.errorf(blk.DefRange(), "Invalid procedure block", "A procedure block needs exactly one label, its name.")
		return false
	}
	name := blk.Labels[0]
	if !hclsyntax.ValidIdentifier(name) || isReserved(name) {
		c.errorf(blk.LabelRanges[0], "Invalid procedure name", "%q cannot be used as a procedure name.", name)
		return false
	}
	if prev, ok := c.procedures[name]; ok {
		c.errorf(blk.LabelRanges[0], "Duplicate procedure", "Procedure %q was already declared at %s.", name, prev.decl)
		return false
	}
	c.procedures[name] = &procedure{name: name, decl: blk.DefRange()}
	return true
}

func (c *compiler) statements(blocks hclsyntax.Blocks, topLevel bool) []stmt {
	stmts := make([]stmt, 0, len(blocks))
	for _, blk := range blocks {
		switch blk.Type {
		case blockProcedure:
			if !topLevel {
				c.errorf(blk.DefRange(), "Misplaced procedure", "Procedures can only be declared directly inside a program block.")
			}
			continue
		case blockElse:
			c.errorf(blk.DefRange(), "Misplaced else", "An else block must be nested inside an if block.")
			continue
		}
		if s := c.statement(blk); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (c *compiler) statement(blk *hclsyntax.Block) stmt {
	if len(blk.Labels) > 0 {
		c.errorf(blk.LabelRanges[0], "Unexpected label", "A %q block takes no labels.", blk.Type)
		return nil
	}

	switch blk.Type {
	case blockRepeat:
		return c.repeat(blk)
	case blockWhile:
		return c.while(blk)
	case blockIf:
		return c.ifElse(blk)
	}

	if do, ok := primitives[blk.Type]; ok {
		c.empty(blk)
		return &primitiveStmt{do: do}
	}
	if target, ok := c.procedures[blk.Type]; ok {
		c.empty(blk)
		return &callStmt{target: target, rng: blk.DefRange()}
	}

	detail := fmt.Sprintf("There is no command or procedure named %q.", blk.Type)
	if suggestion := c.suggest(blk.Type); suggestion != "" {
		detail += fmt.Sprintf(" Did you mean %q?", suggestion)
	}
	c.errorf(blk.TypeRange, "Unknown statement", "%s", detail)
	return nil
}

func (c *compiler) repeat(blk *hclsyntax.Block) stmt {
	attr := c.onlyAttribute(blk, attrTimes)
	if attr == nil {
		return nil
	}
	val, diags := attr.Expr.Value(nil)
	c.diags = append(c.diags, diags...)
	if diags.HasErrors() {
		return nil
	}

	var times int
	num, err := convert.Convert(val, cty.Number)
	if err == nil && !num.IsNull() && num.IsKnown() {
		err = gocty.FromCtyValue(num, &times)
	}
	if err != nil || num.IsNull() || times < 0 {
		c.errorf(attr.Expr.Range(), "Invalid repeat count", "The %q argument must be a whole number of at least zero.", attrTimes)
		return nil
	}
	return &repeatStmt{times: times, body: c.statements(blk.Body.Blocks, false)}
}

func (c *compiler) while(blk *hclsyntax.Block) stmt {
	attr := c.onlyAttribute(blk, attrCondition)
	if attr == nil {
		return nil
	}
	cond := c.condition(attr)
	if cond == nil {
		return nil
	}
	if len(cond.queries) == 0 {
		c.errorf(attr.Expr.Range(), "Constant loop condition", "A while condition must ask the robot something, for example front_is_clear.")
		return nil
	}
	return &whileStmt{cond: cond, body: c.statements(blk.Body.Blocks, false)}
}

func (c *compiler) ifElse(blk *hclsyntax.Block) stmt {
	attr := c.onlyAttribute(blk, attrCondition)
	if attr == nil {
		return nil
	}
	cond := c.condition(attr)

	var then hclsyntax.Blocks
	var otherwise *hclsyntax.Block
	for _, inner := range blk.Body.Blocks {
		if inner.Type != blockElse {
			then = append(then, inner)
			continue
		}
		if otherwise != nil {
			c.errorf(inner.DefRange(), "Duplicate else block", "An if block can hold only one else block.")
			continue
		}
		otherwise = inner
	}

	s := &ifStmt{cond: cond, then: c.statements(then, false)}
	if otherwise != nil {
		if len(otherwise.Labels) > 0 {
			c.errorf(otherwise.LabelRanges[0], "Unexpected label", "An else block takes no labels.")
		}
		c.noAttributes(otherwise.Body, blockElse)
		s.otherwise = c.statements(otherwise.Body.Blocks, false)
	}
	if cond == nil {
		return nil
	}
	return s
}

// condition resolves the variables of attr and checks that the expression
// can produce a bool.
func (c *compiler) condition(attr *hclsyntax.Attribute) *condition {
	cond := &condition{expr: attr.Expr}
	seen := make(map[string]bool)
	unknowns := make(map[string]cty.Value)
	ok := true

	for _, traversal := range attr.Expr.Variables() {
		name := traversal.RootName()
		ask, known := queries[name]
		if !known {
			detail := fmt.Sprintf("%q is not something the robot can be asked.", name)
			if suggestion := suggestFrom(name, QueryNames()); suggestion != "" {
				detail += fmt.Sprintf(" Did you mean %q?", suggestion)
			}
			c.errorf(traversal.SourceRange(), "Unknown condition", "%s", detail)
			ok = false
			continue
		}
		if len(traversal) > 1 {
			c.errorf(traversal.SourceRange(), "Invalid condition", "%q is a bool and has no attributes.", name)
			ok = false
			continue
		}
		if !seen[name] {
			seen[name] = true
			cond.queries = append(cond.queries, query{name: name, ask: ask})
			unknowns[name] = cty.UnknownVal(cty.Bool)
		}
	}
	if !ok {
		return nil
	}

	val, diags := attr.Expr.Value(&hcl.EvalContext{Variables: unknowns})
	c.diags = append(c.diags, diags...)
	if diags.HasErrors() {
		return nil
	}
	if _, err := convert.Convert(val, cty.Bool); err != nil {
		c.errorf(attr.Expr.Range(), "Invalid condition", "The condition must be a bool, not %s.", val.Type().FriendlyName())
		return nil
	}
	return cond
}

// onlyAttribute returns the single required attribute of a control block.
func (c *compiler) onlyAttribute(blk *hclsyntax.Block, name string) *hclsyntax.Attribute {
	var found *hclsyntax.Attribute
	for _, attr := range sortedAttributes(blk.Body) {
		if attr.Name != name {
			c.errorf(attr.NameRange, "Unsupported argument", "A %q block only accepts the %q argument.", blk.Type, name)
			continue
		}
		found = attr
	}
	if found == nil {
		c.errorf(blk.DefRange(), "Missing required argument", "A %q block needs a %q argument.", blk.Type, name)
	}
	return found
}

func (c *compiler) noAttributes(body *hclsyntax.Body, owner string) {
	for _, attr := range sortedAttributes(body) {
		c.errorf(attr.NameRange, "Unsupported argument", "A %s block holds only statements; %q is not allowed here.", owner, attr.Name)
	}
}

func (c *compiler) empty(blk *hclsyntax.Block) {
	if len(blk.Body.Attributes) > 0 || len(blk.Body.Blocks) > 0 {
		c.errorf(blk.DefRange(), "Unexpected block content", "The %q block must be empty.", blk.Type)
	}
}

func (c *compiler) suggest(name string) string {
	candidates := PrimitiveNames()
	candidates = append(candidates, blockRepeat, blockWhile, blockIf)
	for proc := range c.procedures {
		candidates = append(candidates, proc)
	}
	return suggestFrom(name, candidates)
}

// suggestFrom returns the closest candidate within a small edit distance.
func suggestFrom(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, cand := range candidates {
		if d := levenshtein.Distance(name, cand, nil); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}
