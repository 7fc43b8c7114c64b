// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package script

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// DefaultName is given to programs written without a program block.
const DefaultName = "main"

// ParseSource parses a standalone program file. The file either holds a
// single program block or consists of statements only, in which case the
// program is named DefaultName.
func ParseSource(filename string, src []byte) (*Program, hcl.Diagnostics) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}
	body := file.Body.(*hclsyntax.Body)

	var programs []*hclsyntax.Block
	for _, blk := range body.Blocks {
		if blk.Type == "program" {
			programs = append(programs, blk)
		}
	}

	switch {
	case len(programs) == 0:
		return Compile(DefaultName, body)
	case len(programs) > 1:
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Too many programs",
			Detail:   fmt.Sprintf("A program file holds one program block, found %d.", len(programs)),
			Subject:  programs[1].DefRange().Ptr(),
		})
	case len(body.Blocks) > 1 || len(body.Attributes) > 0:
		rng := body.Range()
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected content",
			Detail:   "Nothing may appear next to the program block.",
			Subject:  &rng,
		})
	}

	blk := programs[0]
	if len(blk.Labels) != 1 {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid program block",
			Detail:   "A program block needs exactly one label, its name.",
			Subject:  blk.DefRange().Ptr(),
		})
	}
	prog, compileDiags := Compile(blk.Labels[0], blk.Body)
	return prog, append(diags, compileDiags...)
}
