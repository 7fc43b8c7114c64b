// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses `exercise` and `program` blocks from .hcl files and
// translates them into the format-agnostic config model, compiling every
// program with the script package on the way.
package hcl
