package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/fsutil"
)

// Extension is the file extension the loader reads.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	files, err := fsutil.FindFilesByExtension(paths, Extension)
	if err != nil {
		return nil, err
	}
	return l.load(ctx, files, os.ReadFile)
}

// LoadFS parses every .hcl file below root in fsys.
func (l *Loader) LoadFS(ctx context.Context, fsys fs.FS, root string) (*config.Model, error) {
	files, err := fsutil.FindFilesFS(fsys, root, Extension)
	if err != nil {
		return nil, err
	}
	return l.load(ctx, files, func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	})
}

// load orchestrates parsing, decoding and translation of all files into a
// single model.
func (l *Loader) load(ctx context.Context, files []string, read func(string) ([]byte, error)) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file_count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		src, err := read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, b := range root.Programs {
			p, err := translateProgram(file, b)
			if err != nil {
				return nil, err
			}
			if err := model.AddProgram(p); err != nil {
				return nil, err
			}
		}
		for _, b := range root.Exercises {
			ex, err := translateExercise(file, b)
			if err != nil {
				return nil, err
			}
			if err := model.AddExercise(ex); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("HCL loading complete.", "exercises", len(model.Exercises), "programs", len(model.Programs))
	return model, nil
}
