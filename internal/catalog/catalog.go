// Package catalog ships the built-in exercises. They are embedded into the
// binary and read with the same loaders used for exercise directories.
package catalog

import (
	"context"
	"embed"
	"fmt"

	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/hcl"
	"github.com/vk/karelgrid/internal/yamlcfg"
)

const root = "exercises"

//go:embed exercises
var files embed.FS

// Loader returns the loader that understands every catalog format.
func Loader() config.Loader {
	return config.Combine(hcl.NewLoader(), yamlcfg.NewLoader())
}

// Load reads, sorts and validates the built-in exercises.
func Load(ctx context.Context) (*config.Model, error) {
	model, err := Loader().LoadFS(ctx, files, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
	}
	model.Sort()
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("built-in catalog is invalid: %w", err)
	}
	return model, nil
}

// LoadDir does the same for exercise files found under paths.
func LoadDir(ctx context.Context, paths ...string) (*config.Model, error) {
	model, err := Loader().Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	model.Sort()
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}
