package config

import (
	"context"
	"io/fs"
)

// Loader is the interface for a format-specific catalog loader.
type Loader interface {
	// Load reads every supported file under the given paths and translates
	// them into the format-agnostic model. Unsupported files are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadFS does the same for files below root in fsys.
	LoadFS(ctx context.Context, fsys fs.FS, root string) (*Model, error)
}

// Combine returns a Loader that runs every loader over the same paths and
// merges their models.
func Combine(loaders ...Loader) Loader {
	return combined(loaders)
}

type combined []Loader

func (c combined) Load(ctx context.Context, paths ...string) (*Model, error) {
	return c.merge(func(l Loader) (*Model, error) { return l.Load(ctx, paths...) })
}

func (c combined) LoadFS(ctx context.Context, fsys fs.FS, root string) (*Model, error) {
	return c.merge(func(l Loader) (*Model, error) { return l.LoadFS(ctx, fsys, root) })
}

func (c combined) merge(load func(Loader) (*Model, error)) (*Model, error) {
	model := NewModel()
	for _, l := range c {
		m, err := load(l)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(m); err != nil {
			return nil, err
		}
	}
	return model, nil
}
