// Package yamlcfg loads exercise catalogs from YAML files. Cases use the
// same shape as the JSON exercise files the catalog started from:
//
//	exercises:
//	  - id: "03"
//	    title: Putting Stuff Down
//	    solution_source: |
//	      move {}
//	      put_beeper {}
//	      move {}
//	    cases:
//	      - context: {boardWidth: 3, boardHeight: 3}
//	        initialState: {x: 0, y: 2, direction: east, beepers: []}
//	        goalState: {x: 2, y: 2, direction: east, beepers: [{x: 1, y: 2}]}
package yamlcfg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/fsutil"
	"github.com/vk/karelgrid/internal/script"
	"github.com/vk/karelgrid/internal/world"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions the loader reads.
var Extensions = []string{".yaml", ".yml"}

// ValidationError aggregates the problems found in one file.
type ValidationError struct {
	File   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("%s: invalid exercise file", e.File)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: exercise file validation failed:", e.File)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type exerciseFile struct {
	Exercises []exerciseEntry `yaml:"exercises"`
}

type exerciseEntry struct {
	ID             string           `yaml:"id"`
	Title          string           `yaml:"title"`
	Description    string           `yaml:"description"`
	Solution       string           `yaml:"solution"`
	SolutionSource string           `yaml:"solution_source"`
	Cases          []world.TestCase `yaml:"cases"`
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML catalog loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .yaml and .yml file found under paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	files, err := fsutil.FindFilesByExtension(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	return l.load(ctx, files, func(name string) (io.ReadCloser, error) {
		return os.Open(name)
	})
}

// LoadFS parses every YAML file below root in fsys.
func (l *Loader) LoadFS(ctx context.Context, fsys fs.FS, root string) (*config.Model, error) {
	files, err := fsutil.FindFilesFS(fsys, root, Extensions...)
	if err != nil {
		return nil, err
	}
	return l.load(ctx, files, func(name string) (io.ReadCloser, error) {
		return fsys.Open(name)
	})
}

func (l *Loader) load(ctx context.Context, files []string, open func(string) (io.ReadCloser, error)) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "file_count", len(files))

	model := config.NewModel()
	for _, file := range files {
		if err := l.loadFile(model, file, open); err != nil {
			return nil, err
		}
	}

	logger.Debug("YAML loading complete.", "exercises", len(model.Exercises), "programs", len(model.Programs))
	return model, nil
}

func (l *Loader) loadFile(model *config.Model, file string, open func(string) (io.ReadCloser, error)) error {
	r, err := open(file)
	if err != nil {
		return fmt.Errorf("failed to open YAML file %s: %w", file, err)
	}
	defer r.Close()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw exerciseFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse YAML file %s: %w", file, err)
	}

	if err := raw.validate(file); err != nil {
		return err
	}

	for _, entry := range raw.Exercises {
		ex := &config.Exercise{
			ID:          entry.ID,
			Title:       entry.Title,
			Description: entry.Description,
			Solution:    entry.Solution,
			Cases:       entry.Cases,
			Source:      file,
		}
		if entry.SolutionSource != "" {
			prog, diags := script.ParseSource(file, []byte(entry.SolutionSource))
			if diags.HasErrors() {
				return fmt.Errorf("failed to compile solution of exercise %q in %s: %w", entry.ID, file, diags)
			}
			ex.Solution = entry.ID + "_solution"
			if err := model.AddProgram(&config.Program{Name: ex.Solution, Program: prog, Source: file}); err != nil {
				return err
			}
		}
		if err := model.AddExercise(ex); err != nil {
			return err
		}
	}
	return nil
}

func (f *exerciseFile) validate(file string) error {
	errs := ValidationError{File: file}
	for i, ex := range f.Exercises {
		if strings.TrimSpace(ex.ID) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("exercises[%d].id must be provided", i))
		}
		if strings.TrimSpace(ex.Title) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("exercises[%d].title must be provided", i))
		}
		if ex.Solution != "" && ex.SolutionSource != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("exercises[%d] sets both solution and solution_source", i))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
