package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/karelgrid/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		env  Env
		want app.Config
	}{
		{
			name: "exercise and positional program",
			args: []string{"-exercise", "03", "prog.hcl"},
			want: app.Config{ExerciseID: "03", ProgramPath: "prog.hcl", Budget: time.Second, Workers: 1, LogFormat: "text", LogLevel: "warn"},
		},
		{
			name: "shorthands",
			args: []string{"-e", "04", "-p", "walk.hcl", "-workers", "3", "-budget", "250ms", "-loose-beepers", "-no-color"},
			want: app.Config{ExerciseID: "04", ProgramPath: "walk.hcl", Budget: 250 * time.Millisecond, Workers: 3, LooseBeepers: true, NoColor: true, LogFormat: "text", LogLevel: "warn"},
		},
		{
			name: "list",
			args: []string{"-list", "-log-level", "DEBUG", "-log-format", "JSON"},
			want: app.Config{List: true, Budget: time.Second, Workers: 1, LogFormat: "json", LogLevel: "debug"},
		},
		{
			name: "environment defaults",
			args: nil,
			env:  Env{EnvExercises: "ex", EnvBudget: "2s", EnvWorkers: "4", EnvLogLevel: "info", EnvLogFormat: "json"},
			want: app.Config{ExercisesPath: "ex", Budget: 2 * time.Second, Workers: 4, LogFormat: "json", LogLevel: "info"},
		},
		{
			name: "flags override environment",
			args: []string{"-serve", ":9000", "-workers", "2"},
			env:  Env{EnvAddr: ":8080", EnvWorkers: "4"},
			want: app.Config{ServeAddr: ":9000", Budget: time.Second, Workers: 2, LogFormat: "text", LogLevel: "warn"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			cfg, shouldExit, err := Parse(tc.args, &out, tc.env)

			require.NoError(t, err)
			assert.False(t, shouldExit)
			require.NotNil(t, cfg)
			assert.Equal(t, tc.want, *cfg)
		})
	}
}

func TestParse_Exit(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{name: "help", args: []string{"-h"}},
		{name: "nothing to do", args: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			cfg, shouldExit, err := Parse(tc.args, &out, nil)

			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		env     Env
		wantErr string
	}{
		{name: "unknown flag", args: []string{"-fast"}, wantErr: "flag provided but not defined: -fast"},
		{name: "bad log format", args: []string{"-list", "-log-format", "xml"}, wantErr: "invalid log-format"},
		{name: "bad log level", args: []string{"-list", "-log-level", "loud"}, wantErr: "invalid log-level"},
		{name: "zero budget", args: []string{"-list", "-budget", "0s"}, wantErr: "invalid budget"},
		{name: "zero workers", args: []string{"-list", "-workers", "0"}, wantErr: "invalid workers"},
		{name: "program without exercise", args: []string{"prog.hcl"}, wantErr: "ExerciseID is required"},
		{name: "two programs", args: []string{"-e", "01", "a.hcl", "b.hcl"}, wantErr: "at most one program path"},
		{name: "bad env budget", args: []string{"-list"}, env: Env{EnvBudget: "soon"}, wantErr: "invalid KAREL_BUDGET"},
		{name: "bad env workers", args: []string{"-list"}, env: Env{EnvWorkers: "many"}, wantErr: "invalid KAREL_WORKERS"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			_, _, err := Parse(tc.args, &out, tc.env)

			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Error(), tc.wantErr)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	// t.Setenv forbids t.Parallel.

	// --- Arrange ---
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.defaults")
	require.NoError(t, os.WriteFile(first, []byte("KAREL_WORKERS=8\nKAREL_BUDGET=3s\nOTHER=ignored\n"), 0600))
	require.NoError(t, os.WriteFile(second, []byte("KAREL_WORKERS=2\nKAREL_LOG_FORMAT=json\n"), 0600))
	t.Setenv(EnvBudget, "5s")

	// --- Act ---
	env, err := LoadEnv(first, filepath.Join(dir, "missing.env"), second)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "5s", env[EnvBudget], "process environment wins")
	assert.Equal(t, "8", env[EnvWorkers], "earlier file wins")
	assert.Equal(t, "json", env[EnvLogFormat])
	assert.NotContains(t, env, "OTHER")
}
