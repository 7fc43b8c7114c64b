package integration_tests

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/karelgrid/internal/app"
	"github.com/vk/karelgrid/internal/testutil"
)

// harnessResult holds the outcomes of an integration test run.
type harnessResult struct {
	Report    string
	LogOutput string
	Err       error
	App       *app.App
}

// runApp writes files below a fresh root, points the app at root/exercises
// and runs it. A ProgramPath in cfg is taken relative to the root.
func runApp(t *testing.T, files map[string]string, cfg app.Config) *harnessResult {
	t.Helper()

	root := testutil.WriteFiles(t, files)
	cfg.ExercisesPath = filepath.Join(root, "exercises")
	if cfg.ProgramPath != "" {
		cfg.ProgramPath = filepath.Join(root, cfg.ProgramPath)
	}

	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)
	appConfig.LogLevel = "debug"
	appConfig.LogFormat = "text"
	appConfig.NoColor = true

	report := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	testutil.DumpLogs(t, logs)

	karel, err := app.NewApp(context.Background(), report, logs, appConfig)
	if err != nil {
		return &harnessResult{LogOutput: logs.String(), Err: err}
	}
	err = karel.Run(context.Background())

	return &harnessResult{
		Report:    report.String(),
		LogOutput: logs.String(),
		Err:       err,
		App:       karel,
	}
}
