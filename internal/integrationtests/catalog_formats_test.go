package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/karelgrid/internal/app"
	"github.com/vk/karelgrid/internal/config"
)

const walkExerciseHCL = `
exercise "w1" {
  title    = "Walk"
  solution = "walk"

  case {
    board {
      width  = 4
      height = 1
    }
    initial {
      x         = 0
      y         = 0
      direction = "east"
    }
    goal {
      x         = 3
      y         = 0
      direction = "east"
    }
  }
}
`

const walkProgramHCL = `
program "walk" {
  while {
    condition = front_is_clear
    move {}
  }
}
`

const turnExerciseYAML = `
exercises:
  - id: "y1"
    title: Turn Around
    solution_source: |
      repeat {
        times = 2
        turn_left {}
      }
    cases:
      - context: {boardWidth: 1, boardHeight: 1}
        initialState: {x: 0, y: 0, direction: north}
        goalState: {x: 0, y: 0, direction: south}
      - context: {boardWidth: 2, boardHeight: 2}
        initialState: {x: 1, y: 1, direction: east}
        goalState: {x: 1, y: 1, direction: west}
`

// TestCatalog_MixedFormats loads HCL and YAML files from one directory tree
// and grades every reference solution.
func TestCatalog_MixedFormats(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"exercises/walk/exercise.hcl": walkExerciseHCL,
		"exercises/walk/program.hcl":  walkProgramHCL,
		"exercises/turn.yaml":         turnExerciseYAML,
		"exercises/README.md":         "# not an exercise",
	}

	// --- Act ---
	result := runApp(t, files, app.Config{Workers: 2})

	// --- Assert ---
	require.NoError(t, result.Err, result.Report)
	require.NotNil(t, result.App)

	var ids []string
	for _, ex := range result.App.Catalog().Exercises {
		ids = append(ids, ex.ID)
	}
	assert.Equal(t, []string{"w1", "y1"}, ids)
	assert.Contains(t, result.Report, "w1 Walk: walk")
	assert.Contains(t, result.Report, "y1 Turn Around: y1_solution")
	assert.Contains(t, result.Report, "2/2 passed")
	assert.Contains(t, result.LogOutput, "HCL loading complete.")
	assert.Contains(t, result.LogOutput, "YAML loading complete.")
}

func TestCatalog_DuplicateAcrossFormats(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"exercises/a.hcl":  walkExerciseHCL + walkProgramHCL,
		"exercises/b.yaml": "exercises:\n  - id: w1\n    title: Again\n    cases: []\n",
	}

	result := runApp(t, files, app.Config{List: true})

	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, config.ErrDuplicate)
	assert.Nil(t, result.App)
}

func TestCatalog_UnknownSolution(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"exercises/a.hcl": walkExerciseHCL,
	}

	result := runApp(t, files, app.Config{List: true})

	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, config.ErrInvalidExercise)
	assert.Contains(t, result.Err.Error(), `unknown solution program "walk"`)
}
