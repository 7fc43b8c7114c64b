package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/grader"
	"github.com/vk/karelgrid/internal/interpreter"
	"github.com/vk/karelgrid/internal/runstore"
	"github.com/vk/karelgrid/internal/script"
	"github.com/vk/karelgrid/internal/world"
)

// DefaultMaxProgramBytes bounds the size of a submitted program.
const DefaultMaxProgramBytes = 64 << 10

// Grader is the part of grader.Grader the controller needs.
type Grader interface {
	GradeAll(ctx context.Context, program interpreter.Program, cases []world.TestCase) grader.Sweep
}

// ExerciseController serves the catalog and grades submitted programs.
type ExerciseController struct {
	catalog  *config.Model
	grader   Grader
	runs     runstore.Store
	maxBytes int64
}

var _ Controller = (*ExerciseController)(nil)

// NewExerciseController creates a controller over catalog. Graded runs are
// kept in runs when it is not nil.
func NewExerciseController(catalog *config.Model, g Grader, runs runstore.Store) *ExerciseController {
	return &ExerciseController{
		catalog:  catalog,
		grader:   g,
		runs:     runs,
		maxBytes: DefaultMaxProgramBytes,
	}
}

// Register registers the exercise routes.
func (c *ExerciseController) Register(route *gin.RouterGroup) {
	exercises := route.Group("/exercises")
	{
		exercises.GET("", c.list)
		exercises.GET("/:id", c.get)
		exercises.POST("/:id/grade", c.grade)
	}
}

// list handles GET /exercises.
func (c *ExerciseController) list(ctx *gin.Context) {
	out := make([]ExerciseSummary, 0, len(c.catalog.Exercises))
	for _, ex := range c.catalog.Exercises {
		out = append(out, newExerciseSummary(ex))
	}
	ctx.JSON(http.StatusOK, out)
}

// get handles GET /exercises/:id.
func (c *ExerciseController) get(ctx *gin.Context) {
	ex, ok := c.exercise(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, ex)
}

// grade handles POST /exercises/:id/grade. The body is the program text.
func (c *ExerciseController) grade(ctx *gin.Context) {
	ex, ok := c.exercise(ctx)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "program is too large"})
			return
		}
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if len(body) == 0 {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must contain a program"})
		return
	}

	prog, diags := script.ParseSource("submission.hcl", body)
	if diags.HasErrors() {
		ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:       "program does not compile",
			Diagnostics: newDiagnostics(diags),
		})
		return
	}

	reqCtx := ctx.Request.Context()
	ctxlog.FromContext(reqCtx).Debug("Grading submission.", "exercise", ex.ID, "program", prog.Name())
	sweep := c.grader.GradeAll(reqCtx, prog, ex.Cases)
	c.keep(reqCtx, ex.ID, sweep)

	ctx.JSON(http.StatusOK, GradeResponse{
		ExerciseID: ex.ID,
		Program:    prog.Name(),
		AllPassed:  sweep.AllPassed(),
		Passes:     sweep.Passes(),
		Outcomes:   sweep.Outcomes,
	})
}

// keep stores every graded run. Store errors are logged, not returned.
func (c *ExerciseController) keep(ctx context.Context, exerciseID string, sweep grader.Sweep) {
	if c.runs == nil {
		return
	}
	for _, o := range sweep.Outcomes {
		if !o.Done() {
			continue
		}
		rec := runstore.Record{ExerciseID: exerciseID, Case: o.Index, Pass: o.Passed(), Result: *o.Result}
		if err := c.runs.Put(ctx, rec); err != nil {
			ctxlog.FromContext(ctx).Warn("Failed to keep graded run.", "run_id", rec.ID(), "error", err)
		}
	}
}

func (c *ExerciseController) exercise(ctx *gin.Context) (*config.Exercise, bool) {
	id := ctx.Param("id")
	ex, ok := c.catalog.Exercise(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "exercise " + id + " not found"})
		return nil, false
	}
	return ex, true
}
