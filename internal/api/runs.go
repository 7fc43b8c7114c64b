package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vk/karelgrid/internal/runstore"
)

// RunController serves graded runs by their run ID.
type RunController struct {
	store runstore.Store
}

var _ Controller = (*RunController)(nil)

// NewRunController creates a controller reading from store.
func NewRunController(store runstore.Store) *RunController {
	return &RunController{store: store}
}

// Register registers the run routes.
func (c *RunController) Register(route *gin.RouterGroup) {
	route.GET("/runs/:id", c.get)
}

// get handles GET /runs/:id.
func (c *RunController) get(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id: " + err.Error()})
		return
	}

	rec, ok, err := c.store.Get(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if !ok {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "run " + id.String() + " not found"})
		return
	}
	ctx.JSON(http.StatusOK, rec)
}
