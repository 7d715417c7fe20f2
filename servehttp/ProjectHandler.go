package servehttp

import (
	"errors"
	"net/http"
	"workshop/common"
	"workshop/domain"
	"workshop/domain/namespace"
	"workshop/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterProjectHandler(r *gin.Engine, m namespace.ProjectManagerTraits, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/projects", middleWares...)

	handler := &projectHandler{projectManager: m, validator: validator.New()}

	g.POST("", handler.handleCreate)
	g.GET(":id", handler.handleDetail)
	g.DELETE(":id", handler.handleDelete)
}

type projectHandler struct {
	projectManager namespace.ProjectManagerTraits
	validator      *validator.Validate
}

func (h *projectHandler) handleCreate(c *gin.Context) {
	creation := domain.ProjectCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	created, err := h.projectManager.CreateProject(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, created)
}

func (h *projectHandler) handleDetail(c *gin.Context) {
	parsedId := parseProjectId(c)

	detail, err := h.projectManager.ProjectDetail(parsedId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *projectHandler) handleDelete(c *gin.Context) {
	parsedId := parseProjectId(c)

	if err := h.projectManager.DeleteProject(parsedId, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusNoContent, nil)
}

func parseProjectId(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}
