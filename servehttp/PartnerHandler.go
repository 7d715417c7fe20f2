package servehttp

import (
	"errors"
	"net/http"
	"workshop/common"
	"workshop/domain"
	"workshop/domain/namespace"
	"workshop/logo"
	"workshop/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterPartnerHandler(r *gin.Engine, pm namespace.PartnerManagerTraits, jm namespace.ProjectManagerTraits, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/partners", middleWares...)

	handler := &partnerHandler{partnerManager: pm, projectManager: jm, validator: validator.New()}

	g.GET("", handler.handleQuery)
	g.POST("", handler.handleCreate)
	g.DELETE(":id", handler.handleDelete)
	g.GET(":id/projects", handler.handleQueryProjects)
	g.GET(":id/logo", handler.handleDetailLogo)
	g.POST(":id/logo", handler.handleCreateLogo)
}

type partnerHandler struct {
	partnerManager namespace.PartnerManagerTraits
	projectManager namespace.ProjectManagerTraits
	validator      *validator.Validate
}

func (h *partnerHandler) handleQuery(c *gin.Context) {
	partners, err := h.partnerManager.QueryPartners(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: partners, Total: uint64(len(*partners))})
}

func (h *partnerHandler) handleCreate(c *gin.Context) {
	creation := domain.PartnerCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	created, err := h.partnerManager.CreatePartner(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, created)
}

func (h *partnerHandler) handleDelete(c *gin.Context) {
	parsedId := parsePartnerId(c)

	if err := h.partnerManager.DeletePartner(parsedId, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *partnerHandler) handleQueryProjects(c *gin.Context) {
	parsedId := parsePartnerId(c)

	projects, err := h.projectManager.QueryProjectsOfPartner(parsedId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: projects, Total: uint64(len(*projects))})
}

func (h *partnerHandler) handleDetailLogo(c *gin.Context) {
	parsedId := parsePartnerId(c)

	bytes, err := logo.DetailLogo(parsedId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.Data(http.StatusOK, "image/png", bytes)
}

func (h *partnerHandler) handleCreateLogo(c *gin.Context) {
	parsedId := parsePartnerId(c)

	file, err := c.FormFile("logo")
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	reader, err := file.Open()
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	defer func() {
		_ = reader.Close()
	}()

	if err := logo.CreateLogo(parsedId, reader, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, nil)
}

func parsePartnerId(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}
