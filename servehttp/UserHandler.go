package servehttp

import (
	"net/http"
	"workshop/account"
	"workshop/common"
	"workshop/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterUserHandler(r *gin.Engine, m account.AccountManagerTraits, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/users", middleWares...)

	handler := &userHandler{accountManager: m, validator: validator.New()}

	g.POST("", handler.handleCreate)
}

type userHandler struct {
	accountManager account.AccountManagerTraits
	validator      *validator.Validate
}

func (h *userHandler) handleCreate(c *gin.Context) {
	creation := account.UserCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	info, err := h.accountManager.CreateUser(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, info)
}
