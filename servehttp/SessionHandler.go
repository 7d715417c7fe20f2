package servehttp

import (
	"net/http"
	"workshop/account"
	"workshop/bizerror"
	"workshop/common"
	"workshop/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterSessionHandler binds the login flow. Login and logout are the only
// routes reachable without a session cookie.
func RegisterSessionHandler(r *gin.Engine, m account.AccountManagerTraits) {
	handler := &sessionHandler{accountManager: m, validator: validator.New()}

	r.POST("/v1/sessions", handler.handleLogin)
	r.DELETE("/v1/sessions", handler.handleLogout)
	r.GET("/v1/session", session.SimpleAuthFilter(), handler.handleDetail)
}

type sessionHandler struct {
	accountManager account.AccountManagerTraits
	validator      *validator.Validate
}

func (h *sessionHandler) handleLogin(c *gin.Context) {
	login := LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(login); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	info, err := h.accountManager.Authenticate(login.Name, login.Password)
	if err != nil {
		panic(err)
	}

	s := session.NewSession(uuid.New().String(), session.Identity{ID: info.ID, Name: info.Name}, info.Role)
	c.SetCookie(session.KeySecToken, s.Token, int(session.TokenExpiration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, s)
}

func (h *sessionHandler) handleLogout(c *gin.Context) {
	token, err := c.Cookie(session.KeySecToken)
	if err == nil && token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, true)
	c.JSON(http.StatusNoContent, nil)
}

func (h *sessionHandler) handleDetail(c *gin.Context) {
	s := session.ExtractSessionFromGinContext(c)
	if s.Token == "" {
		panic(bizerror.ErrUnauthenticated)
	}
	c.JSON(http.StatusOK, s)
}
