package servehttp_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"workshop/account"
	"workshop/bizerror"
	"workshop/servehttp"
	"workshop/session"
	"workshop/testinfra"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("UserHandler", func() {
	var (
		router         *gin.Engine
		accountManager *accountManagerMock
	)

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		accountManager = &accountManagerMock{}
		servehttp.RegisterUserHandler(router, accountManager)
	})

	It("should be able to serve user creation", func() {
		accountManager.CreateUserFunc = func(c *account.UserCreation, s *session.Session) (*account.UserInfo, error) {
			Expect(c.Name).To(Equal("olga"))
			Expect(c.Role).To(Equal("office"))
			return &account.UserInfo{ID: 123, Name: c.Name, Role: c.Role}, nil
		}
		req := httptest.NewRequest(http.MethodPost, "/v1/users",
			bytes.NewReader([]byte(`{"name":"olga","password":"secret123","role":"office"}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(MatchJSON(`{"id":"123","name":"olga","role":"office"}`))
	})

	It("should reject an unknown role", func() {
		req := httptest.NewRequest(http.MethodPost, "/v1/users",
			bytes.NewReader([]byte(`{"name":"olga","password":"secret123","role":"superuser"}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"Key: 'UserCreation.Role' Error:Field validation for 'Role' failed on the 'oneof' tag","data":null}`))
	})

	It("should surface duplicated names as 400", func() {
		accountManager.CreateUserFunc = func(c *account.UserCreation, s *session.Session) (*account.UserInfo, error) {
			return nil, bizerror.ErrUserExisted
		}
		req := httptest.NewRequest(http.MethodPost, "/v1/users",
			bytes.NewReader([]byte(`{"name":"olga","password":"secret123","role":"office"}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"account.user_existed","message":"user existed","data":null}`))
	})
})
