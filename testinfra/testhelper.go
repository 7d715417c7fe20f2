package testinfra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"workshop/session"

	"github.com/fundwit/go-commons/types"
)

// BuildSecCtx builds a session for the given identity and role without going
// through the login flow.
func BuildSecCtx(uid types.ID, name, role string) *session.Session {
	return &session.Session{
		Identity: session.Identity{ID: uid, Name: name},
		Role:     role,
		Context:  context.Background(),
	}
}

func ExecuteRequest(req *http.Request, handler http.Handler) (int, string, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Code, w.Body.String(), w
}
