package session

import (
	"context"
	"time"

	"github.com/fundwit/go-commons/types"
)

type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
	Role     string   `json:"role"`

	SigningTime time.Time `json:"-"`

	// trace context of the serving request
	Context context.Context `json:"-"`
}

type Identity struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
}

func (s *Session) Clone() Session {
	return Session{Token: s.Token, Identity: s.Identity, Role: s.Role, SigningTime: s.SigningTime, Context: s.Context}
}
