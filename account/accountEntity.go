package account

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type User struct {
	ID     types.ID `json:"id"`
	Name   string   `json:"name" gorm:"unique_index"`
	Secret string   `json:"-"`
	Role   string   `json:"role"`

	CreateTime time.Time `json:"createTime"`
}

type UserCreation struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,gte=6"`
	Role     string `json:"role" validate:"required,oneof=user office office_admin stores admin"`
}

type UserInfo struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
	Role string   `json:"role"`
}
