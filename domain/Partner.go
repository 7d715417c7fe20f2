package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Partner struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`

	// object key of the uploaded logo, empty when the partner has none
	LogoURL string `json:"logoUrl"`

	CreateTime time.Time `json:"createTime"`
	Creator    types.ID  `json:"creator"`
}

type PartnerCreating struct {
	Name string `json:"name" validate:"required"`
}
