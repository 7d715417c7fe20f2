package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Project struct {
	ID        types.ID `json:"id"`
	Name      string   `json:"name"`
	PartnerID types.ID `json:"partnerId"`

	CreateTime time.Time `json:"createTime"`
	Creator    types.ID  `json:"creator"`
}

type ProjectCreating struct {
	Name      string   `json:"name" validate:"required"`
	PartnerID types.ID `json:"partnerId" validate:"required"`
}

// ProjectDetail is a project with its owning partner resolved.
type ProjectDetail struct {
	Project

	PartnerName string `json:"partnerName"`
}
