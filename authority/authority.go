package authority

import (
	"workshop/bizerror"
)

// roles are global, fixed at user creation
const (
	RoleUser        = "user"
	RoleOffice      = "office"
	RoleOfficeAdmin = "office_admin"
	RoleStores      = "stores"
	RoleAdmin       = "admin"
)

type Operation string

const (
	CreateEntry            Operation = "entry:create"
	ListEntries            Operation = "entry:list"
	SetOrderForm           Operation = "entry:set-order-form"
	ApproveEntry           Operation = "entry:approve"
	SetPurchaseOrder       Operation = "entry:set-purchase-order"
	SetInvoice             Operation = "entry:set-invoice"
	SetDriverDetails       Operation = "entry:set-driver-details"
	SetDriverDetailsStores Operation = "entry:set-driver-details-stores"
	AdminUpdateEntry       Operation = "entry:admin-update"

	ListPartners  Operation = "partner:list"
	CreatePartner Operation = "partner:create"
	DeletePartner Operation = "partner:delete"
	UploadLogo    Operation = "partner:upload-logo"

	ListProjects  Operation = "project:list"
	CreateProject Operation = "project:create"
	DeleteProject Operation = "project:delete"

	PartnerStatusFull   Operation = "status:partner-full"
	PartnerStatusOffice Operation = "status:partner-office"
	ProjectStatusFull   Operation = "status:project-full"
	ProjectStatusOffice Operation = "status:project-office"

	CreateUser Operation = "account:create-user"
)

// permits is the single place mapping operations to the roles allowed to
// perform them.
var permits = map[Operation][]string{
	CreateEntry:            {RoleUser},
	ListEntries:            {RoleUser, RoleOffice, RoleOfficeAdmin, RoleStores, RoleAdmin},
	SetOrderForm:           {RoleOffice, RoleOfficeAdmin},
	ApproveEntry:           {RoleAdmin, RoleOfficeAdmin},
	SetPurchaseOrder:       {RoleOffice, RoleOfficeAdmin},
	SetInvoice:             {RoleOffice, RoleOfficeAdmin},
	SetDriverDetails:       {RoleOffice, RoleOfficeAdmin},
	SetDriverDetailsStores: {RoleStores},
	AdminUpdateEntry:       {RoleAdmin},

	ListPartners:  {RoleUser, RoleOffice, RoleOfficeAdmin, RoleStores, RoleAdmin},
	CreatePartner: {RoleAdmin},
	DeletePartner: {RoleAdmin},
	UploadLogo:    {RoleAdmin},

	ListProjects:  {RoleUser, RoleOffice, RoleOfficeAdmin, RoleStores, RoleAdmin},
	CreateProject: {RoleAdmin},
	DeleteProject: {RoleAdmin},

	PartnerStatusFull:   {RoleAdmin, RoleOfficeAdmin},
	PartnerStatusOffice: {RoleOffice, RoleOfficeAdmin, RoleStores, RoleAdmin},
	ProjectStatusFull:   {RoleAdmin, RoleOfficeAdmin},
	ProjectStatusOffice: {RoleOffice, RoleOfficeAdmin, RoleStores, RoleAdmin},

	CreateUser: {RoleAdmin},
}

func CanDo(role string, op Operation) bool {
	for _, allowed := range permits[op] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Check is consulted before every mutation and privileged read.
func Check(role string, op Operation) error {
	if !CanDo(role, op) {
		return bizerror.ErrForbidden
	}
	return nil
}
