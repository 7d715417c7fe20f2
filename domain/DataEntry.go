package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

// DataEntry is the procurement record moving through the office pipeline:
// order form, approval, purchase order, invoice, delivery.
type DataEntry struct {
	ID        types.ID `json:"id"`
	ProjectID types.ID `json:"projectId"`

	// intake, stamped from the creating session
	RequesterID   types.ID  `json:"requesterId" gorm:"column:user_id"`
	RequesterName string    `json:"requesterName" gorm:"column:user_name"`
	Product       string    `json:"product"`
	Quantity      int       `json:"quantity"`
	Description   string    `json:"description"`
	RequestTime   time.Time `json:"requestTime" gorm:"column:user_datetime"`
	DueDate       time.Time `json:"dueDate"`

	OrderFormNo     *string    `json:"orderFormNo" gorm:"column:order_form_no"`
	Notes           *string    `json:"notes"`
	OfficeUser1     *string    `json:"officeUser1" gorm:"column:office_user_1"`
	OfficeDatetime1 *time.Time `json:"officeDatetime1" gorm:"column:office_datetime_1"`

	Approved   bool    `json:"approved"`
	ApprovedBy *string `json:"approvedBy" gorm:"column:approved_by"`

	PurchaseOrderNo *string    `json:"purchaseOrderNo" gorm:"column:po_no"`
	OfficeUser2     *string    `json:"officeUser2" gorm:"column:office_user_2"`
	OfficeDatetime2 *time.Time `json:"officeDatetime2" gorm:"column:office_datetime_2"`

	InvoiceNo       *string    `json:"invoiceNo" gorm:"column:invoice_no"`
	OfficeUser3     *string    `json:"officeUser3" gorm:"column:office_user_3"`
	OfficeDatetime3 *time.Time `json:"officeDatetime3" gorm:"column:office_datetime_3"`

	PurchaseDate      *time.Time `json:"purchaseDate"`
	DriversName       *string    `json:"driversName"`
	VehicleNo         *string    `json:"vehicleNo" gorm:"column:vehicle_no"`
	Received          *string    `json:"received"`
	DriverDescription *string    `json:"driverDescription"`

	// legacy override columns, reachable through the admin update only
	OfficeName     *string    `json:"officeName"`
	OfficeDatetime *time.Time `json:"officeDatetime"`
	Status         *string    `json:"status"`
	DeliveryDate   *time.Time `json:"deliveryDate"`
	OfficeLocked   *bool      `json:"officeLocked"`

	UpdateTime *time.Time `json:"updateTime" gorm:"column:updated_at"`

	// derived pipeline stage, never stored
	StageName string `json:"stageName" gorm:"-"`
}

type EntryCreation struct {
	ProjectID   types.ID  `json:"projectId" validate:"required"`
	Product     string    `json:"product" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
}

type OrderFormUpdating struct {
	OrderFormNo string  `json:"orderFormNo" validate:"required"`
	Notes       *string `json:"notes"`
}

type PurchaseOrderUpdating struct {
	PurchaseOrderNo string `json:"purchaseOrderNo" validate:"required"`
}

type InvoiceUpdating struct {
	InvoiceNo string `json:"invoiceNo" validate:"required"`
}

type DriverDetailsUpdating struct {
	PurchaseDate      time.Time `json:"purchaseDate" validate:"required"`
	DriversName       *string   `json:"driversName"`
	VehicleNo         *string   `json:"vehicleNo"`
	Received          *string   `json:"received"`
	DriverDescription *string   `json:"driverDescription"`
}

// AdminEntryUpdating replaces each provided field and keeps the rest,
// bypassing every pipeline guard.
type AdminEntryUpdating struct {
	RequesterName  *string    `json:"requesterName"`
	RequestTime    *time.Time `json:"requestTime"`
	Product        *string    `json:"product"`
	Quantity       *int       `json:"quantity"`
	Description    *string    `json:"description"`
	OfficeName     *string    `json:"officeName"`
	OfficeDatetime *time.Time `json:"officeDatetime"`
	Status         *string    `json:"status"`
	DeliveryDate   *time.Time `json:"deliveryDate"`
	OfficeLocked   *bool      `json:"officeLocked"`
}

type EntryQuery struct {
	ProjectID types.ID `json:"projectId" form:"projectId"`
}
