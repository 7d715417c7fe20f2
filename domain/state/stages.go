package state

import (
	"workshop/domain"
)

// Stage is the derived pipeline position of a data entry. It is never
// stored: it is recomputed from field presence wherever it is needed.
type Stage string

const (
	StageNew               Stage = "NEW"
	StageAwaitingApproval  Stage = "AWAITING_APPROVAL"
	StageApprovedPendingPO Stage = "APPROVED_PENDING_PO"
	StagePendingInvoice    Stage = "PENDING_INVOICE"
	StagePendingDriverInfo Stage = "PENDING_DRIVER_INFO"
	StageComplete          Stage = "COMPLETE"
)

var Stages = []Stage{StageNew, StageAwaitingApproval, StageApprovedPendingPO,
	StagePendingInvoice, StagePendingDriverInfo, StageComplete}

// StageOf computes the pipeline stage of an entry. Conditions are evaluated
// in pipeline order, so exactly one stage holds for any entry.
func StageOf(e *domain.DataEntry) Stage {
	if e.OrderFormNo == nil {
		return StageNew
	}
	if !e.Approved {
		return StageAwaitingApproval
	}
	if e.PurchaseOrderNo == nil {
		return StageApprovedPendingPO
	}
	if e.InvoiceNo == nil {
		return StagePendingInvoice
	}
	if e.DriverDescription == nil {
		return StagePendingDriverInfo
	}
	return StageComplete
}
