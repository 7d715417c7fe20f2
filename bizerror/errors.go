package bizerror

import (
	"errors"
	"net/http"
	"workshop/common"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("record not found")
	ErrUserExisted     = errors.New("user existed")
	ErrInvalidPassword = errors.New("invalid password")
)

// ErrPreconditionFailed reports a workflow guard that the target entry does
// not satisfy, e.g. setting a PO number before approval.
type ErrPreconditionFailed struct {
	Reason string
}

func (e *ErrPreconditionFailed) Error() string {
	return "workflow.precondition_failed: " + e.Reason
}
func (e *ErrPreconditionFailed) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusBadRequest, Code: "workflow.precondition_failed", Message: e.Reason}
}

// ErrRecordReferenced reports a delete blocked by existing child records.
type ErrRecordReferenced struct {
	Children string
}

func (e *ErrRecordReferenced) Error() string {
	return "common.record_referenced: " + e.Children
}
func (e *ErrRecordReferenced) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusBadRequest, Code: "common.record_referenced",
		Message: "record is still referenced by existing " + e.Children}
}
