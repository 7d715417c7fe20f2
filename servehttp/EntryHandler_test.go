package servehttp_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"
	"workshop/bizerror"
	"workshop/domain"
	"workshop/servehttp"
	"workshop/session"
	"workshop/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type entryManagerMock struct {
	QueryEntriesFunc               func(q *domain.EntryQuery, s *session.Session) (*[]domain.DataEntry, error)
	CreateEntryFunc                func(c *domain.EntryCreation, s *session.Session) (*domain.DataEntry, error)
	SetOrderFormFunc               func(id types.ID, u *domain.OrderFormUpdating, s *session.Session) (*domain.DataEntry, error)
	ApproveEntryFunc               func(id types.ID, s *session.Session) (*domain.DataEntry, error)
	SetPurchaseOrderFunc           func(id types.ID, u *domain.PurchaseOrderUpdating, s *session.Session) (*domain.DataEntry, error)
	SetInvoiceFunc                 func(id types.ID, u *domain.InvoiceUpdating, s *session.Session) (*domain.DataEntry, error)
	SetDriverDetailsFunc           func(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error)
	SetDriverDetailsFromStoresFunc func(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error)
	AdminUpdateEntryFunc           func(id types.ID, u *domain.AdminEntryUpdating, s *session.Session) (*domain.DataEntry, error)
}

func (m *entryManagerMock) QueryEntries(q *domain.EntryQuery, s *session.Session) (*[]domain.DataEntry, error) {
	return m.QueryEntriesFunc(q, s)
}
func (m *entryManagerMock) CreateEntry(c *domain.EntryCreation, s *session.Session) (*domain.DataEntry, error) {
	return m.CreateEntryFunc(c, s)
}
func (m *entryManagerMock) SetOrderForm(id types.ID, u *domain.OrderFormUpdating, s *session.Session) (*domain.DataEntry, error) {
	return m.SetOrderFormFunc(id, u, s)
}
func (m *entryManagerMock) ApproveEntry(id types.ID, s *session.Session) (*domain.DataEntry, error) {
	return m.ApproveEntryFunc(id, s)
}
func (m *entryManagerMock) SetPurchaseOrder(id types.ID, u *domain.PurchaseOrderUpdating, s *session.Session) (*domain.DataEntry, error) {
	return m.SetPurchaseOrderFunc(id, u, s)
}
func (m *entryManagerMock) SetInvoice(id types.ID, u *domain.InvoiceUpdating, s *session.Session) (*domain.DataEntry, error) {
	return m.SetInvoiceFunc(id, u, s)
}
func (m *entryManagerMock) SetDriverDetails(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error) {
	return m.SetDriverDetailsFunc(id, u, s)
}
func (m *entryManagerMock) SetDriverDetailsFromStores(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error) {
	return m.SetDriverDetailsFromStoresFunc(id, u, s)
}
func (m *entryManagerMock) AdminUpdateEntry(id types.ID, u *domain.AdminEntryUpdating, s *session.Session) (*domain.DataEntry, error) {
	return m.AdminUpdateEntryFunc(id, u, s)
}

var _ = Describe("EntryHandler", func() {
	var (
		router       *gin.Engine
		entryManager *entryManagerMock
	)

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		entryManager = &entryManagerMock{}
		servehttp.RegisterEntryHandler(router, entryManager)
	})

	Describe("handleCreate", func() {
		It("should be able to serve create request", func() {
			t := time.Date(2025, 1, 2, 1, 0, 0, 0, time.Now().Location())
			timeBytes, err := t.MarshalJSON()
			Expect(err).To(BeNil())
			timeString := strings.Trim(string(timeBytes), `"`)

			entryManager.CreateEntryFunc = func(creation *domain.EntryCreation, s *session.Session) (*domain.DataEntry, error) {
				return &domain.DataEntry{ID: 123, ProjectID: creation.ProjectID, RequesterID: 100, RequesterName: "ann",
					Product: creation.Product, Quantity: creation.Quantity, Description: creation.Description,
					RequestTime: t, DueDate: t, StageName: "NEW"}, nil
			}

			creation := domain.EntryCreation{ProjectID: 10, Product: "Pump", Quantity: 2, DueDate: t}
			reqBody, err := json.Marshal(creation)
			Expect(err).To(BeNil())
			req := httptest.NewRequest(http.MethodPost, "/v1/entries", bytes.NewReader(reqBody))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(MatchJSON(`{"id":"123","projectId":"10","requesterId":"100","requesterName":"ann",
			"product":"Pump","quantity":2,"description":"","requestTime":"` + timeString + `","dueDate":"` + timeString + `",
			"orderFormNo":null,"notes":null,"officeUser1":null,"officeDatetime1":null,
			"approved":false,"approvedBy":null,
			"purchaseOrderNo":null,"officeUser2":null,"officeDatetime2":null,
			"invoiceNo":null,"officeUser3":null,"officeDatetime3":null,
			"purchaseDate":null,"driversName":null,"vehicleNo":null,"received":null,"driverDescription":null,
			"officeName":null,"officeDatetime":null,"status":null,"deliveryDate":null,"officeLocked":null,
			"updateTime":null,"stageName":"NEW"}`))
		})

		It("should return 400 when bind failed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/entries", bytes.NewReader([]byte(`bad json`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid character 'b' looking for beginning of value","data":null}`))
		})

		It("should return 400 when validate failed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/entries", bytes.NewReader([]byte(`{}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"Key: 'EntryCreation.ProjectID' Error:Field validation for 'ProjectID' failed on the 'required' tag\nKey: 'EntryCreation.Product' Error:Field validation for 'Product' failed on the 'required' tag\nKey: 'EntryCreation.Quantity' Error:Field validation for 'Quantity' failed on the 'required' tag\nKey: 'EntryCreation.DueDate' Error:Field validation for 'DueDate' failed on the 'required' tag","data":null}`))
		})

		It("should return 500 when service process failed", func() {
			entryManager.CreateEntryFunc = func(creation *domain.EntryCreation, s *session.Session) (*domain.DataEntry, error) {
				return nil, errors.New("a mocked error")
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/entries",
				bytes.NewReader([]byte(`{"projectId":"10","product":"Pump","quantity":2,"dueDate":"2025-01-10T00:00:00Z"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusInternalServerError))
			Expect(body).To(MatchJSON(`{"code":"common.internal_server_error","message":"a mocked error","data":null}`))
		})
	})

	Describe("handleQuery", func() {
		It("should be able to serve query request with paged body", func() {
			entryManager.QueryEntriesFunc = func(q *domain.EntryQuery, s *session.Session) (*[]domain.DataEntry, error) {
				Expect(q.ProjectID).To(Equal(types.ID(10)))
				return &[]domain.DataEntry{}, nil
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/entries?projectId=10", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"list":[],"total":0}`))
		})

		It("should return 403 when access is denied", func() {
			entryManager.QueryEntriesFunc = func(q *domain.EntryQuery, s *session.Session) (*[]domain.DataEntry, error) {
				return nil, bizerror.ErrForbidden
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/entries", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusForbidden))
			Expect(body).To(MatchJSON(`{"code":"security.forbidden","message":"access forbidden","data":null}`))
		})
	})

	Describe("stage transitions", func() {
		It("should return 400 for an unparsable entry id", func() {
			req := httptest.NewRequest(http.MethodPut, "/v1/entries/abc/approval", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid id 'abc'","data":null}`))
		})

		It("should serve the approval request", func() {
			orderForm := "OF-100"
			approver := "amy"
			entryManager.ApproveEntryFunc = func(id types.ID, s *session.Session) (*domain.DataEntry, error) {
				Expect(id).To(Equal(types.ID(123)))
				return &domain.DataEntry{ID: 123, OrderFormNo: &orderForm, Approved: true, ApprovedBy: &approver,
					StageName: "APPROVED_PENDING_PO"}, nil
			}
			req := httptest.NewRequest(http.MethodPut, "/v1/entries/123/approval", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"approved":true`))
			Expect(body).To(ContainSubstring(`"approvedBy":"amy"`))
			Expect(body).To(ContainSubstring(`"stageName":"APPROVED_PENDING_PO"`))
		})

		It("should surface the approval guard as 400", func() {
			entryManager.SetPurchaseOrderFunc = func(id types.ID, u *domain.PurchaseOrderUpdating, s *session.Session) (*domain.DataEntry, error) {
				return nil, &bizerror.ErrPreconditionFailed{Reason: "entry not approved yet"}
			}
			req := httptest.NewRequest(http.MethodPut, "/v1/entries/123/purchase-order",
				bytes.NewReader([]byte(`{"purchaseOrderNo":"PO-200"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"workflow.precondition_failed","message":"entry not approved yet","data":null}`))
		})

		It("should surface the stores invoice guard as 400", func() {
			entryManager.SetDriverDetailsFromStoresFunc = func(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error) {
				return nil, &bizerror.ErrPreconditionFailed{Reason: "cannot set driver details before the invoice number is added"}
			}
			req := httptest.NewRequest(http.MethodPut, "/v1/entries/123/stores-driver",
				bytes.NewReader([]byte(`{"purchaseDate":"2025-01-20T00:00:00Z"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"workflow.precondition_failed","message":"cannot set driver details before the invoice number is added","data":null}`))
		})

		It("should return 404 for an unknown entry", func() {
			entryManager.SetOrderFormFunc = func(id types.ID, u *domain.OrderFormUpdating, s *session.Session) (*domain.DataEntry, error) {
				return nil, bizerror.ErrNotFound
			}
			req := httptest.NewRequest(http.MethodPut, "/v1/entries/123/order-form",
				bytes.NewReader([]byte(`{"orderFormNo":"OF-100"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
		})

		It("should pass the admin update payload through", func() {
			product := "Compressor"
			entryManager.AdminUpdateEntryFunc = func(id types.ID, u *domain.AdminEntryUpdating, s *session.Session) (*domain.DataEntry, error) {
				Expect(id).To(Equal(types.ID(123)))
				Expect(*u.Product).To(Equal("Compressor"))
				Expect(u.Quantity).To(BeNil())
				return &domain.DataEntry{ID: 123, Product: product, StageName: "NEW"}, nil
			}
			req := httptest.NewRequest(http.MethodPut, "/v1/entries/123/admin",
				bytes.NewReader([]byte(`{"product":"Compressor"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"product":"Compressor"`))
		})
	})
})
