package servehttp_test

import (
	"net/http"
	"net/http/httptest"
	"workshop/bizerror"
	"workshop/domain/notification"
	"workshop/servehttp"
	"workshop/session"
	"workshop/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type notificationManagerMock struct {
	PartnerStatusesFunc func(v notification.Variant, s *session.Session) (*[]notification.PartnerStatus, error)
	ProjectStatusesFunc func(partnerID types.ID, v notification.Variant, s *session.Session) (*[]notification.ProjectStatus, error)
}

func (m *notificationManagerMock) PartnerStatuses(v notification.Variant, s *session.Session) (*[]notification.PartnerStatus, error) {
	return m.PartnerStatusesFunc(v, s)
}
func (m *notificationManagerMock) ProjectStatuses(partnerID types.ID, v notification.Variant, s *session.Session) (*[]notification.ProjectStatus, error) {
	return m.ProjectStatusesFunc(partnerID, v, s)
}

var _ = Describe("NotificationHandler", func() {
	var (
		router              *gin.Engine
		notificationManager *notificationManagerMock
	)

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		notificationManager = &notificationManagerMock{}
		servehttp.RegisterNotificationHandler(router, notificationManager)
	})

	It("should serve the full partner statuses", func() {
		notificationManager.PartnerStatusesFunc = func(v notification.Variant, s *session.Session) (*[]notification.PartnerStatus, error) {
			Expect(v).To(Equal(notification.VariantFull))
			return &[]notification.PartnerStatus{{PartnerID: 1, PartnerName: "acme",
				Counts: notification.StageCounts{NewEntries: 1, PendingApproval: 2}, Total: 3, Color: "red"}}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/partner-statuses", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"list":[{"partnerId":"1","partnerName":"acme",
		"counts":{"newEntries":1,"pendingApproval":2,"approvedPendingPo":0,"pendingInvoice":0,"pendingDriver":0},
		"total":3,"color":"red"}],"total":1}`))
	})

	It("should route the office url to the office variant", func() {
		notificationManager.PartnerStatusesFunc = func(v notification.Variant, s *session.Session) (*[]notification.PartnerStatus, error) {
			Expect(v).To(Equal(notification.VariantOffice))
			return &[]notification.PartnerStatus{}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/partner-statuses/office", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"list":[],"total":0}`))
	})

	It("should serve project statuses of a partner", func() {
		notificationManager.ProjectStatusesFunc = func(partnerID types.ID, v notification.Variant, s *session.Session) (*[]notification.ProjectStatus, error) {
			Expect(partnerID).To(Equal(types.ID(1)))
			Expect(v).To(Equal(notification.VariantFull))
			return &[]notification.ProjectStatus{{ProjectID: 10, ProjectName: "plant renewal",
				Counts: notification.StageCounts{ApprovedPendingPO: 1}, Total: 1, Color: "green"}}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/partners/1/project-statuses", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"list":[{"projectId":"10","projectName":"plant renewal",
		"counts":{"newEntries":0,"pendingApproval":0,"approvedPendingPo":1,"pendingInvoice":0,"pendingDriver":0},
		"total":1,"color":"green"}],"total":1}`))
	})

	It("should route the office project url to the office variant", func() {
		notificationManager.ProjectStatusesFunc = func(partnerID types.ID, v notification.Variant, s *session.Session) (*[]notification.ProjectStatus, error) {
			Expect(v).To(Equal(notification.VariantOffice))
			return &[]notification.ProjectStatus{}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/partners/1/project-statuses/office", nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
	})

	It("should return 403 when the variant is not allowed for the caller", func() {
		notificationManager.PartnerStatusesFunc = func(v notification.Variant, s *session.Session) (*[]notification.PartnerStatus, error) {
			return nil, bizerror.ErrForbidden
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/partner-statuses", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden","message":"access forbidden","data":null}`))
	})
})
