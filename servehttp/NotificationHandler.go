package servehttp

import (
	"errors"
	"net/http"
	"workshop/common"
	"workshop/domain/notification"
	"workshop/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func RegisterNotificationHandler(r *gin.Engine, m notification.NotificationManagerTraits, middleWares ...gin.HandlerFunc) {
	handler := &notificationHandler{notificationManager: m}

	g := r.Group("/v1/partner-statuses", middleWares...)
	g.GET("", handler.handlePartnerStatusesFull)
	g.GET("office", handler.handlePartnerStatusesOffice)

	p := r.Group("/v1/partners", middleWares...)
	p.GET(":id/project-statuses", handler.handleProjectStatusesFull)
	p.GET(":id/project-statuses/office", handler.handleProjectStatusesOffice)
}

type notificationHandler struct {
	notificationManager notification.NotificationManagerTraits
}

func (h *notificationHandler) handlePartnerStatusesFull(c *gin.Context) {
	h.respondPartnerStatuses(c, notification.VariantFull)
}

func (h *notificationHandler) handlePartnerStatusesOffice(c *gin.Context) {
	h.respondPartnerStatuses(c, notification.VariantOffice)
}

func (h *notificationHandler) respondPartnerStatuses(c *gin.Context, v notification.Variant) {
	statuses, err := h.notificationManager.PartnerStatuses(v, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: statuses, Total: uint64(len(*statuses))})
}

func (h *notificationHandler) handleProjectStatusesFull(c *gin.Context) {
	h.respondProjectStatuses(c, notification.VariantFull)
}

func (h *notificationHandler) handleProjectStatusesOffice(c *gin.Context) {
	h.respondProjectStatuses(c, notification.VariantOffice)
}

func (h *notificationHandler) respondProjectStatuses(c *gin.Context, v notification.Variant) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	statuses, err := h.notificationManager.ProjectStatuses(parsedId, v, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: statuses, Total: uint64(len(*statuses))})
}
