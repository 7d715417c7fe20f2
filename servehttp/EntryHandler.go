package servehttp

import (
	"errors"
	"net/http"
	"workshop/common"
	"workshop/domain"
	"workshop/domain/entry"
	"workshop/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterEntryHandler(r *gin.Engine, m entry.EntryManagerTraits, middleWares ...gin.HandlerFunc) {
	// group: "", version: v1, resource: entry
	g := r.Group("/v1/entries", middleWares...)

	handler := &entryHandler{entryManager: m, validator: validator.New()}

	g.GET("", handler.handleQuery)
	g.POST("", handler.handleCreate)
	g.PUT(":id/order-form", handler.handleSetOrderForm)
	g.PUT(":id/approval", handler.handleApprove)
	g.PUT(":id/purchase-order", handler.handleSetPurchaseOrder)
	g.PUT(":id/invoice", handler.handleSetInvoice)
	g.PUT(":id/driver", handler.handleSetDriverDetails)
	g.PUT(":id/stores-driver", handler.handleSetDriverDetailsFromStores)
	g.PUT(":id/admin", handler.handleAdminUpdate)
}

type entryHandler struct {
	entryManager entry.EntryManagerTraits
	validator    *validator.Validate
}

func (h *entryHandler) handleQuery(c *gin.Context) {
	query := domain.EntryQuery{}
	_ = c.MustBindWith(&query, binding.Query)

	entries, err := h.entryManager.QueryEntries(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: entries, Total: uint64(len(*entries))})
}

func (h *entryHandler) handleCreate(c *gin.Context) {
	creation := domain.EntryCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	if err = h.validator.Struct(creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	created, err := h.entryManager.CreateEntry(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, created)
}

func (h *entryHandler) handleSetOrderForm(c *gin.Context) {
	parsedId := parseEntryId(c)

	updating := domain.OrderFormUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	updated, err := h.entryManager.SetOrderForm(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *entryHandler) handleApprove(c *gin.Context) {
	parsedId := parseEntryId(c)

	updated, err := h.entryManager.ApproveEntry(parsedId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *entryHandler) handleSetPurchaseOrder(c *gin.Context) {
	parsedId := parseEntryId(c)

	updating := domain.PurchaseOrderUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	updated, err := h.entryManager.SetPurchaseOrder(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *entryHandler) handleSetInvoice(c *gin.Context) {
	parsedId := parseEntryId(c)

	updating := domain.InvoiceUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	updated, err := h.entryManager.SetInvoice(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *entryHandler) handleSetDriverDetails(c *gin.Context) {
	parsedId := parseEntryId(c)

	updating := domain.DriverDetailsUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	updated, err := h.entryManager.SetDriverDetails(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *entryHandler) handleSetDriverDetailsFromStores(c *gin.Context) {
	parsedId := parseEntryId(c)

	updating := domain.DriverDetailsUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	updated, err := h.entryManager.SetDriverDetailsFromStores(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *entryHandler) handleAdminUpdate(c *gin.Context) {
	parsedId := parseEntryId(c)

	updating := domain.AdminEntryUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	updated, err := h.entryManager.AdminUpdateEntry(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func parseEntryId(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}
