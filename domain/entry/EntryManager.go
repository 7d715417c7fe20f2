package entry

import (
	"errors"
	"time"
	"workshop/authority"
	"workshop/bizerror"
	"workshop/common"
	"workshop/domain"
	"workshop/domain/state"
	"workshop/persistence"
	"workshop/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	otgorm "github.com/smacker/opentracing-gorm"
	"github.com/sony/sonyflake"
)

type EntryManagerTraits interface {
	QueryEntries(q *domain.EntryQuery, s *session.Session) (*[]domain.DataEntry, error)
	CreateEntry(c *domain.EntryCreation, s *session.Session) (*domain.DataEntry, error)
	SetOrderForm(id types.ID, u *domain.OrderFormUpdating, s *session.Session) (*domain.DataEntry, error)
	ApproveEntry(id types.ID, s *session.Session) (*domain.DataEntry, error)
	SetPurchaseOrder(id types.ID, u *domain.PurchaseOrderUpdating, s *session.Session) (*domain.DataEntry, error)
	SetInvoice(id types.ID, u *domain.InvoiceUpdating, s *session.Session) (*domain.DataEntry, error)
	SetDriverDetails(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error)
	SetDriverDetailsFromStores(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error)
	AdminUpdateEntry(id types.ID, u *domain.AdminEntryUpdating, s *session.Session) (*domain.DataEntry, error)
}

type EntryManager struct {
	dataSource *persistence.DataSourceManager
	idWorker   *sonyflake.Sonyflake
}

func NewEntryManager(ds *persistence.DataSourceManager) *EntryManager {
	return &EntryManager{
		dataSource: ds,
		idWorker:   sonyflake.NewSonyflake(sonyflake.Settings{}),
	}
}

func (m *EntryManager) db(s *session.Session) *gorm.DB {
	db := m.dataSource.GormDB()
	if s != nil && s.Context != nil {
		db = otgorm.SetSpanToGorm(s.Context, db)
	}
	return db
}

func (m *EntryManager) QueryEntries(q *domain.EntryQuery, s *session.Session) (*[]domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.ListEntries); err != nil {
		return nil, err
	}

	query := m.db(s)
	if q.ProjectID != 0 {
		query = query.Where("project_id = ?", q.ProjectID)
	}
	// the user role only sees its own requests
	if s.Role == authority.RoleUser {
		query = query.Where("user_id = ?", s.Identity.ID)
	}

	var entries []domain.DataEntry
	if err := query.Order("id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].StageName = string(state.StageOf(&entries[i]))
	}
	return &entries, nil
}

func (m *EntryManager) CreateEntry(c *domain.EntryCreation, s *session.Session) (*domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.CreateEntry); err != nil {
		return nil, err
	}

	db := m.db(s)
	project := domain.Project{}
	if err := db.Where(&domain.Project{ID: c.ProjectID}).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.ErrBadParam{Cause: errors.New("referenced project does not exist")}
		}
		return nil, err
	}

	e := domain.DataEntry{
		ID:            common.NextId(m.idWorker),
		ProjectID:     c.ProjectID,
		RequesterID:   s.Identity.ID,
		RequesterName: s.Identity.Name,
		Product:       c.Product,
		Quantity:      c.Quantity,
		Description:   c.Description,
		RequestTime:   time.Now(),
		DueDate:       c.DueDate,
	}
	if err := db.Create(&e).Error; err != nil {
		return nil, err
	}
	e.StageName = string(state.StageOf(&e))
	return &e, nil
}

// SetOrderForm records the office order form number. Re-running overwrites the
// previous value, but the stage timestamp is kept from the first run.
func (m *EntryManager) SetOrderForm(id types.ID, u *domain.OrderFormUpdating, s *session.Session) (*domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.SetOrderForm); err != nil {
		return nil, err
	}

	db := m.db(s)
	query := db.Model(&domain.DataEntry{}).Where("id = ?", id).Updates(map[string]interface{}{
		"order_form_no":     u.OrderFormNo,
		"notes":             u.Notes,
		"office_user_1":     s.Identity.Name,
		"office_datetime_1": gorm.Expr("COALESCE(office_datetime_1, ?)", time.Now()),
	})
	if err := query.Error; err != nil {
		return nil, err
	}
	if query.RowsAffected == 0 {
		return nil, bizerror.ErrNotFound
	}
	return m.loadEntry(db, id)
}

// ApproveEntry is idempotent: approving an already approved entry is a no-op
// returning the current record. There is deliberately no guard on the order
// form being present.
func (m *EntryManager) ApproveEntry(id types.ID, s *session.Session) (*domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.ApproveEntry); err != nil {
		return nil, err
	}

	db := m.db(s)
	query := db.Model(&domain.DataEntry{}).Where("id = ? AND approved = ?", id, false).Updates(map[string]interface{}{
		"approved":    true,
		"approved_by": s.Identity.Name,
	})
	if err := query.Error; err != nil {
		return nil, err
	}
	// zero rows affected: either already approved, or no such entry
	return m.loadEntry(db, id)
}

// SetPurchaseOrder records the PO number. The approval guard is embedded in
// the conditional update, so concurrent calls against an unapproved entry all
// fail without a double write.
func (m *EntryManager) SetPurchaseOrder(id types.ID, u *domain.PurchaseOrderUpdating, s *session.Session) (*domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.SetPurchaseOrder); err != nil {
		return nil, err
	}

	db := m.db(s)
	query := db.Model(&domain.DataEntry{}).Where("id = ? AND approved = ?", id, true).Updates(map[string]interface{}{
		"po_no":             u.PurchaseOrderNo,
		"office_user_2":     s.Identity.Name,
		"office_datetime_2": gorm.Expr("COALESCE(office_datetime_2, ?)", time.Now()),
	})
	if err := query.Error; err != nil {
		return nil, err
	}
	if query.RowsAffected == 0 {
		if _, err := m.loadEntry(db, id); err != nil {
			return nil, err
		}
		return nil, &bizerror.ErrPreconditionFailed{Reason: "entry not approved yet"}
	}
	return m.loadEntry(db, id)
}

// SetInvoice has no server-side guard on the PO being present: the reference
// UI hides the control but the engine accepts the call.
func (m *EntryManager) SetInvoice(id types.ID, u *domain.InvoiceUpdating, s *session.Session) (*domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.SetInvoice); err != nil {
		return nil, err
	}

	db := m.db(s)
	query := db.Model(&domain.DataEntry{}).Where("id = ?", id).Updates(map[string]interface{}{
		"invoice_no":        u.InvoiceNo,
		"office_user_3":     s.Identity.Name,
		"office_datetime_3": gorm.Expr("COALESCE(office_datetime_3, ?)", time.Now()),
	})
	if err := query.Error; err != nil {
		return nil, err
	}
	if query.RowsAffected == 0 {
		return nil, bizerror.ErrNotFound
	}
	return m.loadEntry(db, id)
}

// SetDriverDetails is the office path; like the invoice step it carries no
// server-side guard on the invoice being present.
func (m *EntryManager) SetDriverDetails(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.SetDriverDetails); err != nil {
		return nil, err
	}
	return m.updateDriverDetails(m.db(s), id, u, false)
}

// SetDriverDetailsFromStores is the stores path. Unlike the office path it
// rejects entries that have no invoice number yet.
func (m *EntryManager) SetDriverDetailsFromStores(id types.ID, u *domain.DriverDetailsUpdating, s *session.Session) (*domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.SetDriverDetailsStores); err != nil {
		return nil, err
	}

	db := m.db(s)
	existing, err := m.loadEntry(db, id)
	if err != nil {
		return nil, err
	}
	if existing.InvoiceNo == nil {
		return nil, &bizerror.ErrPreconditionFailed{Reason: "cannot set driver details before the invoice number is added"}
	}
	return m.updateDriverDetails(db, id, u, true)
}

func (m *EntryManager) updateDriverDetails(db *gorm.DB, id types.ID, u *domain.DriverDetailsUpdating, invoiceGuard bool) (*domain.DataEntry, error) {
	query := db.Model(&domain.DataEntry{}).Where("id = ?", id)
	if invoiceGuard {
		query = query.Where("invoice_no IS NOT NULL")
	}
	query = query.Updates(map[string]interface{}{
		"purchase_date":      u.PurchaseDate,
		"drivers_name":       u.DriversName,
		"vehicle_no":         u.VehicleNo,
		"received":           u.Received,
		"driver_description": u.DriverDescription,
	})
	if err := query.Error; err != nil {
		return nil, err
	}
	if query.RowsAffected == 0 && !invoiceGuard {
		return nil, bizerror.ErrNotFound
	}
	return m.loadEntry(db, id)
}

// AdminUpdateEntry replaces each provided field and keeps the rest. It
// bypasses every pipeline guard and always stamps updated_at.
func (m *EntryManager) AdminUpdateEntry(id types.ID, u *domain.AdminEntryUpdating, s *session.Session) (*domain.DataEntry, error) {
	if err := authority.Check(s.Role, authority.AdminUpdateEntry); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if u.RequesterName != nil {
		updates["user_name"] = *u.RequesterName
	}
	if u.RequestTime != nil {
		updates["user_datetime"] = *u.RequestTime
	}
	if u.Product != nil {
		updates["product"] = *u.Product
	}
	if u.Quantity != nil {
		updates["quantity"] = *u.Quantity
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.OfficeName != nil {
		updates["office_name"] = *u.OfficeName
	}
	if u.OfficeDatetime != nil {
		updates["office_datetime"] = *u.OfficeDatetime
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.DeliveryDate != nil {
		updates["delivery_date"] = *u.DeliveryDate
	}
	if u.OfficeLocked != nil {
		updates["office_locked"] = *u.OfficeLocked
	}

	db := m.db(s)
	query := db.Model(&domain.DataEntry{}).Where("id = ?", id).Updates(updates)
	if err := query.Error; err != nil {
		return nil, err
	}
	if query.RowsAffected == 0 {
		return nil, bizerror.ErrNotFound
	}
	return m.loadEntry(db, id)
}

func (m *EntryManager) loadEntry(db *gorm.DB, id types.ID) (*domain.DataEntry, error) {
	e := domain.DataEntry{}
	if err := db.Where(&domain.DataEntry{ID: id}).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	e.StageName = string(state.StageOf(&e))
	return &e, nil
}
