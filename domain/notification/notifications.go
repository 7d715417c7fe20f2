package notification

import (
	"workshop/authority"
	"workshop/domain"
	"workshop/domain/state"
	"workshop/persistence"
	"workshop/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	otgorm "github.com/smacker/opentracing-gorm"
)

type Variant string

const (
	// VariantFull includes the pending approval bucket in counts, total and color.
	VariantFull Variant = "full"
	// VariantOffice hides the pending approval bucket from office and stores roles.
	VariantOffice Variant = "office"
)

const (
	ColorRed    = "red"
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorOrange = "orange"
	ColorGray   = "gray"
	ColorNone   = ""
)

// StageCounts holds the number of active entries at each pipeline stage.
// Completed entries belong to no bucket.
type StageCounts struct {
	NewEntries        int `json:"newEntries"`
	PendingApproval   int `json:"pendingApproval"`
	ApprovedPendingPO int `json:"approvedPendingPo"`
	PendingInvoice    int `json:"pendingInvoice"`
	PendingDriver     int `json:"pendingDriver"`
}

func CountStages(entries []domain.DataEntry) StageCounts {
	c := StageCounts{}
	for i := range entries {
		switch state.StageOf(&entries[i]) {
		case state.StageNew:
			c.NewEntries++
		case state.StageAwaitingApproval:
			c.PendingApproval++
		case state.StageApprovedPendingPO:
			c.ApprovedPendingPO++
		case state.StagePendingInvoice:
			c.PendingInvoice++
		case state.StagePendingDriverInfo:
			c.PendingDriver++
		}
	}
	return c
}

// ForVariant clears the buckets the variant must not expose. Office and
// stores roles are never shown the admin approval backlog.
func (c StageCounts) ForVariant(v Variant) StageCounts {
	if v == VariantOffice {
		c.PendingApproval = 0
	}
	return c
}

// Total sums the buckets visible to the variant.
func (c StageCounts) Total(v Variant) int {
	total := c.NewEntries + c.ApprovedPendingPO + c.PendingInvoice + c.PendingDriver
	if v == VariantFull {
		total += c.PendingApproval
	}
	return total
}

// Color picks the highest-priority nonzero bucket for the variant.
func (c StageCounts) Color(v Variant) string {
	if c.NewEntries > 0 {
		return ColorRed
	}
	if v == VariantFull && c.PendingApproval > 0 {
		return ColorYellow
	}
	if c.ApprovedPendingPO > 0 {
		return ColorGreen
	}
	if c.PendingInvoice > 0 {
		return ColorOrange
	}
	if c.PendingDriver > 0 {
		return ColorGray
	}
	return ColorNone
}

type PartnerStatus struct {
	PartnerID   types.ID `json:"partnerId"`
	PartnerName string   `json:"partnerName"`

	Counts StageCounts `json:"counts"`
	Total  int         `json:"total"`
	Color  string      `json:"color"`
}

type ProjectStatus struct {
	ProjectID   types.ID `json:"projectId"`
	ProjectName string   `json:"projectName"`

	Counts StageCounts `json:"counts"`
	Total  int         `json:"total"`
	Color  string      `json:"color"`
}

type NotificationManagerTraits interface {
	PartnerStatuses(v Variant, s *session.Session) (*[]PartnerStatus, error)
	ProjectStatuses(partnerID types.ID, v Variant, s *session.Session) (*[]ProjectStatus, error)
}

type NotificationManager struct {
	dataSource *persistence.DataSourceManager
}

func NewNotificationManager(ds *persistence.DataSourceManager) *NotificationManager {
	return &NotificationManager{dataSource: ds}
}

func (m *NotificationManager) db(s *session.Session) *gorm.DB {
	db := m.dataSource.GormDB()
	if s != nil && s.Context != nil {
		db = otgorm.SetSpanToGorm(s.Context, db)
	}
	return db
}

// PartnerStatuses recomputes the per partner summaries on every call, there
// is no stored aggregate to go stale.
func (m *NotificationManager) PartnerStatuses(v Variant, s *session.Session) (*[]PartnerStatus, error) {
	op := authority.PartnerStatusFull
	if v == VariantOffice {
		op = authority.PartnerStatusOffice
	}
	if err := authority.Check(s.Role, op); err != nil {
		return nil, err
	}

	db := m.db(s)
	var partners []domain.Partner
	if err := db.Order("id ASC").Find(&partners).Error; err != nil {
		return nil, err
	}
	var projects []domain.Project
	if err := db.Find(&projects).Error; err != nil {
		return nil, err
	}
	var entries []domain.DataEntry
	if err := db.Find(&entries).Error; err != nil {
		return nil, err
	}

	partnerOfProject := map[types.ID]types.ID{}
	for _, p := range projects {
		partnerOfProject[p.ID] = p.PartnerID
	}
	entriesOfPartner := map[types.ID][]domain.DataEntry{}
	for _, e := range entries {
		partnerID, found := partnerOfProject[e.ProjectID]
		if !found {
			continue
		}
		entriesOfPartner[partnerID] = append(entriesOfPartner[partnerID], e)
	}

	statuses := make([]PartnerStatus, 0, len(partners))
	for _, p := range partners {
		counts := CountStages(entriesOfPartner[p.ID]).ForVariant(v)
		statuses = append(statuses, PartnerStatus{
			PartnerID:   p.ID,
			PartnerName: p.Name,
			Counts:      counts,
			Total:       counts.Total(v),
			Color:       counts.Color(v),
		})
	}
	return &statuses, nil
}

func (m *NotificationManager) ProjectStatuses(partnerID types.ID, v Variant, s *session.Session) (*[]ProjectStatus, error) {
	op := authority.ProjectStatusFull
	if v == VariantOffice {
		op = authority.ProjectStatusOffice
	}
	if err := authority.Check(s.Role, op); err != nil {
		return nil, err
	}

	db := m.db(s)
	var projects []domain.Project
	if err := db.Where(&domain.Project{PartnerID: partnerID}).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	statuses := make([]ProjectStatus, 0, len(projects))
	for _, p := range projects {
		var entries []domain.DataEntry
		if err := db.Where("project_id = ?", p.ID).Find(&entries).Error; err != nil {
			return nil, err
		}
		counts := CountStages(entries).ForVariant(v)
		statuses = append(statuses, ProjectStatus{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Counts:      counts,
			Total:       counts.Total(v),
			Color:       counts.Color(v),
		})
	}
	return &statuses, nil
}
