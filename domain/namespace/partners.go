package namespace

import (
	"errors"
	"time"
	"workshop/authority"
	"workshop/bizerror"
	"workshop/common"
	"workshop/domain"
	"workshop/persistence"
	"workshop/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	otgorm "github.com/smacker/opentracing-gorm"
	"github.com/sony/sonyflake"
)

type PartnerManagerTraits interface {
	QueryPartners(s *session.Session) (*[]domain.Partner, error)
	CreatePartner(c *domain.PartnerCreating, s *session.Session) (*domain.Partner, error)
	DeletePartner(id types.ID, s *session.Session) error
}

type PartnerManager struct {
	dataSource *persistence.DataSourceManager
	idWorker   *sonyflake.Sonyflake
}

func NewPartnerManager(ds *persistence.DataSourceManager) *PartnerManager {
	return &PartnerManager{
		dataSource: ds,
		idWorker:   sonyflake.NewSonyflake(sonyflake.Settings{}),
	}
}

func (m *PartnerManager) db(s *session.Session) *gorm.DB {
	db := m.dataSource.GormDB()
	if s != nil && s.Context != nil {
		db = otgorm.SetSpanToGorm(s.Context, db)
	}
	return db
}

func (m *PartnerManager) QueryPartners(s *session.Session) (*[]domain.Partner, error) {
	if err := authority.Check(s.Role, authority.ListPartners); err != nil {
		return nil, err
	}
	var partners []domain.Partner
	if err := m.db(s).Order("id ASC").Find(&partners).Error; err != nil {
		return nil, err
	}
	return &partners, nil
}

func (m *PartnerManager) CreatePartner(c *domain.PartnerCreating, s *session.Session) (*domain.Partner, error) {
	if err := authority.Check(s.Role, authority.CreatePartner); err != nil {
		return nil, err
	}
	p := domain.Partner{
		ID:         common.NextId(m.idWorker),
		Name:       c.Name,
		CreateTime: time.Now(),
		Creator:    s.Identity.ID,
	}
	if err := m.db(s).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePartner refuses to remove a partner that still owns projects.
func (m *PartnerManager) DeletePartner(id types.ID, s *session.Session) error {
	if err := authority.Check(s.Role, authority.DeletePartner); err != nil {
		return err
	}

	db := m.db(s)
	if err := db.Where(&domain.Partner{ID: id}).First(&domain.Partner{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotFound
		}
		return err
	}

	count := 0
	if err := db.Model(&domain.Project{}).Where(&domain.Project{PartnerID: id}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &bizerror.ErrRecordReferenced{Children: "projects"}
	}
	return db.Delete(&domain.Partner{ID: id}).Error
}
