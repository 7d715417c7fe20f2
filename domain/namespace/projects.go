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

type ProjectManagerTraits interface {
	QueryProjectsOfPartner(partnerID types.ID, s *session.Session) (*[]domain.Project, error)
	ProjectDetail(id types.ID, s *session.Session) (*domain.ProjectDetail, error)
	CreateProject(c *domain.ProjectCreating, s *session.Session) (*domain.Project, error)
	DeleteProject(id types.ID, s *session.Session) error
}

type ProjectManager struct {
	dataSource *persistence.DataSourceManager
	idWorker   *sonyflake.Sonyflake
}

func NewProjectManager(ds *persistence.DataSourceManager) *ProjectManager {
	return &ProjectManager{
		dataSource: ds,
		idWorker:   sonyflake.NewSonyflake(sonyflake.Settings{}),
	}
}

func (m *ProjectManager) db(s *session.Session) *gorm.DB {
	db := m.dataSource.GormDB()
	if s != nil && s.Context != nil {
		db = otgorm.SetSpanToGorm(s.Context, db)
	}
	return db
}

func (m *ProjectManager) QueryProjectsOfPartner(partnerID types.ID, s *session.Session) (*[]domain.Project, error) {
	if err := authority.Check(s.Role, authority.ListProjects); err != nil {
		return nil, err
	}
	var projects []domain.Project
	if err := m.db(s).Where(&domain.Project{PartnerID: partnerID}).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return &projects, nil
}

func (m *ProjectManager) ProjectDetail(id types.ID, s *session.Session) (*domain.ProjectDetail, error) {
	if err := authority.Check(s.Role, authority.ListProjects); err != nil {
		return nil, err
	}

	db := m.db(s)
	detail := domain.ProjectDetail{}
	if err := db.Where(&domain.Project{ID: id}).First(&detail.Project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	partner := domain.Partner{}
	if err := db.Where(&domain.Partner{ID: detail.PartnerID}).First(&partner).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	detail.PartnerName = partner.Name
	return &detail, nil
}

func (m *ProjectManager) CreateProject(c *domain.ProjectCreating, s *session.Session) (*domain.Project, error) {
	if err := authority.Check(s.Role, authority.CreateProject); err != nil {
		return nil, err
	}

	db := m.db(s)
	if err := db.Where(&domain.Partner{ID: c.PartnerID}).First(&domain.Partner{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.ErrBadParam{Cause: errors.New("referenced partner does not exist")}
		}
		return nil, err
	}

	p := domain.Project{
		ID:         common.NextId(m.idWorker),
		Name:       c.Name,
		PartnerID:  c.PartnerID,
		CreateTime: time.Now(),
		Creator:    s.Identity.ID,
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject refuses to remove a project that still owns data entries.
func (m *ProjectManager) DeleteProject(id types.ID, s *session.Session) error {
	if err := authority.Check(s.Role, authority.DeleteProject); err != nil {
		return err
	}

	db := m.db(s)
	if err := db.Where(&domain.Project{ID: id}).First(&domain.Project{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotFound
		}
		return err
	}

	count := 0
	if err := db.Model(&domain.DataEntry{}).Where("project_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &bizerror.ErrRecordReferenced{Children: "entries"}
	}
	return db.Delete(&domain.Project{ID: id}).Error
}
