package account

import (
	"errors"
	"os"
	"time"
	"workshop/authority"
	"workshop/bizerror"
	"workshop/common"
	"workshop/persistence"
	"workshop/session"

	"github.com/jinzhu/gorm"
	otgorm "github.com/smacker/opentracing-gorm"
	"github.com/sony/sonyflake"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type AccountManagerTraits interface {
	CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error)
	Authenticate(name, password string) (*UserInfo, error)
}

type AccountManager struct {
	dataSource *persistence.DataSourceManager
	idWorker   *sonyflake.Sonyflake
}

func NewAccountManager(ds *persistence.DataSourceManager) *AccountManager {
	return &AccountManager{
		dataSource: ds,
		idWorker:   sonyflake.NewSonyflake(sonyflake.Settings{}),
	}
}

func (m *AccountManager) db(s *session.Session) *gorm.DB {
	db := m.dataSource.GormDB()
	if s != nil && s.Context != nil {
		db = otgorm.SetSpanToGorm(s.Context, db)
	}
	return db
}

func (m *AccountManager) CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error) {
	if err := authority.Check(s.Role, authority.CreateUser); err != nil {
		return nil, err
	}

	db := m.db(s)
	existing := User{}
	err := db.Model(&User{}).Where(&User{Name: c.Name}).First(&existing).Error
	if err == nil {
		return nil, bizerror.ErrUserExisted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	secret, err := HashPassword(c.Password)
	if err != nil {
		return nil, err
	}
	user := User{ID: common.NextId(m.idWorker), Name: c.Name, Secret: secret, Role: c.Role, CreateTime: time.Now()}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Role: user.Role}, nil
}

func (m *AccountManager) Authenticate(name, password string) (*UserInfo, error) {
	user := User{}
	if err := m.db(nil).Model(&User{}).Where(&User{Name: name}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrInvalidPassword
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Secret), []byte(password)) != nil {
		return nil, bizerror.ErrInvalidPassword
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Role: user.Role}, nil
}

func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// DefaultSecurityConfiguration makes sure an administrator exists, so a fresh
// deployment can be logged into.
func DefaultSecurityConfiguration(ds *persistence.DataSourceManager) error {
	db := ds.GormDB()
	return db.Transaction(func(tx *gorm.DB) error {
		admin := User{}
		err := tx.Model(&User{}).Where(&User{Name: "admin"}).First(&admin).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		initialAdminPassword := os.Getenv("INITIAL_ADMIN_PASSWORD")
		if initialAdminPassword == "" {
			initialAdminPassword = "admin123"
		}
		secret, err := HashPassword(initialAdminPassword)
		if err != nil {
			return err
		}
		if err := tx.Create(&User{ID: 1, Name: "admin", Secret: secret, Role: authority.RoleAdmin, CreateTime: time.Now()}).Error; err != nil {
			return err
		}
		common.Log.Info("default administrator account created")
		return nil
	})
}
