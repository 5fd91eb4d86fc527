package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"filemeta/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	Name      string    `gorm:"column:name;size:100;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

type userRoleModel struct {
	UserID string `gorm:"column:user_id;primaryKey;size:36"`
	Role   string `gorm:"column:role;primaryKey;size:50"`
}

func (userRoleModel) TableName() string { return "user_roles" }

func toDomainUser(m userModel, roles []userRoleModel) *domain.User {
	u := &domain.User{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		Roles:     make([]string, 0, len(roles)),
	}
	for _, r := range roles {
		u.Roles = append(u.Roles, r.Role)
	}
	sort.Strings(u.Roles)
	return u
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var roles []userRoleModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).Find(&roles).Error; err != nil {
		return nil, err
	}
	return toDomainUser(m, roles), nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// Create stores u with its roles. It is used by seeding and tests only; user
// management belongs to the identity system.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := userModel{ID: u.ID, Name: strings.TrimSpace(u.Name), CreatedAt: u.CreatedAt}
		if err := tx.Create(&m).Error; err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("%w: user %s already exists", domain.ErrConflict, u.ID)
			}
			return err
		}
		seen := make(map[string]bool, len(u.Roles))
		for _, role := range u.Roles {
			role = strings.ToUpper(strings.TrimSpace(role))
			if role == "" || seen[role] {
				continue
			}
			seen[role] = true
			row := userRoleModel{UserID: u.ID, Role: role}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
