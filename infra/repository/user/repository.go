// Package user implements the user store on GORM.
package user

import (
	"context"
	"errors"

	"github.com/gobank/core/infra/repository/gormerr"
	"github.com/gobank/core/infra/repository/model"
	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/pagination"
	repo "github.com/gobank/core/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates the user repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.UserRepository {
	return &repository{db: db}
}

// Create implements repo.UserRepository.
func (r *repository) Create(ctx context.Context, create dto.UserCreate, hashedPassword string) (*dto.UserRead, error) {
	u := model.User{
		ID:       create.ID,
		Username: create.Username,
		Email:    create.Email,
		Password: hashedPassword,
		Role:     string(domain.RoleUser),
	}
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, gormerr.Map(err)
	}
	return mapModelToDTO(&u), nil
}

// Get implements repo.UserRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, gormerr.Map(err)
	}
	return mapModelToDTO(&u), nil
}

// GetByIdentity resolves a user by username or email.
func (r *repository) GetByIdentity(ctx context.Context, identity string) (*dto.UserRead, error) {
	u, err := r.byIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	return mapModelToDTO(u), nil
}

// GetCredentials returns the user together with the stored password hash.
func (r *repository) GetCredentials(ctx context.Context, identity string) (*dto.UserRead, string, error) {
	u, err := r.byIdentity(ctx, identity)
	if err != nil {
		return nil, "", err
	}
	return mapModelToDTO(u), u.Password, nil
}

// Update implements repo.UserRepository.
func (r *repository) Update(ctx context.Context, id uuid.UUID, update dto.UserUpdate) error {
	updates := make(map[string]any)
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Role != nil {
		updates["role"] = *update.Role
	}
	if update.Password != nil {
		updates["password"] = *update.Password
	}
	if update.Verified != nil {
		updates["verified"] = *update.Verified
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return gormerr.Map(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByRole implements repo.UserRepository. An empty role lists everyone.
func (r *repository) ListByRole(ctx context.Context, role string, params pagination.Params) ([]*dto.UserRead, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, gormerr.Map(err)
	}
	var users []model.User
	err := q.Order("username").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&users).Error
	if err != nil {
		return nil, 0, gormerr.Map(err)
	}
	result := make([]*dto.UserRead, 0, len(users))
	for i := range users {
		result = append(result, mapModelToDTO(&users[i]))
	}
	return result, total, nil
}

// Delete implements repo.UserRepository.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return gormerr.Map(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) byIdentity(ctx context.Context, identity string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identity, identity).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, gormerr.Map(err)
	}
	return &u, nil
}

func mapModelToDTO(u *model.User) *dto.UserRead {
	return &dto.UserRead{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
