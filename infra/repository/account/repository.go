// Package account implements the account store on GORM.
package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/gobank/core/infra/repository/gormerr"
	"github.com/gobank/core/infra/repository/model"
	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/pagination"
	repo "github.com/gobank/core/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Account numbers are 6 digits, externally visible, assigned on insert.
const (
	numberMin         = 100_000
	numberSpan        = 900_000
	maxNumberAttempts = 5
)

type repository struct {
	db *gorm.DB
}

// New creates the account repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.AccountRepository {
	return &repository{db: db}
}

// Create inserts the account with a freshly drawn account number, redrawing
// on a number collision. The insert uses ON CONFLICT DO NOTHING rather than
// letting the unique indexes raise: a failed statement would abort the
// surrounding transaction, while a skipped insert leaves it usable for the
// redraw. A skipped insert caused by the user_id index means the user already
// holds an account, which is domain.ErrAlreadyExists no matter what the
// service-level existence check saw before.
func (r *repository) Create(ctx context.Context, create dto.AccountCreate) (*dto.AccountRead, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := randomAccountNumber()
		if err != nil {
			return nil, err
		}
		acct := model.Account{
			ID:      create.ID,
			Number:  number,
			UserID:  create.UserID,
			Balance: create.Balance,
		}
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&acct)
		if res.Error != nil {
			return nil, gormerr.Map(res.Error)
		}
		if res.RowsAffected > 0 {
			return mapModelToDTO(&acct), nil
		}

		var count int64
		err = r.db.WithContext(ctx).
			Model(&model.Account{}).
			Where("user_id = ?", create.UserID).
			Count(&count).Error
		if err != nil {
			return nil, gormerr.Map(err)
		}
		if count > 0 {
			return nil, domain.ErrAlreadyExists
		}
	}
	return nil, fmt.Errorf("assign account number: %w", domain.ErrConflict)
}

// Get implements repo.AccountRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct model.Account
	if err := r.db.WithContext(ctx).First(&acct, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return mapModelToDTO(&acct), nil
}

// GetByUser implements repo.AccountRepository.
func (r *repository) GetByUser(ctx context.Context, userID uuid.UUID) (*dto.AccountRead, error) {
	var acct model.Account
	if err := r.db.WithContext(ctx).First(&acct, "user_id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return mapModelToDTO(&acct), nil
}

// GetByNumber implements repo.AccountRepository.
func (r *repository) GetByNumber(ctx context.Context, number int) (*dto.AccountRead, error) {
	var acct model.Account
	if err := r.db.WithContext(ctx).First(&acct, "account_number = ?", number).Error; err != nil {
		return nil, notFound(err)
	}
	return mapModelToDTO(&acct), nil
}

// GetForUpdate reads the account row under FOR UPDATE. Only meaningful inside
// a transaction opened by the unit of work.
func (r *repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct model.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acct, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return mapModelToDTO(&acct), nil
}

// GetByNumberForUpdate reads the account row by number under FOR UPDATE.
func (r *repository) GetByNumberForUpdate(ctx context.Context, number int) (*dto.AccountRead, error) {
	var acct model.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acct, "account_number = ?", number).Error
	if err != nil {
		return nil, notFound(err)
	}
	return mapModelToDTO(&acct), nil
}

// AdjustBalance applies delta atomically with the non-negativity check: the
// WHERE clause rejects any debit that would drive the balance below zero, so
// no read-then-write window exists.
func (r *repository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return gormerr.Map(res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the row is missing or the debit would overdraw.
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return gormerr.Map(err)
		}
		if count == 0 {
			return domain.ErrAccountNotFound
		}
		return domain.ErrInsufficientFunds
	}
	return nil
}

// Delete implements repo.AccountRepository.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Account{}, "id = ?", id)
	if res.Error != nil {
		return gormerr.Map(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// List implements repo.AccountRepository.
func (r *repository) List(ctx context.Context, params pagination.Params) ([]*dto.AccountRead, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Count(&total).Error; err != nil {
		return nil, 0, gormerr.Map(err)
	}
	var accts []model.Account
	err := r.db.WithContext(ctx).
		Order("account_number").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&accts).Error
	if err != nil {
		return nil, 0, gormerr.Map(err)
	}
	result := make([]*dto.AccountRead, 0, len(accts))
	for i := range accts {
		result = append(result, mapModelToDTO(&accts[i]))
	}
	return result, total, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrAccountNotFound
	}
	return gormerr.Map(err)
}

func randomAccountNumber() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(numberSpan))
	if err != nil {
		return 0, fmt.Errorf("generate account number: %w", err)
	}
	return numberMin + int(n.Int64()), nil
}

func mapModelToDTO(acct *model.Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:        acct.ID,
		Number:    acct.Number,
		UserID:    acct.UserID,
		Balance:   acct.Balance,
		CreatedAt: acct.CreatedAt,
	}
}
