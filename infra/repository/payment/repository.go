// Package payment implements the append-only payment store on GORM.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/gobank/core/infra/repository/gormerr"
	"github.com/gobank/core/infra/repository/model"
	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/pagination"
	repo "github.com/gobank/core/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates the payment repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.PaymentRepository {
	return &repository{db: db}
}

// Create appends one payment record. A reference-number collision surfaces as
// domain.ErrDuplicateReference so the coordinator can redraw and retry.
func (r *repository) Create(ctx context.Context, create dto.PaymentCreate) error {
	rec := model.Payment{
		ID:                create.ID,
		AccountID:         create.AccountID,
		ReceiverAccountID: create.ReceiverAccountID,
		Amount:            create.Amount,
		Kind:              create.Kind,
		Description:       create.Description,
		Method:            create.Method,
		Status:            create.Status,
		ReferenceNumber:   create.ReferenceNumber,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateReference
		}
		return gormerr.Map(err)
	}
	return nil
}

// Get implements repo.PaymentRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.PaymentRead, error) {
	var rec model.Payment
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, gormerr.Map(err)
	}
	return mapModelToReadDTO(&rec), nil
}

// ListByAccount returns the plain debits of one account, newest first.
func (r *repository) ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]*dto.PaymentRead, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("account_id = ? AND receiver_account_id IS NULL", accountID)
	return r.listPayments(q, params)
}

// ListAll returns every plain debit in the system (admin view).
func (r *repository) ListAll(ctx context.Context, params pagination.Params) ([]*dto.PaymentRead, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("receiver_account_id IS NULL")
	return r.listPayments(q, params)
}

// transferRow is the scan target for the transfer join; the receiver's
// account number is denormalized into the projection.
type transferRow struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	ReceiverNumber  int
	Amount          decimal.Decimal
	Description     string
	Method          string
	Status          string
	ReferenceNumber int
	CreatedAt       time.Time
}

// ListTransfersByAccount returns the transfers sent from one account joined
// with the receiving account's number.
func (r *repository) ListTransfersByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]*dto.TransferRead, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("payments.account_id = ? AND payments.receiver_account_id IS NOT NULL", accountID)
	return r.listTransfers(q, params)
}

// ListAllTransfers returns every transfer in the system (admin view).
func (r *repository) ListAllTransfers(ctx context.Context, params pagination.Params) ([]*dto.TransferRead, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("payments.receiver_account_id IS NOT NULL")
	return r.listTransfers(q, params)
}

func (r *repository) listPayments(q *gorm.DB, params pagination.Params) ([]*dto.PaymentRead, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, gormerr.Map(err)
	}
	var recs []model.Payment
	err := q.Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&recs).Error
	if err != nil {
		return nil, 0, gormerr.Map(err)
	}
	result := make([]*dto.PaymentRead, 0, len(recs))
	for i := range recs {
		result = append(result, mapModelToReadDTO(&recs[i]))
	}
	return result, total, nil
}

func (r *repository) listTransfers(q *gorm.DB, params pagination.Params) ([]*dto.TransferRead, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, gormerr.Map(err)
	}
	var rows []transferRow
	err := q.Select(
		"payments.id, payments.account_id, accounts.account_number AS receiver_number, " +
			"payments.amount, payments.description, payments.method, payments.status, " +
			"payments.reference_number, payments.created_at").
		Joins("JOIN accounts ON accounts.id = payments.receiver_account_id").
		Order("payments.created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, gormerr.Map(err)
	}
	result := make([]*dto.TransferRead, 0, len(rows))
	for i := range rows {
		result = append(result, mapRowToTransferDTO(&rows[i]))
	}
	return result, total, nil
}

func mapModelToReadDTO(rec *model.Payment) *dto.PaymentRead {
	return &dto.PaymentRead{
		ID:              rec.ID,
		AccountID:       rec.AccountID,
		Amount:          rec.Amount,
		Kind:            rec.Kind,
		Description:     rec.Description,
		Method:          rec.Method,
		Status:          rec.Status,
		ReferenceNumber: rec.ReferenceNumber,
		CreatedAt:       rec.CreatedAt,
	}
}

func mapRowToTransferDTO(row *transferRow) *dto.TransferRead {
	return &dto.TransferRead{
		ID:              row.ID,
		AccountID:       row.AccountID,
		ReceiverNumber:  row.ReceiverNumber,
		Amount:          row.Amount,
		Description:     row.Description,
		Method:          row.Method,
		Status:          row.Status,
		ReferenceNumber: row.ReferenceNumber,
		CreatedAt:       row.CreatedAt,
	}
}
