package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/types"
)

type VerificationCodeRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, code *types.VerificationCode) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.VerificationCode, error)
	DeleteByEmail(ctx context.Context, tx *gorm.DB, email string) error
}

type verificationCodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVerificationCodeRepo(db *gorm.DB, baseLog *logger.Logger) VerificationCodeRepo {
	repoLog := baseLog.With("repo", "VerificationCodeRepo")
	return &verificationCodeRepo{db: db, log: repoLog}
}

func (r *verificationCodeRepo) Upsert(ctx context.Context, tx *gorm.DB, code *types.VerificationCode) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			UpdateAll: true,
		}).
		Create(code).Error
}

func (r *verificationCodeRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.VerificationCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.VerificationCode
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *verificationCodeRepo) DeleteByEmail(ctx context.Context, tx *gorm.DB, email string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("email = ?", email).
		Delete(&types.VerificationCode{}).Error
}
