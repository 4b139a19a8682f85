package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/types"
)

type ContactInfoRepo interface {
	// Upsert writes only the provided fields, preserving any not given.
	Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, instagram, phone *string) (*types.ContactInfo, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ContactInfo, error)
}

type contactInfoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactInfoRepo(db *gorm.DB, baseLog *logger.Logger) ContactInfoRepo {
	repoLog := baseLog.With("repo", "ContactInfoRepo")
	return &contactInfoRepo{db: db, log: repoLog}
}

func (r *contactInfoRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, instagram, phone *string) (*types.ContactInfo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByUserID(ctx, transaction, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing = &types.ContactInfo{UserID: userID}
	}
	if instagram != nil {
		existing.Instagram = instagram
	}
	if phone != nil {
		existing.Phone = phone
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := transaction.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *contactInfoRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ContactInfo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.ContactInfo
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
