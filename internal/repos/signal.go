package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/types"
)

// ErrStaleUpdate is returned when a status-conditioned write matched no
// row: the signal changed underneath the caller (concurrent acceptance or
// promotion).
var ErrStaleUpdate = errors.New("signal was modified concurrently")

type SignalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, signal *types.Signal) (*types.Signal, error)
	GetByID(ctx context.Context, tx *gorm.DB, signalID uuid.UUID) (*types.Signal, error)
	// GetPendingForUser returns the most recent pending signal that
	// targets the given user, or nil.
	GetPendingForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Signal, error)
	// UpdateAcceptance writes the signal's accepted set and status,
	// conditioned on the stored status still being pending. Returns
	// ErrStaleUpdate when the condition fails.
	UpdateAcceptance(ctx context.Context, tx *gorm.DB, signal *types.Signal) error
}

type signalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSignalRepo(db *gorm.DB, baseLog *logger.Logger) SignalRepo {
	repoLog := baseLog.With("repo", "SignalRepo")
	return &signalRepo{db: db, log: repoLog}
}

func (r *signalRepo) Create(ctx context.Context, tx *gorm.DB, signal *types.Signal) (*types.Signal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(signal).Error; err != nil {
		return nil, err
	}
	return signal, nil
}

func (r *signalRepo) GetByID(ctx context.Context, tx *gorm.DB, signalID uuid.UUID) (*types.Signal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Signal
	if err := transaction.WithContext(ctx).
		Where("id = ?", signalID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// On postgres, target membership is pushed into a jsonb containment
// predicate so only the matching row comes back. Other dialects fall
// back to scanning pending signals in memory.
func (r *signalRepo) GetPendingForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Signal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if transaction.Dialector.Name() == "postgres" {
		var result types.Signal
		err := transaction.WithContext(ctx).
			Where("status = ? AND target_user_ids @> ?", types.SignalStatusPending, fmt.Sprintf(`["%s"]`, userID)).
			Order("created_at DESC").
			First(&result).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &result, nil
	}
	var pending []*types.Signal
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.SignalStatusPending).
		Order("created_at DESC").
		Find(&pending).Error; err != nil {
		return nil, err
	}
	for _, signal := range pending {
		if signal.Targets(userID) {
			return signal, nil
		}
	}
	return nil, nil
}

func (r *signalRepo) UpdateAcceptance(ctx context.Context, tx *gorm.DB, signal *types.Signal) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Signal{}).
		Where("id = ? AND status = ?", signal.ID, types.SignalStatusPending).
		Select("accepted_user_ids", "status").
		Updates(types.Signal{
			AcceptedUserIDs: signal.AcceptedUserIDs,
			Status:          signal.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleUpdate
	}
	return nil
}
