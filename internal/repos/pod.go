package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/types"
)

type PodRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pod *types.Pod) (*types.Pod, error)
	GetByID(ctx context.Context, tx *gorm.DB, podID uuid.UUID) (*types.Pod, error)
	// GetLatestForUser returns the most recent pod containing the given
	// user, expired or not, or nil. Expiry is the caller's concern.
	GetLatestForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Pod, error)
	Reveal(ctx context.Context, tx *gorm.DB, podID uuid.UUID) (*types.Pod, error)
}

type podRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPodRepo(db *gorm.DB, baseLog *logger.Logger) PodRepo {
	repoLog := baseLog.With("repo", "PodRepo")
	return &podRepo{db: db, log: repoLog}
}

func (r *podRepo) Create(ctx context.Context, tx *gorm.DB, pod *types.Pod) (*types.Pod, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(pod).Error; err != nil {
		return nil, err
	}
	return pod, nil
}

func (r *podRepo) GetByID(ctx context.Context, tx *gorm.DB, podID uuid.UUID) (*types.Pod, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Pod
	if err := transaction.WithContext(ctx).
		Where("id = ?", podID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *podRepo) GetLatestForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Pod, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var pods []*types.Pod
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&pods).Error; err != nil {
		return nil, err
	}
	for _, pod := range pods {
		if pod.Contains(userID) {
			return pod, nil
		}
	}
	return nil, nil
}

func (r *podRepo) Reveal(ctx context.Context, tx *gorm.DB, podID uuid.UUID) (*types.Pod, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Pod{}).
		Where("id = ?", podID).
		UpdateColumn("revealed", true).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, transaction, podID)
}
