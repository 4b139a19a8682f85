package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/types"
)

type MissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, mission *types.Mission) (*types.Mission, error)
	GetByID(ctx context.Context, tx *gorm.DB, missionID uuid.UUID) (*types.Mission, error)
	Save(ctx context.Context, tx *gorm.DB, mission *types.Mission) (*types.Mission, error)
	Delete(ctx context.Context, tx *gorm.DB, missionID uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, tag string, limit int) ([]*types.Mission, error)
	UpdateRSVPCount(ctx context.Context, tx *gorm.DB, missionID uuid.UUID, rsvpType string, delta int) error
	AddRSVP(ctx context.Context, tx *gorm.DB, rsvp *types.MissionRSVP) error
	GetRSVP(ctx context.Context, tx *gorm.DB, missionID, userID uuid.UUID) (*types.MissionRSVP, error)
	RemoveRSVP(ctx context.Context, tx *gorm.DB, missionID, userID uuid.UUID) error
	ListRSVPs(ctx context.Context, tx *gorm.DB, missionID uuid.UUID) ([]*types.MissionRSVP, error)
}

type missionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMissionRepo(db *gorm.DB, baseLog *logger.Logger) MissionRepo {
	repoLog := baseLog.With("repo", "MissionRepo")
	return &missionRepo{db: db, log: repoLog}
}

func (r *missionRepo) Create(ctx context.Context, tx *gorm.DB, mission *types.Mission) (*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(mission).Error; err != nil {
		return nil, err
	}
	return mission, nil
}

func (r *missionRepo) GetByID(ctx context.Context, tx *gorm.DB, missionID uuid.UUID) (*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Mission
	if err := transaction.WithContext(ctx).
		Where("id = ?", missionID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *missionRepo) Save(ctx context.Context, tx *gorm.DB, mission *types.Mission) (*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(mission).Error; err != nil {
		return nil, err
	}
	return mission, nil
}

// Delete removes a mission and all of its RSVPs.
func (r *missionRepo) Delete(ctx context.Context, tx *gorm.DB, missionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("mission_id = ?", missionID).
		Delete(&types.MissionRSVP{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id = ?", missionID).
		Delete(&types.Mission{}).Error
}

func (r *missionRepo) List(ctx context.Context, tx *gorm.DB, tag string, limit int) ([]*types.Mission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Mission
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if tag == "" {
		return results, nil
	}
	filtered := make([]*types.Mission, 0, len(results))
	for _, mission := range results {
		for _, t := range mission.Tags {
			if t == tag {
				filtered = append(filtered, mission)
				break
			}
		}
	}
	return filtered, nil
}

func (r *missionRepo) UpdateRSVPCount(ctx context.Context, tx *gorm.DB, missionID uuid.UUID, rsvpType string, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	counter := "hard_rsvp_count"
	if rsvpType == "soft" {
		counter = "soft_rsvp_count"
	}
	return transaction.WithContext(ctx).
		Model(&types.Mission{}).
		Where("id = ?", missionID).
		UpdateColumn(counter, gorm.Expr(counter+" + ?", delta)).Error
}

func (r *missionRepo) AddRSVP(ctx context.Context, tx *gorm.DB, rsvp *types.MissionRSVP) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(rsvp).Error
}

func (r *missionRepo) GetRSVP(ctx context.Context, tx *gorm.DB, missionID, userID uuid.UUID) (*types.MissionRSVP, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.MissionRSVP
	if err := transaction.WithContext(ctx).
		Where("mission_id = ? AND user_id = ?", missionID, userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *missionRepo) RemoveRSVP(ctx context.Context, tx *gorm.DB, missionID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("mission_id = ? AND user_id = ?", missionID, userID).
		Delete(&types.MissionRSVP{}).Error
}

func (r *missionRepo) ListRSVPs(ctx context.Context, tx *gorm.DB, missionID uuid.UUID) ([]*types.MissionRSVP, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MissionRSVP
	if err := transaction.WithContext(ctx).
		Where("mission_id = ?", missionID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
