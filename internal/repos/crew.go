package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/types"
)

type CrewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, crew *types.Crew) (*types.Crew, error)
	GetByID(ctx context.Context, tx *gorm.DB, crewID uuid.UUID) (*types.Crew, error)
	List(ctx context.Context, tx *gorm.DB, tag string, limit int) ([]*types.Crew, error)
	UpdateMemberCount(ctx context.Context, tx *gorm.DB, crewID uuid.UUID, delta int) error
	AddMember(ctx context.Context, tx *gorm.DB, member *types.CrewMember) error
	GetMember(ctx context.Context, tx *gorm.DB, crewID, userID uuid.UUID) (*types.CrewMember, error)
	RemoveMember(ctx context.Context, tx *gorm.DB, crewID, userID uuid.UUID) error
	ListMembers(ctx context.Context, tx *gorm.DB, crewID uuid.UUID) ([]*types.CrewMember, error)
}

type crewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCrewRepo(db *gorm.DB, baseLog *logger.Logger) CrewRepo {
	repoLog := baseLog.With("repo", "CrewRepo")
	return &crewRepo{db: db, log: repoLog}
}

func (r *crewRepo) Create(ctx context.Context, tx *gorm.DB, crew *types.Crew) (*types.Crew, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(crew).Error; err != nil {
		return nil, err
	}
	return crew, nil
}

func (r *crewRepo) GetByID(ctx context.Context, tx *gorm.DB, crewID uuid.UUID) (*types.Crew, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Crew
	if err := transaction.WithContext(ctx).
		Where("id = ?", crewID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// List returns up to limit crews. Tag filtering happens in memory since
// tags live in a serialized json column.
func (r *crewRepo) List(ctx context.Context, tx *gorm.DB, tag string, limit int) ([]*types.Crew, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Crew
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if tag == "" {
		return results, nil
	}
	filtered := make([]*types.Crew, 0, len(results))
	for _, crew := range results {
		for _, t := range crew.Tags {
			if t == tag {
				filtered = append(filtered, crew)
				break
			}
		}
	}
	return filtered, nil
}

func (r *crewRepo) UpdateMemberCount(ctx context.Context, tx *gorm.DB, crewID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Crew{}).
		Where("id = ?", crewID).
		UpdateColumn("member_count", gorm.Expr("member_count + ?", delta)).Error
}

func (r *crewRepo) AddMember(ctx context.Context, tx *gorm.DB, member *types.CrewMember) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(member).Error
}

func (r *crewRepo) GetMember(ctx context.Context, tx *gorm.DB, crewID, userID uuid.UUID) (*types.CrewMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.CrewMember
	if err := transaction.WithContext(ctx).
		Where("crew_id = ? AND user_id = ?", crewID, userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *crewRepo) RemoveMember(ctx context.Context, tx *gorm.DB, crewID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("crew_id = ? AND user_id = ?", crewID, userID).
		Delete(&types.CrewMember{}).Error
}

func (r *crewRepo) ListMembers(ctx context.Context, tx *gorm.DB, crewID uuid.UUID) ([]*types.CrewMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CrewMember
	if err := transaction.WithContext(ctx).
		Where("crew_id = ?", crewID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
