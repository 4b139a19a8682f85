package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/repos"
	"github.com/yungbote/orbit-backend/internal/types"
	"github.com/yungbote/orbit-backend/internal/utils"
)

const crewListLimit = 50

type CrewCreateInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type CrewService interface {
	CreateCrew(ctx context.Context, creatorID uuid.UUID, input *CrewCreateInput) (*types.Crew, error)
	GetCrew(ctx context.Context, crewID uuid.UUID) (*types.Crew, error)
	ListCrews(ctx context.Context, tag string) ([]*types.Crew, error)
	JoinCrew(ctx context.Context, crewID, userID uuid.UUID) error
	LeaveCrew(ctx context.Context, crewID, userID uuid.UUID) error
	ListMembers(ctx context.Context, crewID uuid.UUID) ([]*types.CrewMember, error)
}

type crewService struct {
	db       *gorm.DB
	log      *logger.Logger
	crewRepo repos.CrewRepo
}

func NewCrewService(db *gorm.DB, log *logger.Logger, crewRepo repos.CrewRepo) CrewService {
	serviceLog := log.With("service", "CrewService")
	return &crewService{db: db, log: serviceLog, crewRepo: crewRepo}
}

func (cs *crewService) CreateCrew(ctx context.Context, creatorID uuid.UUID, input *CrewCreateInput) (*types.Crew, error) {
	if input == nil {
		return nil, fmt.Errorf("no crew data provided: %w", ErrValidation)
	}
	if errs := utils.ValidateCrewInput(input.Name, input.Description); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(errs, "; "), ErrValidation)
	}

	now := time.Now().UTC()
	crew := &types.Crew{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Tags:        input.Tags,
		CreatorID:   creatorID,
		MemberCount: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.crewRepo.Create(ctx, tx, crew); err != nil {
			return fmt.Errorf("failed to create crew: %w", err)
		}
		// Creator automatically joins.
		member := &types.CrewMember{CrewID: crew.ID, UserID: creatorID, JoinedAt: now}
		if err := cs.crewRepo.AddMember(ctx, tx, member); err != nil {
			return fmt.Errorf("failed to add creator to crew: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return crew, nil
}

func (cs *crewService) GetCrew(ctx context.Context, crewID uuid.UUID) (*types.Crew, error) {
	crew, err := cs.crewRepo.GetByID(ctx, nil, crewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load crew: %w", err)
	}
	if crew == nil {
		return nil, fmt.Errorf("crew not found: %w", ErrNotFound)
	}
	return crew, nil
}

func (cs *crewService) ListCrews(ctx context.Context, tag string) ([]*types.Crew, error) {
	crews, err := cs.crewRepo.List(ctx, nil, tag, crewListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list crews: %w", err)
	}
	return crews, nil
}

func (cs *crewService) JoinCrew(ctx context.Context, crewID, userID uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		crew, err := cs.crewRepo.GetByID(ctx, tx, crewID)
		if err != nil {
			return fmt.Errorf("failed to load crew: %w", err)
		}
		if crew == nil {
			return fmt.Errorf("crew not found: %w", ErrNotFound)
		}
		existing, err := cs.crewRepo.GetMember(ctx, tx, crewID, userID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("already a member of this crew: %w", ErrConflict)
		}
		member := &types.CrewMember{CrewID: crewID, UserID: userID, JoinedAt: time.Now().UTC()}
		if err := cs.crewRepo.AddMember(ctx, tx, member); err != nil {
			return fmt.Errorf("failed to join crew: %w", err)
		}
		return cs.crewRepo.UpdateMemberCount(ctx, tx, crewID, 1)
	})
}

func (cs *crewService) LeaveCrew(ctx context.Context, crewID, userID uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		crew, err := cs.crewRepo.GetByID(ctx, tx, crewID)
		if err != nil {
			return fmt.Errorf("failed to load crew: %w", err)
		}
		if crew == nil {
			return fmt.Errorf("crew not found: %w", ErrNotFound)
		}
		existing, err := cs.crewRepo.GetMember(ctx, tx, crewID, userID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("not a member of this crew: %w", ErrConflict)
		}
		if err := cs.crewRepo.RemoveMember(ctx, tx, crewID, userID); err != nil {
			return fmt.Errorf("failed to leave crew: %w", err)
		}
		return cs.crewRepo.UpdateMemberCount(ctx, tx, crewID, -1)
	})
}

func (cs *crewService) ListMembers(ctx context.Context, crewID uuid.UUID) ([]*types.CrewMember, error) {
	members, err := cs.crewRepo.ListMembers(ctx, nil, crewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list crew members: %w", err)
	}
	return members, nil
}
