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

const missionListLimit = 50

type MissionCreateInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags"`
	Location        string    `json:"location"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	Links           []string  `json:"links"`
	Images          []string  `json:"images"`
	MaxParticipants int       `json:"max_participants"`
}

type MissionUpdateInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Tags            []string   `json:"tags"`
	Location        *string    `json:"location"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	Links           []string   `json:"links"`
	Images          []string   `json:"images"`
	MaxParticipants *int       `json:"max_participants"`
}

type MissionService interface {
	CreateMission(ctx context.Context, creatorID uuid.UUID, input *MissionCreateInput) (*types.Mission, error)
	GetMission(ctx context.Context, missionID uuid.UUID) (*types.Mission, error)
	UpdateMission(ctx context.Context, missionID, userID uuid.UUID, input *MissionUpdateInput) (*types.Mission, error)
	DeleteMission(ctx context.Context, missionID, userID uuid.UUID) error
	ListMissions(ctx context.Context, tag string) ([]*types.Mission, error)
	RSVPMission(ctx context.Context, missionID, userID uuid.UUID, rsvpType string) error
	CancelRSVP(ctx context.Context, missionID, userID uuid.UUID) error
}

type missionService struct {
	db          *gorm.DB
	log         *logger.Logger
	missionRepo repos.MissionRepo
}

func NewMissionService(db *gorm.DB, log *logger.Logger, missionRepo repos.MissionRepo) MissionService {
	serviceLog := log.With("service", "MissionService")
	return &missionService{db: db, log: serviceLog, missionRepo: missionRepo}
}

func (ms *missionService) CreateMission(ctx context.Context, creatorID uuid.UUID, input *MissionCreateInput) (*types.Mission, error) {
	if input == nil {
		return nil, fmt.Errorf("no mission data provided: %w", ErrValidation)
	}
	if errs := utils.ValidateMissionInput(input.Title, input.Description); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(errs, "; "), ErrValidation)
	}

	now := time.Now().UTC()
	mission := &types.Mission{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Tags:            input.Tags,
		Location:        input.Location,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Links:           input.Links,
		Images:          input.Images,
		MaxParticipants: input.MaxParticipants,
		CreatorID:       creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := ms.missionRepo.Create(ctx, nil, mission); err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}
	return mission, nil
}

func (ms *missionService) GetMission(ctx context.Context, missionID uuid.UUID) (*types.Mission, error) {
	mission, err := ms.missionRepo.GetByID(ctx, nil, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mission: %w", err)
	}
	if mission == nil {
		return nil, fmt.Errorf("mission not found: %w", ErrNotFound)
	}
	return mission, nil
}

func (ms *missionService) UpdateMission(ctx context.Context, missionID, userID uuid.UUID, input *MissionUpdateInput) (*types.Mission, error) {
	if input == nil {
		return nil, fmt.Errorf("no mission data provided: %w", ErrValidation)
	}
	mission, err := ms.GetMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if mission.CreatorID != userID {
		return nil, fmt.Errorf("only the creator can update a mission: %w", ErrValidation)
	}

	if input.Title != nil {
		mission.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		mission.Description = *input.Description
	}
	if input.Tags != nil {
		mission.Tags = input.Tags
	}
	if input.Location != nil {
		mission.Location = *input.Location
	}
	if input.StartTime != nil {
		mission.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		mission.EndTime = *input.EndTime
	}
	if input.Latitude != nil {
		mission.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		mission.Longitude = input.Longitude
	}
	if input.Links != nil {
		mission.Links = input.Links
	}
	if input.Images != nil {
		mission.Images = input.Images
	}
	if input.MaxParticipants != nil {
		mission.MaxParticipants = *input.MaxParticipants
	}
	if errs := utils.ValidateMissionInput(mission.Title, mission.Description); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(errs, "; "), ErrValidation)
	}
	mission.UpdatedAt = time.Now().UTC()

	if _, err := ms.missionRepo.Save(ctx, nil, mission); err != nil {
		return nil, fmt.Errorf("failed to update mission: %w", err)
	}
	return mission, nil
}

func (ms *missionService) DeleteMission(ctx context.Context, missionID, userID uuid.UUID) error {
	mission, err := ms.GetMission(ctx, missionID)
	if err != nil {
		return err
	}
	if mission.CreatorID != userID {
		return fmt.Errorf("only the creator can delete a mission: %w", ErrValidation)
	}
	return ms.missionRepo.Delete(ctx, nil, missionID)
}

func (ms *missionService) ListMissions(ctx context.Context, tag string) ([]*types.Mission, error) {
	missions, err := ms.missionRepo.List(ctx, nil, tag, missionListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	return missions, nil
}

func (ms *missionService) RSVPMission(ctx context.Context, missionID, userID uuid.UUID, rsvpType string) error {
	if rsvpType == "" {
		rsvpType = "hard"
	}
	if rsvpType != "hard" && rsvpType != "soft" {
		return fmt.Errorf("rsvp_type must be hard or soft: %w", ErrValidation)
	}
	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mission, err := ms.missionRepo.GetByID(ctx, tx, missionID)
		if err != nil {
			return fmt.Errorf("failed to load mission: %w", err)
		}
		if mission == nil {
			return fmt.Errorf("mission not found: %w", ErrNotFound)
		}
		existing, err := ms.missionRepo.GetRSVP(ctx, tx, missionID, userID)
		if err != nil {
			return fmt.Errorf("failed to check rsvp: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("already RSVPed to this mission: %w", ErrConflict)
		}
		rsvp := &types.MissionRSVP{
			MissionID: missionID,
			UserID:    userID,
			RSVPType:  rsvpType,
			RSVPedAt:  time.Now().UTC(),
		}
		if err := ms.missionRepo.AddRSVP(ctx, tx, rsvp); err != nil {
			return fmt.Errorf("failed to rsvp: %w", err)
		}
		return ms.missionRepo.UpdateRSVPCount(ctx, tx, missionID, rsvpType, 1)
	})
}

func (ms *missionService) CancelRSVP(ctx context.Context, missionID, userID uuid.UUID) error {
	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ms.missionRepo.GetRSVP(ctx, tx, missionID, userID)
		if err != nil {
			return fmt.Errorf("failed to check rsvp: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("no RSVP for this mission: %w", ErrNotFound)
		}
		if err := ms.missionRepo.RemoveRSVP(ctx, tx, missionID, userID); err != nil {
			return fmt.Errorf("failed to remove rsvp: %w", err)
		}
		return ms.missionRepo.UpdateRSVPCount(ctx, tx, missionID, existing.RSVPType, -1)
	})
}
