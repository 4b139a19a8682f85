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

// ProfileUpdateInput carries the writable profile fields. Pointer fields
// distinguish "absent" from "set to zero value".
type ProfileUpdateInput struct {
	DisplayName       *string                  `json:"display_name"`
	Bio               *string                  `json:"bio"`
	Major             *string                  `json:"major"`
	GraduationYear    *int                     `json:"graduation_year"`
	PhotoURL          *string                  `json:"photo_url"`
	Interests         []string                 `json:"interests"`
	Personality       map[string]float64       `json:"personality"`
	SocialPreferences *types.SocialPreferences `json:"social_preferences"`
	FriendshipGoals   []string                 `json:"friendship_goals"`
	VibeCheck         *types.VibeCheck         `json:"vibe_check"`
}

type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, input *ProfileUpdateInput) (*types.Profile, error)
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	profileRepo repos.ProfileRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, profileRepo repos.ProfileRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo, profileRepo: profileRepo}
}

func (us *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %w", ErrNotFound)
	}
	return user, nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	profile, err := us.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found: %w", ErrNotFound)
	}
	return profile, nil
}

func (us *userService) UpsertProfile(ctx context.Context, userID uuid.UUID, input *ProfileUpdateInput) (*types.Profile, error) {
	if input == nil {
		return nil, fmt.Errorf("no profile data provided: %w", ErrValidation)
	}
	if errs := utils.ValidateProfileInput(&utils.ProfileInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		Interests:   input.Interests,
	}); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(errs, "; "), ErrValidation)
	}

	existing, err := us.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	now := time.Now().UTC()
	if existing == nil {
		existing = &types.Profile{UserID: userID, CreatedAt: now}
	}

	if input.DisplayName != nil {
		existing.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Bio != nil {
		existing.Bio = *input.Bio
	}
	if input.Major != nil {
		existing.Major = *input.Major
	}
	if input.GraduationYear != nil {
		existing.GraduationYear = *input.GraduationYear
	}
	if input.PhotoURL != nil {
		existing.PhotoURL = *input.PhotoURL
	}
	if input.Interests != nil {
		existing.Interests = input.Interests
	}
	if input.Personality != nil {
		existing.Personality = input.Personality
	}
	if input.SocialPreferences != nil {
		existing.SocialPreferences = input.SocialPreferences
	}
	if input.FriendshipGoals != nil {
		existing.FriendshipGoals = input.FriendshipGoals
	}
	if input.VibeCheck != nil {
		existing.VibeCheck = input.VibeCheck
	}
	existing.UpdatedAt = now

	profile, err := us.profileRepo.Upsert(ctx, nil, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}
