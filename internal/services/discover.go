package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/repos"
	"github.com/yungbote/orbit-backend/internal/types"
)

const (
	discoverLimit    = 20
	discoverCacheTTL = 5 * time.Minute
	discoverPoolSize = 200
)

type SuggestedUser struct {
	Profile    *types.Profile `json:"profile"`
	MatchScore int            `json:"match_score"`
}

type SuggestedCrew struct {
	Crew       *types.Crew `json:"crew"`
	MatchScore int         `json:"match_score"`
}

type SuggestedMission struct {
	Mission    *types.Mission `json:"mission"`
	MatchScore int            `json:"match_score"`
}

// DiscoverService produces interest-overlap suggestions. Results are
// cached in redis for a short TTL when a client is configured; without
// one every call hits the database directly.
type DiscoverService interface {
	SuggestedUsers(ctx context.Context, userID uuid.UUID) ([]SuggestedUser, error)
	SuggestedCrews(ctx context.Context, userID uuid.UUID) ([]SuggestedCrew, error)
	SuggestedMissions(ctx context.Context, userID uuid.UUID) ([]SuggestedMission, error)
}

type discoverService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	crewRepo    repos.CrewRepo
	missionRepo repos.MissionRepo
	cache       *redis.Client
}

func NewDiscoverService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	crewRepo repos.CrewRepo,
	missionRepo repos.MissionRepo,
	cache *redis.Client,
) DiscoverService {
	serviceLog := log.With("service", "DiscoverService")
	return &discoverService{
		db:          db,
		log:         serviceLog,
		profileRepo: profileRepo,
		crewRepo:    crewRepo,
		missionRepo: missionRepo,
		cache:       cache,
	}
}

func (ds *discoverService) SuggestedUsers(ctx context.Context, userID uuid.UUID) ([]SuggestedUser, error) {
	cacheKey := fmt.Sprintf("discover:users:%s", userID)
	var cached []SuggestedUser
	if ds.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	interests, err := ds.userInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	pool, err := ds.profileRepo.ListComplete(ctx, nil, discoverPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	suggestions := make([]SuggestedUser, 0, len(pool))
	for _, p := range pool {
		if p.UserID == userID {
			continue
		}
		suggestions = append(suggestions, SuggestedUser{
			Profile:    p,
			MatchScore: overlap(interests, p.Interests),
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchScore > suggestions[j].MatchScore
	})
	if len(suggestions) > discoverLimit {
		suggestions = suggestions[:discoverLimit]
	}
	ds.cacheSet(ctx, cacheKey, suggestions)
	return suggestions, nil
}

func (ds *discoverService) SuggestedCrews(ctx context.Context, userID uuid.UUID) ([]SuggestedCrew, error) {
	cacheKey := fmt.Sprintf("discover:crews:%s", userID)
	var cached []SuggestedCrew
	if ds.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	interests, err := ds.userInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	crews, err := ds.crewRepo.List(ctx, nil, "", crewListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list crews: %w", err)
	}

	suggestions := make([]SuggestedCrew, 0, len(crews))
	for _, crew := range crews {
		suggestions = append(suggestions, SuggestedCrew{
			Crew:       crew,
			MatchScore: overlap(interests, crew.Tags),
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchScore > suggestions[j].MatchScore
	})
	if len(suggestions) > discoverLimit {
		suggestions = suggestions[:discoverLimit]
	}
	ds.cacheSet(ctx, cacheKey, suggestions)
	return suggestions, nil
}

func (ds *discoverService) SuggestedMissions(ctx context.Context, userID uuid.UUID) ([]SuggestedMission, error) {
	cacheKey := fmt.Sprintf("discover:missions:%s", userID)
	var cached []SuggestedMission
	if ds.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	interests, err := ds.userInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	missions, err := ds.missionRepo.List(ctx, nil, "", missionListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}

	suggestions := make([]SuggestedMission, 0, len(missions))
	for _, mission := range missions {
		suggestions = append(suggestions, SuggestedMission{
			Mission:    mission,
			MatchScore: overlap(interests, mission.Tags),
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchScore > suggestions[j].MatchScore
	})
	if len(suggestions) > discoverLimit {
		suggestions = suggestions[:discoverLimit]
	}
	ds.cacheSet(ctx, cacheKey, suggestions)
	return suggestions, nil
}

func (ds *discoverService) userInterests(ctx context.Context, userID uuid.UUID) ([]string, error) {
	profile, err := ds.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, nil
	}
	return profile.Interests, nil
}

func (ds *discoverService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if ds.cache == nil {
		return false
	}
	raw, err := ds.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		ds.log.Warn("Failed to decode cached suggestions", "key", key, "error", err)
		return false
	}
	return true
}

func (ds *discoverService) cacheSet(ctx context.Context, key string, value interface{}) {
	if ds.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := ds.cache.Set(ctx, key, raw, discoverCacheTTL).Err(); err != nil {
		ds.log.Warn("Failed to cache suggestions", "key", key, "error", err)
	}
}

func overlap(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, item := range a {
		set[item] = true
	}
	count := 0
	for _, item := range b {
		if set[item] {
			count++
		}
	}
	return count
}
