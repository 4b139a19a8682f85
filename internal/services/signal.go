package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/matching"
	"github.com/yungbote/orbit-backend/internal/repos"
	"github.com/yungbote/orbit-backend/internal/types"
)

const (
	SignalTTL = 7 * 24 * time.Hour
	PodTTL    = 7 * 24 * time.Hour
)

const (
	StatusHasPod    = "has_pod"
	StatusHasSignal = "has_signal"
	StatusNewSignal = "new_signal"
	StatusNoMatch   = "no_match"
)

type MemberPreview struct {
	UserID      uuid.UUID          `json:"user_id"`
	Name        string             `json:"name"`
	Interests   []string           `json:"interests"`
	ContactInfo *types.ContactInfo `json:"contact_info,omitempty"`
}

type SignalCheckResult struct {
	Status   string          `json:"status"`
	Signal   *types.Signal   `json:"signal,omitempty"`
	Pod      *types.Pod      `json:"pod,omitempty"`
	Members  []MemberPreview `json:"members,omitempty"`
	Revealed bool            `json:"revealed,omitempty"`
}

type ContactInfoInput struct {
	Instagram *string `json:"instagram"`
	Phone     *string `json:"phone"`
}

// SignalService orchestrates the signal lifecycle: discovery checks,
// acceptance, promotion into pods, and revealable contact info.
type SignalService interface {
	CheckForSignal(ctx context.Context, userID uuid.UUID) (*SignalCheckResult, error)
	AcceptSignal(ctx context.Context, userID, signalID uuid.UUID) (*SignalCheckResult, error)
	RevealPod(ctx context.Context, userID, podID uuid.UUID) (*SignalCheckResult, error)
	UpdateContactInfo(ctx context.Context, userID uuid.UUID, input ContactInfoInput) (*types.ContactInfo, error)
}

type signalService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	signalRepo  repos.SignalRepo
	podRepo     repos.PodRepo
	contactRepo repos.ContactInfoRepo
	minScore    float64
	clusterSize int
	poolLimit   int
	now         func() time.Time
	locks       keyedLocks
}

func NewSignalService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	signalRepo repos.SignalRepo,
	podRepo repos.PodRepo,
	contactRepo repos.ContactInfoRepo,
	minScore float64,
	poolLimit int,
) SignalService {
	serviceLog := log.With("service", "SignalService")
	return &signalService{
		db:          db,
		log:         serviceLog,
		profileRepo: profileRepo,
		signalRepo:  signalRepo,
		podRepo:     podRepo,
		contactRepo: contactRepo,
		minScore:    minScore,
		clusterSize: matching.DefaultClusterSize,
		poolLimit:   poolLimit,
		now:         func() time.Time { return time.Now().UTC() },
		locks:       keyedLocks{locks: map[uuid.UUID]*sync.Mutex{}},
	}
}

// keyedLocks serializes lifecycle operations per entity ID. Entries are
// few and small; they are not reclaimed.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func (kl *keyedLocks) acquire(id uuid.UUID) *sync.Mutex {
	kl.mu.Lock()
	lock, ok := kl.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		kl.locks[id] = lock
	}
	kl.mu.Unlock()
	lock.Lock()
	return lock
}

// isExpired is the single expiry check used at every read site. Expiry is
// lazy: stale records are treated as absent, never rewritten.
func (ss *signalService) isExpired(expiresAt time.Time) bool {
	return ss.now().After(expiresAt)
}

// CheckForSignal is the main discovery entry point. Priority order:
// active pod, then pending signal, then a fresh cluster search.
func (ss *signalService) CheckForSignal(ctx context.Context, userID uuid.UUID) (*SignalCheckResult, error) {
	profile, err := ss.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !profile.Complete() {
		return nil, fmt.Errorf("complete your profile before discovering signals: %w", ErrValidation)
	}

	pod, err := ss.podRepo.GetLatestForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pod: %w", err)
	}
	if pod != nil && !ss.isExpired(pod.ExpiresAt) {
		return ss.podResult(ctx, pod)
	}

	signal, err := ss.signalRepo.GetPendingForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load signal: %w", err)
	}
	if signal != nil && !ss.isExpired(signal.ExpiresAt) {
		return ss.signalResult(ctx, StatusHasSignal, signal)
	}

	// Serialize cluster creation per requester so two concurrent
	// discovery calls cannot create duplicate signals.
	lock := ss.locks.acquire(userID)
	defer lock.Unlock()

	signal, err = ss.signalRepo.GetPendingForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load signal: %w", err)
	}
	if signal != nil && !ss.isExpired(signal.ExpiresAt) {
		return ss.signalResult(ctx, StatusHasSignal, signal)
	}

	pool, err := ss.availableProfiles(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	cluster := matching.FindSignalCluster(userID, pool, ss.minScore, ss.clusterSize)
	if len(cluster) == 0 {
		return &SignalCheckResult{Status: StatusNoMatch}, nil
	}

	now := ss.now()
	newSignal := &types.Signal{
		ID:              uuid.New(),
		CreatorID:       userID,
		TargetUserIDs:   cluster,
		AcceptedUserIDs: []uuid.UUID{},
		Status:          types.SignalStatusPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(SignalTTL),
	}
	if _, err := ss.signalRepo.Create(ctx, nil, newSignal); err != nil {
		return nil, fmt.Errorf("failed to create signal: %w", err)
	}
	ss.log.Info("Created new signal", "signal_id", newSignal.ID, "creator_id", userID, "targets", len(cluster))

	return ss.signalResult(ctx, StatusNewSignal, newSignal)
}

// AcceptSignal records an acceptance and, when the last target accepts,
// atomically promotes the signal into a pod. The per-signal lock plus the
// status-conditioned repo update close the read-modify-write race between
// concurrent acceptances.
func (ss *signalService) AcceptSignal(ctx context.Context, userID, signalID uuid.UUID) (*SignalCheckResult, error) {
	lock := ss.locks.acquire(signalID)
	defer lock.Unlock()

	var result *SignalCheckResult
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		signal, err := ss.signalRepo.GetByID(ctx, tx, signalID)
		if err != nil {
			return fmt.Errorf("failed to load signal: %w", err)
		}
		if signal == nil {
			return fmt.Errorf("signal not found: %w", ErrNotFound)
		}
		if !signal.Targets(userID) {
			return fmt.Errorf("you are not part of this signal: %w", ErrValidation)
		}
		if ss.isExpired(signal.ExpiresAt) {
			return fmt.Errorf("this signal has expired: %w", ErrConflict)
		}
		if signal.Status == types.SignalStatusAccepted {
			return fmt.Errorf("this signal has already been fully accepted: %w", ErrConflict)
		}

		alreadyAccepted := false
		for _, id := range signal.AcceptedUserIDs {
			if id == userID {
				alreadyAccepted = true
				break
			}
		}
		if !alreadyAccepted {
			signal.AcceptedUserIDs = append(signal.AcceptedUserIDs, userID)
		}
		promote := signal.FullyAccepted()
		if promote {
			signal.Status = types.SignalStatusAccepted
		}

		if err := ss.signalRepo.UpdateAcceptance(ctx, tx, signal); err != nil {
			if errors.Is(err, repos.ErrStaleUpdate) {
				return fmt.Errorf("signal changed, retry acceptance: %w", ErrRetryConflict)
			}
			return fmt.Errorf("failed to record acceptance: %w", err)
		}

		if promote {
			now := ss.now()
			pod := &types.Pod{
				ID:        uuid.New(),
				Members:   signal.TargetUserIDs,
				SignalID:  signal.ID,
				Revealed:  false,
				CreatedAt: now,
				ExpiresAt: now.Add(PodTTL),
			}
			if _, err := ss.podRepo.Create(ctx, tx, pod); err != nil {
				return fmt.Errorf("failed to create pod: %w", err)
			}
			ss.log.Info("Signal fully accepted, created pod", "signal_id", signal.ID, "pod_id", pod.ID)
			result, err = ss.podResult(ctx, pod)
			return err
		}

		result, err = ss.signalResult(ctx, StatusHasSignal, signal)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RevealPod flips revealed on a pod so member previews include contact
// info from then on.
func (ss *signalService) RevealPod(ctx context.Context, userID, podID uuid.UUID) (*SignalCheckResult, error) {
	pod, err := ss.podRepo.GetByID(ctx, nil, podID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pod: %w", err)
	}
	if pod == nil {
		return nil, fmt.Errorf("pod not found: %w", ErrNotFound)
	}
	if !pod.Contains(userID) {
		return nil, fmt.Errorf("you are not part of this pod: %w", ErrValidation)
	}
	if ss.isExpired(pod.ExpiresAt) {
		return nil, fmt.Errorf("this pod has expired: %w", ErrConflict)
	}
	pod, err = ss.podRepo.Reveal(ctx, nil, podID)
	if err != nil {
		return nil, fmt.Errorf("failed to reveal pod: %w", err)
	}
	return ss.podResult(ctx, pod)
}

func (ss *signalService) UpdateContactInfo(ctx context.Context, userID uuid.UUID, input ContactInfoInput) (*types.ContactInfo, error) {
	if emptyStr(input.Instagram) && emptyStr(input.Phone) {
		return nil, fmt.Errorf("provide at least instagram or phone: %w", ErrValidation)
	}
	info, err := ss.contactRepo.Upsert(ctx, nil, userID, input.Instagram, input.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact info: %w", err)
	}
	return info, nil
}

// availableProfiles loads the bounded candidate pool for clustering and
// guarantees the requester's profile is present.
func (ss *signalService) availableProfiles(ctx context.Context, userID uuid.UUID, requester *types.Profile) (map[uuid.UUID]*types.Profile, error) {
	profiles, err := ss.profileRepo.ListComplete(ctx, nil, ss.poolLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile pool: %w", err)
	}
	pool := make(map[uuid.UUID]*types.Profile, len(profiles)+1)
	for _, p := range profiles {
		pool[p.UserID] = p
	}
	if _, ok := pool[userID]; !ok {
		pool[userID] = requester
	}
	return pool, nil
}

func (ss *signalService) podResult(ctx context.Context, pod *types.Pod) (*SignalCheckResult, error) {
	members, err := ss.memberPreviews(ctx, pod.Members, pod.Revealed)
	if err != nil {
		return nil, err
	}
	return &SignalCheckResult{
		Status:   StatusHasPod,
		Pod:      pod,
		Members:  members,
		Revealed: pod.Revealed,
	}, nil
}

func (ss *signalService) signalResult(ctx context.Context, status string, signal *types.Signal) (*SignalCheckResult, error) {
	members, err := ss.memberPreviews(ctx, signal.TargetUserIDs, false)
	if err != nil {
		return nil, err
	}
	return &SignalCheckResult{
		Status:  status,
		Signal:  signal,
		Members: members,
	}, nil
}

func (ss *signalService) memberPreviews(ctx context.Context, userIDs []uuid.UUID, includeContact bool) ([]MemberPreview, error) {
	members := make([]MemberPreview, 0, len(userIDs))
	for _, uid := range userIDs {
		profile, err := ss.profileRepo.GetByUserID(ctx, nil, uid)
		if err != nil {
			return nil, fmt.Errorf("failed to load member profile: %w", err)
		}
		member := MemberPreview{UserID: uid}
		if profile != nil {
			member.Name = profile.DisplayName
			member.Interests = profile.Interests
		}
		if includeContact {
			info, err := ss.contactRepo.GetByUserID(ctx, nil, uid)
			if err != nil {
				return nil, fmt.Errorf("failed to load member contact info: %w", err)
			}
			member.ContactInfo = info
		}
		members = append(members, member)
	}
	return members, nil
}

func emptyStr(s *string) bool {
	return s == nil || *s == ""
}
