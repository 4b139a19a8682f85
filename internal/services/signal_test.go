package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/matching"
	"github.com/yungbote/orbit-backend/internal/repos"
	"github.com/yungbote/orbit-backend/internal/types"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*types.Profile
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.Profile) (*types.Profile, error) {
	f.profiles[profile.UserID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeProfileRepo) ListComplete(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Profile, error) {
	var result []*types.Profile
	for _, p := range f.profiles {
		if p.DisplayName != "" {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID.String() < result[j].UserID.String()
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type fakeSignalRepo struct {
	signals map[uuid.UUID]*types.Signal
	// staleOnUpdate forces UpdateAcceptance to report a lost write race.
	staleOnUpdate bool
}

func (f *fakeSignalRepo) Create(ctx context.Context, tx *gorm.DB, signal *types.Signal) (*types.Signal, error) {
	stored := *signal
	f.signals[signal.ID] = &stored
	return signal, nil
}

func (f *fakeSignalRepo) GetByID(ctx context.Context, tx *gorm.DB, signalID uuid.UUID) (*types.Signal, error) {
	stored, ok := f.signals[signalID]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeSignalRepo) GetPendingForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Signal, error) {
	var latest *types.Signal
	for _, s := range f.signals {
		if s.Status != types.SignalStatusPending || !s.Targets(userID) {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeSignalRepo) UpdateAcceptance(ctx context.Context, tx *gorm.DB, signal *types.Signal) error {
	if f.staleOnUpdate {
		return repos.ErrStaleUpdate
	}
	stored, ok := f.signals[signal.ID]
	if !ok || stored.Status != types.SignalStatusPending {
		return repos.ErrStaleUpdate
	}
	stored.AcceptedUserIDs = signal.AcceptedUserIDs
	stored.Status = signal.Status
	return nil
}

type fakePodRepo struct {
	pods map[uuid.UUID]*types.Pod
}

func (f *fakePodRepo) Create(ctx context.Context, tx *gorm.DB, pod *types.Pod) (*types.Pod, error) {
	stored := *pod
	f.pods[pod.ID] = &stored
	return pod, nil
}

func (f *fakePodRepo) GetByID(ctx context.Context, tx *gorm.DB, podID uuid.UUID) (*types.Pod, error) {
	stored, ok := f.pods[podID]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (f *fakePodRepo) GetLatestForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Pod, error) {
	var latest *types.Pod
	for _, p := range f.pods {
		if !p.Contains(userID) {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakePodRepo) Reveal(ctx context.Context, tx *gorm.DB, podID uuid.UUID) (*types.Pod, error) {
	stored, ok := f.pods[podID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	stored.Revealed = true
	copied := *stored
	return &copied, nil
}

type fakeContactRepo struct {
	infos map[uuid.UUID]*types.ContactInfo
}

func (f *fakeContactRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, instagram, phone *string) (*types.ContactInfo, error) {
	info, ok := f.infos[userID]
	if !ok {
		info = &types.ContactInfo{UserID: userID}
		f.infos[userID] = info
	}
	if instagram != nil {
		info.Instagram = instagram
	}
	if phone != nil {
		info.Phone = phone
	}
	copied := *info
	return &copied, nil
}

func (f *fakeContactRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ContactInfo, error) {
	info, ok := f.infos[userID]
	if !ok {
		return nil, nil
	}
	copied := *info
	return &copied, nil
}

type signalFixture struct {
	svc      *signalService
	profiles *fakeProfileRepo
	signals  *fakeSignalRepo
	pods     *fakePodRepo
	contacts *fakeContactRepo
	now      time.Time
}

func newSignalFixture(t *testing.T) *signalFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	profiles := &fakeProfileRepo{profiles: map[uuid.UUID]*types.Profile{}}
	signals := &fakeSignalRepo{signals: map[uuid.UUID]*types.Signal{}}
	pods := &fakePodRepo{pods: map[uuid.UUID]*types.Pod{}}
	contacts := &fakeContactRepo{infos: map[uuid.UUID]*types.ContactInfo{}}

	svc := NewSignalService(db, log, profiles, signals, pods, contacts, matching.DefaultMinScore, 200).(*signalService)
	now := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &signalFixture{
		svc:      svc,
		profiles: profiles,
		signals:  signals,
		pods:     pods,
		contacts: contacts,
		now:      now,
	}
}

func (fx *signalFixture) addProfile(name string, interests []string) uuid.UUID {
	userID := uuid.New()
	fx.profiles.profiles[userID] = &types.Profile{
		UserID:      userID,
		DisplayName: name,
		Interests:   interests,
	}
	return userID
}

func TestCheckForSignalRequiresCompleteProfile(t *testing.T) {
	fx := newSignalFixture(t)
	_, err := fx.svc.CheckForSignal(context.Background(), uuid.New())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing profile, got %v", err)
	}
}

func TestCheckForSignalReturnsActivePod(t *testing.T) {
	fx := newSignalFixture(t)
	userID := fx.addProfile("avery", []string{"hiking"})
	pod := &types.Pod{
		ID:        uuid.New(),
		Members:   []uuid.UUID{userID, uuid.New(), uuid.New()},
		SignalID:  uuid.New(),
		CreatedAt: fx.now.Add(-time.Hour),
		ExpiresAt: fx.now.Add(time.Hour),
	}
	fx.pods.pods[pod.ID] = pod

	result, err := fx.svc.CheckForSignal(context.Background(), userID)
	if err != nil {
		t.Fatalf("CheckForSignal: %v", err)
	}
	if result.Status != StatusHasPod {
		t.Errorf("status = %q, want %q", result.Status, StatusHasPod)
	}
	if result.Pod == nil || result.Pod.ID != pod.ID {
		t.Errorf("expected pod %s in result", pod.ID)
	}
	if len(result.Members) != 3 {
		t.Errorf("expected 3 member previews, got %d", len(result.Members))
	}
}

func TestCheckForSignalIgnoresExpiredPod(t *testing.T) {
	fx := newSignalFixture(t)
	userID := fx.addProfile("avery", []string{"hiking"})
	pod := &types.Pod{
		ID:        uuid.New(),
		Members:   []uuid.UUID{userID, uuid.New(), uuid.New()},
		SignalID:  uuid.New(),
		CreatedAt: fx.now.Add(-8 * 24 * time.Hour),
		ExpiresAt: fx.now.Add(-24 * time.Hour),
	}
	fx.pods.pods[pod.ID] = pod

	// Expired pod, empty candidate pool: falls through to no match.
	result, err := fx.svc.CheckForSignal(context.Background(), userID)
	if err != nil {
		t.Fatalf("CheckForSignal: %v", err)
	}
	if result.Status != StatusNoMatch {
		t.Errorf("status = %q, want %q", result.Status, StatusNoMatch)
	}
}

func TestCheckForSignalReturnsPendingSignal(t *testing.T) {
	fx := newSignalFixture(t)
	userID := fx.addProfile("avery", []string{"hiking"})
	other := fx.addProfile("blake", []string{"hiking"})
	signal := &types.Signal{
		ID:              uuid.New(),
		CreatorID:       other,
		TargetUserIDs:   []uuid.UUID{other, userID, uuid.New()},
		AcceptedUserIDs: []uuid.UUID{other},
		Status:          types.SignalStatusPending,
		CreatedAt:       fx.now.Add(-time.Hour),
		ExpiresAt:       fx.now.Add(time.Hour),
	}
	fx.signals.signals[signal.ID] = signal

	result, err := fx.svc.CheckForSignal(context.Background(), userID)
	if err != nil {
		t.Fatalf("CheckForSignal: %v", err)
	}
	if result.Status != StatusHasSignal {
		t.Errorf("status = %q, want %q", result.Status, StatusHasSignal)
	}
	if result.Signal == nil || result.Signal.ID != signal.ID {
		t.Errorf("expected signal %s in result", signal.ID)
	}
}

func TestCheckForSignalCreatesSignal(t *testing.T) {
	fx := newSignalFixture(t)
	interests := []string{"hiking", "chess"}
	requester := fx.addProfile("avery", interests)
	fx.addProfile("blake", interests)
	fx.addProfile("casey", interests)
	fx.addProfile("drew", interests)

	result, err := fx.svc.CheckForSignal(context.Background(), requester)
	if err != nil {
		t.Fatalf("CheckForSignal: %v", err)
	}
	if result.Status != StatusNewSignal {
		t.Fatalf("status = %q, want %q", result.Status, StatusNewSignal)
	}
	signal := result.Signal
	if signal == nil {
		t.Fatal("expected a signal in result")
	}
	if len(signal.TargetUserIDs) != matching.DefaultClusterSize {
		t.Errorf("expected %d targets, got %d", matching.DefaultClusterSize, len(signal.TargetUserIDs))
	}
	if signal.TargetUserIDs[0] != requester {
		t.Errorf("requester must be first target, got %s", signal.TargetUserIDs[0])
	}
	if len(signal.AcceptedUserIDs) != 0 {
		t.Errorf("new signal must start with no acceptances, got %v", signal.AcceptedUserIDs)
	}
	if signal.Status != types.SignalStatusPending {
		t.Errorf("status = %q, want pending", signal.Status)
	}
	if want := fx.now.Add(SignalTTL); !signal.ExpiresAt.Equal(want) {
		t.Errorf("expires at %v, want %v", signal.ExpiresAt, want)
	}
	if _, ok := fx.signals.signals[signal.ID]; !ok {
		t.Error("signal was not persisted")
	}
}

func TestCheckForSignalNoMatch(t *testing.T) {
	fx := newSignalFixture(t)
	requester := fx.addProfile("avery", []string{"hiking"})
	fx.addProfile("blake", []string{"pottery"})
	fx.addProfile("casey", []string{"fencing"})

	result, err := fx.svc.CheckForSignal(context.Background(), requester)
	if err != nil {
		t.Fatalf("CheckForSignal: %v", err)
	}
	if result.Status != StatusNoMatch {
		t.Errorf("status = %q, want %q", result.Status, StatusNoMatch)
	}
	if len(fx.signals.signals) != 0 {
		t.Errorf("no signal should be stored on no match, got %d", len(fx.signals.signals))
	}
}

func TestAcceptSignalNotFound(t *testing.T) {
	fx := newSignalFixture(t)
	_, err := fx.svc.AcceptSignal(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAcceptSignalNotTarget(t *testing.T) {
	fx := newSignalFixture(t)
	signal := &types.Signal{
		ID:            uuid.New(),
		CreatorID:     uuid.New(),
		TargetUserIDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
		Status:        types.SignalStatusPending,
		CreatedAt:     fx.now,
		ExpiresAt:     fx.now.Add(SignalTTL),
	}
	fx.signals.signals[signal.ID] = signal

	_, err := fx.svc.AcceptSignal(context.Background(), uuid.New(), signal.ID)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for non-target, got %v", err)
	}
}

func TestAcceptSignalExpired(t *testing.T) {
	fx := newSignalFixture(t)
	userID := fx.addProfile("avery", []string{"hiking"})
	signal := &types.Signal{
		ID:            uuid.New(),
		CreatorID:     userID,
		TargetUserIDs: []uuid.UUID{userID, uuid.New(), uuid.New()},
		Status:        types.SignalStatusPending,
		CreatedAt:     fx.now.Add(-8 * 24 * time.Hour),
		ExpiresAt:     fx.now.Add(-24 * time.Hour),
	}
	fx.signals.signals[signal.ID] = signal

	_, err := fx.svc.AcceptSignal(context.Background(), userID, signal.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for expired signal, got %v", err)
	}
}

func TestAcceptSignalIdempotent(t *testing.T) {
	fx := newSignalFixture(t)
	userID := fx.addProfile("avery", []string{"hiking"})
	signal := &types.Signal{
		ID:              uuid.New(),
		CreatorID:       userID,
		TargetUserIDs:   []uuid.UUID{userID, uuid.New(), uuid.New()},
		AcceptedUserIDs: []uuid.UUID{},
		Status:          types.SignalStatusPending,
		CreatedAt:       fx.now,
		ExpiresAt:       fx.now.Add(SignalTTL),
	}
	fx.signals.signals[signal.ID] = signal

	for i := 0; i < 2; i++ {
		result, err := fx.svc.AcceptSignal(context.Background(), userID, signal.ID)
		if err != nil {
			t.Fatalf("accept %d: %v", i, err)
		}
		if result.Status != StatusHasSignal {
			t.Errorf("accept %d: status = %q, want %q", i, result.Status, StatusHasSignal)
		}
	}
	stored := fx.signals.signals[signal.ID]
	if len(stored.AcceptedUserIDs) != 1 {
		t.Errorf("repeat acceptance must not duplicate, got %v", stored.AcceptedUserIDs)
	}
	if stored.Status != types.SignalStatusPending {
		t.Errorf("status = %q, want pending", stored.Status)
	}
}

func TestAcceptSignalPromotesToPod(t *testing.T) {
	fx := newSignalFixture(t)
	a := fx.addProfile("avery", []string{"hiking"})
	b := fx.addProfile("blake", []string{"hiking"})
	c := fx.addProfile("casey", []string{"hiking"})
	signal := &types.Signal{
		ID:              uuid.New(),
		CreatorID:       a,
		TargetUserIDs:   []uuid.UUID{a, b, c},
		AcceptedUserIDs: []uuid.UUID{a, b},
		Status:          types.SignalStatusPending,
		CreatedAt:       fx.now,
		ExpiresAt:       fx.now.Add(SignalTTL),
	}
	fx.signals.signals[signal.ID] = signal

	result, err := fx.svc.AcceptSignal(context.Background(), c, signal.ID)
	if err != nil {
		t.Fatalf("AcceptSignal: %v", err)
	}
	if result.Status != StatusHasPod {
		t.Fatalf("status = %q, want %q", result.Status, StatusHasPod)
	}
	pod := result.Pod
	if pod == nil {
		t.Fatal("expected a pod in result")
	}
	if pod.Revealed {
		t.Error("new pod must start unrevealed")
	}
	if pod.SignalID != signal.ID {
		t.Errorf("pod signal id = %s, want %s", pod.SignalID, signal.ID)
	}
	if len(pod.Members) != 3 || pod.Members[0] != a || pod.Members[1] != b || pod.Members[2] != c {
		t.Errorf("pod members = %v, want signal targets in order", pod.Members)
	}
	if want := fx.now.Add(PodTTL); !pod.ExpiresAt.Equal(want) {
		t.Errorf("pod expires at %v, want %v", pod.ExpiresAt, want)
	}
	if stored := fx.signals.signals[signal.ID]; stored.Status != types.SignalStatusAccepted {
		t.Errorf("signal status = %q, want accepted", stored.Status)
	}
	if len(fx.pods.pods) != 1 {
		t.Errorf("expected exactly one pod, got %d", len(fx.pods.pods))
	}
}

func TestAcceptSignalRetryOnStaleUpdate(t *testing.T) {
	fx := newSignalFixture(t)
	userID := fx.addProfile("avery", []string{"hiking"})
	signal := &types.Signal{
		ID:            uuid.New(),
		CreatorID:     userID,
		TargetUserIDs: []uuid.UUID{userID, uuid.New(), uuid.New()},
		Status:        types.SignalStatusPending,
		CreatedAt:     fx.now,
		ExpiresAt:     fx.now.Add(SignalTTL),
	}
	fx.signals.signals[signal.ID] = signal
	fx.signals.staleOnUpdate = true

	_, err := fx.svc.AcceptSignal(context.Background(), userID, signal.ID)
	if !errors.Is(err, ErrRetryConflict) {
		t.Fatalf("expected ErrRetryConflict, got %v", err)
	}
}

func TestRevealPodGuards(t *testing.T) {
	fx := newSignalFixture(t)
	member := fx.addProfile("avery", []string{"hiking"})
	pod := &types.Pod{
		ID:        uuid.New(),
		Members:   []uuid.UUID{member, uuid.New(), uuid.New()},
		SignalID:  uuid.New(),
		CreatedAt: fx.now,
		ExpiresAt: fx.now.Add(PodTTL),
	}
	fx.pods.pods[pod.ID] = pod

	if _, err := fx.svc.RevealPod(context.Background(), member, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown pod, got %v", err)
	}
	if _, err := fx.svc.RevealPod(context.Background(), uuid.New(), pod.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for non-member, got %v", err)
	}

	pod.ExpiresAt = fx.now.Add(-time.Hour)
	if _, err := fx.svc.RevealPod(context.Background(), member, pod.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for expired pod, got %v", err)
	}
}

func TestRevealPodIncludesContactInfo(t *testing.T) {
	fx := newSignalFixture(t)
	a := fx.addProfile("avery", []string{"hiking"})
	b := fx.addProfile("blake", []string{"hiking"})
	c := fx.addProfile("casey", []string{"hiking"})
	instagram := "@blake"
	fx.contacts.infos[b] = &types.ContactInfo{UserID: b, Instagram: &instagram}

	pod := &types.Pod{
		ID:        uuid.New(),
		Members:   []uuid.UUID{a, b, c},
		SignalID:  uuid.New(),
		CreatedAt: fx.now,
		ExpiresAt: fx.now.Add(PodTTL),
	}
	fx.pods.pods[pod.ID] = pod

	result, err := fx.svc.RevealPod(context.Background(), a, pod.ID)
	if err != nil {
		t.Fatalf("RevealPod: %v", err)
	}
	if !result.Revealed || !result.Pod.Revealed {
		t.Error("pod must be revealed in result")
	}
	var blake *MemberPreview
	for i := range result.Members {
		if result.Members[i].UserID == b {
			blake = &result.Members[i]
		}
	}
	if blake == nil {
		t.Fatal("expected blake in member previews")
	}
	if blake.ContactInfo == nil || blake.ContactInfo.Instagram == nil || *blake.ContactInfo.Instagram != instagram {
		t.Errorf("expected contact info after reveal, got %+v", blake.ContactInfo)
	}
}

func TestUpdateContactInfo(t *testing.T) {
	fx := newSignalFixture(t)
	userID := uuid.New()

	if _, err := fx.svc.UpdateContactInfo(context.Background(), userID, ContactInfoInput{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty input, got %v", err)
	}

	phone := "555-0100"
	info, err := fx.svc.UpdateContactInfo(context.Background(), userID, ContactInfoInput{Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateContactInfo: %v", err)
	}
	if info.Phone == nil || *info.Phone != phone {
		t.Errorf("phone = %v, want %q", info.Phone, phone)
	}
}
