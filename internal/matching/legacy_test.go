package matching

import (
	"testing"

	"github.com/yungbote/orbit-backend/internal/types"
)

func TestOrdinalSimilarity(t *testing.T) {
	cases := []struct {
		name  string
		a     string
		b     string
		scale []string
		want  float64
	}{
		{"same value", "Weekly", "Weekly", frequencyScale, 1.0},
		{"adjacent", "Weekly", "Bi-weekly", frequencyScale, 0.75},
		{"extremes", "Rarely", "Multiple times a week", frequencyScale, 0.0},
		{"unknown value", "Sometimes", "Weekly", frequencyScale, 0.5},
		{"group size extremes", "One-on-one", "Large groups (6+)", groupSizeScale, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ordinalSimilarity(tc.a, tc.b, tc.scale)
			if !almostEqual(got, tc.want) {
				t.Errorf("ordinalSimilarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestSocialScore(t *testing.T) {
	identical := &types.SocialPreferences{
		GroupSize:        "Small groups (3-5)",
		MeetingFrequency: "Weekly",
		PreferredTimes:   []string{"evenings"},
	}
	got := SocialScore(identical, identical)
	if !almostEqual(got, 1.0) {
		t.Errorf("SocialScore identical = %v, want 1.0", got)
	}

	// Nil preferences fall back to neutral ordinal scores and a free
	// times component.
	got = SocialScore(nil, nil)
	want := (0.5 + 0.5 + 1.0) / 3.0
	if !almostEqual(got, want) {
		t.Errorf("SocialScore(nil, nil) = %v, want %v", got, want)
	}
}

func TestGoalsScore(t *testing.T) {
	cases := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{"both empty", nil, nil, 1.0},
		{"one empty", []string{"study buddies"}, nil, 0.0},
		{"identical", []string{"study buddies"}, []string{"study buddies"}, 1.0},
		{"disjoint", []string{"study buddies"}, []string{"gym partners"}, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GoalsScore(tc.a, tc.b)
			if !almostEqual(got, tc.want) {
				t.Errorf("GoalsScore(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestConviction(t *testing.T) {
	neutral := &types.VibeCheck{Dims: fullVibeCheck(0.5)}
	if got := conviction(neutral); !almostEqual(got, 0.0) {
		t.Errorf("conviction neutral = %v, want 0.0", got)
	}
	extreme := &types.VibeCheck{Dims: fullVibeCheck(1.0)}
	if got := conviction(extreme); !almostEqual(got, 1.0) {
		t.Errorf("conviction extreme = %v, want 1.0", got)
	}
}

func TestBlendedWeights(t *testing.T) {
	plain := &types.Profile{Personality: fullPersonality(0.5)}
	w := blendedWeights(plain, plain)
	if !almostEqual(w.personality, weightsBase.personality) {
		t.Errorf("without vibe checks weights must stay at base, got %+v", w)
	}

	decisive := &types.Profile{VibeCheck: &types.VibeCheck{Dims: fullVibeCheck(1.0)}}
	w = blendedWeights(decisive, decisive)
	if !almostEqual(w.personality, weightsVibe.personality) {
		t.Errorf("fully decisive answers must reach vibe weights, got %+v", w)
	}
	sum := w.interest + w.personality + w.social + w.goals
	if !almostEqual(sum, 1.0) {
		t.Errorf("blended weights sum to %v, want 1.0", sum)
	}
}

func TestCompatibilityIdenticalProfiles(t *testing.T) {
	p := &types.Profile{
		Interests:   []string{"hiking", "chess"},
		Personality: fullPersonality(0.4),
		SocialPreferences: &types.SocialPreferences{
			GroupSize:        "Small groups (3-5)",
			MeetingFrequency: "Weekly",
			PreferredTimes:   []string{"evenings"},
		},
		FriendshipGoals: []string{"study buddies"},
	}
	got := Compatibility(p, p)
	if !almostEqual(got, 1.0) {
		t.Errorf("Compatibility identical = %v, want 1.0", got)
	}
}

func TestCompatibilitySymmetric(t *testing.T) {
	a := &types.Profile{
		Interests:       []string{"hiking", "chess"},
		Personality:     fullPersonality(0.3),
		FriendshipGoals: []string{"study buddies"},
	}
	b := &types.Profile{
		Interests:       []string{"chess", "sailing"},
		Personality:     fullPersonality(0.8),
		FriendshipGoals: []string{"gym partners"},
	}
	if ab, ba := Compatibility(a, b), Compatibility(b, a); !almostEqual(ab, ba) {
		t.Errorf("Compatibility not symmetric: %v vs %v", ab, ba)
	}
}
