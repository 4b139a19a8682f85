package matching

import (
	"math"
	"testing"

	"github.com/yungbote/orbit-backend/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestInterestScore(t *testing.T) {
	cases := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{"both empty", nil, nil, 0.0},
		{"one empty", []string{"hiking"}, nil, 0.0},
		{"identical", []string{"hiking", "chess"}, []string{"hiking", "chess"}, 1.0},
		{"disjoint", []string{"hiking"}, []string{"chess"}, 0.0},
		{"half overlap", []string{"a", "b", "c"}, []string{"b", "c", "d"}, 0.5},
		{"duplicates collapse", []string{"a", "a", "b"}, []string{"a", "b"}, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InterestScore(tc.a, tc.b)
			if !almostEqual(got, tc.want) {
				t.Errorf("InterestScore(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			reversed := InterestScore(tc.b, tc.a)
			if !almostEqual(got, reversed) {
				t.Errorf("InterestScore not symmetric: %v vs %v", got, reversed)
			}
		})
	}
}

func fullPersonality(v float64) map[string]float64 {
	dims := make(map[string]float64, len(types.PersonalityKeys))
	for _, k := range types.PersonalityKeys {
		dims[k] = v
	}
	return dims
}

func fullVibeCheck(v float64) map[string]float64 {
	dims := make(map[string]float64, len(types.VibeCheckKeys))
	for _, k := range types.VibeCheckKeys {
		dims[k] = v
	}
	return dims
}

func TestVibeScore(t *testing.T) {
	cases := []struct {
		name string
		a    map[string]float64
		b    map[string]float64
		want float64
	}{
		{"both absent", nil, nil, 0.0},
		{"one absent", fullPersonality(0.5), nil, 0.0},
		{"identical", fullPersonality(0.7), fullPersonality(0.7), 1.0},
		{"opposite extremes", fullPersonality(0.0), fullPersonality(1.0), 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := VibeScore(tc.a, tc.b)
			if !almostEqual(got, tc.want) {
				t.Errorf("VibeScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVibeScoreMissingKeyNeutral(t *testing.T) {
	// A missing slider is read as neutral 0.5, so a map with one key set
	// to 0.5 scores identically against a neutral full map.
	partial := map[string]float64{"introvert_extrovert": 0.5}
	full := fullPersonality(0.5)
	got := VibeScore(partial, full)
	if !almostEqual(got, 1.0) {
		t.Errorf("VibeScore with neutral missing keys = %v, want 1.0", got)
	}
}

func TestVibeCheckScore(t *testing.T) {
	cases := []struct {
		name string
		a    *types.VibeCheck
		b    *types.VibeCheck
		want float64
	}{
		{"both nil", nil, nil, 0.0},
		{"empty check is absent", &types.VibeCheck{Dims: map[string]float64{}}, &types.VibeCheck{Dims: fullVibeCheck(0.5)}, 0.0},
		{"identical", &types.VibeCheck{Dims: fullVibeCheck(0.3)}, &types.VibeCheck{Dims: fullVibeCheck(0.3)}, 1.0},
		{"opposite extremes", &types.VibeCheck{Dims: fullVibeCheck(0.0)}, &types.VibeCheck{Dims: fullVibeCheck(1.0)}, 0.0},
		{"mbti only scores all-neutral", &types.VibeCheck{MBTIType: "INFJ"}, &types.VibeCheck{MBTIType: "ENFP"}, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := VibeCheckScore(tc.a, tc.b)
			if !almostEqual(got, tc.want) {
				t.Errorf("VibeCheckScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMBTIBonus(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"best friend pair", "INFJ", "ENFP", 0.10},
		{"best friend reversed", "ENFP", "INFJ", 0.10},
		{"same type in own list", "ISTJ", "ISTJ", 0.10},
		{"unrelated", "ESTJ", "INFP", 0.0},
		{"lowercase input", "infj", "enfp", 0.10},
		{"one empty", "INFJ", "", 0.0},
		{"both empty", "", "", 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MBTIBonus(tc.a, tc.b)
			if !almostEqual(got, tc.want) {
				t.Errorf("MBTIBonus(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestMatchScoreWeighting(t *testing.T) {
	a := &types.Profile{
		Interests:   []string{"a", "b", "c"},
		Personality: fullPersonality(0.5),
	}
	b := &types.Profile{
		Interests:   []string{"b", "c", "d"},
		Personality: fullPersonality(0.5),
	}
	// interest 0.5, vibe 1.0 => 0.40*0.5 + 0.60*1.0 = 0.8
	got := MatchScore(a, b)
	if !almostEqual(got, 0.8) {
		t.Errorf("MatchScore = %v, want 0.8", got)
	}
	if rev := MatchScore(b, a); !almostEqual(got, rev) {
		t.Errorf("MatchScore not symmetric: %v vs %v", got, rev)
	}
}

func TestMatchScoreCappedAtOne(t *testing.T) {
	a := &types.Profile{
		Interests: []string{"hiking"},
		VibeCheck: &types.VibeCheck{Dims: fullVibeCheck(0.9), MBTIType: "INFJ"},
	}
	b := &types.Profile{
		Interests: []string{"hiking"},
		VibeCheck: &types.VibeCheck{Dims: fullVibeCheck(0.9), MBTIType: "ENFP"},
	}
	// 0.40*1.0 + 0.60*1.0 + 0.10 would exceed 1.0; must be capped.
	got := MatchScore(a, b)
	if !almostEqual(got, 1.0) {
		t.Errorf("MatchScore = %v, want capped 1.0", got)
	}
}

func TestMatchScorePrefersVibeCheck(t *testing.T) {
	// Divergent sliders, identical vibe checks: the quiz data must win.
	a := &types.Profile{
		Interests:   []string{"x"},
		Personality: fullPersonality(0.0),
		VibeCheck:   &types.VibeCheck{Dims: fullVibeCheck(0.5)},
	}
	b := &types.Profile{
		Interests:   []string{"x"},
		Personality: fullPersonality(1.0),
		VibeCheck:   &types.VibeCheck{Dims: fullVibeCheck(0.5)},
	}
	got := MatchScore(a, b)
	if !almostEqual(got, 1.0) {
		t.Errorf("MatchScore = %v, want 1.0 from vibe check path", got)
	}
}

func TestMatchScoreNoBonusWithoutVibeCheck(t *testing.T) {
	// MBTI data lives on the vibe check; with sliders only there is no
	// bonus to apply.
	a := &types.Profile{Interests: []string{"x"}, Personality: fullPersonality(0.5)}
	b := &types.Profile{Interests: []string{"x"}, Personality: fullPersonality(0.5)}
	got := MatchScore(a, b)
	if !almostEqual(got, 1.0) {
		t.Errorf("MatchScore = %v, want 1.0", got)
	}
}

func TestMatchScoreMBTIOnlyVibeCheck(t *testing.T) {
	// A check carrying only an MBTI type still selects the vibe-check
	// branch: every missing dimension reads as neutral, so identical
	// shapes score a full vibe term plus the bonus.
	a := &types.Profile{
		Interests: []string{"hiking"},
		VibeCheck: &types.VibeCheck{Dims: map[string]float64{}, MBTIType: "INFJ"},
	}
	b := &types.Profile{
		Interests: []string{"hiking"},
		VibeCheck: &types.VibeCheck{Dims: map[string]float64{}, MBTIType: "ENFP"},
	}
	got := MatchScore(a, b)
	if !almostEqual(got, 1.0) {
		t.Errorf("MatchScore = %v, want 1.0", got)
	}
}

func TestMatchScoreEmptyVibeCheckFallsBackToSliders(t *testing.T) {
	a := &types.Profile{
		Interests:   []string{"hiking"},
		Personality: fullPersonality(0.5),
		VibeCheck:   &types.VibeCheck{Dims: map[string]float64{}},
	}
	b := &types.Profile{
		Interests:   []string{"hiking"},
		Personality: fullPersonality(0.5),
		VibeCheck:   &types.VibeCheck{Dims: map[string]float64{}},
	}
	got := MatchScore(a, b)
	if !almostEqual(got, 1.0) {
		t.Errorf("MatchScore = %v, want 1.0 from slider fallback", got)
	}

	// One empty check also forces the fallback for the pair.
	b.VibeCheck = &types.VibeCheck{Dims: fullVibeCheck(0.9), MBTIType: "INFJ"}
	got = MatchScore(a, b)
	if !almostEqual(got, 1.0) {
		t.Errorf("MatchScore = %v, want 1.0 from slider fallback", got)
	}
}

func TestMatchScoreRounded(t *testing.T) {
	a := &types.Profile{
		Interests:   []string{"a", "b", "c"},
		Personality: fullPersonality(0.5),
	}
	b := &types.Profile{
		Interests:   []string{"a", "x", "y"},
		Personality: fullPersonality(0.5),
	}
	// interest 1/5 = 0.2, vibe 1.0 => 0.40*0.2 + 0.60 = 0.68
	got := MatchScore(a, b)
	if !almostEqual(got, 0.68) {
		t.Errorf("MatchScore = %v, want 0.68", got)
	}
	if got != math.Round(got*10000)/10000 {
		t.Errorf("MatchScore %v not rounded to 4 decimal places", got)
	}
}
