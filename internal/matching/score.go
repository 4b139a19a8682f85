// Package matching implements the compatibility scoring and cluster
// formation engine behind signals.
//
// Scoring formula:
//
//	MatchScore = 0.40*interest + 0.60*vibe + mbti bonus, capped at 1.0
//
// Interest score is Jaccard similarity on interest lists. Vibe score is
// 1 - normalised Euclidean distance over personality dimensions, preferring
// the quiz-based vibe check (8 dims) when both profiles carry it and
// falling back to the basic sliders (3 dims). The MBTI bonus adds +0.10
// for research-backed best-friend type pairings.
//
// All functions here are pure and symmetric. Safe for concurrent use.
package matching

import (
	"math"
	"strings"

	"github.com/yungbote/orbit-backend/internal/types"
)

const (
	interestWeight = 0.40
	vibeWeight     = 0.60
)

// Max possible Euclidean distance for N unit-range dimensions = sqrt(N).
var (
	maxDistance   = math.Sqrt(float64(len(types.PersonalityKeys)))
	maxDistanceVC = math.Sqrt(float64(len(types.VibeCheckKeys)))
)

// mbtiBestFriends maps each type to its most common best-friend types,
// based on Typology Triad research (501 people, 902 best friendships).
var mbtiBestFriends = map[string][]string{
	"ISTJ": {"ISTJ", "INTP"},
	"ISFJ": {"ISFJ", "INFP"},
	"INFJ": {"INFJ", "ENFP"},
	"INTJ": {"INTJ", "INTP"},
	"ISTP": {"ISTP", "ISFP"},
	"ISFP": {"ISFP", "ISTP"},
	"INFP": {"INFP", "ISFJ"},
	"INTP": {"INTP", "ISTJ"},
	"ESTP": {"ESTP", "ESFP"},
	"ESFP": {"ESFP", "ESTP"},
	"ENFP": {"ENFP", "INFJ"},
	"ENTP": {"ENTP", "INTP"},
	"ESTJ": {"ESTJ", "ISTJ"},
	"ESFJ": {"ESFJ", "ISFJ"},
	"ENFJ": {"ENFJ", "ENFP"},
	"ENTJ": {"ENTJ", "INTJ"},
}

// InterestScore returns the Jaccard similarity |A ∩ B| / |A ∪ B| of two
// interest lists. Returns 0.0 when both are empty.
func InterestScore(interestsA, interestsB []string) float64 {
	setA := toSet(interestsA)
	setB := toSet(interestsB)
	union := len(setA)
	intersection := 0
	for item := range setB {
		if setA[item] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// VibeScore returns 1 - normalised Euclidean distance across the three
// basic personality sliders. Missing slider keys default to neutral 0.5.
// Returns 0.0 when either personality map is absent entirely.
func VibeScore(personalityA, personalityB map[string]float64) float64 {
	if len(personalityA) == 0 || len(personalityB) == 0 {
		return 0.0
	}
	return dimensionScore(personalityA, personalityB, types.PersonalityKeys, maxDistance)
}

// VibeCheckScore returns 1 - normalised Euclidean distance across the
// eight quiz dimensions. A vibe check with neither dims nor an MBTI type
// is absent and scores 0.0; once both sides carry quiz data, missing
// dimensions default to neutral 0.5 (an MBTI-only check is all-neutral).
func VibeCheckScore(vcA, vcB *types.VibeCheck) float64 {
	if !vcA.HasData() || !vcB.HasData() {
		return 0.0
	}
	return dimensionScore(vcA.Dims, vcB.Dims, types.VibeCheckKeys, maxDistanceVC)
}

func dimensionScore(a, b map[string]float64, keys []string, maxDist float64) float64 {
	squaredSum := 0.0
	for _, key := range keys {
		valA := dimOrNeutral(a, key)
		valB := dimOrNeutral(b, key)
		squaredSum += (valA - valB) * (valA - valB)
	}
	distance := math.Sqrt(squaredSum)
	return 1.0 - (distance / maxDist)
}

func dimOrNeutral(dims map[string]float64, key string) float64 {
	if v, ok := dims[key]; ok {
		return v
	}
	return 0.5
}

// MBTIBonus returns a soft compatibility bonus for two MBTI type codes.
//
//	+0.10 if B is in A's best-friend list (or vice versa)
//	+0.05 if same type (fallback, usually already covered above)
//	+0.00 otherwise, or when either type is empty
func MBTIBonus(mbtiA, mbtiB string) float64 {
	if mbtiA == "" || mbtiB == "" {
		return 0.0
	}
	mbtiA = strings.ToUpper(mbtiA)
	mbtiB = strings.ToUpper(mbtiB)

	if contains(mbtiBestFriends[mbtiA], mbtiB) || contains(mbtiBestFriends[mbtiB], mbtiA) {
		return 0.10
	}
	if mbtiA == mbtiB {
		return 0.05
	}
	return 0.0
}

// MatchScore returns the combined weighted score between two profiles:
// 40% interest + 60% vibe + MBTI bonus, capped at 1.0 and rounded to
// 4 decimal places. Rounding happens only here, never on sub-scores.
// The vibe-check branch (and with it the MBTI bonus) is taken only when
// both checks actually carry quiz data; an empty check falls back to the
// basic sliders.
func MatchScore(a, b *types.Profile) float64 {
	iScore := InterestScore(a.Interests, b.Interests)

	var vScore, bonus float64
	if a.VibeCheck.HasData() && b.VibeCheck.HasData() {
		vScore = VibeCheckScore(a.VibeCheck, b.VibeCheck)
		bonus = MBTIBonus(a.VibeCheck.MBTIType, b.VibeCheck.MBTIType)
	} else {
		vScore = VibeScore(a.Personality, b.Personality)
	}

	raw := interestWeight*iScore + vibeWeight*vScore + bonus
	return round4(math.Min(1.0, raw))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
