package matching

import (
	"math"

	"github.com/yungbote/orbit-backend/internal/types"
)

// Legacy 4-factor compatibility scorer. Predates MatchScore and is NOT
// what signal clustering uses; it is kept as a documented alternate for
// experimentation. MatchScore is the authoritative formula and the two
// outputs are never combined.

type factorWeights struct {
	interest    float64
	personality float64
	social      float64
	goals       float64
}

// Base weights apply when either user lacks vibe check data; boosted
// weights apply to fully decisive quiz answers. Both sum to 1.0.
var (
	weightsBase = factorWeights{interest: 0.30, personality: 0.30, social: 0.20, goals: 0.20}
	weightsVibe = factorWeights{interest: 0.25, personality: 0.40, social: 0.20, goals: 0.15}
)

var groupSizeScale = []string{
	"One-on-one",
	"Small groups (3-5)",
	"Large groups (6+)",
}

var frequencyScale = []string{
	"Rarely",
	"Monthly",
	"Bi-weekly",
	"Weekly",
	"Multiple times a week",
}

// conviction is the average deviation from neutral (0.5) across all quiz
// dimensions: 0.0 for all-neutral answers, 1.0 for all-extreme answers.
func conviction(vc *types.VibeCheck) float64 {
	total := 0.0
	for _, dim := range types.VibeCheckKeys {
		total += math.Abs(dimOrNeutral(vc.Dims, dim) - 0.5)
	}
	return total / (float64(len(types.VibeCheckKeys)) * 0.5)
}

// blendedWeights interpolates between base and vibe-check weights. When
// both users have quiz data, personality weight grows in proportion to how
// decisively they answered.
func blendedWeights(a, b *types.Profile) factorWeights {
	if !a.VibeCheck.HasData() || !b.VibeCheck.HasData() {
		return weightsBase
	}
	blend := (conviction(a.VibeCheck) + conviction(b.VibeCheck)) / 2.0
	return factorWeights{
		interest:    weightsBase.interest + blend*(weightsVibe.interest-weightsBase.interest),
		personality: weightsBase.personality + blend*(weightsVibe.personality-weightsBase.personality),
		social:      weightsBase.social + blend*(weightsVibe.social-weightsBase.social),
		goals:       weightsBase.goals + blend*(weightsVibe.goals-weightsBase.goals),
	}
}

// PersonalityScore scores personality similarity. When both vibe checks
// are present it uses all 8 quiz dimensions, otherwise the 3 basic
// sliders with nil maps treated as all-neutral.
func PersonalityScore(a, b *types.Profile) float64 {
	if a.VibeCheck.HasData() && b.VibeCheck.HasData() {
		return dimensionScore(a.VibeCheck.Dims, b.VibeCheck.Dims, types.VibeCheckKeys, maxDistanceVC)
	}
	return dimensionScore(a.Personality, b.Personality, types.PersonalityKeys, maxDistance)
}

// ordinalSimilarity returns 0-1 similarity for two ordinal values on a
// known scale. Unknown values score a neutral 0.5.
func ordinalSimilarity(valueA, valueB string, scale []string) float64 {
	idxA := indexOf(scale, valueA)
	idxB := indexOf(scale, valueB)
	if idxA < 0 || idxB < 0 {
		return 0.5
	}
	maxGap := len(scale) - 1
	if maxGap == 0 {
		return 1.0
	}
	return 1.0 - math.Abs(float64(idxA-idxB))/float64(maxGap)
}

// SocialScore averages group-size similarity, meeting-frequency
// similarity, and preferred-time overlap.
func SocialScore(a, b *types.SocialPreferences) float64 {
	if a == nil {
		a = &types.SocialPreferences{}
	}
	if b == nil {
		b = &types.SocialPreferences{}
	}
	groupSim := ordinalSimilarity(a.GroupSize, b.GroupSize, groupSizeScale)
	freqSim := ordinalSimilarity(a.MeetingFrequency, b.MeetingFrequency, frequencyScale)

	timesSim := 1.0
	if len(a.PreferredTimes) > 0 || len(b.PreferredTimes) > 0 {
		timesSim = InterestScore(a.PreferredTimes, b.PreferredTimes)
	}
	return (groupSim + freqSim + timesSim) / 3.0
}

// GoalsScore is Jaccard similarity on friendship goals. Two empty goal
// lists score 1.0: no stated goals means no conflict.
func GoalsScore(goalsA, goalsB []string) float64 {
	if len(goalsA) == 0 && len(goalsB) == 0 {
		return 1.0
	}
	return InterestScore(goalsA, goalsB)
}

// Compatibility returns the legacy 0-1 four-factor score between two
// profiles with conviction-blended weights.
func Compatibility(a, b *types.Profile) float64 {
	w := blendedWeights(a, b)
	i := InterestScore(a.Interests, b.Interests)
	p := PersonalityScore(a, b)
	s := SocialScore(a.SocialPreferences, b.SocialPreferences)
	g := GoalsScore(a.FriendshipGoals, b.FriendshipGoals)
	return w.interest*i + w.personality*p + w.social*s + w.goals*g
}

func indexOf(list []string, item string) int {
	for i, v := range list {
		if v == item {
			return i
		}
	}
	return -1
}
