package matching

import (
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/orbit-backend/internal/types"
)

const (
	// DefaultMinScore is the minimum pairwise MatchScore for cluster
	// membership.
	DefaultMinScore = 0.7
	// DefaultClusterSize is the target group size including the requester.
	DefaultClusterSize = 4
)

type scoredCandidate struct {
	id    uuid.UUID
	score float64
}

type pairKey struct {
	a, b uuid.UUID
}

// FindSignalCluster selects 3 to clusterSize mutually compatible users
// for a signal group.
//
// Greedy expansion: score the requester against every other profile in the
// pool, keep candidates at or above minScore sorted by descending score,
// seed the cluster with the requester and the best candidate, then
// repeatedly add the remaining candidate with the highest average score
// against all current members while that average stays at or above
// minScore. Ties are broken by ascending user ID so results are
// deterministic for a given pool.
//
// Returns the member IDs with the requester first, or nil when the
// requester is absent from the pool or no cluster of at least 3 forms.
func FindSignalCluster(requesterID uuid.UUID, pool map[uuid.UUID]*types.Profile, minScore float64, clusterSize int) []uuid.UUID {
	requester, ok := pool[requesterID]
	if !ok {
		return nil
	}

	var candidates []scoredCandidate
	for uid, profile := range pool {
		if uid == requesterID {
			continue
		}
		score := MatchScore(requester, profile)
		if score >= minScore {
			candidates = append(candidates, scoredCandidate{id: uid, score: score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id.String() < candidates[j].id.String()
	})

	// Pairwise score cache over {requester} ∪ candidates.
	allRelevant := make([]uuid.UUID, 0, len(candidates)+1)
	allRelevant = append(allRelevant, requesterID)
	for _, c := range candidates {
		allRelevant = append(allRelevant, c.id)
	}
	scores := make(map[pairKey]float64, len(allRelevant)*len(allRelevant))
	for i, uidA := range allRelevant {
		for _, uidB := range allRelevant[i+1:] {
			s := MatchScore(pool[uidA], pool[uidB])
			scores[pairKey{uidA, uidB}] = s
			scores[pairKey{uidB, uidA}] = s
		}
	}

	cluster := []uuid.UUID{requesterID, candidates[0].id}
	remaining := make([]uuid.UUID, 0, len(candidates)-1)
	for _, c := range candidates[1:] {
		remaining = append(remaining, c.id)
	}
	sort.Slice(remaining, func(i, j int) bool {
		return remaining[i].String() < remaining[j].String()
	})

	for len(cluster) < clusterSize && len(remaining) > 0 {
		bestIdx := -1
		bestAvg := -1.0
		for idx, cid := range remaining {
			sum := 0.0
			for _, member := range cluster {
				sum += scores[pairKey{cid, member}]
			}
			avg := sum / float64(len(cluster))
			// Strict comparison keeps the lowest ID among equal averages
			// since remaining is kept in ascending ID order.
			if avg > bestAvg {
				bestAvg = avg
				bestIdx = idx
			}
		}
		if bestIdx < 0 || bestAvg < minScore {
			break
		}
		cluster = append(cluster, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	if len(cluster) < 3 {
		return nil
	}
	return cluster
}
