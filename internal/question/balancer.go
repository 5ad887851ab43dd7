package question

import "math/rand/v2"

// TierTargets splits count into easy, medium and hard targets: ceil(40%) easy,
// ceil(40%) medium and the remainder hard, clamped at zero for small counts.
func TierTargets(count int) (easy, medium, hard int) {
	if count <= 0 {
		return 0, 0, 0
	}
	// ceil(2n/5) without floating point.
	easy = (2*count + 4) / 5
	medium = (2*count + 4) / 5
	hard = max(count-easy-medium, 0)
	return easy, medium, hard
}

// Balance picks up to count questions approximating the 40/40/20 tier mix.
// Tiers that run short are backfilled from any unpicked candidate, so the
// result is min(count, len(candidates)) long and holds no candidate twice.
// backfilled is the number of picks that came from the backfill step.
func Balance(candidates []Question, count int, rng *rand.Rand) (picked []Question, backfilled int) {
	if count <= 0 || len(candidates) == 0 {
		return nil, 0
	}

	buckets := map[string][]int{}
	for i, q := range candidates {
		buckets[q.Difficulty] = append(buckets[q.Difficulty], i)
	}

	easy, medium, hard := TierTargets(count)
	taken := make([]bool, len(candidates))
	picked = make([]Question, 0, min(count, len(candidates)))

	for _, tier := range []struct {
		name   string
		target int
	}{
		{DifficultyEasy, easy},
		{DifficultyMedium, medium},
		{DifficultyHard, hard},
	} {
		idx := buckets[tier.name]
		fisherYates(idx, rng)
		for _, i := range idx[:min(tier.target, len(idx))] {
			if len(picked) == count {
				break
			}
			taken[i] = true
			picked = append(picked, candidates[i])
		}
	}

	if len(picked) < count {
		rest := make([]int, 0, len(candidates)-len(picked))
		for i := range candidates {
			if !taken[i] {
				rest = append(rest, i)
			}
		}
		fisherYates(rest, rng)
		for _, i := range rest {
			if len(picked) == count {
				break
			}
			picked = append(picked, candidates[i])
			backfilled++
		}
	}
	return picked, backfilled
}
