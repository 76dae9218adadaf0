package terrain

import (
	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/world"
)

// MineralParams selects how much of each mineral lands and in what shape.
type MineralParams struct {
	Seed         uint32
	Abundance    world.ResourceAbundance
	Distribution world.MineralDistribution
}

// baseChance is the per-cell deposit probability for even distribution,
// before terrain affinity and the abundance setting.
const baseChance = 0.015

// PlaceMinerals seeds resource deposits across habitable provinces. The
// pass consumes a single stage RNG in id order, so it runs sequentially;
// parallelizing it would tie the draw sequence to scheduling.
func PlaceMinerals(provinces []world.Province, p MineralParams) {
	rng := fixmath.NewRNG(fixmath.StageSeed(p.Seed, fixmath.SaltMinerals))
	scale := p.Abundance.Scale()

	switch p.Distribution {
	case world.MineralsClustered:
		placeClusters(provinces, rng, scale, clusterEvery, 60)
	case world.MineralsStrategic:
		// Few, rich deposits: contested map objectives rather than
		// background income.
		placeClusters(provinces, rng, scale, clusterEvery*3, 90)
	default:
		placeEven(provinces, rng, scale)
	}
}

// placeEven rolls each mineral independently per cell.
func placeEven(provinces []world.Province, rng *fixmath.RNG, scale float64) {
	for i := range provinces {
		p := &provinces[i]
		if !p.IsHabitable() {
			continue
		}
		for _, m := range world.MineralTypes() {
			chance := baseChance * affinity(p.Terrain, m) * scale
			if rng.NextFloat64() < chance {
				p.SetMineral(m, rollAbundance(rng, 20, scale))
			}
		}
	}
}

// clusterEvery is the land-cell interval per cluster seed at abundance 1.
const clusterEvery = 4000

// placeClusters drops deposit centers and spreads falling abundance over
// the surrounding rings via BFS.
func placeClusters(provinces []world.Province, rng *fixmath.RNG, scale float64, every int, centerAbundance int) {
	land := make([]int32, 0, len(provinces)/2)
	for i := range provinces {
		if provinces[i].IsHabitable() {
			land = append(land, int32(i))
		}
	}
	if len(land) == 0 {
		return
	}

	clusters := int(float64(len(land)) / float64(every) * scale)
	if clusters < 1 {
		clusters = 1
	}

	for c := 0; c < clusters; c++ {
		center := land[rng.Range(0, len(land))]
		mineral := world.MineralTypes()[rng.Range(0, len(world.MineralTypes()))]
		radius := rng.Range(2, 6)
		spreadDeposit(provinces, center, mineral, centerAbundance, radius)
	}
}

// spreadDeposit BFS-expands from the center, dropping abundance per ring.
func spreadDeposit(provinces []world.Province, center int32, m world.MineralType, amount, radius int) {
	type item struct {
		id   int32
		dist int
	}
	seen := map[int32]bool{center: true}
	queue := []item{{center, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		p := &provinces[cur.id]
		if p.IsHabitable() {
			a := amount - cur.dist*amount/(radius+1)
			if a > 0 {
				existing := int(p.MineralAbundance(m))
				if a > existing {
					p.SetMineral(m, world.Abundance(a).Clamp())
				}
			}
		}
		if cur.dist >= radius {
			continue
		}
		for _, ni := range p.NeighborIndex {
			if ni < 0 || seen[ni] {
				continue
			}
			seen[ni] = true
			queue = append(queue, item{ni, cur.dist + 1})
		}
	}
}

// affinity weights deposit chance by terrain. Mountains carry ores and
// gems, forests carry coal, dry ground carries stone and gold.
func affinity(t world.TerrainType, m world.MineralType) float64 {
	switch m {
	case world.MineralIron:
		if t.IsMountain() {
			return 3.0
		}
		return 1.0
	case world.MineralCoal:
		switch t {
		case world.TerrainForest:
			return 3.0
		case world.TerrainChaparral:
			return 1.5
		}
		return 0.8
	case world.MineralStone:
		if t.IsMountain() || t == world.TerrainChaparral || t == world.TerrainDesert {
			return 2.0
		}
		return 1.0
	case world.MineralGold:
		switch {
		case t == world.TerrainDesert:
			return 2.5
		case t.IsMountain():
			return 2.0
		}
		return 0.5
	case world.MineralCopper, world.MineralTin:
		if t.IsMountain() || t == world.TerrainChaparral {
			return 2.0
		}
		return 1.0
	case world.MineralGems:
		if t.IsMountain() {
			return 1.5
		}
		return 0.2
	}
	return 1.0
}

// rollAbundance draws a deposit size in [base, 100], scaled.
func rollAbundance(rng *fixmath.RNG, base int, scale float64) world.Abundance {
	v := float64(rng.Range(base, 101)) * scale
	if v > 100 {
		v = 100
	}
	if v < 1 {
		v = 1
	}
	return world.Abundance(v)
}
