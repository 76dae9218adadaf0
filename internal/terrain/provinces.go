// Package terrain turns a raw elevation field into a classified world:
// continent seeding, field normalization, sea level selection, the
// terrain-type ladder with coastline smoothing and rain shadow, island
// filtering, and mineral placement.
package terrain

import (
	"context"

	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/par"
	"github.com/talgya/hexgen/internal/world"
)

// BuildProvinces allocates the dense province array for the grid, fills
// positions from the spatial model, and links the neighbor graph. Ids
// equal slice indices.
func BuildProvinces(ctx context.Context, dims grid.MapDimensions) ([]world.Province, error) {
	n := dims.CellCount()
	provinces := make([]world.Province, n)

	err := par.ForEach(ctx, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			col, row := dims.CellCoords(uint32(i))
			pos := dims.Position(col, row)
			p := &provinces[i]
			p.ID = world.ID(i)
			p.Col = int32(col)
			p.Row = int32(row)
			p.X = float32(pos.X)
			p.Y = float32(pos.Y)
			p.Terrain = world.TerrainOcean
			p.Owner = world.NoID
		}
	})
	if err != nil {
		return nil, err
	}

	world.LinkNeighbors(provinces, dims)
	world.PrecomputeNeighborIndexes(provinces)
	return provinces, nil
}
