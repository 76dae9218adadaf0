package world

import (
	"github.com/talgya/hexgen/internal/grid"
)

// World is the complete generated dataset. Built atomically at the end of
// generation; a new generation run replaces any prior World wholesale.
type World struct {
	Provinces []Province
	Rivers    RiverSystem
	Index     grid.SpatialIndex
	Dims      grid.MapDimensions
	Mesh      *MeshBuffer

	// Seed the world was generated from. Identical seed and settings
	// reproduce a bit-identical Provinces slice.
	Seed uint32
}

// Province returns the province with the given id, or nil.
func (w *World) Province(id ID) *Province {
	if !id.Valid() || int(id) >= len(w.Provinces) {
		return nil
	}
	return &w.Provinces[id]
}

// RiverSystem records the hydrology output. Flow accumulation is in cell
// units: every cell contributes itself, so the minimum is 1 everywhere,
// and accumulation never decreases moving downstream.
type RiverSystem struct {
	// RiverTiles are province ids whose accumulation crossed the river
	// threshold.
	RiverTiles []ID

	// DeltaTiles are river tiles adjacent to at least one ocean cell.
	DeltaTiles []ID

	// FlowAccumulation per province, indexed by id.
	FlowAccumulation []uint32

	// FlowDirection per province: the steepest-descent neighbor, or NoID
	// for local minima and ocean cells.
	FlowDirection []ID
}

// IsRiver reports whether the province is a river tile.
func (r *RiverSystem) IsRiver(id ID) bool {
	for _, t := range r.RiverTiles {
		if t == id {
			return true
		}
	}
	return false
}

// MeshBuffer holds the single vertex/index buffer pair and the packed
// per-province color texture that render the whole world in one draw call.
type MeshBuffer struct {
	// Vertices is xyz triples, grid.VerticesPerHex per province, each
	// province at fixed offset id*VerticesPerHex*3.
	Vertices []float32

	// Indices is triangle-list indices, grid.IndicesPerHex per province
	// at fixed offset id*IndicesPerHex.
	Indices []uint32

	// Texture is RGBA8, one texel per province, TexWidth*TexHeight*4
	// bytes, row-major by id.
	Texture   []uint8
	TexWidth  int
	TexHeight int
}

// VertexCount returns the number of vertices in the buffer.
func (m *MeshBuffer) VertexCount() int { return len(m.Vertices) / 3 }

// IndexCount returns the number of indices in the buffer.
func (m *MeshBuffer) IndexCount() int { return len(m.Indices) }
