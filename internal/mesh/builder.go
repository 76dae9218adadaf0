// Package mesh assembles the whole world into one vertex buffer, one
// index buffer, and one per-province color texture, so rendering is a
// single draw call regardless of map size.
package mesh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/par"
	"github.com/talgya/hexgen/internal/world"
)

// ElevationScale converts normalized elevation to the mesh z axis, in the
// same world units as hex positions.
const ElevationScale = 80.0

// texWidth is the color texture row width. Height grows with province
// count; texel (id % texWidth, id / texWidth) belongs to province id.
const texWidth = 1024

// ErrEmptyWorld is returned when there are no provinces to mesh.
var ErrEmptyWorld = errors.New("mesh: empty world")

// Build constructs the mega-mesh. Each province writes grid.VerticesPerHex
// vertices at offset id*VerticesPerHex and grid.IndicesPerHex indices at
// offset id*IndicesPerHex; chunks touch disjoint ranges, so the byte
// layout is identical no matter how work is scheduled.
func Build(ctx context.Context, provinces []world.Province, rivers *world.RiverSystem, scheme ColorScheme) (*world.MeshBuffer, error) {
	n := len(provinces)
	if n == 0 {
		return nil, ErrEmptyWorld
	}
	if uint64(n)*grid.VerticesPerHex > math.MaxUint32 {
		return nil, fmt.Errorf("mesh: %d provinces overflow the 32-bit index space", n)
	}
	start := time.Now()

	texHeight := (n + texWidth - 1) / texWidth
	buf := &world.MeshBuffer{
		Vertices:  make([]float32, n*grid.VerticesPerHex*3),
		Indices:   make([]uint32, n*grid.IndicesPerHex),
		Texture:   make([]uint8, texWidth*texHeight*4),
		TexWidth:  texWidth,
		TexHeight: texHeight,
	}

	colorFn := scheme.colorFunc(rivers)

	err := par.ForEach(ctx, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			writeCell(buf, &provinces[i], colorFn)
		}
	})
	if err != nil {
		return nil, err
	}

	slog.Info("mesh assembled",
		"vertices", humanize.Comma(int64(buf.VertexCount())),
		"indices", humanize.Comma(int64(buf.IndexCount())),
		"texture", fmt.Sprintf("%dx%d", buf.TexWidth, buf.TexHeight),
		"bytes", humanize.Bytes(uint64(len(buf.Vertices)*4+len(buf.Indices)*4+len(buf.Texture))),
		"elapsed", time.Since(start))
	return buf, nil
}

// PaintTexture rewrites the color texture in place for the scheme,
// leaving geometry untouched. Used to switch overlays, or to refresh the
// texture after late province attributes land.
func PaintTexture(ctx context.Context, buf *world.MeshBuffer, provinces []world.Province, rivers *world.RiverSystem, scheme ColorScheme) error {
	if buf.TexWidth*buf.TexHeight < len(provinces) {
		return fmt.Errorf("mesh: texture %dx%d cannot hold %d provinces",
			buf.TexWidth, buf.TexHeight, len(provinces))
	}
	colorFn := scheme.colorFunc(rivers)
	return par.ForEach(ctx, len(provinces), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			r, g, b, a := colorFn(&provinces[i])
			o := i * 4
			buf.Texture[o+0] = r
			buf.Texture[o+1] = g
			buf.Texture[o+2] = b
			buf.Texture[o+3] = a
		}
	})
}

// writeCell emits one hexagon fan and its texel. Vertex 0 is the center,
// 1..6 the corners; 18 indices wind 6 counter-clockwise triangles.
func writeCell(buf *world.MeshBuffer, p *world.Province, colorFn colorFunc) {
	id := uint32(p.ID)
	z := float32(p.Elevation.Float() * ElevationScale)

	vbase := id * grid.VerticesPerHex * 3
	buf.Vertices[vbase+0] = p.X
	buf.Vertices[vbase+1] = p.Y
	buf.Vertices[vbase+2] = z
	for c := 0; c < grid.Corners; c++ {
		dx, dy := grid.CornerOffset(c, grid.HexSize)
		o := vbase + uint32(c+1)*3
		buf.Vertices[o+0] = p.X + float32(dx)
		buf.Vertices[o+1] = p.Y + float32(dy)
		buf.Vertices[o+2] = z
	}

	ibase := id * grid.IndicesPerHex
	center := id * grid.VerticesPerHex
	for t := uint32(0); t < grid.TrianglesPerHex; t++ {
		buf.Indices[ibase+t*3+0] = center
		buf.Indices[ibase+t*3+1] = center + 1 + t
		buf.Indices[ibase+t*3+2] = center + 1 + (t+1)%grid.Corners
	}

	r, g, b, a := colorFn(p)
	tbase := id * 4
	buf.Texture[tbase+0] = r
	buf.Texture[tbase+1] = g
	buf.Texture[tbase+2] = b
	buf.Texture[tbase+3] = a
}
