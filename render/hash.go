// Package render implements the spatial-hash text layout engine that turns
// a sheet's visible cells into MSDF glyph vertex buffers: cells are bucketed
// into fixed-size world-space hashes, each hash lazily rebuilds its mesh and
// sprite cache on mutation, and a Renderer drives the per-frame draw-pass
// sequence against GPUBackend/FontProvider collaborators supplied by the
// embedding application.
package render

import (
	"sort"

	"github.com/sheetcore/engine/a1"
)

// HashWidth and HashHeight are the fixed cell-count dimensions of one
// spatial hash bucket.
const (
	HashWidth  = 15
	HashHeight = 30
)

// SpatialHashCoord identifies one hash bucket in hash-space (not cell-space).
type SpatialHashCoord struct {
	X, Y int32
}

// hashKey packs a SpatialHashCoord into a single int64, matching the
// int32-pair packing record.RecordReader's callers use for compact keys.
func hashKey(c SpatialHashCoord) int64 {
	return int64(uint64(uint32(c.X))<<32 | uint64(uint32(c.Y)))
}

// HashCoordForCell maps a 1-indexed cell position to the hash bucket that
// owns it.
func HashCoordForCell(p a1.Pos) SpatialHashCoord {
	return SpatialHashCoord{
		X: int32(floorDiv(p.X-1, HashWidth)),
		Y: int32(floorDiv(p.Y-1, HashHeight)),
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CellLabel is the laid-out text content of one cell: the interned string
// plus the glyph run geometry a FontProvider produced for it.
type CellLabel struct {
	Pos       a1.Pos
	TextID    uint32 // interned label id, see labelInterner
	Glyphs    []GlyphQuad
	TextColor [4]float32
	IsError   bool
}

// GlyphQuad is one positioned glyph's MSDF quad: atlas UVs, screen-space
// rect, and the texture page it was rasterized into.
type GlyphQuad struct {
	TexturePage uint32
	DstX, DstY  float32
	DstW, DstH  float32
	U0, V0      float32
	U1, V1      float32
}

// CellsTextHash owns every CellLabel whose cell falls in one spatial hash
// bucket, plus the mesh/sprite caches derived from them. dirty and
// spriteDirty are set by any label mutation, bounds change, or offset
// change; rebuild_if_dirty and rebuild_sprite_if_dirty clear them.
type CellsTextHash struct {
	Coord SpatialHashCoord

	labels map[a1.Pos]CellLabel
	bounds WorldRect

	dirty       bool
	spriteDirty bool

	pages   map[uint32]*vertexBuffer
	sprites [2]spriteCache // one slot per GPU backend
}

// WorldRect is an axis-aligned world-space bounding box.
type WorldRect struct {
	MinX, MinY, MaxX, MaxY float32
}

type spriteCache struct {
	valid   bool
	texture uint32
	width   int
	height  int
}

// NewCellsTextHash creates an empty hash bucket at coord.
func NewCellsTextHash(coord SpatialHashCoord) *CellsTextHash {
	return &CellsTextHash{
		Coord:  coord,
		labels: map[a1.Pos]CellLabel{},
		pages:  map[uint32]*vertexBuffer{},
	}
}

// SetLabel replaces (or inserts) the label for p, marking both caches dirty.
func (h *CellsTextHash) SetLabel(l CellLabel) {
	h.labels[l.Pos] = l
	h.markDirty()
}

// RemoveLabel deletes the label for p, if any, marking both caches dirty.
func (h *CellsTextHash) RemoveLabel(p a1.Pos) {
	if _, ok := h.labels[p]; !ok {
		return
	}
	delete(h.labels, p)
	h.markDirty()
}

// UpdateBounds replaces the hash's world-space bounding box.
func (h *CellsTextHash) UpdateBounds(b WorldRect) {
	h.bounds = b
	h.markDirty()
}

func (h *CellsTextHash) markDirty() {
	h.dirty = true
	h.spriteDirty = true
}

// Empty reports whether the hash owns no labels.
func (h *CellsTextHash) Empty() bool { return len(h.labels) == 0 }

// RebuildIfDirty recomputes per-page vertex/index buffers from the union of
// the bucket's glyph meshes when dirty, clearing dirty and re-raising
// spriteDirty (a mesh change always invalidates any cached sprite).
func (h *CellsTextHash) RebuildIfDirty() {
	if !h.dirty {
		return
	}
	for page := range h.pages {
		delete(h.pages, page)
	}
	// Deterministic iteration order keeps vertex buffers reproducible across
	// rebuilds for otherwise-identical label sets.
	positions := make([]a1.Pos, 0, len(h.labels))
	for p := range h.labels {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
	for _, p := range positions {
		label := h.labels[p]
		for _, g := range label.Glyphs {
			vb := h.pages[g.TexturePage]
			if vb == nil {
				vb = newVertexBuffer()
				h.pages[g.TexturePage] = vb
			}
			vb.appendQuad(g, label.TextColor)
		}
	}
	h.dirty = false
	h.spriteDirty = true
}

// spriteTargetWidth and minSpriteDimension size the offscreen target
// RebuildSpriteIfDirty renders into.
const (
	spriteTargetWidth  = 512
	minSpriteDimension = 32
)

// RebuildSpriteIfDirty regenerates the cached sprite for backend slot idx if
// spriteDirty and the bucket is non-empty, forcing a mesh rebuild first.
func (h *CellsTextHash) RebuildSpriteIfDirty(idx int, backend GPUBackend) {
	if !h.spriteDirty || h.Empty() {
		return
	}
	h.RebuildIfDirty()
	aspect := float32(1)
	if w := h.bounds.MaxX - h.bounds.MinX; w > 0 {
		aspect = (h.bounds.MaxY - h.bounds.MinY) / w
	}
	height := int(float32(spriteTargetWidth) * aspect)
	if height < minSpriteDimension {
		height = minSpriteDimension
	}
	tex := backend.CreateRenderTarget(spriteTargetWidth, height, true)
	for _, vb := range h.pages {
		backend.DrawTriangles(vb.vertices, identityMatrix)
	}
	backend.GenerateMipmaps(tex)
	h.sprites[idx] = spriteCache{valid: true, texture: tex, width: spriteTargetWidth, height: height}
	h.spriteDirty = false
}

// DeleteSpriteCache releases the GPU sprite resource for backend slot idx.
func (h *CellsTextHash) DeleteSpriteCache(idx int, backend GPUBackend) {
	if !h.sprites[idx].valid {
		return
	}
	backend.DeleteRenderTarget(h.sprites[idx].texture)
	h.sprites[idx] = spriteCache{}
}

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
