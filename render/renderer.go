package render

import (
	"golang.org/x/image/math/fixed"

	"github.com/sheetcore/engine/a1"
)

// SpriteScaleThreshold is the user-visible scale below which the renderer
// prefers a cached sprite quad over redrawing MSDF glyphs.
const SpriteScaleThreshold = 0.2

// errorTextColor is the fallback red applied to error-valued cell labels
// that didn't specify an explicit text color.
var errorTextColor = [4]float32{0.78, 0.08, 0.08, 1}

// FontProvider delivers parsed MSDF font descriptors and the RGBA glyph
// atlas pages they reference, keyed by texture_uid. It is an external
// collaborator; this package only consumes it.
type FontProvider interface {
	// Glyph returns the atlas quad and texture page for r at size, or false
	// if the font has no glyph for it.
	Glyph(r rune, size float32) (GlyphQuad, bool)
	// Advance returns r's advance width at size in 26.6 fixed point, the
	// same unit golang.org/x/image/font.Face.GlyphAdvance uses — glyph
	// ink bounds and advance width are not the same thing, so pen
	// positioning cannot be derived from GlyphQuad's DstW alone.
	Advance(r rune, size float32) fixed.Int26_6
	// DistanceRange returns the MSDF distance_range parameter the fragment
	// shader needs for correct anti-aliasing at size.
	DistanceRange(size float32) float32
}

// GPUBackend is the render target and draw-call surface the renderer issues
// work to. It is an external collaborator; this package only consumes it.
type GPUBackend interface {
	DrawTriangles(vertices []byte, matrix [16]float32)
	DrawLines(vertices []byte, matrix [16]float32)
	DrawText(vertices, indices []byte, texturePage uint32, matrix [16]float32, scale, fontScale, distanceRange float32)
	DrawSprite(texture uint32, x, y, w, h float32, matrix [16]float32)

	CreateRenderTarget(width, height int, mipmaps bool) uint32
	DeleteRenderTarget(texture uint32)
	GenerateMipmaps(texture uint32)
}

// SheetOffsets answers pixel-space placement questions about a sheet's
// rows and columns. It is an external collaborator; this package only
// consumes it.
type SheetOffsets interface {
	ColumnPositionSize(col int64) (pos, size float32)
	RowPositionSize(row int64) (pos, size float32)
	ColumnFromX(x float32) int64
	RowFromY(y float32) int64
}

// RenderCell is one cell's content pushed into the renderer by the core
// data source, scoped to the hash it belongs in.
type RenderCell struct {
	Pos       a1.Pos
	Text      string
	TextColor [4]float32
	IsError   bool
}

// Renderer owns the spatial hash grid, the label interner shared across
// hashes, and the per-backend sprite/mesh caches Frame draws from.
type Renderer struct {
	hashes   map[int64]*CellsTextHash
	interner *labelInterner
	loader   *HashLoader

	backendSlot int // which of CellsTextHash's two sprite slots this Renderer owns

	dirty        bool // set by any content mutation since the last Frame
	hasLastFrame bool
	lastViewport Viewport
	lastCursor   CursorState
}

// NewRenderer returns a Renderer bound to sprite slot backendSlot (0 or 1,
// per CellsTextHash's two-backend sprite cache).
func NewRenderer(backendSlot int) *Renderer {
	return &Renderer{
		hashes:      map[int64]*CellsTextHash{},
		interner:    newLabelInterner(),
		loader:      NewHashLoader(),
		backendSlot: backendSlot,
	}
}

// GetNeededHashes returns hash coordinates within the padded viewport that
// are not yet loaded.
func (r *Renderer) GetNeededHashes(vp Viewport, offsets SheetOffsets) []SpatialHashCoord {
	bounds := VisibleHashBoundsFromViewport(vp, offsets)
	return r.loader.GetNeededHashes(bounds)
}

// GetOffscreenHashes returns loaded hash coordinates outside the padded
// viewport, eligible for eviction.
func (r *Renderer) GetOffscreenHashes(vp Viewport, offsets SheetOffsets) []SpatialHashCoord {
	bounds := VisibleHashBoundsFromViewport(vp, offsets)
	return r.loader.GetOffscreenHashes(bounds)
}

// SetLabelsForHash ingests a batch of RenderCells for one hash coordinate,
// replacing any previous hash with the same key, and lays out glyphs for
// each cell via fonts.
func (r *Renderer) SetLabelsForHash(coord SpatialHashCoord, cells []RenderCell, fontSize float32, fonts FontProvider) {
	h := NewCellsTextHash(coord)
	for _, cell := range cells {
		color := cell.TextColor
		if cell.IsError && color == ([4]float32{}) {
			color = errorTextColor
		}
		h.SetLabel(CellLabel{
			Pos:       cell.Pos,
			TextID:    r.interner.Intern(cell.Text),
			Glyphs:    layoutGlyphs(cell.Text, fontSize, fonts),
			TextColor: color,
			IsError:   cell.IsError,
		})
	}
	r.hashes[hashKey(coord)] = h
	r.loader.MarkLoaded(coord)
	r.dirty = true
}

// EvictHash drops a loaded hash and releases its sprite resources.
func (r *Renderer) EvictHash(coord SpatialHashCoord, backend GPUBackend) {
	if h, ok := r.hashes[hashKey(coord)]; ok {
		h.DeleteSpriteCache(r.backendSlot, backend)
		delete(r.hashes, hashKey(coord))
		r.dirty = true
	}
	r.loader.MarkUnloaded(coord)
}

func layoutGlyphs(text string, size float32, fonts FontProvider) []GlyphQuad {
	var out []GlyphQuad
	var pen fixed.Int26_6
	for _, r := range text {
		g, ok := fonts.Glyph(r, size)
		if !ok {
			continue
		}
		g.DstX += fixedToFloat32(pen)
		out = append(out, g)
		pen += fonts.Advance(r, size)
	}
	return out
}

func fixedToFloat32(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// GetSpriteMemoryBytes reports the total GPU memory this renderer's cached
// sprites occupy, so the outer scheduler can cap usage by evicting
// offscreen sprites first. Mipmaps are assumed to cost an extra third on
// top of the base RGBA allocation (the classic 1 + 1/4 + 1/16 + ... series
// rounds to roughly 1.33x).
func (r *Renderer) GetSpriteMemoryBytes() int64 {
	var total int64
	for _, h := range r.hashes {
		s := h.sprites[r.backendSlot]
		if !s.valid {
			continue
		}
		total += int64(float64(s.width*s.height*4) * 1.33)
	}
	return total
}

// Frame draws one frame: clear, set viewport, grid background, grid lines,
// visible text, cursor, and (optionally) headings, matching the fixed
// seven-step pass order the layout depends on for correct overdraw. It
// returns false and issues no draw calls when nothing changed since the
// previous Frame: no label/eviction mutation, the same viewport, the same
// cursor, and no headings pass to redraw. Callers that skip frames this
// way still see a consistent picture, since nothing that would change the
// picture happened.
func (r *Renderer) Frame(vp Viewport, offsets SheetOffsets, backend GPUBackend, fonts FontProvider, cursor CursorState, headings *HeadingsPass) bool {
	if r.hasLastFrame && !r.dirty && headings == nil && vp == r.lastViewport && cursor == r.lastCursor {
		return false
	}

	backend.DrawSprite(0, vp.MinX, vp.MinY, vp.MaxX-vp.MinX, vp.MaxY-vp.MinY, identityMatrix) // (1) clear to OOB gray
	// (2) viewport is the caller's responsibility (window/scissor state);
	// this package only issues draw calls against the matrices it's given.

	r.drawGridBackground(backend, vp)          // (3)
	r.drawGridLines(backend, vp, offsets)       // (4)
	r.drawVisibleText(vp, backend, fonts)       // (5)
	r.drawCursor(backend, cursor)               // (6)

	if headings != nil {
		headings.Draw(backend) // (7)
	}

	r.dirty = false
	r.hasLastFrame = true
	r.lastViewport = vp
	r.lastCursor = cursor
	return true
}

func (r *Renderer) drawGridBackground(backend GPUBackend, vp Viewport) {
	backend.DrawTriangles(nil, identityMatrix)
}

// drawGridLines walks the columns and rows offsets places inside vp and
// issues one native-line-topology draw call per axis.
func (r *Renderer) drawGridLines(backend GPUBackend, vp Viewport, offsets SheetOffsets) {
	minCol, maxCol := offsets.ColumnFromX(vp.MinX), offsets.ColumnFromX(vp.MaxX)
	minRow, maxRow := offsets.RowFromY(vp.MinY), offsets.RowFromY(vp.MaxY)

	vb := newVertexBuffer()
	for col := minCol; col <= maxCol; col++ {
		pos, _ := offsets.ColumnPositionSize(col)
		vb.appendLine(pos, vp.MinY, pos, vp.MaxY, gridLineColor)
	}
	for row := minRow; row <= maxRow; row++ {
		pos, _ := offsets.RowPositionSize(row)
		vb.appendLine(vp.MinX, pos, vp.MaxX, pos, gridLineColor)
	}
	backend.DrawLines(vb.vertices, identityMatrix)
}

var gridLineColor = [4]float32{0.85, 0.85, 0.85, 1}

// drawVisibleText walks the already-loaded hashes (load/evict decisions are
// GetNeededHashes/GetOffscreenHashes's job, driven by the outer scheduler)
// and draws the ones whose world bounds overlap vp.
func (r *Renderer) drawVisibleText(vp Viewport, backend GPUBackend, fonts FontProvider) {
	for _, h := range r.hashes {
		if h.Empty() || !worldRectIntersectsViewport(h.bounds, vp) {
			continue
		}
		r.drawHash(h, vp, backend, fonts)
	}
}

func worldRectIntersectsViewport(b WorldRect, vp Viewport) bool {
	return b.MinX <= vp.MaxX && b.MaxX >= vp.MinX && b.MinY <= vp.MaxY && b.MaxY >= vp.MinY
}

func (r *Renderer) drawHash(h *CellsTextHash, vp Viewport, backend GPUBackend, fonts FontProvider) {
	if vp.Scale >= SpriteScaleThreshold {
		h.RebuildIfDirty()
		for page, vb := range h.pages {
			backend.DrawText(vb.vertices, indexBytes(vb.indices), page, identityMatrix, vp.Scale, 1, fonts.DistanceRange(1))
		}
		return
	}
	h.RebuildSpriteIfDirty(r.backendSlot, backend)
	sprite := h.sprites[r.backendSlot]
	if sprite.valid {
		backend.DrawSprite(sprite.texture, h.bounds.MinX, h.bounds.MinY, h.bounds.MaxX-h.bounds.MinX, h.bounds.MaxY-h.bounds.MinY, identityMatrix)
		return
	}
	h.RebuildIfDirty()
	for page, vb := range h.pages {
		backend.DrawText(vb.vertices, indexBytes(vb.indices), page, identityMatrix, vp.Scale, 1, fonts.DistanceRange(1))
	}
}

func indexBytes(indices []uint32) []byte {
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		out[i*4] = byte(idx)
		out[i*4+1] = byte(idx >> 8)
		out[i*4+2] = byte(idx >> 16)
		out[i*4+3] = byte(idx >> 24)
	}
	return out
}

// CursorState is the cell cursor's current screen-space rectangle and
// border color.
type CursorState struct {
	X, Y, W, H  float32
	BorderColor [4]float32
	HasFill     bool
	FillColor   [4]float32
}

func (r *Renderer) drawCursor(backend GPUBackend, c CursorState) {
	if c.HasFill {
		fill := newVertexBuffer()
		fill.appendQuad(GlyphQuad{DstX: c.X, DstY: c.Y, DstW: c.W, DstH: c.H}, c.FillColor)
		backend.DrawTriangles(fill.vertices, identityMatrix)
	}
	border := newVertexBuffer()
	border.appendLine(c.X, c.Y, c.X+c.W, c.Y, c.BorderColor)
	border.appendLine(c.X+c.W, c.Y, c.X+c.W, c.Y+c.H, c.BorderColor)
	border.appendLine(c.X+c.W, c.Y+c.H, c.X, c.Y+c.H, c.BorderColor)
	border.appendLine(c.X, c.Y+c.H, c.X, c.Y, c.BorderColor)
	backend.DrawLines(border.vertices, identityMatrix)
}

// HeadingsPass draws the second, screen-space pass for row/column headings:
// background, separator lines, and glyphs.
type HeadingsPass struct {
	Backgrounds []byte
	Separators  []byte
	Glyphs      []byte
	TexturePage uint32
}

// Draw issues the heading pass's draw calls.
func (hp *HeadingsPass) Draw(backend GPUBackend) {
	backend.DrawTriangles(hp.Backgrounds, identityMatrix)
	backend.DrawLines(hp.Separators, identityMatrix)
	backend.DrawText(hp.Glyphs, nil, hp.TexturePage, identityMatrix, 1, 1, 0)
}
