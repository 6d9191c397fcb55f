package render

import (
	"math"

	"github.com/sheetcore/engine/a1"
)

// MaxHashPadding and HashPadding bound the scale-inverse viewport padding:
// padding grows as the user zooms out (more hashes fit on screen) but never
// past MaxHashPadding, keeping worst-case loaded-hash memory bounded.
const (
	MaxHashPadding = 4
	HashPadding    = 1
)

// Viewport is the renderer's current world-space window plus the scale it
// is drawn at (1.0 = 100%).
type Viewport struct {
	MinX, MinY, MaxX, MaxY float32
	Scale                  float32
}

// VisibleHashBounds is the inclusive range of hash coordinates the current
// viewport (plus padding) overlaps.
type VisibleHashBounds struct {
	MinX, MinY, MaxX, MaxY int32
}

// Contains reports whether c falls within b.
func (b VisibleHashBounds) Contains(c SpatialHashCoord) bool {
	return c.X >= b.MinX && c.X <= b.MaxX && c.Y >= b.MinY && c.Y <= b.MaxY
}

// VisibleHashBoundsFromViewport computes the padded hash-coordinate bounds
// for vp, converting world coordinates to cell coordinates via sheetOffsets
// and cell coordinates to hash coordinates via HashCoordForCell.
func VisibleHashBoundsFromViewport(vp Viewport, offsets SheetOffsets) VisibleHashBounds {
	minCol := offsets.ColumnFromX(vp.MinX)
	maxCol := offsets.ColumnFromX(vp.MaxX)
	minRow := offsets.RowFromY(vp.MinY)
	maxRow := offsets.RowFromY(vp.MaxY)

	minHash := HashCoordForCell(a1.Pos{X: minCol, Y: minRow})
	maxHash := HashCoordForCell(a1.Pos{X: maxCol, Y: maxRow})

	pad := hashPaddingFor(vp.Scale)
	return VisibleHashBounds{
		MinX: minHash.X - pad,
		MinY: minHash.Y - pad,
		MaxX: maxHash.X + pad,
		MaxY: maxHash.Y + pad,
	}
}

func hashPaddingFor(scale float32) int32 {
	if scale <= 0 {
		return MaxHashPadding
	}
	pad := int32(math.Ceil(float64(HashPadding) / float64(scale)))
	if pad > MaxHashPadding {
		return MaxHashPadding
	}
	if pad < 0 {
		return 0
	}
	return pad
}

// HashLoader tracks which hashes are currently loaded and exposes the
// lazy load/unload queries the outer scheduler drives each frame.
type HashLoader struct {
	loaded map[int64]SpatialHashCoord
}

// NewHashLoader returns an empty loader.
func NewHashLoader() *HashLoader {
	return &HashLoader{loaded: map[int64]SpatialHashCoord{}}
}

// MarkLoaded records that coord's hash is now resident.
func (l *HashLoader) MarkLoaded(coord SpatialHashCoord) {
	l.loaded[hashKey(coord)] = coord
}

// MarkUnloaded drops coord from the resident set.
func (l *HashLoader) MarkUnloaded(coord SpatialHashCoord) {
	delete(l.loaded, hashKey(coord))
}

// GetNeededHashes returns hash coordinates within bounds that are not yet
// loaded.
func (l *HashLoader) GetNeededHashes(bounds VisibleHashBounds) []SpatialHashCoord {
	var out []SpatialHashCoord
	for x := bounds.MinX; x <= bounds.MaxX; x++ {
		for y := bounds.MinY; y <= bounds.MaxY; y++ {
			c := SpatialHashCoord{X: x, Y: y}
			if _, ok := l.loaded[hashKey(c)]; !ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// GetOffscreenHashes returns loaded hash coordinates outside bounds,
// eligible for eviction by the outer scheduler.
func (l *HashLoader) GetOffscreenHashes(bounds VisibleHashBounds) []SpatialHashCoord {
	var out []SpatialHashCoord
	for _, c := range l.loaded {
		if !bounds.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}
