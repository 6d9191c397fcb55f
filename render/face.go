package render

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FaceFontProvider adapts a golang.org/x/image/font.Face into a
// FontProvider, for callers that have only a rasterized font face (no MSDF
// atlas) and are willing to trade crisp distance-field edges for a working
// default. TexturePage is always 0: a single-page, non-atlas fallback.
type FaceFontProvider struct {
	Face font.Face
}

// Glyph reports the face's advance-box bounds for r at size as a GlyphQuad.
// Real glyph bitmap extraction is the caller's job (font.Face.Glyph); this
// adapter only supplies layout geometry, which is all the renderer itself
// needs to position quads.
func (p FaceFontProvider) Glyph(r rune, size float32) (GlyphQuad, bool) {
	bounds, adv, ok := p.Face.GlyphBounds(r)
	if !ok {
		return GlyphQuad{}, false
	}
	return GlyphQuad{
		TexturePage: 0,
		DstW:        fixedToFloat32(adv),
		DstH:        fixedToFloat32(bounds.Max.Y - bounds.Min.Y),
		U0:          0, V0: 0, U1: 1, V1: 1,
	}, true
}

// Advance returns r's advance width via font.Face.GlyphAdvance.
func (p FaceFontProvider) Advance(r rune, size float32) fixed.Int26_6 {
	adv, ok := p.Face.GlyphAdvance(r)
	if !ok {
		return 0
	}
	return adv
}

// DistanceRange always returns 0: a rasterized font.Face has no MSDF
// distance field, so the fragment shader's anti-aliasing term is disabled
// for this fallback path.
func (p FaceFontProvider) DistanceRange(size float32) float32 { return 0 }
