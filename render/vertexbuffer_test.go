package render

import "testing"

func TestVertexBufferAppendQuadGrowsBuffers(t *testing.T) {
	vb := newVertexBuffer()
	vb.appendQuad(GlyphQuad{DstX: 1, DstY: 2, DstW: 3, DstH: 4}, [4]float32{1, 0, 0, 1})
	if vb.count != 4 {
		t.Errorf("count = %d, want 4", vb.count)
	}
	if len(vb.indices) != 6 {
		t.Errorf("indices len = %d, want 6", len(vb.indices))
	}
	// 4 vertices * 8 float32 fields * 4 bytes each.
	if len(vb.vertices) != 4*8*4 {
		t.Errorf("vertices len = %d, want %d", len(vb.vertices), 4*8*4)
	}
}

func TestVertexBufferSecondQuadContinuesIndexBase(t *testing.T) {
	vb := newVertexBuffer()
	vb.appendQuad(GlyphQuad{}, [4]float32{})
	vb.appendQuad(GlyphQuad{}, [4]float32{})
	if vb.indices[6] != 4 {
		t.Errorf("second quad's first index = %d, want 4", vb.indices[6])
	}
}
