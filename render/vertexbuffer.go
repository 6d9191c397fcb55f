package render

import (
	"encoding/binary"
	"math"
)

// vertex is one MSDF glyph corner: screen position, atlas UV, and a
// straight RGBA color (no alpha blending math lives in this package — that
// is the GPU backend's job).
type vertex struct {
	x, y       float32
	u, v       float32
	r, g, b, a float32
}

// vertexBuffer accumulates glyph quads for one texture page, growing a flat
// byte buffer the same way record.RecordReader walks one: typed
// little-endian Write* helpers over a byte cursor, just inverted from
// reading a record payload to writing a draw payload.
type vertexBuffer struct {
	vertices []byte
	indices  []uint32
	count    uint32
}

func newVertexBuffer() *vertexBuffer {
	return &vertexBuffer{}
}

func (b *vertexBuffer) writeFloat32(f float32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
	b.vertices = append(b.vertices, buf[:]...)
}

func (b *vertexBuffer) writeVertex(v vertex) {
	b.writeFloat32(v.x)
	b.writeFloat32(v.y)
	b.writeFloat32(v.u)
	b.writeFloat32(v.v)
	b.writeFloat32(v.r)
	b.writeFloat32(v.g)
	b.writeFloat32(v.b)
	b.writeFloat32(v.a)
}

// appendQuad writes one glyph's four corners and the two triangles of its
// index fan.
func (b *vertexBuffer) appendQuad(g GlyphQuad, color [4]float32) {
	base := b.count
	corners := [4]vertex{
		{x: g.DstX, y: g.DstY, u: g.U0, v: g.V0},
		{x: g.DstX + g.DstW, y: g.DstY, u: g.U1, v: g.V0},
		{x: g.DstX + g.DstW, y: g.DstY + g.DstH, u: g.U1, v: g.V1},
		{x: g.DstX, y: g.DstY + g.DstH, u: g.U0, v: g.V1},
	}
	for i := range corners {
		corners[i].r, corners[i].g, corners[i].b, corners[i].a = color[0], color[1], color[2], color[3]
		b.writeVertex(corners[i])
	}
	b.indices = append(b.indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
	b.count += 4
}

// appendLine writes one native-line-topology segment's two endpoints with
// the given straight RGBA color (lines carry no texture, so u/v stay zero).
func (b *vertexBuffer) appendLine(x1, y1, x2, y2 float32, color [4]float32) {
	b.writeVertex(vertex{x: x1, y: y1, r: color[0], g: color[1], b: color[2], a: color[3]})
	b.writeVertex(vertex{x: x2, y: y2, r: color[0], g: color[1], b: color[2], a: color[3]})
	b.count += 2
}
