package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// TubeParams controls tube surface generation. Higher segment counts
// trade build cost for fidelity; tubes are built once per layout, never
// per frame, so the cost is paid at startup only.
type TubeParams struct {
	Radius     float64 // tube radius
	RadialSegs int     // vertices per ring, >= 3
	Segments   int     // rings along the curve minus one, >= 1
}

// TubeMesh is a watertight tube surface around a spline centerline, flat
// float32 arrays ready for GPU upload. Both ends are capped.
type TubeMesh struct {
	Vertices   []float32 // x,y,z per vertex
	Normals    []float32 // x,y,z per vertex
	Indices    []uint16  // triangle list
	Centerline []r3.Vec  // ring centers, first and last equal the spline endpoints
}

// VertexCount returns the number of vertices.
func (m *TubeMesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (m *TubeMesh) TriangleCount() int { return len(m.Indices) / 3 }

// BuildTube sweeps a circle of the given radius along the spline using
// parallel-transport frames, which avoids the twisting a fixed up-vector
// frame produces on vertical runs.
func BuildTube(s *Spline, p TubeParams) (*TubeMesh, error) {
	if p.Radius <= 0 {
		return nil, fmt.Errorf("geometry: tube radius must be positive, got %g", p.Radius)
	}
	if p.RadialSegs < 3 {
		return nil, fmt.Errorf("geometry: tube needs >= 3 radial segments, got %d", p.RadialSegs)
	}
	if p.Segments < 1 {
		return nil, fmt.Errorf("geometry: tube needs >= 1 segment, got %d", p.Segments)
	}

	rings := p.Segments + 1
	vertexCount := rings*p.RadialSegs + 2 // ring vertices plus two cap centers
	if vertexCount > math.MaxUint16 {
		return nil, fmt.Errorf("geometry: tube vertex count %d exceeds 16-bit index range", vertexCount)
	}

	m := &TubeMesh{
		Vertices:   make([]float32, 0, vertexCount*3),
		Normals:    make([]float32, 0, vertexCount*3),
		Centerline: make([]r3.Vec, rings),
	}

	// Parallel-transport frame: start with any normal perpendicular to
	// the first tangent, then drag it along the curve by projecting out
	// each new tangent direction.
	prevTan := unit(s.Tangent(0))
	normal := perpendicular(prevTan)

	for i := 0; i < rings; i++ {
		t := float64(i) / float64(p.Segments)
		center := s.At(t)
		m.Centerline[i] = center

		tan := unit(s.Tangent(t))
		normal = transport(normal, tan)
		binormal := r3.Cross(tan, normal)

		for j := 0; j < p.RadialSegs; j++ {
			theta := 2 * math.Pi * float64(j) / float64(p.RadialSegs)
			dir := r3.Add(
				r3.Scale(math.Cos(theta), normal),
				r3.Scale(math.Sin(theta), binormal),
			)
			v := r3.Add(center, r3.Scale(p.Radius, dir))
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(dir.X), float32(dir.Y), float32(dir.Z))
		}
		prevTan = tan
	}

	// Cap centers: vertex index rings*radialSegs is the start cap,
	// rings*radialSegs+1 the end cap.
	startCenter := m.Centerline[0]
	endCenter := m.Centerline[rings-1]
	startN := r3.Scale(-1, unit(s.Tangent(0)))
	endN := prevTan
	m.Vertices = append(m.Vertices,
		float32(startCenter.X), float32(startCenter.Y), float32(startCenter.Z),
		float32(endCenter.X), float32(endCenter.Y), float32(endCenter.Z),
	)
	m.Normals = append(m.Normals,
		float32(startN.X), float32(startN.Y), float32(startN.Z),
		float32(endN.X), float32(endN.Y), float32(endN.Z),
	)

	// Side quads, two triangles each, outward winding
	for i := 0; i < p.Segments; i++ {
		ring := i * p.RadialSegs
		next := (i + 1) * p.RadialSegs
		for j := 0; j < p.RadialSegs; j++ {
			j1 := (j + 1) % p.RadialSegs
			a := uint16(ring + j)
			b := uint16(ring + j1)
			c := uint16(next + j)
			d := uint16(next + j1)
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}

	// End cap fans
	startCap := uint16(rings * p.RadialSegs)
	endCap := startCap + 1
	lastRing := (rings - 1) * p.RadialSegs
	for j := 0; j < p.RadialSegs; j++ {
		j1 := (j + 1) % p.RadialSegs
		m.Indices = append(m.Indices, startCap, uint16(j), uint16(j1))
		m.Indices = append(m.Indices, endCap, uint16(lastRing+j1), uint16(lastRing+j))
	}

	return m, nil
}

// transport projects the previous frame normal onto the plane
// perpendicular to the new tangent and renormalizes.
func transport(normal, tan r3.Vec) r3.Vec {
	proj := r3.Sub(normal, r3.Scale(r3.Dot(normal, tan), tan))
	n := r3.Norm(proj)
	if n < 1e-12 {
		// Degenerate step (tangent flipped onto the normal); restart the frame
		return perpendicular(tan)
	}
	return r3.Scale(1/n, proj)
}

// perpendicular returns a unit vector perpendicular to v.
func perpendicular(v r3.Vec) r3.Vec {
	ref := r3.Vec{Y: 1}
	if math.Abs(v.Y) > 0.9 {
		ref = r3.Vec{X: 1}
	}
	return unit(r3.Cross(v, ref))
}

func unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{X: 1}
	}
	return r3.Scale(1/n, v)
}
