package geometry

import rl "github.com/gen2brain/raylib-go/raylib"

// Upload pushes the tube mesh to the GPU and wraps it in a model.
// Requires an active raylib context; headless runs never call it.
// The returned model owns GPU buffers and must be freed with
// rl.UnloadModel.
func (m *TubeMesh) Upload() rl.Model {
	mesh := rl.Mesh{
		VertexCount:   int32(m.VertexCount()),
		TriangleCount: int32(m.TriangleCount()),
	}
	mesh.Vertices = &m.Vertices[0]
	mesh.Normals = &m.Normals[0]
	mesh.Indices = &m.Indices[0]
	rl.UploadMesh(&mesh, false)
	return rl.LoadModelFromMesh(mesh)
}
