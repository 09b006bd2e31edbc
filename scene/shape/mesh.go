package shape

import (
	"fmt"

	"github.com/achilleasa/go-raytrace/bvh"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// A mesh vertex. A zero Normal selects the face normal of the triangle that
// references the vertex.
type Vertex struct {
	Position types.Vec3
	Normal   types.Vec3
	UV       types.Vec2
}

// A triangle mesh. Triangles are kept in model space and indexed by a
// private BVH; rays are mapped into model space before traversal.
type Mesh struct {
	base

	triangles []scene.Primitive
	tree      *bvh.Tree
	localBox  types.BBox
}

// Create a new mesh from a list of triangles. Degenerate triangles are
// skipped. An error is returned if no usable triangles remain.
func NewMesh(name string, transform scene.Transform, material *scene.Material, triangles [][3]Vertex) (*Mesh, error) {
	m := &Mesh{
		base: newBase(name, transform, material),
	}

	m.triangles = make([]scene.Primitive, 0, len(triangles))
	for _, verts := range triangles {
		tri, ok := newMeshTriangle(m, verts)
		if !ok {
			continue
		}
		if len(m.triangles) == 0 {
			m.localBox = tri.BBox()
		} else {
			m.localBox = m.localBox.Union(tri.BBox())
		}
		m.triangles = append(m.triangles, tri)
	}

	if len(m.triangles) == 0 {
		return nil, fmt.Errorf("mesh %q: no valid triangles", name)
	}

	m.tree = bvh.Build(m.triangles)
	return m, nil
}

// Get the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Get the stats for the mesh BVH.
func (m *Mesh) TreeStats() bvh.Stats {
	return m.tree.Stats()
}

func (m *Mesh) Intersects(ray types.Ray) (scene.Intersection, bool) {
	origin, dir := m.transform.ToModel(ray)
	if dir.LenSq() == 0 {
		return scene.Intersection{}, false
	}

	// A linear map preserves the hit ordering along the ray
	local, hit := m.tree.Traverse(types.NewRay(origin, dir))
	if !hit {
		return scene.Intersection{}, false
	}

	isect := m.toWorld(m, local.Position, local.Normal, local.UV)
	if local.HasTangent {
		isect = isect.WithTangent(m.transform.Matrix().TransformDirection(local.Tangent))
	}
	return isect, true
}

func (m *Mesh) BBox() types.BBox {
	return m.localBox.Transform(m.transform.Matrix())
}

func (m *Mesh) Center() types.Vec3 {
	return m.transform.Matrix().TransformPoint(m.localBox.Center)
}

// A model-space mesh triangle.
type meshTriangle struct {
	mesh    *Mesh
	verts   [3]Vertex
	normal  types.Vec3
	tangent types.Vec3
}

func newMeshTriangle(mesh *Mesh, verts [3]Vertex) (*meshTriangle, bool) {
	e1 := verts[1].Position.Sub(verts[0].Position)
	e2 := verts[2].Position.Sub(verts[0].Position)
	normal := e1.Cross(e2)
	if normal.LenSq() == 0 {
		return nil, false
	}

	tri := &meshTriangle{
		mesh:   mesh,
		verts:  verts,
		normal: normal.Normalize(),
	}

	// Align tangent with the U texture axis if the UVs allow it
	duv1 := verts[1].UV.Sub(verts[0].UV)
	duv2 := verts[2].UV.Sub(verts[0].UV)
	r := duv1[0]*duv2[1] - duv2[0]*duv1[1]
	if r > types.Epsilon || r < -types.Epsilon {
		tri.tangent = e1.Mul(duv2[1]).Sub(e2.Mul(duv1[1])).Mul(1 / r).Normalize()
	}
	if tri.tangent.LenSq() == 0 {
		tri.tangent = e1.Normalize()
	}
	return tri, true
}

func (tri *meshTriangle) Name() string {
	return tri.mesh.name
}

func (tri *meshTriangle) Material() *scene.Material {
	return tri.mesh.material
}

func (tri *meshTriangle) IsBoundable() bool {
	return true
}

func (tri *meshTriangle) Center() types.Vec3 {
	return tri.verts[0].Position.Add(tri.verts[1].Position).Add(tri.verts[2].Position).Mul(1.0 / 3.0)
}

func (tri *meshTriangle) BBox() types.BBox {
	box := types.BBoxFromPoints(tri.verts[0].Position, tri.verts[1].Position, tri.verts[2].Position)
	box.HalfExtents = types.MaxVec3(box.HalfExtents, types.Vec3{flatBBoxHalfThickness, flatBBoxHalfThickness, flatBBoxHalfThickness})
	return box
}

// Intersect a model-space ray with the triangle.
func (tri *meshTriangle) Intersects(ray types.Ray) (scene.Intersection, bool) {
	t, beta, gamma, ok := intersectTriangle(
		ray.Origin(), ray.Dir(),
		tri.verts[0].Position, tri.verts[1].Position, tri.verts[2].Position,
	)
	if !ok {
		return scene.Intersection{}, false
	}

	alpha := 1 - beta - gamma
	normal := tri.vertexNormal(0).Mul(alpha).
		Add(tri.vertexNormal(1).Mul(beta)).
		Add(tri.vertexNormal(2).Mul(gamma))
	if normal.LenSq() == 0 {
		normal = tri.normal
	}

	uv := tri.verts[0].UV.Mul(alpha).
		Add(tri.verts[1].UV.Mul(beta)).
		Add(tri.verts[2].UV.Mul(gamma))

	return scene.NewIntersection(tri, ray.At(t), normal, uv).WithTangent(tri.tangent), true
}

func (tri *meshTriangle) vertexNormal(index int) types.Vec3 {
	if n := tri.verts[index].Normal; n.LenSq() != 0 {
		return n
	}
	return tri.normal
}
