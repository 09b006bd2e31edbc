package reader

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/go-raytrace/asset"
	"github.com/achilleasa/go-raytrace/asset/texture"
	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/scene/shader"
	"github.com/achilleasa/go-raytrace/scene/shape"
	"github.com/achilleasa/go-raytrace/types"
)

type wavefrontMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// Specular color and exponent.
	Ks types.Vec3
	Ns float32

	// Emissive color and scaler.
	Ke       types.Vec3
	KeScaler float32

	// Index of refraction.
	Ni float32

	// Textures for modulating above parameters.
	KdTex   string
	KsTex   string
	KeTex   string
	BumpTex string

	// Explicit shader selection.
	Shader string

	// Relative path for textures.
	AssetRelPath *asset.Resource

	// True if this material is used by at least one face.
	Used bool
}

// Select a shader based on wavefront material properties.
func (wf *wavefrontMaterial) ShaderName() string {
	if wf.Shader != "" {
		return wf.Shader
	}

	isSpecular := wf.Ks.MaxComponent() > 0.0 || wf.KsTex != ""
	isEmissive := wf.Ke.MaxComponent() > 0.0 || wf.KeTex != ""
	switch {
	case isEmissive:
		return "color-only"
	case wf.BumpTex != "":
		return "blinn-phong-bump"
	case isSpecular:
		return "blinn-phong"
	}
	return "lambertian"
}

// Build a scene material from the wavefront material properties. Specular
// materials with an index of refraction become dielectrics while specular
// materials without one become partially reflective.
func (wf *wavefrontMaterial) toSceneMaterial(shaders *shader.Registry) (*scene.Material, error) {
	s, err := shaders.Lookup(wf.ShaderName())
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", wf.Name, err)
	}

	name := wf.Name
	if name == "" {
		name = defaultMaterialName
	}
	mat := scene.NewMaterial(name, s)

	isSpecular := wf.Ks.MaxComponent() > 0.0 || wf.KsTex != ""
	switch {
	case isSpecular && wf.Ni != 0.0:
		mat.SetIOR(wf.Ni, 1.0)
	case isSpecular:
		mat.SetReflectiveness(wf.Ks.MaxComponent())
	}

	mat.SetColor("diffuse", wf.Kd)
	mat.SetColor("specular", wf.Ks)
	if wf.Ns != 0 {
		mat.SetFloat("phong exponent", wf.Ns)
	}
	if wf.Ke.MaxComponent() > 0.0 {
		scaler := wf.KeScaler
		if scaler == 0 {
			scaler = 1
		}
		mat.SetColor("color", wf.Ke.Mul(scaler))
	}

	for propName, texFile := range map[string]string{
		"diffuse":  wf.KdTex,
		"specular": wf.KsTex,
		"color":    wf.KeTex,
		"bump map": wf.BumpTex,
	} {
		if texFile == "" {
			continue
		}
		tex, err := loadTexture(texFile, wf.AssetRelPath, scene.WrapRepeat, scene.WrapRepeat)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", wf.Name, err)
		}
		mat.SetTexture(propName, tex)
	}

	return mat, nil
}

// A set of faces from the same object that share a material.
type wavefrontGroup struct {
	material  *wavefrontMaterial
	triangles [][3]shape.Vertex
}

type wavefrontMesh struct {
	Name   string
	Groups []*wavefrontGroup
}

// Append triangles to the group that uses mat.
func (m *wavefrontMesh) appendTriangles(mat *wavefrontMaterial, triangles ...[3]shape.Vertex) {
	var group *wavefrontGroup
	for _, g := range m.Groups {
		if g.material == mat {
			group = g
			break
		}
	}
	if group == nil {
		group = &wavefrontGroup{material: mat}
		m.Groups = append(m.Groups, group)
	}
	group.triangles = append(group.triangles, triangles...)
}

func (m *wavefrontMesh) triangleCount() int {
	count := 0
	for _, g := range m.Groups {
		count += len(g.triangles)
	}
	return count
}

type wavefrontInstance struct {
	meshIndex int
	transform scene.Transform
}

type wavefrontSceneReader struct {
	logger  log.Logger
	shaders *shader.Registry

	// Parsed meshes and instances.
	meshes    []*wavefrontMesh
	instances []wavefrontInstance

	// Camera settings.
	camFov  float32
	camEye  types.Vec3
	camLook types.Vec3

	// Lighting.
	lights           []*scene.Light
	ambient          types.Vec3
	ambientIntensity float32

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *wavefrontMaterial

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new wavefront scene reader.
func newWavefrontReader(shaders *shader.Registry) *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:         log.New("wavefront scene reader"),
		shaders:        shaders,
		camFov:         defaultFovDegrees,
		camLook:        types.Vec3{0, 0, -1},
		matNameToIndex: make(map[string]int, 0),
		vertexList:     make([]types.Vec3, 0),
		normalList:     make([]types.Vec3, 0),
		uvList:         make([]types.Vec2, 0),
		errStack:       make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	// If no mesh instances are defined, create instances for each defined mesh
	if len(r.instances) == 0 {
		for meshIndex := range r.meshes {
			r.instances = append(r.instances, wavefrontInstance{
				meshIndex: meshIndex,
				transform: scene.Translation(types.Vec3{}),
			})
		}
	}

	cam := scene.NewCamera(
		scene.NewTransform(r.camEye, lookAtRotation(r.camEye, r.camLook), types.Vec3{1, 1, 1}),
		0, 0,
		types.Radians(r.camFov), defaultNear, defaultFar,
	)
	sc := scene.NewScene(cam, r.ambient, r.ambientIntensity)
	for _, light := range r.lights {
		sc.AddLight(light)
	}
	if len(r.lights) == 0 {
		r.logger.Warning("scene does not define any lights")
	}

	if err = r.buildShapes(sc); err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

// Create scene materials for the materials in use and a mesh shape for each
// material group of every instanced mesh.
func (r *wavefrontSceneReader) buildShapes(sc *scene.Scene) error {
	sceneMaterials := make(map[*wavefrontMaterial]*scene.Material)
	pruned := 0
	for _, wfMat := range r.materials {
		if !wfMat.Used {
			r.logger.Infof("skipping unused material %q", wfMat.Name)
			pruned++
			continue
		}

		mat, err := wfMat.toSceneMaterial(r.shaders)
		if err != nil {
			return err
		}
		if err = sc.AddMaterial(mat); err != nil {
			return err
		}
		sceneMaterials[wfMat] = mat
	}
	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}

	for instIndex, inst := range r.instances {
		mesh := r.meshes[inst.meshIndex]
		for _, group := range mesh.Groups {
			name := mesh.Name
			if len(mesh.Groups) > 1 {
				name = fmt.Sprintf("%s/%s", mesh.Name, sceneMaterials[group.material].Name)
			}
			if len(r.instances) > len(r.meshes) {
				name = fmt.Sprintf("%s#%d", name, instIndex)
			}

			m, err := shape.NewMesh(name, inst.transform, sceneMaterials[group.material], group.triangles)
			if err != nil {
				r.logger.Warningf("skipping mesh: %s", err)
				continue
			}
			if err = sc.AddPrimitive(m); err != nil {
				return err
			}
		}
	}

	return nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return errors.New(errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Create and select a default material for surfaces not using one.
func (r *wavefrontSceneReader) defaultMaterial() *wavefrontMaterial {
	matName := ""

	// Search for material in referenced list
	matIndex, exists := r.matNameToIndex[matName]
	if !exists {
		// Add it now
		r.materials = append(r.materials, &wavefrontMaterial{Kd: types.Vec3{0.7, 0.7, 0.7}})
		matIndex = len(r.materials) - 1
		r.matNameToIndex[matName] = matIndex
	}
	r.curMaterial = r.materials[matIndex]
	return r.curMaterial
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'usemtl'; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			// Lookup material
			matName := lineTokens[1]
			matIndex, exists := r.matNameToIndex[matName]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, matName)
			}

			// Activate material
			r.curMaterial = r.materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedMesh()
			r.meshes = append(r.meshes, &wavefrontMesh{Name: lineTokens[1]})
		case "f":
			triangles, err := r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}

			// If no object has been defined create a default one
			if len(r.meshes) == 0 {
				r.meshes = append(r.meshes, &wavefrontMesh{Name: "default"})
			}

			r.meshes[len(r.meshes)-1].appendTriangles(r.curMaterial, triangles...)
		case "camera_fov":
			r.camFov, err = parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
		case "camera_eye":
			r.camEye, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
		case "camera_look":
			r.camLook, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
		case "light":
			light, err := parseLight(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.lights = append(r.lights, light)
		case "ambient":
			if len(lineTokens) != 5 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "ambient"; expected 4 arguments: r g b intensity; got %d`, len(lineTokens)-1)
			}
			r.ambient, err = parseVec3(lineTokens)
			if err == nil {
				r.ambientIntensity, err = parseFloat32(lineTokens[3:])
			}
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
		case "instance":
			instance, err := r.parseMeshInstance(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.instances = append(r.instances, instance)
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err)
	}

	r.verifyLastParsedMesh()
	return nil
}

// Drop the last parsed mesh if it contains no primitives.
func (r *wavefrontSceneReader) verifyLastParsedMesh() {
	lastMeshIndex := len(r.meshes) - 1
	if lastMeshIndex >= 0 && r.meshes[lastMeshIndex].triangleCount() == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.meshes[lastMeshIndex].Name)
		r.meshes = r.meshes[:lastMeshIndex]
	}
}

// Parse a point light definition. Definitions use the following format:
// light pX pY pZ r g b intensity
func parseLight(lineTokens []string) (*scene.Light, error) {
	if len(lineTokens) != 8 {
		return nil, fmt.Errorf(`unsupported syntax for "light"; expected 7 arguments: pX pY pZ r g b intensity; got %d`, len(lineTokens)-1)
	}

	pos, err := parseVec3(lineTokens)
	if err != nil {
		return nil, err
	}
	color, err := parseVec3(lineTokens[3:])
	if err != nil {
		return nil, err
	}
	intensity, err := parseFloat32(lineTokens[6:])
	if err != nil {
		return nil, err
	}

	return &scene.Light{Position: pos, Color: color, Intensity: intensity}, nil
}

// Parse mesh instance definition. Definitions use the following format:
// instance mesh_name tX tY tZ rX rY rZ sX sY sZ
// where:
// - tX, tY, tZ : translation vector
// - rX, rY, rZ : rotation angles in degrees
// - sX, sY, sZ : scale
func (r *wavefrontSceneReader) parseMeshInstance(lineTokens []string) (wavefrontInstance, error) {
	if len(lineTokens) != 11 {
		return wavefrontInstance{}, fmt.Errorf(`unsupported syntax for "instance"; expected 10 arguments: mesh_name tX tY tZ rX rY rZ sX sY sZ; got %d`, len(lineTokens)-1)
	}

	// Find object by name
	meshName := lineTokens[1]
	meshIndex := -1
	for index, mesh := range r.meshes {
		if mesh.Name == meshName {
			meshIndex = index
			break
		}
	}

	if meshIndex == -1 {
		return wavefrontInstance{}, fmt.Errorf(`unknown mesh with name "%s"`, meshName)
	}

	var params [3]types.Vec3
	for index := range params {
		v, err := parseVec3(lineTokens[1+index*3:])
		if err != nil {
			return wavefrontInstance{}, err
		}
		params[index] = v
	}

	rotation := types.Vec3{
		types.Radians(params[1][0]),
		types.Radians(params[1][1]),
		types.Radians(params[1][2]),
	}
	return wavefrontInstance{
		meshIndex: meshIndex,
		transform: scene.NewTransform(params[0], rotation, params[2]),
	}, nil
}

// Parse face definition. Each face definitions consists of 3 arguments,
// one for each vertex. Each one of the vertex arguments is comprised of
// 1, 2 or 3 args separated by a slash character. The following formats are
// supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list.
//
// This method only works with triangular/quad faces and will return an error if a
// face with more than 4 vertices is encountered.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) ([][3]shape.Vertex, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]shape.Vertex
	var vOffset int
	var err error
	expIndices := 0
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg].Position = r.vertexList[vOffset]

		// Parse UV coords if specified
		if expIndices > 1 && vTokens[1] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			vertices[arg].UV = r.uvList[vOffset]
		}

		// Parse normal coords if specified. Vertices without normals
		// use the face normal.
		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			vertices[arg].Normal = r.normalList[vOffset]
		}
	}

	// If no material defined select the default. Also flag the current material
	// as being in use so we don't prune it later.
	if r.curMaterial == nil {
		r.curMaterial = r.defaultMaterial()
	}
	r.curMaterial.Used = true

	// Assemble vertices into one or two triangles depending on whether we are parsing a triangular or a quad face
	triangles := [][3]shape.Vertex{{vertices[0], vertices[1], vertices[2]}}
	if len(lineTokens) == 5 {
		triangles = append(triangles, [3]shape.Vertex{vertices[0], vertices[2], vertices[3]})
	}

	return triangles, nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *wavefrontMaterial = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			// Allocate new material and add it to library
			curMaterial = &wavefrontMaterial{
				Name:         matName,
				AssetRelPath: res,
			}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
			case "Kd", "Ks", "Ke":
				var target *types.Vec3
				switch lineTokens[0] {
				case "Kd":
					target = &curMaterial.Kd
				case "Ks":
					target = &curMaterial.Ks
				case "Ke":
					target = &curMaterial.Ke
				}

				*target, err = parseVec3(lineTokens)
			case "Ni":
				curMaterial.Ni, err = parseFloat32(lineTokens)
				if err == nil && curMaterial.Ni < 0 {
					return r.emitError(res.Path(), lineNum, "index of refraction must not be negative; got %v", curMaterial.Ni)
				}
			case "Ns":
				curMaterial.Ns, err = parseFloat32(lineTokens)
			case "KeScaler":
				curMaterial.KeScaler, err = parseFloat32(lineTokens)
			case "map_Kd", "map_Ks", "map_Ke", "map_bump", "bump":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				var target *string
				switch lineTokens[0] {
				case "map_Kd":
					target = &curMaterial.KdTex
				case "map_Ks":
					target = &curMaterial.KsTex
				case "map_Ke":
					target = &curMaterial.KeTex
				case "map_bump", "bump":
					target = &curMaterial.BumpTex
				}

				// Options preceding the filename are not supported
				*target = lineTokens[len(lineTokens)-1]
			case "shader":
				if len(lineTokens) != 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}
				curMaterial.Shader = lineTokens[1]
			}

			// Report any errors
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Load all faces from a wavefront object file ignoring materials, cameras
// and lights.
func readWavefrontTriangles(res *asset.Resource) ([][3]shape.Vertex, error) {
	r := newWavefrontReader(nil)
	if err := r.parse(res); err != nil {
		return nil, err
	}

	triangles := make([][3]shape.Vertex, 0)
	for _, mesh := range r.meshes {
		for _, group := range mesh.Groups {
			triangles = append(triangles, group.triangles...)
		}
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("%s: no faces defined", res.Path())
	}
	return triangles, nil
}

// Load a texture relative to a parent resource.
func loadTexture(file string, relTo *asset.Resource, wrapU, wrapV scene.WrapMode) (*scene.Texture, error) {
	res, err := asset.NewResource(file, relTo)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return texture.New(res, wrapU, wrapV)
}
