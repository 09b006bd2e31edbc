package reader

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/achilleasa/go-raytrace/asset"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/scene/shader"
	"github.com/achilleasa/go-raytrace/types"
)

// Camera defaults for scenes that omit them.
const (
	defaultFovDegrees float32 = 45
	defaultNear       float32 = 0.1
	defaultFar        float32 = 1000
)

// The name assigned to the material of faces that do not select one.
const defaultMaterialName = "default"

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from file using the built-in shaders.
func ReadScene(filename string) (*scene.Scene, error) {
	return ReadSceneWithShaders(filename, shader.Default())
}

// Read scene from file resolving material shaders through the supplied
// registry. The reader is selected based on the file extension.
func ReadSceneWithShaders(filename string, shaders *shader.Registry) (*scene.Scene, error) {
	var reader Reader
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		reader = newWavefrontReader(shaders)
	case ".yaml", ".yml":
		reader = newYamlReader(shaders)
	default:
		return nil, fmt.Errorf("readScene: unsupported file format %q", ext)
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}

// Calculate the euler angles (radians) that orient a camera at eye so it
// looks at target. Cameras look down -Z with +Y up; roll is always zero.
func lookAtRotation(eye, target types.Vec3) types.Vec3 {
	dir := target.Sub(eye).Normalize()
	if dir == (types.Vec3{}) {
		return types.Vec3{}
	}

	pitch := math.Asin(float64(types.Clamp(dir[1], -1, 1)))
	yaw := math.Atan2(float64(-dir[0]), float64(-dir[2]))
	return types.Vec3{float32(pitch), float32(yaw), 0}
}
