package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit            bool                   `json:"hit"`
	PrimitiveIndex int                    `json:"primitiveIndex"`
	GeometryType   string                 `json:"geometryType"`
	TextureType    string                 `json:"textureType"`
	Point          [3]float64             `json:"point"`
	Normal         [3]float64             `json:"normal"`
	UV             [2]float64             `json:"uv"`
	Distance       float64                `json:"distance"`
	FrontFace      bool                   `json:"frontFace"`
	Properties     map[string]interface{} `json:"properties"`
}

// extractMaterialInfo lists the gates and texture of a material
func extractMaterialInfo(mat *material.Material, hit *material.HitRecord) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if mat == nil {
		return "none", properties
	}

	properties["metallic"] = mat.Metallic
	properties["specular"] = mat.Specular
	properties["roughness"] = mat.Roughness
	properties["emission"] = mat.Emission
	properties["transparency"] = mat.Transparency
	properties["ior"] = mat.IOR

	base := mat.Texture.Evaluate(hit.UV, hit.Point)
	properties["baseColor"] = vecArray(base)
	properties["color"] = fmt.Sprintf("#%02x%02x%02x", toHex(base.X), toHex(base.Y), toHex(base.Z))

	return mat.Texture.Kind.String(), properties
}

func toHex(c float64) int {
	return int(math.Max(0, math.Min(1, c)) * 255)
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(prim *geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch prim.Kind {
	case geometry.PrimitiveSphere:
		properties["center"] = vecArray(prim.Sphere.Center)
		properties["radius"] = prim.Sphere.Radius
	case geometry.PrimitiveTriangle:
		properties["vertices"] = [][3]float64{
			vecArray(prim.Triangle.A),
			vecArray(prim.Triangle.B),
			vecArray(prim.Triangle.C),
		}
		properties["normal"] = vecArray(prim.Triangle.Normal())
	}
	return prim.Kind.String(), properties
}

// InspectResult contains the closest hit through a pixel and what was hit
type InspectResult struct {
	Hit            bool
	HitRecord      *material.HitRecord
	PrimitiveIndex int
}

// inspectPixel casts a ray through the centre of the pixel and returns the
// first primitive hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	cameraConfig := sceneObj.CameraConfig
	cameraConfig.AspectRatio = float64(width) / float64(height)
	cameraConfig.Aperture = 0 // Sharp centre ray, no lens sampling
	camera := geometry.NewCamera(cameraConfig)

	ray := renderer.PixelRay(camera, pixelX, pixelY, width, height, nil)

	result := InspectResult{PrimitiveIndex: -1}
	closest := math.Inf(1)
	for i := range sceneObj.Primitives {
		if hit, isHit := sceneObj.Primitives[i].Hit(ray, integrator.ShadowAcneEpsilon, closest); isHit {
			closest = hit.T
			result = InspectResult{Hit: true, HitRecord: hit, PrimitiveIndex: i}
		}
	}
	return result
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = s.config.Scene
	}
	width, err := parseIntParam(query, "width", s.config.Width, minSize, maxSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}
	height, err := parseIntParam(query, "height", s.config.Height, minSize, maxSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := inspectPixel(sceneObj, width, height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, PrimitiveIndex: -1})
		return
	}

	prim := &sceneObj.Primitives[result.PrimitiveIndex]
	hit := result.HitRecord
	textureType, materialProps := extractMaterialInfo(hit.Material, hit)
	geometryType, geometryProps := extractGeometryInfo(prim)

	response := InspectResponse{
		Hit:            true,
		PrimitiveIndex: result.PrimitiveIndex,
		GeometryType:   geometryType,
		TextureType:    textureType,
		Point:          vecArray(hit.Point),
		Normal:         vecArray(hit.Normal),
		UV:             [2]float64{hit.UV.X, hit.UV.Y},
		Distance:       hit.T,
		FrontFace:      hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
	writeJSON(w, http.StatusOK, response)
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
