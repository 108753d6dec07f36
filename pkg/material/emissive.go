package material

// emit ends the path with the surface color as radiance
func emit(hit *HitRecord) (ScatterResult, bool) {
	return ScatterResult{
		Attenuation: hit.Material.Texture.Evaluate(hit.UV, hit.Point),
	}, false
}
