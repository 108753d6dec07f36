package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Config holds the parsed command line options
type Config struct {
	Output      string
	SceneType   string
	TexturePath string
	Width       int
	Height      int
	Samples     int
	MaxBounces  int
	FOV         float64 // 0 keeps the scene's field of view
	Aperture    float64 // negative keeps the scene's aperture
	Threads     int     // 0 uses every CPU
	Seed        int64
}

// defaultConfig returns the flag defaults. The lens flags default to the
// scene's own camera.
func defaultConfig() Config {
	return Config{
		SceneType:  "default",
		Width:      512,
		Height:     512,
		Samples:    10,
		MaxBounces: 10,
		FOV:        0,
		Aperture:   -1,
		Seed:       42,
	}
}

func main() {
	config := defaultConfig()
	flag.StringVar(&config.Output, "o", config.Output, "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	flag.StringVar(&config.SceneType, "scene", config.SceneType, "Built-in scene id ('default', 'earth', 'triangles'), 'json:<name>' or a .json file")
	flag.StringVar(&config.TexturePath, "texture", config.TexturePath, "Image texture for the earth scene (PNG or JPEG)")
	flag.IntVar(&config.Width, "width", config.Width, "Image width in pixels")
	flag.IntVar(&config.Height, "height", config.Height, "Image height in pixels")
	flag.IntVar(&config.Samples, "spp", config.Samples, "Samples per pixel")
	flag.IntVar(&config.MaxBounces, "bounces", config.MaxBounces, "Maximum number of bounces for a single ray")
	flag.Float64Var(&config.FOV, "fov", config.FOV, "Vertical field of view in degrees (0 keeps the scene's)")
	flag.Float64Var(&config.Aperture, "aperture", config.Aperture, "Lens aperture, 0 is fully sharp (negative keeps the scene's)")
	flag.IntVar(&config.Threads, "threads", config.Threads, "Number of render threads (0 = use all CPUs)")
	flag.Int64Var(&config.Seed, "seed", config.Seed, "Random seed of the first thread")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, renderer.NewDefaultLogger()); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
}

func showHelp() {
	fmt.Println("Go Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	scenes, err := scene.ListAllScenes("scenes")
	if err != nil {
		fmt.Printf("  (failed to list scenes: %v)\n", err)
		return
	}
	for _, group := range scenes.Groups {
		fmt.Printf("  %s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("    %-20s %s\n", info.ID, info.Description)
		}
	}
}

// run renders the configured scene and writes it as PNG
func run(ctx context.Context, config Config, logger core.Logger) error {
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", config.Width, config.Height)
	}
	if config.Samples <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", config.Samples)
	}

	threads := config.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	for _, warning := range threadWarnings(threads, config.Samples, runtime.NumCPU()) {
		logger.Printf("Warning: %s\n", warning)
	}

	s, err := createScene(config.SceneType, config.TexturePath)
	if err != nil {
		return err
	}
	camera := geometry.NewCamera(cameraConfig(s.CameraConfig, config))

	logger.Printf("Rendering %s: %dx%d, %d spp, %d bounces, %d threads, %d primitives\n",
		config.SceneType, config.Width, config.Height, config.Samples,
		config.MaxBounces, threads, s.GetPrimitiveCount())

	parallelConfig := renderer.ParallelConfig{
		Width:      config.Width,
		Height:     config.Height,
		MaxBounces: config.MaxBounces,
		Samples:    config.Samples,
		Workers:    threads,
		Seed:       config.Seed,
	}

	startTime := time.Now()
	acc, err := renderer.RenderParallel(ctx, s, camera, parallelConfig, progressLogger(logger))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	buf := make([]byte, config.Width*config.Height*4)
	acc.Resolve(buf)
	img := renderer.ToImage(buf, config.Width, config.Height)

	stats := renderer.RenderStats{
		TotalPixels:     config.Width * config.Height,
		SamplesPerPixel: config.Samples,
		Workers:         threads,
		Elapsed:         time.Since(startTime),
	}
	logger.Printf("Render completed in %v (%.0f samples/s, average luminance %.3f)\n",
		stats.Elapsed, stats.SamplesPerSecond(), renderer.CalculateAverageLuminance(img))

	filename := config.Output
	if filename == "" {
		filename = filepath.Join(createOutputDir(config.SceneType),
			fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := loaders.SavePNG(filename, img); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// createScene resolves a built-in id, "json:<name>" from the scenes
// directory, or a path to a .json scene file
func createScene(sceneType, texturePath string) (*scene.Scene, error) {
	switch {
	case sceneType == "earth" && texturePath != "":
		texture, err := loaders.LoadImageTexture(texturePath)
		if err != nil {
			return nil, fmt.Errorf("load earth texture: %w", err)
		}
		return scene.NewEarthScene(texture), nil
	case strings.HasPrefix(sceneType, "json:"):
		name := strings.TrimPrefix(sceneType, "json:")
		return loaders.LoadScene(filepath.Join("scenes", name+".json"))
	case strings.HasSuffix(sceneType, ".json"):
		return loaders.LoadScene(sceneType)
	default:
		return scene.NewBuiltinScene(sceneType)
	}
}

// createOutputDir returns output/<scene name>
func createOutputDir(sceneType string) string {
	name := strings.TrimPrefix(sceneType, "json:")
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if name == "" || name == "." {
		name = "scene"
	}
	return filepath.Join("output", name)
}

// cameraConfig applies the command line lens settings to the scene's camera
func cameraConfig(base geometry.CameraConfig, config Config) geometry.CameraConfig {
	result := base
	result.AspectRatio = float64(config.Width) / float64(config.Height)
	if config.FOV > 0 {
		result.VFov = config.FOV
	}
	if config.Aperture >= 0 {
		result.Aperture = config.Aperture
	}
	return result
}

func threadWarnings(threads, samples, cpus int) []string {
	var warnings []string
	if threads > cpus {
		warnings = append(warnings, fmt.Sprintf("using more threads (%d) than available (%d)", threads, cpus))
	}
	if threads > samples {
		warnings = append(warnings, fmt.Sprintf(
			"number of threads (%d) is larger than the number of samples per pixel (%d)", threads, samples))
	}
	return warnings
}

// progressLogger reports every 10% of completed passes
func progressLogger(logger core.Logger) renderer.ProgressFunc {
	lastDecile := 0
	return func(completed, total int) {
		decile := completed * 10 / total
		if decile > lastDecile {
			lastDecile = decile
			logger.Printf("Progress: %d/%d passes (%d%%)\n", completed, total, decile*10)
		}
	}
}
