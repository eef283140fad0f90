package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"md5-bind-renderer/internal/catalog"
	"md5-bind-renderer/internal/config"
	"md5-bind-renderer/internal/filter"
	"md5-bind-renderer/internal/mathutil"
	"md5-bind-renderer/internal/md5"
	"md5-bind-renderer/internal/postprocess"
	"md5-bind-renderer/internal/raster"
	"md5-bind-renderer/internal/report"
	"md5-bind-renderer/internal/skin"
	"md5-bind-renderer/internal/texture"
)

// DefaultFillRatio is the share of the canvas the cropped model fills.
const DefaultFillRatio = 0.9

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir     string
	TexResolver   texture.Resolver
	Settings      func(name string) config.Model
	RenderSize    int
	Supersample   int
	Workers       int
	StrictNormals bool
	FillRatio     float64
	Progress      time.Duration // zero disables the progress ticker
}

// Result holds the outcome of processing one model.
type Result struct {
	Name      string
	MeshPath  string
	Image     string // relative to OutputDir
	Vertices  int
	Triangles int
	Submeshes int
	Anims     int
	Warnings  []string
	Success   bool
	Error     string
}

// Run processes all models using a worker pool.
func Run(cfg Config, models []catalog.ModelDef) []Result {
	total := len(models)
	results := make([]Result, total)
	var processed atomic.Int64
	workers := max(cfg.Workers, 1)

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Printf("  [%d/%d] %.1f models/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	modelChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range modelChan {
				results[idx] = processModel(cfg, models[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range models {
		modelChan <- i
	}
	close(modelChan)

	wg.Wait()
	close(done)

	return results
}

func processModel(cfg Config, def catalog.ModelDef) Result {
	res := Result{Name: def.Name, MeshPath: def.MeshPath, Anims: len(def.Anims)}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	model, err := md5.LoadMesh(def.MeshPath)
	if err != nil {
		return fail(err)
	}

	settings := config.Model{Yaw: 30, Pitch: -15}
	if cfg.Settings != nil {
		settings = cfg.Settings(def.Name)
	}
	buffers, err := skin.BuildBind(model, skin.Options{
		StrictNormals: cfg.StrictNormals,
		Keep:          filter.KeepFunc(settings.SkipShaders),
	})
	if err != nil {
		return fail(err)
	}
	if buffers.TriangleCount() == 0 {
		return fail(fmt.Errorf("no triangles after shader filter"))
	}
	res.Vertices = buffers.VertexCount()
	res.Triangles = buffers.TriangleCount()
	res.Submeshes = len(buffers.Ranges)

	for _, path := range def.Anims {
		anim, err := md5.LoadAnim(path)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		for _, d := range report.Compatible(model, anim) {
			res.Warnings = append(res.Warnings, filepath.Base(path)+": "+d)
		}
	}

	R := mathutil.OrbitView(settings.Yaw, settings.Pitch)
	img := raster.Render(buffers, R, cfg.TexResolver, cfg.RenderSize, cfg.Supersample)

	// Post-processing: supersample downsample, then crop and center
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	fill := cfg.FillRatio
	if fill <= 0 {
		fill = DefaultFillRatio
	}
	img = postprocess.CropAndCenter(img, cfg.RenderSize, fill)

	// Save as WebP
	res.Image = filepath.ToSlash(filepath.Join(def.Dir, def.Name+".webp"))
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(res.Image))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fail(err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fail(fmt.Errorf("WebP encode: %w", err))
	}

	res.Success = true
	return res
}
