package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"md5-bind-renderer/internal/batch"
	"md5-bind-renderer/internal/catalog"
	"md5-bind-renderer/internal/config"
	"md5-bind-renderer/internal/filter"
	"md5-bind-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N models for testing")
	only := flag.String("model", "", "Render only models whose name contains this string")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	modelDir := flag.String("models", "", "Model directory (default: <data>/models)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/renders)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")
	size := flag.Int("size", 0, "Output image size in pixels (default: 256)")
	strict := flag.Bool("strict", false, "Fail models with vertices outside every triangle")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		DataDir:   *dataDir,
		ModelDir:  *modelDir,
		OutputDir: *outputDir,
		Quality:   *quality,
		Workers:   *workers,
		Size:      *size,
		Strict:    *strict,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.ModelDir == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find a models directory. Use -data, -models or config.json.")
		os.Exit(1)
	}
	if err := filter.Validate(cfg.SkipShaders); err != nil {
		fmt.Fprintf(os.Stderr, "Error: skip_shaders: %v\n", err)
		os.Exit(1)
	}

	// Discover models
	models, err := catalog.Scan(cfg.ModelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning models: %v\n", err)
		os.Exit(1)
	}

	if *only != "" {
		var filtered []catalog.ModelDef
		for _, m := range models {
			if strings.Contains(strings.ToLower(m.Name), strings.ToLower(*only)) {
				filtered = append(filtered, m)
			}
		}
		models = filtered
	}

	// Limit for testing
	if *testN > 0 && *testN < len(models) {
		models = models[:*testN]
	}

	if len(models) == 0 {
		fmt.Println("No models to render.")
		os.Exit(0)
	}

	// Build texture index
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}
	fmt.Printf("MD5 bind-pose renderer → WebP%s\n", mode)
	fmt.Printf("Models: %d, Workers: %d\n", len(models), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:     cfg.OutputDir,
		TexResolver:   texCache,
		Settings:      cfg.ForModel,
		RenderSize:    cfg.RenderSize,
		Supersample:   cfg.Supersample,
		Workers:       cfg.Workers,
		StrictNormals: cfg.StrictNormals,
		Progress:      2 * time.Second,
	}

	results := batch.Run(batchCfg, models)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
		for _, w := range r.Warnings {
			fmt.Printf("  warning %s: %s\n", r.Name, w)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(models))

	if missing := texCache.Missing(); len(missing) > 0 {
		fmt.Printf("Untextured shaders: %d (first: %s)\n", len(missing), missing[0])
	}

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
