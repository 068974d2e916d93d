// Command photowall composes a set of photos into a single surface using
// the smart layout engine and writes the result as a PNG.
package main

import (
	"context"
	"flag"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/framelight76/photowall/asset"
	"github.com/framelight76/photowall/pkg/layout"
	"github.com/framelight76/photowall/util/log"
)

func main() {
	var (
		inputDir     = flag.String("dir", ".", "directory of input photos (jpg/png)")
		templateName = flag.String("template", "4-grid", "layout template identifier")
		width        = flag.Int("width", 1920, "surface width in pixels")
		height       = flag.Int("height", 1080, "surface height in pixels")
		seed         = flag.Int64("seed", 0, "seed for randomized layouts (0 = time-based)")
		modelDir     = flag.String("models", "models", "directory holding the facefinder cascade")
		tuningPath   = flag.String("tuning", "", "optional JSON tuning overrides")
		outPath      = flag.String("out", "photowall.png", "output PNG path")
		timeout      = flag.Duration("timeout", 30*time.Second, "overall layout deadline")
	)
	flag.Parse()

	tpl, err := layout.ParseTemplate(*templateName)
	if err != nil {
		log.Fatalf("Invalid template: %v", err)
	}

	cfg := layout.DefaultTuningConfig()
	if *tuningPath != "" {
		cfg, err = layout.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
	}

	photos, err := loadPhotos(*inputDir)
	if err != nil {
		log.Fatalf("Failed to load photos: %v", err)
	}
	if len(photos) == 0 {
		log.Fatalf("No photos found in %s", *inputDir)
	}
	log.Printf("Loaded %d photos from %s", len(photos), *inputDir)

	var detector layout.FaceDetector
	am := asset.NewManager(*modelDir)
	if cascade, err := am.GetModel("facefinder"); err != nil {
		log.Printf("Warning: face detection model unavailable, continuing without faces: %v", err)
	} else if d, err := layout.NewPigoDetector(cascade, cfg); err != nil {
		log.Printf("Warning: failed to unpack face detection model: %v", err)
	} else {
		detector = d
	}

	opts := []layout.Option{}
	if *seed != 0 {
		opts = append(opts, layout.WithSeed(*seed))
	}
	engine := layout.NewEngine(detector, cfg, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	surface, err := engine.GenerateLayout(ctx, photos, tpl, *width, *height)
	if err != nil {
		log.Fatalf("Layout failed: %v", err)
	}
	defer surface.Release()

	if err := imaging.Save(surface.Buffer.Img, *outPath); err != nil {
		log.Fatalf("Failed to save output: %v", err)
	}
	log.Printf("Wrote %s (%s, %d regions)", *outPath, tpl, len(surface.Regions))
}

// loadPhotos decodes every jpg/png in dir in name order.
func loadPhotos(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var photos []image.Image
	for _, path := range paths {
		img, err := imaging.Open(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		photos = append(photos, img)
	}
	return photos, nil
}
