package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"lesionprep/pkg/config"
	"lesionprep/pkg/dataset"
	"lesionprep/pkg/preprocess"
	"lesionprep/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing lesion images and _superpixels.png masks")
	configPath := flag.String("config", "lesionprep.yaml", "Path to YAML configuration file")
	numWorkers := flag.Int("workers", runtime.NumCPU(), "Number of parallel preprocessing workers")
	height := flag.Int("height", 0, "Target height (overrides config when positive)")
	width := flag.Int("width", 0, "Target width (overrides config when positive)")
	previewDir := flag.String("preview-dir", "", "Directory to save PNG previews of preprocessed samples (optional)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.WithError(err).Fatal("failed to write default config")
		}
		log.WithField("path", *configPath).Info("wrote default configuration")
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// Flags override the configuration file
	if *inputDir != "" {
		cfg.Dataset.RootDir = *inputDir
	}
	if *numWorkers > 0 {
		cfg.Processing.NumWorkers = *numWorkers
	}
	if *height > 0 {
		cfg.Preprocess.TargetHeight = *height
	}
	if *width > 0 {
		cfg.Preprocess.TargetWidth = *width
	}
	if *previewDir != "" {
		cfg.Output.PreviewDir = *previewDir
	}

	if cfg.Dataset.RootDir == "" {
		flag.Usage()
		os.Exit(1)
	}
	if !cfg.Output.Verbose {
		log.SetLevel(logrus.WarnLevel)
	}

	pipeline, err := preprocess.NewPipeline(cfg.Params())
	if err != nil {
		log.WithError(err).Fatal("invalid preprocessing configuration")
	}

	ds, err := dataset.New(cfg.Dataset.RootDir)
	if err != nil {
		log.WithError(err).Fatal("failed to open dataset")
	}

	log.WithFields(logrus.Fields{
		"samples": ds.Count(),
		"workers": cfg.Processing.NumWorkers,
		"target":  formatResolution(cfg.Preprocess.TargetHeight, cfg.Preprocess.TargetWidth),
	}).Info("starting preprocessing")

	startTime := time.Now()
	runner := dataset.NewRunner(ds, pipeline, cfg.Processing.NumWorkers, log)
	results := runner.Run()

	processed, failed := 0, 0
	var previewer *visualization.Previewer
	if cfg.Output.PreviewDir != "" {
		previewer = visualization.NewPreviewer(cfg.Output.PreviewDir, cfg.Preprocess.OutputMin, cfg.Preprocess.OutputMax)
	}
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		processed++
		if previewer != nil {
			if err := previewer.SaveSample(result.Sample); err != nil {
				log.WithError(err).WithField("index", result.Index).Warn("failed to save preview")
			}
		}
	}

	log.WithFields(logrus.Fields{
		"processed": processed,
		"failed":    failed,
		"elapsed":   time.Since(startTime).Round(time.Millisecond),
	}).Info("preprocessing complete")

	if failed > 0 {
		os.Exit(2)
	}
}

func formatResolution(height, width int) string {
	return fmt.Sprintf("%dx%d", height, width)
}
