// Package dataset enumerates and loads paired lesion images and superpixel
// segmentation masks from a directory laid out in the ISIC convention:
// lesion images as JPEG files, each with a sibling PNG mask named
// <stem>_superpixels.png. The package is a thin I/O layer; everything of
// interest happens in pkg/preprocess.
package dataset

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lesionprep/internal/models"
)

// maskSuffix replaces the image extension to form the mask filename.
const maskSuffix = "_superpixels.png"

// Dataset is an ordered, restartable view over the image/mask pairs of one
// directory. Enumeration order is the sorted order of the image filenames,
// fixed at construction. Samples are loaded fresh on every access; the
// dataset holds no decoded pixel data between calls.
type Dataset struct {
	rootDir string
	images  []string
}

// New scans rootDir for lesion images and builds the enumeration. A missing
// mask is detected at access time, not here, so a partially populated
// directory can still be iterated up to the broken pair.
func New(rootDir string) (*Dataset, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(strings.ToLower(name), ".jpg") {
			images = append(images, name)
		}
	}
	sort.Strings(images)

	if len(images) == 0 {
		return nil, fmt.Errorf("no lesion images (*.jpg) found in %s", rootDir)
	}

	return &Dataset{
		rootDir: rootDir,
		images:  images,
	}, nil
}

// Count returns the number of image/mask pairs in the enumeration.
func (d *Dataset) Count() int {
	return len(d.images)
}

// ImageName returns the image filename at position idx.
func (d *Dataset) ImageName(idx int) string {
	return d.images[idx]
}

// MaskName returns the mask filename paired with the image at position idx.
func (d *Dataset) MaskName(idx int) string {
	name := d.images[idx]
	return name[:len(name)-len(filepath.Ext(name))] + maskSuffix
}

// Sample loads and decodes the pair at position idx into a fresh spatial
// Sample: the image converted to RGB, the mask converted to greyscale.
func (d *Dataset) Sample(idx int) (models.Sample, error) {
	if idx < 0 || idx >= len(d.images) {
		return models.Sample{}, fmt.Errorf("sample index %d out of range [0, %d)", idx, len(d.images))
	}

	img, err := decodeImage(filepath.Join(d.rootDir, d.ImageName(idx)))
	if err != nil {
		return models.Sample{}, fmt.Errorf("failed to load image %s: %w", d.ImageName(idx), err)
	}

	mask, err := decodeImage(filepath.Join(d.rootDir, d.MaskName(idx)))
	if err != nil {
		return models.Sample{}, fmt.Errorf("failed to load mask %s: %w", d.MaskName(idx), err)
	}

	return models.Sample{
		Image: toRGBA(img),
		Mask:  toGray(mask),
		Index: idx,
		Name:  d.ImageName(idx),
	}, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// toRGBA forces the decoded image into RGBA form, the equivalent of an RGB
// conversion for JPEG sources that decode as YCbCr.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// toGray forces the decoded mask into single-channel greyscale form so that
// one value per pixel survives as the label.
func toGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}
