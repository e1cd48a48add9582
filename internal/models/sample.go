package models

import (
	"image"
)

// Sample is the unit of work flowing through the preprocessing pipeline:
// a lesion image paired with its superpixel-derived segmentation mask.
//
// A sample exists in one of two forms. Fresh from the dataset it carries the
// decoded spatial images (Image, Mask). After tensorization it carries the
// numeric arrays (Tensor, Labels) and the spatial fields are nil. Stages
// consume whichever form they are defined on and produce a new Sample value;
// no stage mutates the input in place.
type Sample struct {
	// Image is the RGB lesion image in spatial form. Nil after tensorization.
	Image image.Image

	// Mask is the single-channel segmentation mask in spatial form, at the
	// same resolution as Image. Nil after tensorization.
	Mask image.Image

	// Tensor is the channel-first (3, H, W) numeric form of the image.
	// Nil before tensorization.
	Tensor *Tensor

	// Labels is the (H, W) numeric form of the mask. Values are discrete
	// labels; strictly positive values mark the brain/lesion foreground.
	// Nil before tensorization.
	Labels *Plane

	// Index is the position of this sample in the dataset enumeration.
	Index int

	// Name is the basename of the source image file, when known.
	Name string
}

// Tensor is a channel-first numeric image with shape (Channels, Height, Width),
// stored as a flat array in channel-major, row-major order.
type Tensor struct {
	// Data holds Channels*Height*Width values indexed as
	// c*Height*Width + y*Width + x.
	Data []float64

	// Channels, Height and Width are the tensor dimensions.
	Channels int
	Height   int
	Width    int
}

// NewTensor allocates a zero-valued tensor with the given dimensions.
func NewTensor(channels, height, width int) *Tensor {
	return &Tensor{
		Data:     make([]float64, channels*height*width),
		Channels: channels,
		Height:   height,
		Width:    width,
	}
}

// At returns the value at channel c, row y, column x.
func (t *Tensor) At(c, y, x int) float64 {
	return t.Data[c*t.Height*t.Width+y*t.Width+x]
}

// Set stores v at channel c, row y, column x.
func (t *Tensor) Set(c, y, x int, v float64) {
	t.Data[c*t.Height*t.Width+y*t.Width+x] = v
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	out := NewTensor(t.Channels, t.Height, t.Width)
	copy(out.Data, t.Data)
	return out
}

// Plane is a single-channel numeric image with shape (Height, Width),
// stored as a flat array in row-major order.
type Plane struct {
	// Data holds Height*Width values indexed as y*Width + x.
	Data []float64

	// Height and Width are the plane dimensions.
	Height int
	Width  int
}

// NewPlane allocates a zero-valued plane with the given dimensions.
func NewPlane(height, width int) *Plane {
	return &Plane{
		Data:   make([]float64, height*width),
		Height: height,
		Width:  width,
	}
}

// At returns the value at row y, column x.
func (p *Plane) At(y, x int) float64 {
	return p.Data[y*p.Width+x]
}

// Set stores v at row y, column x.
func (p *Plane) Set(y, x int, v float64) {
	p.Data[y*p.Width+x] = v
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	out := NewPlane(p.Height, p.Width)
	copy(out.Data, p.Data)
	return out
}
