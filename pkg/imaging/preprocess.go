// Package imaging turns uploaded meal photos into model input tensors.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// InputSize is the square edge length the estimator expects
const InputSize = 320

var ErrInvalidImage = errors.New("invalid image data")

// Tensor is a single NHWC image with values in [0,1]
type Tensor struct {
	Height   int
	Width    int
	Channels int
	Data     []float32
}

// Nested returns the tensor as [height][width][channels]
func (t Tensor) Nested() [][][]float32 {
	out := make([][][]float32, t.Height)
	for y := 0; y < t.Height; y++ {
		row := make([][]float32, t.Width)
		for x := 0; x < t.Width; x++ {
			i := (y*t.Width + x) * t.Channels
			row[x] = t.Data[i : i+t.Channels : i+t.Channels]
		}
		out[y] = row
	}
	return out
}

// DecodeBase64 accepts raw base64 or a data URI ("data:image/jpeg;base64,...")
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "base64,"); i >= 0 {
		s = s[i+len("base64,"):]
	}
	if s == "" {
		return nil, ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	return data, nil
}

// Preprocess decodes raw image bytes, flattens transparency onto white and
// resizes to size x size RGB.
func Preprocess(raw []byte, size int) (Tensor, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	t := Tensor{Height: size, Width: size, Channels: 3, Data: make([]float32, size*size*3)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dst.RGBAAt(x, y)
			i := (y*size + x) * 3
			t.Data[i] = float32(c.R) / 255
			t.Data[i+1] = float32(c.G) / 255
			t.Data[i+2] = float32(c.B) / 255
		}
	}
	return t, nil
}
