package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

// ErrDecode is matched by every DecodeError.
var ErrDecode = errors.New("image decode failed")

// DecodeError reports an image that could not be read. Source names the
// path or upload the bytes came from.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("decode image: %v", e.Err)
	}
	return fmt.Sprintf("decode image %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// DecodeImage sniffs the payload type before handing it to image.Decode so
// non-image uploads are rejected with a readable reason.
func DecodeImage(data []byte, source string) (image.Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Source: source, Err: errors.New("empty payload")}
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	if kind != filetype.Unknown && !filetype.IsImage(data) {
		return nil, &DecodeError{Source: source, Err: fmt.Errorf("unsupported content type %s", kind.MIME.Value)}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	return img, nil
}

// ReadImageFrom drains r and decodes it.
func ReadImageFrom(r io.Reader, source string) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	return DecodeImage(data, source)
}

// ReadImage loads and decodes the image at path.
func ReadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return DecodeImage(data, path)
}

// SaveImage writes img to filename as PNG.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// EncodePNG returns the PNG encoding of img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ToNRGBA returns img as a zero-origin *image.NRGBA. A zero-origin NRGBA
// input is returned as a copy so callers may mutate the result freely.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && src.Stride == out.Stride {
		copy(out.Pix, src.Pix)
		return out
	}
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
