package sprite

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// imaging registers PNG, JPEG, GIF, BMP and TIFF; WebP is extra.
	_ "golang.org/x/image/webp"
)

// Format is an output encoding
type Format = imaging.Format

// Output formats that keep the alpha channel
const (
	FormatPNG  = imaging.PNG
	FormatGIF  = imaging.GIF
	FormatTIFF = imaging.TIFF
	FormatBMP  = imaging.BMP
)

// Load opens and decodes the image at path. The file is closed on every path out.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return img, nil
}

// Decode decodes an image in any registered format (PNG, JPEG, GIF, BMP, TIFF, WebP)
func Decode(r io.Reader) (image.Image, error) {
	img, err := decode(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return img, nil
}

func decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// FormatFromFilename picks the output format from a file extension. An empty
// name means PNG. JPEG is refused since it drops the alpha channel.
func FormatFromFilename(name string) (Format, error) {
	if name == "" {
		return FormatPNG, nil
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".jpg" || ext == ".jpeg" {
		return 0, errors.Errorf("%s: jpeg output cannot carry an alpha channel", name)
	}
	f, err := imaging.FormatFromFilename(name)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", name)
	}
	return f, nil
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	if format == imaging.JPEG {
		return errors.New("jpeg output cannot carry an alpha channel")
	}
	return imaging.Encode(w, img, format)
}

// EncodeBytes encodes img into a new buffer
func EncodeBytes(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteOutput writes encoded image data to filename, or to stdout when
// filename is empty.
func WriteOutput(filename string, data []byte) error {
	if filename == "" {
		_, err := os.Stdout.Write(data)
		return errors.Wrap(err, "write stdout")
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return errors.Wrapf(err, "write %s", filename)
	}
	return errors.Wrapf(file.Close(), "close %s", filename)
}
