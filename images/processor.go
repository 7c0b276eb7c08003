package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/raushankrgupta/storedeck/models"
	"go.uber.org/zap"

	_ "golang.org/x/image/webp"
)

// Variants are the two JPEG re-encodings derived from one source image
type Variants struct {
	Main  []byte
	Thumb []byte
}

// MainDataURI is the full-size JPEG as a data: URI
func (v *Variants) MainDataURI() string {
	return dataURI(v.Main)
}

// ThumbDataURI is the thumbnail JPEG as a data: URI
func (v *Variants) ThumbDataURI() string {
	return dataURI(v.Thumb)
}

func dataURI(b []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(b)
}

// Options configures a Processor
type Options struct {
	MainQuality  int
	ThumbQuality int
	ThumbWidth   int
	// ScratchDir, when set, receives a copy of every derived image.
	ScratchDir string
	Logger     *zap.Logger
}

// Processor re-encodes product images in memory
type Processor struct {
	opts Options
}

// NewProcessor applies the default sizes and qualities to unset options
func NewProcessor(opts Options) *Processor {
	if opts.MainQuality == 0 {
		opts.MainQuality = 70
	}
	if opts.ThumbQuality == 0 {
		opts.ThumbQuality = 50
	}
	if opts.ThumbWidth == 0 {
		opts.ThumbWidth = 400
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Processor{opts: opts}
}

// DeriveVariants decodes data and produces the full-size and thumbnail JPEGs.
// baseName only names the scratch files.
func (p *Processor) DeriveVariants(data []byte, baseName string) (*Variants, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	src = flatten(src)

	main, err := encode(src, p.opts.MainQuality)
	if err != nil {
		return nil, fmt.Errorf("encode main image: %w", err)
	}
	thumb, err := encode(imaging.Resize(src, p.opts.ThumbWidth, 0, imaging.Lanczos), p.opts.ThumbQuality)
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	v := &Variants{Main: main, Thumb: thumb}
	if p.opts.ScratchDir != "" {
		if err := p.persist(v, baseName); err != nil {
			p.opts.Logger.Warn("could not persist scratch images", zap.String("name", baseName), zap.Error(err))
		}
	}
	return v, nil
}

// flatten composites transparent sources onto white before JPEG encoding.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Processor) persist(v *Variants, baseName string) error {
	if err := os.MkdirAll(p.opts.ScratchDir, 0755); err != nil {
		return err
	}
	name := models.SanitizeName(baseName)
	if err := os.WriteFile(filepath.Join(p.opts.ScratchDir, name+".jpg"), v.Main, 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(p.opts.ScratchDir, name+"_thumb.jpg"), v.Thumb, 0644)
}
