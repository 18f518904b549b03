package service

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	thumbnailMaxSide = 400
	thumbnailQuality = 85
	thumbnailSubdir  = "gallery/thumbnails"

	maxThumbnailAttempts = 100
)

// ThumbnailDeriver produces a thumbnail for an uploaded image and returns
// the thumbnail path relative to the media root.
type ThumbnailDeriver interface {
	Derive(imagePath string) (string, error)
}

// FileThumbnailDeriver reads and writes images below a media root directory.
type FileThumbnailDeriver struct {
	root string
}

// NewFileThumbnailDeriver creates a deriver rooted at mediaRoot.
func NewFileThumbnailDeriver(mediaRoot string) *FileThumbnailDeriver {
	return &FileThumbnailDeriver{root: mediaRoot}
}

// Derive decodes the image at imagePath, flattens it onto white, scales it to
// fit within 400x400 without upscaling and stores a JPEG named
// <stem>_thumb.jpg under gallery/thumbnails. An existing file is never
// replaced; a numbered name is used instead.
func (d *FileThumbnailDeriver) Derive(imagePath string) (string, error) {
	rel, err := cleanMediaPath(imagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDerivation, err)
	}

	src, err := os.Open(filepath.Join(d.root, filepath.FromSlash(rel)))
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrDerivation, rel, err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %w", ErrDerivation, rel, err)
	}

	thumb := renderThumbnail(img, thumbnailMaxSide)

	dir := filepath.Join(d.root, filepath.FromSlash(thumbnailSubdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create thumbnail dir: %w", ErrDerivation, err)
	}

	// 先写入临时文件再链接到最终文件名，读者不会看到写了一半的缩略图
	tmp, err := os.CreateTemp(dir, ".thumb-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", ErrDerivation, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := jpeg.Encode(tmp, thumb, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: encode jpeg: %w", ErrDerivation, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close temp file: %w", ErrDerivation, err)
	}

	// os.Link 在目标已存在时失败，同名图片的缩略图因此不会互相覆盖
	for attempt := 0; attempt < maxThumbnailAttempts; attempt++ {
		name := thumbnailName(rel, attempt)
		err := os.Link(tmpName, filepath.Join(dir, name))
		if err == nil {
			return path.Join(thumbnailSubdir, name), nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: store thumbnail: %w", ErrDerivation, err)
		}
	}
	return "", fmt.Errorf("%w: no free thumbnail name for %s", ErrDerivation, rel)
}

// renderThumbnail composites img over an opaque white canvas scaled to fit
// within maxSide x maxSide.
func renderThumbnail(img image.Image, maxSide int) *image.RGBA {
	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxSide)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// fitWithin returns dimensions no larger than maxSide on either side that keep
// the aspect ratio. Images that already fit are left at their size.
func fitWithin(width, height, maxSide int) (int, int) {
	if width <= 0 || height <= 0 {
		return 1, 1
	}
	if width <= maxSide && height <= maxSide {
		return width, height
	}
	if width >= height {
		scaled := (height*maxSide + width/2) / width
		if scaled < 1 {
			scaled = 1
		}
		return maxSide, scaled
	}
	scaled := (width*maxSide + height/2) / height
	if scaled < 1 {
		scaled = 1
	}
	return scaled, maxSide
}

// thumbnailName returns <stem>_thumb.jpg, or <stem>_thumb_<n>.jpg for later
// attempts when that name is taken.
func thumbnailName(imagePath string, attempt int) string {
	base := path.Base(imagePath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if attempt == 0 {
		return stem + "_thumb.jpg"
	}
	return fmt.Sprintf("%s_thumb_%d.jpg", stem, attempt+1)
}

func cleanMediaPath(p string) (string, error) {
	trimmed := strings.TrimSpace(filepath.ToSlash(p))
	if trimmed == "" {
		return "", fmt.Errorf("empty media path")
	}
	cleaned := path.Clean("/" + trimmed)[1:]
	if cleaned == "" || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid media path %q", p)
	}
	return cleaned, nil
}
