package service

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/portfolio/internal/db"
)

type stubDeriver struct {
	calls int
	thumb string
	err   error
}

func (d *stubDeriver) Derive(string) (string, error) {
	d.calls++
	return d.thumb, d.err
}

func writeTestPNG(t *testing.T, path string, width, height int, fill color.Color) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

func TestGalleryCreateDefaultsAndValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewGalleryService(gdb, nil, nil)

	if _, err := svc.Create(GalleryInput{Title: "No image"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing image, got %v", err)
	}

	item, err := svc.Create(GalleryInput{Title: "Sunset", Image: "gallery/sunset.png"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !item.IsVisible || item.GalleryType != db.GalleryTypePhoto {
		t.Fatalf("unexpected defaults: visible=%v type=%s", item.IsVisible, item.GalleryType)
	}
	if item.SortOrder != 1 {
		t.Fatalf("expected sort order 1, got %d", item.SortOrder)
	}

	hidden, err := svc.Create(GalleryInput{Title: "Hidden", Image: "gallery/h.png", IsVisible: boolPtr(false), GalleryType: db.GalleryTypeArt})
	if err != nil {
		t.Fatalf("create hidden: %v", err)
	}
	if hidden.IsVisible {
		t.Fatalf("explicit false must be kept")
	}

	visible, err := svc.ListVisible("")
	if err != nil {
		t.Fatalf("list visible: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != item.ID {
		t.Fatalf("expected only the visible item, got %+v", visible)
	}
}

func TestGalleryDerivesThumbnailFile(t *testing.T) {
	gdb := setupServiceTestDB(t)
	root := t.TempDir()
	writeTestPNG(t, filepath.Join(root, "gallery", "wide.png"), 800, 400, color.NRGBA{R: 255, A: 0})

	svc := NewGalleryService(gdb, NewFileThumbnailDeriver(root), nil)
	item, err := svc.Create(GalleryInput{Title: "Wide", Image: "gallery/wide.png"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if item.Thumbnail != "gallery/thumbnails/wide_thumb.jpg" {
		t.Fatalf("unexpected thumbnail path %q", item.Thumbnail)
	}
	stored, _ := svc.Get(item.ID)
	if stored.Thumbnail != item.Thumbnail {
		t.Fatalf("thumbnail reference not persisted: %q", stored.Thumbnail)
	}

	f, err := os.Open(filepath.Join(root, "gallery", "thumbnails", "wide_thumb.jpg"))
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	defer f.Close()
	thumb, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("thumbnail is not a jpeg: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("expected 400x200, got %dx%d", b.Dx(), b.Dy())
	}

	// 全透明像素应被白色背景填充
	r, g, b, _ := thumb.At(200, 100).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Fatalf("expected white background, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func decodeThumbnail(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("thumbnail is not a jpeg: %v", err)
	}
	return img
}

func TestGalleryThumbnailsWithSameStemDoNotCollide(t *testing.T) {
	gdb := setupServiceTestDB(t)
	root := t.TempDir()
	writeTestPNG(t, filepath.Join(root, "gallery", "a", "cover.png"), 800, 400, color.NRGBA{R: 200, A: 255})
	writeTestPNG(t, filepath.Join(root, "gallery", "b", "cover.png"), 300, 600, color.NRGBA{B: 200, A: 255})

	svc := NewGalleryService(gdb, NewFileThumbnailDeriver(root), nil)
	first, err := svc.Create(GalleryInput{Title: "First", Image: "gallery/a/cover.png"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	firstPath := filepath.Join(root, filepath.FromSlash(first.Thumbnail))
	before, err := os.ReadFile(firstPath)
	if err != nil {
		t.Fatalf("read first thumbnail: %v", err)
	}

	second, err := svc.Create(GalleryInput{Title: "Second", Image: "gallery/b/cover.png"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.Thumbnail != "gallery/thumbnails/cover_thumb.jpg" || second.Thumbnail != "gallery/thumbnails/cover_thumb_2.jpg" {
		t.Fatalf("unexpected thumbnail names %q and %q", first.Thumbnail, second.Thumbnail)
	}

	after, err := os.ReadFile(firstPath)
	if err != nil {
		t.Fatalf("reread first thumbnail: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("first thumbnail file was replaced")
	}
	if b := decodeThumbnail(t, firstPath).Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("first thumbnail should stay 400x200, got %dx%d", b.Dx(), b.Dy())
	}
	if b := decodeThumbnail(t, filepath.Join(root, filepath.FromSlash(second.Thumbnail))).Bounds(); b.Dx() != 200 || b.Dy() != 400 {
		t.Fatalf("second thumbnail should be 200x400, got %dx%d", b.Dx(), b.Dy())
	}

	leftovers, _ := filepath.Glob(filepath.Join(root, "gallery", "thumbnails", ".thumb-*"))
	if len(leftovers) != 0 {
		t.Fatalf("temporary files left behind: %v", leftovers)
	}
}

func TestThumbnailName(t *testing.T) {
	tests := []struct {
		path    string
		attempt int
		want    string
	}{
		{path: "gallery/photo.png", attempt: 0, want: "photo_thumb.jpg"},
		{path: "gallery/photo.png", attempt: 1, want: "photo_thumb_2.jpg"},
		{path: "gallery/2024/my.shot.webp", attempt: 2, want: "my.shot_thumb_3.jpg"},
	}
	for _, tt := range tests {
		if got := thumbnailName(tt.path, tt.attempt); got != tt.want {
			t.Fatalf("thumbnailName(%q, %d) = %q, want %q", tt.path, tt.attempt, got, tt.want)
		}
	}
}

func TestGalleryThumbnailNeverOverwritten(t *testing.T) {
	gdb := setupServiceTestDB(t)
	deriver := &stubDeriver{thumb: "gallery/thumbnails/x_thumb.jpg"}
	svc := NewGalleryService(gdb, deriver, nil)

	item, err := svc.Create(GalleryInput{Title: "Manual", Image: "gallery/x.png", Thumbnail: "gallery/custom.jpg"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if deriver.calls != 0 || item.Thumbnail != "gallery/custom.jpg" {
		t.Fatalf("existing thumbnail must be kept, calls=%d thumb=%q", deriver.calls, item.Thumbnail)
	}

	updated, err := svc.Update(item.ID, GalleryInput{Title: "Manual v2", Image: "gallery/x.png"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Thumbnail != "gallery/custom.jpg" || deriver.calls != 0 {
		t.Fatalf("update must keep the thumbnail, got %q (calls=%d)", updated.Thumbnail, deriver.calls)
	}
}

func TestGalleryDerivationFailureIsSwallowed(t *testing.T) {
	gdb := setupServiceTestDB(t)
	deriver := &stubDeriver{err: ErrDerivation}
	svc := NewGalleryService(gdb, deriver, nil)

	item, err := svc.Create(GalleryInput{Title: "Broken", Image: "gallery/broken.png"})
	if err != nil {
		t.Fatalf("create must succeed when derivation fails: %v", err)
	}
	if item.Thumbnail != "" {
		t.Fatalf("expected no thumbnail, got %q", item.Thumbnail)
	}

	deriver.err = nil
	deriver.thumb = "gallery/thumbnails/broken_thumb.jpg"
	updated, err := svc.Update(item.ID, GalleryInput{Title: "Broken", Image: "gallery/broken.png"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Thumbnail != deriver.thumb || deriver.calls != 2 {
		t.Fatalf("re-save should retry derivation, got %q after %d calls", updated.Thumbnail, deriver.calls)
	}
}

func TestFileThumbnailDeriverErrors(t *testing.T) {
	root := t.TempDir()
	deriver := NewFileThumbnailDeriver(root)

	if _, err := deriver.Derive("gallery/missing.png"); !errors.Is(err, ErrDerivation) {
		t.Fatalf("expected derivation error for missing file, got %v", err)
	}

	bad := filepath.Join(root, "gallery", "bad.png")
	os.MkdirAll(filepath.Dir(bad), 0o755)
	os.WriteFile(bad, []byte("not an image"), 0o644)
	if _, err := deriver.Derive("gallery/bad.png"); !errors.Is(err, ErrDerivation) {
		t.Fatalf("expected derivation error for undecodable file, got %v", err)
	}
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h  int
		wantW int
		wantH int
	}{
		{800, 400, 400, 200},
		{400, 800, 200, 400},
		{1000, 1000, 400, 400},
		{120, 90, 120, 90},
		{4000, 1, 400, 1},
	}
	for _, tc := range cases {
		gotW, gotH := fitWithin(tc.w, tc.h, 400)
		if gotW != tc.wantW || gotH != tc.wantH {
			t.Fatalf("fitWithin(%d,%d) = %dx%d, want %dx%d", tc.w, tc.h, gotW, gotH, tc.wantW, tc.wantH)
		}
	}
}
