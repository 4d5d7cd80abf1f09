package draftsmith

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/draftsmith/httputil"
	"github.com/eringen/draftsmith/topic"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// uploadURL is the public path of a stored image.
func uploadURL(filename string) string {
	return "/public/" + uploadsSubdir + "/" + filename
}

// processImage decodes an image from src, optionally resizes it to maxImageWidth,
// and encodes it as JPEG. Returns metadata and the encoded bytes.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	filename := slugifyFilename(originalName) + ".jpg"

	return Image{
		Filename:     filename,
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
		URL:          uploadURL(filename),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := topic.Slugify(strings.TrimSuffix(name, ext))
	if base == "" {
		return "image"
	}
	return base
}

// ensureUniqueFilename appends a counter if filename already exists in the
// uploads directory or the database.
func (a *App) ensureUniqueFilename(img *Image) error {
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	base := strings.TrimSuffix(img.Filename, ".jpg")
	candidate := img.Filename
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		taken, err := a.Store.ImageExists(candidate)
		if err != nil {
			return err
		}
		if statErr != nil && !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	img.Filename = candidate
	img.URL = uploadURL(candidate)
	return nil
}

// storeImage writes an encoded image under the uploads directory and records
// its metadata.
func (a *App) storeImage(img *Image, data []byte) error {
	if err := a.ensureUniqueFilename(img); err != nil {
		return err
	}
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return a.Store.SaveImage(*img)
}

// mirrorImage downloads a remote image, stores it as an upload named after
// slug and returns its local URL.
func (a *App) mirrorImage(ctx context.Context, rawURL, slug string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("mirror image: %w", err)
	}
	resp, err := httputil.DoWithRetry(ctx, a.httpClient, req, 0)
	if err != nil {
		return "", fmt.Errorf("mirror image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mirror image: HTTP %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxUploadSize+1)
	var raw bytes.Buffer
	if _, err := raw.ReadFrom(body); err != nil {
		return "", fmt.Errorf("mirror image: %w", err)
	}
	if raw.Len() > maxUploadSize {
		return "", errors.New("mirror image: response larger than 10MB")
	}

	img, data, err := processImage(&raw, slug+".jpg")
	if err != nil {
		return "", fmt.Errorf("mirror image: %w", err)
	}
	img.OriginalName = rawURL
	if err := a.storeImage(&img, data); err != nil {
		return "", err
	}
	a.Log.Info().Str("slug", slug).Str("file", img.Filename).Msg("featured image mirrored")
	return img.URL, nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "no image file provided")
	}
	if file.Size > maxUploadSize {
		return jsonError(c, http.StatusBadRequest, "file too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid image: "+err.Error())
	}
	if err := a.storeImage(&img, data); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, img)
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return jsonError(c, http.StatusBadRequest, "invalid filename")
	}

	path := filepath.Join(a.staticDir, uploadsSubdir, filename)
	_ = os.Remove(path) // ignore error if file already gone

	if err := a.Store.DeleteImage(filename); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	if images == nil {
		images = []Image{}
	}
	return c.JSON(http.StatusOK, map[string][]Image{"images": images})
}
