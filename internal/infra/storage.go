package infra

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const MaxUploadBytes = 20 << 20

var (
	ErrArchivoMuyGrande  = errors.New("el archivo supera el limite de 20MB")
	ErrFormatoNoValido   = errors.New("formato de archivo no permitido")
	ErrImagenNoDecodable = errors.New("la imagen no se pudo procesar")
)

var (
	imageExts       = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	comprobanteExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".pdf": true}
)

// Storage writes uploads below root (served as static files under baseURL).
type Storage struct {
	root    string
	baseURL string
}

func NewStorage(root, baseURL string) *Storage {
	return &Storage{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SaveImage decodes a png/jpg upload, shrinks it so the long side is at most
// maxSide pixels and stores it under dir. Returns the public URL path.
func (s *Storage) SaveImage(fh *multipart.FileHeader, dir string, maxSide int) (string, error) {
	if _, err := checkUpload(fh, imageExts); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrImagenNoDecodable
	}
	img = fit(img, maxSide)

	// re-encoded as JPEG regardless of the uploaded format
	name := uniqueName(".jpg")
	full, err := s.prepare(dir, name)
	if err != nil {
		return "", err
	}
	if err := imaging.Save(img, full, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("storage: save image: %w", err)
	}
	return s.url(dir, name), nil
}

// SaveFile stores a receipt (image or PDF) without transforming it.
func (s *Storage) SaveFile(fh *multipart.FileHeader, dir string) (string, error) {
	ext, err := checkUpload(fh, comprobanteExts)
	if err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	name := uniqueName(ext)
	full, err := s.prepare(dir, name)
	if err != nil {
		return "", err
	}
	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage: create: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(src, MaxUploadBytes)); err != nil {
		return "", fmt.Errorf("storage: write: %w", err)
	}
	return s.url(dir, name), nil
}

// Remove deletes a file previously returned by SaveImage/SaveFile. Unknown or
// foreign URLs are ignored.
func (s *Storage) Remove(publicURL string) {
	if !strings.HasPrefix(publicURL, s.baseURL+"/") {
		return
	}
	rel := strings.TrimPrefix(publicURL, s.baseURL+"/")
	_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
}

func (s *Storage) prepare(dir, name string) (string, error) {
	folder := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}
	return filepath.Join(folder, name), nil
}

func (s *Storage) url(dir, name string) string {
	return s.baseURL + "/" + path.Join(dir, name)
}

func checkUpload(fh *multipart.FileHeader, allowed map[string]bool) (string, error) {
	if fh.Size > MaxUploadBytes {
		return "", ErrArchivoMuyGrande
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed[ext] {
		return "", ErrFormatoNoValido
	}
	return ext, nil
}

func uniqueName(ext string) string {
	return fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
}

func fit(img image.Image, maxSide int) image.Image {
	if maxSide <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}
