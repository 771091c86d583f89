package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/nfnt/resize"
)

const (
	thumbnailMaxWidth  = 640
	thumbnailMaxHeight = 360
)

// UploadResult describes a stored media object.
type UploadResult struct {
	URL      string
	PublicID string
	Format   string
	ByteSize int64
}

// Uploader is the external object-storage collaborator.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (*UploadResult, error)
}

type MediaService struct {
	uploader Uploader
}

func NewMediaService(uploader Uploader) *MediaService {
	return &MediaService{
		uploader: uploader,
	}
}

// UploadImage stores the raw image as-is.
func (s *MediaService) UploadImage(ctx context.Context, name string, data []byte) (*UploadResult, error) {
	result, err := s.uploader.Upload(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrUpload, err)
	}
	return result, nil
}

// UploadThumbnail downscales the image to the thumbnail bounds before
// storing it.
func (s *MediaService) UploadThumbnail(ctx context.Context, name string, data []byte) (*UploadResult, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", errorz.ErrUpload, err)
	}

	thumbnail := resize.Thumbnail(thumbnailMaxWidth, thumbnailMaxHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err = png.Encode(&buf, thumbnail); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", errorz.ErrUpload, err)
	}

	result, err := s.uploader.Upload(ctx, name, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrUpload, err)
	}
	return result, nil
}
