package service

import (
	"context"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
	"github.com/aulamarket/aulamarket-api/pkg/storage"
)

var allowedVideoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".mkv":  true,
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type presigner interface {
	Presign(prefix, filename string) (*storage.PresignedUpload, error)
}

// UploadService issues direct-upload URLs for course videos and cover
// images. The binary body never passes through the API.
type UploadService struct {
	presigner presigner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUploadService constructs UploadService.
func NewUploadService(presigner presigner, validate *validator.Validate, logger *zap.Logger) *UploadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{presigner: presigner, validator: validate, logger: logger}
}

// PresignVideo signs an upload slot for a lesson video.
func (s *UploadService) PresignVideo(ctx context.Context, caller Identity, req dto.PresignVideoRequest) (*storage.PresignedUpload, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid upload payload")
	}
	ext := strings.ToLower(path.Ext(req.Filename))
	if !allowedVideoExtensions[ext] {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported video format")
	}

	upload, err := s.presigner.Presign("videos/"+caller.UserID, req.Filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to presign upload")
	}
	s.logger.Debug("video upload presigned", zap.String("user_id", caller.UserID), zap.String("object", upload.ObjectName))
	return upload, nil
}

// PresignImage signs an upload slot for a course cover image.
func (s *UploadService) PresignImage(ctx context.Context, caller Identity, req dto.PresignImageRequest) (*storage.PresignedUpload, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid upload payload")
	}
	ext := strings.ToLower(path.Ext(req.Filename))
	if !allowedImageExtensions[ext] {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported image format")
	}

	upload, err := s.presigner.Presign("images/"+caller.UserID, req.Filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to presign upload")
	}
	s.logger.Debug("image upload presigned", zap.String("user_id", caller.UserID), zap.String("object", upload.ObjectName))
	return upload, nil
}
