package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"mental_models_hub/internal/lib/logger/sl"
	"mental_models_hub/internal/storage"
	filestorage "mental_models_hub/internal/storage/filestorage"
)

// UploadKind selects the storage subdirectory and the accepted formats.
type UploadKind string

const (
	UploadCover UploadKind = "cover"
	UploadAudio UploadKind = "audio"
)

var allowedExtensions = map[UploadKind]map[string]bool{
	UploadCover: {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	UploadAudio: {".mp3": true, ".wav": true, ".ogg": true},
}

var subPaths = map[UploadKind]string{
	UploadCover: "covers",
	UploadAudio: "audio",
}

type UploadService struct {
	log     *slog.Logger
	files   filestorage.FileStorage
	maxSize int64
}

func NewUploadService(log *slog.Logger, files filestorage.FileStorage, maxSize int64) *UploadService {
	return &UploadService{log: log, files: files, maxSize: maxSize}
}

type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Upload validates size and extension, stores the file, and returns its
// public URL.
func (s *UploadService) Upload(ctx context.Context, file *multipart.FileHeader, kind UploadKind) (*UploadResult, error) {
	const op = "upload_service.Upload"
	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", file.Filename),
		slog.String("kind", string(kind)),
	)

	allowed, ok := allowedExtensions[kind]
	if !ok {
		return nil, fmt.Errorf("%s: unknown upload kind %q", op, kind)
	}

	if s.maxSize > 0 && file.Size > s.maxSize {
		log.Warn("upload too large", slog.Int64("size", file.Size))
		return nil, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		log.Warn("unsupported file type", slog.String("ext", ext))
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	relPath, size, err := s.files.Save(ctx, file, subPaths[kind])
	if err != nil {
		log.Error("failed to store upload", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("upload stored", slog.String("path", relPath), slog.Int64("size", size))
	return &UploadResult{
		URL:  joinURL(s.files.BaseURL(), relPath),
		Path: relPath,
		Size: size,
	}, nil
}

func joinURL(base, relPath string) string {
	return strings.TrimSuffix(base, "/") + "/" + filepath.ToSlash(relPath)
}
