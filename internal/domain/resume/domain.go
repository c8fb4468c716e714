package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/config"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	defaultPresignExpiry = time.Hour
)

var defaultExtensions = []string{".pdf", ".docx", ".doc"}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
}

// Config holds upload limits.
type Config struct {
	MaxBytes          int64
	AllowedExtensions []string
	PresignExpiry     time.Duration
}

// ConfigFromSettings builds the upload limits from application settings.
func ConfigFromSettings(upload *config.UploadConfig, storage *config.StorageConfig) *Config {
	return &Config{
		MaxBytes:          upload.MaxBytes,
		AllowedExtensions: upload.AllowedExtensions,
		PresignExpiry:     storage.PresignExpiry,
	}
}

// Domain implements resume upload and listing.
type Domain struct {
	storage   outbound.ObjectStoragePort
	extractor outbound.TextExtractorPort
	fileDB    outbound.ResumeFileDatabasePort
	config    *Config
	logger    *zap.Logger
}

// NewResumeDomain creates a new resume domain service.
func NewResumeDomain(
	storage outbound.ObjectStoragePort,
	extractor outbound.TextExtractorPort,
	fileDB outbound.ResumeFileDatabasePort,
	cfg *Config,
	logger *zap.Logger,
) *Domain {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = defaultExtensions
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = defaultPresignExpiry
	}
	return &Domain{
		storage:   storage,
		extractor: extractor,
		fileDB:    fileDB,
		config:    cfg,
		logger:    logger,
	}
}

// Compile-time interface check
var _ inbound.ResumeDomain = (*Domain)(nil)

func (d *Domain) MaxUploadBytes() int64 {
	return d.config.MaxBytes
}

// Upload extracts the text first so unreadable documents are never stored.
func (d *Domain) Upload(ctx context.Context, userID string, in *inbound.UploadInput) (*model.UploadResult, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(in.Data)) > d.config.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(in.Data), d.config.MaxBytes)
	}

	fileName := path.Base(strings.ReplaceAll(in.FileName, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(fileName))
	if !d.allowed(ext) {
		return nil, ErrUnsupportedFileType
	}

	text, err := d.extractor.Extract(ctx, fileName, in.Data)
	if err != nil {
		d.logger.Warn("text extraction failed",
			zap.String("user_id", userID),
			zap.String("file_name", fileName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrTextExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextExtractionFailed
	}

	id := uuid.NewString()
	key := ObjectKey(userID, id, ext)
	contentType := contentTypes[ext]
	if contentType == "" {
		contentType = in.ContentType
	}

	if err := d.storage.Put(ctx, key, bytes.NewReader(in.Data), int64(len(in.Data)), contentType); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	file := &model.ResumeFile{
		ID:          id,
		UserID:      userID,
		FileName:    fileName,
		ObjectKey:   key,
		ContentType: contentType,
		SizeBytes:   int64(len(in.Data)),
		FileType:    model.FileTypeResume,
	}
	if err := d.fileDB.Create(ctx, file); err != nil {
		if delErr := d.storage.Delete(ctx, key); delErr != nil {
			d.logger.Error("orphaned object after failed insert",
				zap.String("object_key", key),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	d.logger.Info("resume uploaded",
		zap.String("user_id", userID),
		zap.String("file_id", id),
		zap.Int64("size_bytes", file.SizeBytes),
	)

	return &model.UploadResult{
		FileID:        id,
		FileName:      fileName,
		ObjectKey:     key,
		SizeBytes:     file.SizeBytes,
		ExtractedText: text,
		Structure:     AnalyzeStructure(text),
	}, nil
}

func (d *Domain) ListFiles(ctx context.Context, userID string, limit int) ([]*model.FileResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	files, err := d.fileDB.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	out := make([]*model.FileResponse, 0, len(files))
	for _, f := range files {
		resp := &model.FileResponse{
			ID:        f.ID,
			FileName:  f.FileName,
			FileType:  f.FileType,
			SizeBytes: f.SizeBytes,
			CreatedAt: f.CreatedAt,
		}
		// A missing link does not hide the file.
		url, err := d.storage.PresignGet(ctx, f.ObjectKey, d.config.PresignExpiry)
		if err != nil {
			d.logger.Warn("presign failed", zap.String("object_key", f.ObjectKey), zap.Error(err))
		} else {
			resp.DownloadURL = url
		}
		out = append(out, resp)
	}
	return out, nil
}

func (d *Domain) allowed(ext string) bool {
	for _, a := range d.config.AllowedExtensions {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

// ObjectKey returns the storage key of a user's resume file.
func ObjectKey(userID, fileID, ext string) string {
	return fmt.Sprintf("users/%s/resume/%s%s", userID, fileID, ext)
}

// IsClientError reports whether err was caused by the uploaded file itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrUnsupportedFileType) ||
		errors.Is(err, ErrTextExtractionFailed)
}
