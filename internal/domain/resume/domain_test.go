package resume

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock implementations ---

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, reader, size, contentType).Error(0)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

type MockFileDB struct {
	mock.Mock
}

func (m *MockFileDB) Create(ctx context.Context, file *model.ResumeFile) error {
	return m.Called(ctx, file).Error(0)
}

func (m *MockFileDB) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ResumeFile, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ResumeFile), args.Error(1)
}

func newTestDomain(storage *MockStorage, extractor *MockExtractor, fileDB *MockFileDB) *Domain {
	return NewResumeDomain(storage, extractor, fileDB, &Config{MaxBytes: 1024}, zap.NewNop())
}

// --- Tests ---

func TestResumeDomain_Upload(t *testing.T) {
	storage := new(MockStorage)
	extractor := new(MockExtractor)
	fileDB := new(MockFileDB)
	d := newTestDomain(storage, extractor, fileDB)
	ctx := context.Background()
	data := []byte("%PDF-1.4 fake")

	extractor.On("Extract", ctx, "cv.pdf", data).Return("Jane Doe\njane@example.com\nExperience\nSkills: Go", nil)
	storage.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "users/u1/resume/") && strings.HasSuffix(key, ".pdf")
	}), mock.Anything, int64(len(data)), "application/pdf").Return(nil)
	fileDB.On("Create", ctx, mock.MatchedBy(func(f *model.ResumeFile) bool {
		return f.UserID == "u1" && f.FileName == "cv.pdf" && f.FileType == model.FileTypeResume
	})).Return(nil)

	result, err := d.Upload(ctx, "u1", &inbound.UploadInput{FileName: `C:\docs\cv.pdf`, Data: data})
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", result.FileName)
	assert.Equal(t, ObjectKey("u1", result.FileID, ".pdf"), result.ObjectKey)
	assert.Equal(t, int64(len(data)), result.SizeBytes)
	assert.True(t, result.Structure.HasContactInfo)
	assert.True(t, result.Structure.HasSkills)
	assert.False(t, result.Structure.HasEducation)

	storage.AssertExpectations(t)
	fileDB.AssertExpectations(t)
}

func TestResumeDomain_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input *inbound.UploadInput
		want  error
	}{
		{"empty", &inbound.UploadInput{FileName: "cv.pdf"}, ErrEmptyFile},
		{"too large", &inbound.UploadInput{FileName: "cv.pdf", Data: make([]byte, 1025)}, ErrFileTooLarge},
		{"wrong extension", &inbound.UploadInput{FileName: "cv.txt", Data: []byte("x")}, ErrUnsupportedFileType},
		{"no extension", &inbound.UploadInput{FileName: "cv", Data: []byte("x")}, ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := new(MockStorage)
			d := newTestDomain(storage, new(MockExtractor), new(MockFileDB))

			_, err := d.Upload(context.Background(), "u1", tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsClientError(err))
			storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestResumeDomain_Upload_UnreadableDocumentNotStored(t *testing.T) {
	storage := new(MockStorage)
	extractor := new(MockExtractor)
	d := newTestDomain(storage, extractor, new(MockFileDB))
	ctx := context.Background()

	extractor.On("Extract", ctx, "cv.doc", []byte("binary")).Return("", outbound.ErrUnsupportedDocument)

	_, err := d.Upload(ctx, "u1", &inbound.UploadInput{FileName: "cv.doc", Data: []byte("binary")})
	assert.ErrorIs(t, err, ErrTextExtractionFailed)
	assert.ErrorIs(t, err, outbound.ErrUnsupportedDocument)
	storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResumeDomain_Upload_RecordFailureRemovesObject(t *testing.T) {
	storage := new(MockStorage)
	extractor := new(MockExtractor)
	fileDB := new(MockFileDB)
	d := newTestDomain(storage, extractor, fileDB)
	ctx := context.Background()

	extractor.On("Extract", ctx, "cv.docx", mock.Anything).Return("text", nil)
	storage.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	storage.On("Delete", ctx, mock.Anything).Return(nil)
	fileDB.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

	_, err := d.Upload(ctx, "u1", &inbound.UploadInput{FileName: "cv.docx", Data: []byte("PK")})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.False(t, IsClientError(err))
	storage.AssertCalled(t, "Delete", ctx, mock.Anything)
}

func TestResumeDomain_ListFiles(t *testing.T) {
	storage := new(MockStorage)
	fileDB := new(MockFileDB)
	d := newTestDomain(storage, new(MockExtractor), fileDB)
	ctx := context.Background()

	fileDB.On("ListByUser", ctx, "u1", maxListLimit).Return([]*model.ResumeFile{
		{ID: "f1", FileName: "a.pdf", ObjectKey: "users/u1/resume/f1.pdf", FileType: model.FileTypeResume},
		{ID: "f2", FileName: "b.pdf", ObjectKey: "users/u1/resume/f2.pdf", FileType: model.FileTypeResume},
	}, nil)
	storage.On("PresignGet", ctx, "users/u1/resume/f1.pdf", time.Hour).Return("https://signed/f1", nil)
	storage.On("PresignGet", ctx, "users/u1/resume/f2.pdf", time.Hour).Return("", errors.New("no creds"))

	files, err := d.ListFiles(ctx, "u1", 1000)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "https://signed/f1", files[0].DownloadURL)
	assert.Empty(t, files[1].DownloadURL)
}

func TestResumeDomain_MaxUploadBytesDefault(t *testing.T) {
	d := NewResumeDomain(new(MockStorage), new(MockExtractor), new(MockFileDB), &Config{}, zap.NewNop())
	assert.Equal(t, int64(10<<20), d.MaxUploadBytes())
}
