package gin

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/domain/resume"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/shared/response"
)

// multipartOverhead is allowed on top of the file size limit for form fields
// and part headers.
const multipartOverhead = 1 << 20

// resumeHandler implements inbound.ResumeHttpPort.
type resumeHandler struct {
	resumeDomain inbound.ResumeDomain
}

// NewResumeHandler creates a new resume HTTP handler.
func NewResumeHandler(resumeDomain inbound.ResumeDomain) inbound.ResumeHttpPort {
	return &resumeHandler{resumeDomain: resumeDomain}
}

// Compile-time interface check
var _ inbound.ResumeHttpPort = (*resumeHandler)(nil)

// UploadResume stores a resume document and returns its text and structure.
//
//	@Summary		Upload a resume
//	@Description	Accepts .pdf, .docx and .doc files up to 10 MB.
//	@Tags			Resume
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"Resume document"
//	@Param			user_id	formData	string	false	"Must match the authenticated user"
//	@Success		200		{object}	model.UploadResult
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		503		{object}	response.ErrorResponse
//	@Router			/upload-resume [post]
func (h *resumeHandler) UploadResume(c *gin.Context) {
	maxBytes := h.resumeDomain.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(c, resume.ErrFileTooLarge)
			return
		}
		response.BadRequest(c, "file is required")
		return
	}

	userID, ok := requireUser(c, c.PostForm("user_id"))
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "could not read the uploaded file")
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the domain to reject the file.
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		response.BadRequest(c, "could not read the uploaded file")
		return
	}

	result, err := h.resumeDomain.Upload(c.Request.Context(), userID, &inbound.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListFiles returns the caller's stored files with download links.
//
//	@Summary		List uploaded files
//	@Tags			Resume
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Maximum number of files"
//	@Success		200		{object}	map[string][]model.FileResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		503		{object}	response.ErrorResponse
//	@Router			/user-files [get]
func (h *resumeHandler) ListFiles(c *gin.Context) {
	userID, ok := requireUser(c, requestedUserID(c))
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	files, err := h.resumeDomain.ListFiles(c.Request.Context(), userID, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	if files == nil {
		files = []*model.FileResponse{}
	}

	response.OK(c, gin.H{"files": files})
}
