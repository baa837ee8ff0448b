package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streck/storefront-api/internal/api/metrics"
	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/core/ports"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temp files.
const multipartMemory = 32 << 20

// UploadHandler accepts image files and forwards them to the media host.
type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload handles POST /api/upload.
//
// @Summary      Upload product images
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Image files (repeatable, max 5MB each)"
// @Success      200    {object}  uploadResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	if err := c.Request().ParseMultipartForm(multipartMemory); err != nil {
		metrics.UploadsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	form := c.Request().MultipartForm
	defer func() { _ = form.RemoveAll() }()

	var files []ports.UploadFile
	for _, field := range []string{"files", "file"} {
		for _, fh := range form.File[field] {
			files = append(files, toUploadFile(fh))
		}
	}

	hosted, err := h.service.Upload(c.Request().Context(), files)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.UploadsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.UploadsTotal.WithLabelValues("failed").Inc()
		}
		return err
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	for _, img := range hosted {
		metrics.UploadBytesTotal.Add(float64(img.Bytes))
	}

	return c.JSON(http.StatusOK, uploadResponse{Success: true, Files: hosted})
}

func toUploadFile(fh *multipart.FileHeader) ports.UploadFile {
	return ports.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
