package httpserver

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

type UploadHTTP struct {
	Svc *service.UploadService
}

func (h *UploadHTTP) save(c echo.Context, fh *multipart.FileHeader) (*service.StoredFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return h.Svc.Save(c.Request().Context(), fh.Filename, f)
}

func (h *UploadHTTP) Info(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.info")

	info, err := h.Svc.Info(ctx)
	if err != nil {
		return fail(l, "upload_info_error", err, "", "failed to read storage info")
	}
	return c.JSON(http.StatusOK, info)
}

func (h *UploadHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.upload")

	fh, err := c.FormFile("image")
	if err != nil {
		l.Warn("upload_error", "status", 400, "reason", "missing image field", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "no image uploaded").SetInternal(err)
	}

	stored, err := h.save(c, fh)
	if err != nil {
		return fail(l, "upload_error", err, "", "failed to store image")
	}
	return c.JSON(http.StatusCreated, stored)
}

// UploadMultiple stores every file in the images field, or none of them.
func (h *UploadHTTP) UploadMultiple(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.upload_multiple")

	form, err := c.MultipartForm()
	if err != nil {
		return badBody(l, "upload_multiple_error", err)
	}
	files := form.File["images"]
	switch {
	case len(files) == 0:
		l.Warn("upload_multiple_error", "status", 400, "reason", "no images")
		return echo.NewHTTPError(http.StatusBadRequest, "no images uploaded")
	case len(files) > service.MaxFilesPerUpload:
		l.Warn("upload_multiple_error", "status", 400, "reason", "too many files", "count", len(files))
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("at most %d images per upload", service.MaxFilesPerUpload))
	}

	stored := make([]*service.StoredFile, 0, len(files))
	for _, fh := range files {
		sf, err := h.save(c, fh)
		if err != nil {
			for _, done := range stored {
				_ = h.Svc.Delete(ctx, done.Filename)
			}
			return fail(l, "upload_multiple_error", fmt.Errorf("%s: %w", fh.Filename, err), "", "failed to store images")
		}
		stored = append(stored, sf)
	}

	l.Info("upload_multiple_success", "count", len(stored))
	return c.JSON(http.StatusCreated, map[string]any{"files": stored})
}

func (h *UploadHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.delete")

	if err := h.Svc.Delete(ctx, c.Param("filename")); err != nil {
		return fail(l, "upload_delete_error", err, "file not found", "failed to delete image")
	}
	return c.NoContent(http.StatusNoContent)
}
