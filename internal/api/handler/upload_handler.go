package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/events"
	"github.com/charlieverse/platform/internal/infrastructure/upload"
)

// UploadHandler handles multipart uploads and file retrieval.
type UploadHandler struct {
	uploads *upload.Service
	bus     *events.Bus
}

func NewUploadHandler(uploads *upload.Service, bus *events.Bus) *UploadHandler {
	return &UploadHandler{uploads: uploads, bus: bus}
}

type uploadResponse struct {
	Files []upload.FileMetadata `json:"files"`
}

// Upload stores the `files` multipart field. At most five files of up to
// 10MB each; any invalid file rejects the whole batch.
//
// @Summary      Upload files
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionCookie
// @Param        files  formData  file  true  "Files to store"
// @Success      201    {object}  uploadResponse
// @Failure      400    {object}  map[string]string
// @Router       /api/files/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files provided")
	}

	saved, err := h.uploads.SaveAll(files, p.UserID, c.FormValue("project_id"), c.FormValue("description"))
	if err != nil {
		return err
	}

	if h.bus != nil {
		for _, f := range saved {
			h.bus.Publish(events.Event{
				Type:      events.FileUploaded,
				At:        time.Now().UTC(),
				OwnerID:   p.UserID,
				OwnerName: p.FirstName,
				Title:     f.OriginalName,
				ProjectID: f.ProjectID,
				Data: map[string]any{
					"filename": f.Filename,
					"category": f.Category,
					"size":     f.Size,
				},
			})
		}
	}
	return c.JSON(http.StatusCreated, uploadResponse{Files: saved})
}

// Serve streams a stored file back to the client.
//
// @Summary      Download a file
// @Tags         files
// @Produce      octet-stream
// @Security     SessionCookie
// @Param        filename  path  string  true  "Stored filename"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /api/files/{filename} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	info := h.uploads.Info(c.Param("filename"))
	if !info.Exists {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}
	return c.File(h.uploads.Path(info.Filename))
}

// Info stats a stored file without sending its contents.
//
// @Summary      File metadata
// @Tags         files
// @Produce      json
// @Security     SessionCookie
// @Param        filename  path      string  true  "Stored filename"
// @Success      200       {object}  upload.FileInfo
// @Failure      404       {object}  map[string]string
// @Router       /api/files/{filename}/info [get]
func (h *UploadHandler) Info(c echo.Context) error {
	info := h.uploads.Info(c.Param("filename"))
	if !info.Exists {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}
	return c.JSON(http.StatusOK, info)
}
