package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/cid/internal/intake"
	"github.com/your-org/cid/pkg/dto"
)

type UploadHandler struct {
	intake *intake.Intake
}

func NewUploadHandler(in *intake.Intake) *UploadHandler {
	return &UploadHandler{intake: in}
}

// Stage accepts a multipart upload and stages it for analysis. The path
// parameter selects the kind: image (reference face) or video.
func (h *UploadHandler) Stage(c *gin.Context) {
	kind := intake.Kind(c.Param("kind"))

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	sf, err := h.intake.Stage(kind, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, intake.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, intake.ErrUnsupportedType):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		case errors.Is(err, intake.ErrUnknownKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewStagedFileResponse(sf))
}

// Preview serves a staged file back to the browser.
func (h *UploadHandler) Preview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload id"})
		return
	}

	sf, ok := h.intake.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}

	c.Header("Content-Type", sf.MIME)
	c.File(sf.Path)
}

// Clear releases the staged file of the given kind.
func (h *UploadHandler) Clear(c *gin.Context) {
	kind := intake.Kind(c.Param("kind"))
	if kind != intake.KindImage && kind != intake.KindVideo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown upload kind"})
		return
	}

	h.intake.Clear(kind)
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
