package handler

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/service"
)

// IdentityHandler handles identity document extraction requests.
type IdentityHandler struct {
	documentService   *service.DocumentService
	extractionService *service.ExtractionService
}

func NewIdentityHandler(documentService *service.DocumentService, extractionService *service.ExtractionService) *IdentityHandler {
	return &IdentityHandler{
		documentService:   documentService,
		extractionService: extractionService,
	}
}

// ExtractIdentity handles POST /identity/extract: front and back photos
// of one identity document in, one merged identity record out.
func (h *IdentityHandler) ExtractIdentity(c *gin.Context) {
	log.Println("Received identity extraction request")

	frontFile, err := c.FormFile("front")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Front image is required", err)
		return
	}
	backFile, err := c.FormFile("back")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Back image is required", err)
		return
	}

	front, err := readUpload(frontFile)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read front image", err)
		return
	}
	back, err := readUpload(backFile)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read back image", err)
		return
	}

	record, err := h.documentService.ExtractIdentityFromImages(c.Request.Context(), front, back)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to extract identity document", err)
		return
	}

	log.Println("Identity extraction completed successfully")
	c.JSON(http.StatusOK, record)
}

// ParseIdentity handles POST /identity/parse: raw inference text for the
// front and back sides in, one merged identity record out. Used by
// callers that run the inference step themselves.
func (h *IdentityHandler) ParseIdentity(c *gin.Context) {
	var req dto.IdentityParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	record := h.extractionService.ExtractIdentity(req.FrontText, req.BackText)
	c.JSON(http.StatusOK, record)
}

// sendError sends a structured error response.
func (h *IdentityHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "IDENTITY_EXTRACTION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}

// readUpload reads the full contents of one uploaded file.
func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
