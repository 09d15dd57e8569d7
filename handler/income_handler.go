package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/service"
)

// IncomeHandler handles pay document extraction requests.
type IncomeHandler struct {
	documentService   *service.DocumentService
	extractionService *service.ExtractionService
}

func NewIncomeHandler(documentService *service.DocumentService, extractionService *service.ExtractionService) *IncomeHandler {
	return &IncomeHandler{
		documentService:   documentService,
		extractionService: extractionService,
	}
}

// ExtractIncome handles POST /income/extract: one pay document upload
// (photo or PDF, optional PDF password) in, one income record out.
func (h *IncomeHandler) ExtractIncome(c *gin.Context) {
	log.Println("Received income extraction request")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "A pay document file is required", err)
		return
	}
	password := c.PostForm("password")

	data, err := readUpload(fileHeader)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read uploaded file", err)
		return
	}

	record, err := h.documentService.ExtractIncomeFromFile(c.Request.Context(), data, fileHeader.Filename, password)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to extract pay document", err)
		return
	}

	log.Println("Income extraction completed successfully")
	c.JSON(http.StatusOK, record)
}

// ParseIncome handles POST /income/parse: raw inference text for one pay
// document in, one income record out.
func (h *IncomeHandler) ParseIncome(c *gin.Context) {
	var req dto.IncomeParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	record := h.extractionService.ExtractIncome(req.Text)
	c.JSON(http.StatusOK, record)
}

// sendError sends a structured error response.
func (h *IncomeHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "INCOME_EXTRACTION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
