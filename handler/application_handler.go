package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/rules"
	"github.com/shikoli-turnkeyafrica/mkopo/service"
)

// ApplicationHandler runs rule validation and full assessments over an
// assembled application dataset.
type ApplicationHandler struct {
	extractionService *service.ExtractionService
	offerService      *service.OfferService
	engine            *rules.Engine
}

func NewApplicationHandler(extractionService *service.ExtractionService, offerService *service.OfferService, engine *rules.Engine) *ApplicationHandler {
	return &ApplicationHandler{
		extractionService: extractionService,
		offerService:      offerService,
		engine:            engine,
	}
}

// ValidateApplication handles POST /applications/validate: identity and
// income records in, the complete per-rule diagnostic picture out.
func (h *ApplicationHandler) ValidateApplication(c *gin.Context) {
	var req dto.ValidateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dataset := h.extractionService.BuildDataset(req.Identity, req.IncomeRecords)
	result := h.engine.Validate(dataset, req.RequestedAmount)

	log.Printf("Validated application %s: eligible=%v failed=%v",
		dataset.ID, result.IsEligible, result.FailedRules)
	c.JSON(http.StatusOK, result)
}

// AssessApplication handles POST /applications/assess: validation plus,
// when eligible, a generated offer in one call. A null offer on an
// ineligible application is the expected outcome, not an error.
func (h *ApplicationHandler) AssessApplication(c *gin.Context) {
	var req dto.AssessApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dataset := h.extractionService.BuildDataset(req.Identity, req.IncomeRecords)
	result := h.engine.Validate(dataset, req.RequestedAmount)
	offer := h.offerService.GenerateOffer(dataset, result, req.RequestedAmount, req.PreferredTerm)

	log.Printf("Assessed application %s: eligible=%v offer=%v",
		dataset.ID, result.IsEligible, offer != nil)
	c.JSON(http.StatusOK, dto.AssessApplicationResponse{
		Dataset:    dataset,
		Validation: result,
		Offer:      offer,
	})
}

// sendError sends a structured error response.
func (h *ApplicationHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "APPLICATION_VALIDATION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
