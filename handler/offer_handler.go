package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/rules"
	"github.com/shikoli-turnkeyafrica/mkopo/service"
)

// OfferHandler produces term options and recalculates offers for
// user-adjusted amounts.
type OfferHandler struct {
	extractionService *service.ExtractionService
	offerService      *service.OfferService
	engine            *rules.Engine
}

func NewOfferHandler(extractionService *service.ExtractionService, offerService *service.OfferService, engine *rules.Engine) *OfferHandler {
	return &OfferHandler{
		extractionService: extractionService,
		offerService:      offerService,
		engine:            engine,
	}
}

// OfferOptions handles POST /offers/options: one offer per available loan
// term for an eligible application, sorted by term ascending.
func (h *OfferHandler) OfferOptions(c *gin.Context) {
	var req dto.AssessApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dataset := h.extractionService.BuildDataset(req.Identity, req.IncomeRecords)
	result := h.engine.Validate(dataset, req.RequestedAmount)

	options := h.offerService.GenerateOfferOptions(dataset, result, req.RequestedAmount)
	if options == nil {
		options = []dto.LoanOffer{}
	}

	log.Printf("Generated %d offer options for application %s", len(options), dataset.ID)
	c.JSON(http.StatusOK, dto.OfferOptionsResponse{Options: options})
}

// RecalculateOffer handles POST /offers/recalculate: an existing offer
// plus a user-adjusted amount in, a derived offer out. Amounts outside
// the base offer's affordable range yield 422 with no offer.
func (h *OfferHandler) RecalculateOffer(c *gin.Context) {
	var req dto.RecalculateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	offer := h.offerService.RecalculateOffer(req.Offer, req.NewAmount, req.IncomeRecords)
	if offer == nil {
		h.sendError(c, http.StatusUnprocessableEntity,
			"Requested amount is outside the affordable range of the offer", nil)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// sendError sends a structured error response.
func (h *OfferHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "OFFER_GENERATION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
