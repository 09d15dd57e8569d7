package main

import (
	"log"

	"github.com/shikoli-turnkeyafrica/mkopo/client"
	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/handler"
	"github.com/shikoli-turnkeyafrica/mkopo/rules"
	"github.com/shikoli-turnkeyafrica/mkopo/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// The lending policy is required; there is no safe default to run
	// assessments against.
	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		log.Fatalf("Failed to load lending policy from %s: %v", cfg.PolicyPath, err)
	}
	log.Printf("Lending policy loaded from %s", cfg.PolicyPath)

	// Initialize the vision inference client. The engine is stateful, so
	// all document calls go through one sequential session.
	visionClient := client.NewVisionClient(cfg.InferenceAPIURL)
	session := client.NewSession(visionClient)

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	extractionService := service.NewExtractionService(policy)
	documentService := service.NewDocumentService(session, pdfProcessor, extractionService)
	offerService := service.NewOfferService(policy)
	engine := rules.NewEngine(policy)

	// Initialize handler layer
	identityHandler := handler.NewIdentityHandler(documentService, extractionService)
	incomeHandler := handler.NewIncomeHandler(documentService, extractionService)
	applicationHandler := handler.NewApplicationHandler(extractionService, offerService, engine)
	offerHandler := handler.NewOfferHandler(extractionService, offerService, engine)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Mkopo Loan Assessment",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		identity := api.Group("/identity")
		{
			identity.POST("/extract", identityHandler.ExtractIdentity)
			identity.POST("/parse", identityHandler.ParseIdentity)
		}

		income := api.Group("/income")
		{
			income.POST("/extract", incomeHandler.ExtractIncome)
			income.POST("/parse", incomeHandler.ParseIncome)
		}

		applications := api.Group("/applications")
		{
			applications.POST("/validate", applicationHandler.ValidateApplication)
			applications.POST("/assess", applicationHandler.AssessApplication)
		}

		offers := api.Group("/offers")
		{
			offers.POST("/options", offerHandler.OfferOptions)
			offers.POST("/recalculate", offerHandler.RecalculateOffer)
		}
	}

	// Start server
	log.Printf("Starting Mkopo Loan Assessment Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
