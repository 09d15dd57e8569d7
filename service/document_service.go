package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/shikoli-turnkeyafrica/mkopo/client"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// Fixed extraction prompts. The parsers in utils are tuned to the field
// labels these ask for; change them together or not at all.
const (
	identityPrompt = "Read this identity document photo and list every field you can see, " +
		"one per line, as 'Field: value'. Include Full Name, ID Number, Date of Birth, " +
		"Date of Expiry and Place of Birth if visible."

	incomePrompt = "Read this pay document photo and list every field you can see, " +
		"one per line, as 'Field: value'. Include Employee Name, Employer, Pay Period, " +
		"Gross Salary, Net Salary, and itemize the Deductions and Allowances sections."
)

// QR payloads are machine-readable, so they rank above any inference-based
// extraction without claiming perfection (cards do get damaged).
const qrConfidence = 0.95

// A digital PDF with fewer characters than this is treated as a scan.
const minEmbeddedTextLen = 20

// DocumentService orchestrates document intake: QR decode and PDF text
// extraction where possible, the external inference engine otherwise.
// Inference calls for one application run strictly sequentially with a
// context reset between documents (the engine is stateful).
type DocumentService struct {
	session      *client.Session
	pdfProcessor PDFProcessor
	extraction   *ExtractionService
}

func NewDocumentService(session *client.Session, pdfProcessor PDFProcessor, extraction *ExtractionService) *DocumentService {
	return &DocumentService{
		session:      session,
		pdfProcessor: pdfProcessor,
		extraction:   extraction,
	}
}

// ExtractIdentityFromImages produces one canonical identity record from
// front and back photos. The back side's QR code is tried first; when it
// decodes, the payload is authoritative and no inference call is made.
func (s *DocumentService) ExtractIdentityFromImages(ctx context.Context, front, back []byte) (dto.IdentityRecord, error) {
	if rec, ok := s.identityFromQR(back); ok {
		log.Println("Identity extracted from back-side QR code")
		return rec, nil
	}
	log.Println("No usable QR code on back side, falling back to inference")

	frontText, err := s.session.Describe(ctx, front, identityPrompt)
	if err != nil {
		log.Printf("Front side inference failed: %v", err)
	}
	backText, backErr := s.session.Describe(ctx, back, identityPrompt)
	if backErr != nil {
		log.Printf("Back side inference failed: %v", backErr)
	}

	if frontText == "" && backText == "" {
		return dto.IdentityRecord{}, fmt.Errorf("identity extraction failed on both sides: %w", err)
	}

	return s.extraction.ExtractIdentity(frontText, backText), nil
}

// ExtractIncomeFromFile produces one income record from an uploaded pay
// document: embedded text for digital PDFs, per-page inference for scans
// and photos.
func (s *DocumentService) ExtractIncomeFromFile(ctx context.Context, data []byte, filename, password string) (dto.IncomeRecord, error) {
	text, err := s.incomeDocumentText(ctx, data, filename, password)
	if err != nil {
		return dto.IncomeRecord{}, err
	}
	return s.extraction.ExtractIncome(text), nil
}

func (s *DocumentService) incomeDocumentText(ctx context.Context, data []byte, filename, password string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return s.session.Describe(ctx, data, incomePrompt)
	}

	// Digital PDF first: the text layer beats any inference pass.
	text, err := s.pdfProcessor.ExtractText(data)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", filename, err)
	}
	if len(strings.TrimSpace(text)) >= minEmbeddedTextLen {
		return text, nil
	}

	log.Printf("PDF %s has no usable text layer, describing page images", filename)
	images, err := s.pdfProcessor.ExtractImages(data, password)
	if err != nil {
		return "", fmt.Errorf("failed to extract images from PDF %s: %w", filename, err)
	}
	if len(images) == 0 {
		return "", fmt.Errorf("no page images found in PDF %s", filename)
	}

	var combined strings.Builder
	for idx, page := range images {
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, page); err != nil {
			log.Printf("Failed to encode page %d of %s: %v", idx+1, filename, err)
			continue
		}

		pageText, err := s.session.Describe(ctx, buf.Bytes(), incomePrompt)
		if err != nil {
			log.Printf("Inference failed for page %d of %s: %v", idx+1, filename, err)
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
	}

	if strings.TrimSpace(combined.String()) == "" {
		return "", fmt.Errorf("no text could be extracted from %s", filename)
	}
	return combined.String(), nil
}

// identityFromQR decodes the back-side QR code and parses its JSON
// payload into a validated identity record.
func (s *DocumentService) identityFromQR(imageBytes []byte) (dto.IdentityRecord, bool) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return dto.IdentityRecord{}, false
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return dto.IdentityRecord{}, false
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return dto.IdentityRecord{}, false
	}

	var payload dto.IdentityQRPayload
	if err := json.Unmarshal([]byte(result.GetText()), &payload); err != nil {
		log.Printf("QR code found but payload is not identity JSON: %v", err)
		return dto.IdentityRecord{}, false
	}
	if payload.FullName == "" || payload.IDNumber == "" {
		return dto.IdentityRecord{}, false
	}

	rec := dto.IdentityRecord{
		FullName:     payload.FullName,
		IDNumber:     strings.ToUpper(payload.IDNumber),
		DateOfBirth:  payload.DateOfBirth,
		ExpiryDate:   payload.ExpiryDate,
		PlaceOfBirth: payload.PlaceOfBirth,
		Confidence:   qrConfidence,
		CapturedAt:   time.Now(),
	}
	return rec.Validated(s.extraction.policy.LendingPolicy.MinExtractionConfidence), true
}
