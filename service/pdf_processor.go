package service

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFProcessor handles the two kinds of PDF pay documents we receive:
// digital PDFs whose text layer can be read directly, and scanned PDFs
// whose pages must be extracted as images and sent to the inference
// engine.
type PDFProcessor interface {
	ExtractText(pdfData []byte) (string, error)
	ExtractImages(pdfData []byte, password string) ([]image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractText reads the embedded text layer of a digital PDF. Scanned
// PDFs come back (near-)empty; the caller falls through to image
// extraction in that case.
func (p *pdfProcessor) ExtractText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder bytes.Buffer
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, _ := page.GetTextByRow()
		for _, row := range rows {
			for _, word := range row.Content {
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

// ExtractImages pulls every embedded page image out of a (possibly
// password-protected) PDF so the pages can be described individually.
func (p *pdfProcessor) ExtractImages(pdfData []byte, password string) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "payslip_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "payslip-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
	}

	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		imgFile, err := os.Open(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}

		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}
