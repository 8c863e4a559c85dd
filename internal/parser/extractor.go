package parser

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// PDFReader returns the text layer of a PDF.
type PDFReader interface {
	ReadPDF(data []byte) (string, error)
}

// OCR turns an image into text through an external document-processing service.
type OCR interface {
	ProcessDocument(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Extraction methods reported per file.
const (
	MethodPDF = "pdf"
	MethodOCR = "ocr"
)

// FileResult reports how one upload fared during extraction.
type FileResult struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Method   string `json:"method"`
	Chars    int    `json:"chars"`
	Warning  string `json:"warning,omitempty"`

	Err error `json:"-"`
}

// Extractor produces the document text for one analyze batch.
type Extractor struct {
	pdf PDFReader
	ocr OCR
	log *zap.Logger
}

func NewExtractor(pdf PDFReader, ocr OCR, log *zap.Logger) *Extractor {
	return &Extractor{pdf: pdf, ocr: ocr, log: log}
}

// Extract returns the non-empty per-file texts joined by blank lines, in upload
// order. A file that fails contributes nothing and is reported in its
// FileResult; the rest of the batch still runs.
func (e *Extractor) Extract(ctx context.Context, uploads []Upload) (string, []FileResult) {
	results := make([]FileResult, 0, len(uploads))
	texts := make([]string, 0, len(uploads))

	for _, up := range uploads {
		res := FileResult{Filename: up.Filename, MIMEType: up.MIMEType}
		log := e.log.With(zap.String("filename", up.Filename), zap.String("mime_type", up.MIMEType))

		var text string
		var err error
		if up.IsPDF() {
			res.Method = MethodPDF
			text, err = e.pdf.ReadPDF(up.Data)
			if err != nil {
				err = &FileReadError{Filename: up.Filename, Err: err}
				res.Warning = "Error reading PDF: " + err.Error()
			}
		} else {
			res.Method = MethodOCR
			text, err = e.ocr.ProcessDocument(ctx, up.Data, up.MIMEType)
			if err != nil {
				res.Warning = "Document AI failed for " + up.Filename + ": " + err.Error()
			}
		}

		if err != nil {
			log.Warn("file extraction failed", zap.String("method", res.Method), zap.Error(err))
			res.Err = err
			results = append(results, res)
			continue
		}

		res.Chars = len(text)
		if strings.TrimSpace(text) == "" {
			res.Warning = "no extractable text"
			log.Info("file yielded no text", zap.String("method", res.Method))
		} else {
			texts = append(texts, text)
			log.Info("file extracted", zap.String("method", res.Method), zap.Int("chars", res.Chars))
		}
		results = append(results, res)
	}

	return strings.Join(texts, "\n\n"), results
}
