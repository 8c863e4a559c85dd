package parser

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Accepted upload MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

// SupportedMIMETypes lists the upload types this service can extract text from.
var SupportedMIMETypes = map[string]bool{
	MIMEPDF:  true,
	MIMEPNG:  true,
	MIMEJPEG: true,
}

// Upload is one file submitted with an analyze action.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// IsPDF reports whether the upload is routed to the PDF reader.
func (u Upload) IsPDF() bool {
	return u.MIMEType == MIMEPDF
}

// DetectMIME returns the media type for an upload. The declared type is used
// when present; a missing or generic declaration is sniffed from the content.
func DetectMIME(declared string, data []byte) string {
	mt := normalizeMIME(declared)
	if mt == "" || mt == "application/octet-stream" {
		mt = normalizeMIME(mimetype.Detect(data).String())
	}
	return mt
}

// IsSupportedMIME checks if a media type is accepted at the upload boundary.
func IsSupportedMIME(mt string) bool {
	return SupportedMIMETypes[normalizeMIME(mt)]
}

func normalizeMIME(mt string) string {
	mt = strings.TrimSpace(mt)
	if mt == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	mt = strings.ToLower(mt)
	if mt == "image/jpg" || mt == "image/pjpeg" {
		mt = MIMEJPEG
	}
	return mt
}

// FileReadError reports a malformed or unreadable document.
type FileReadError struct {
	Filename string
	Err      error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Filename, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// ServiceError reports a failed call to the document-processing service.
type ServiceError struct {
	Service string
	Code    string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %v", e.Service, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
