package parser

import (
	"errors"
	"testing"
)

func TestDetectMIME_DeclaredTypeWins(t *testing.T) {
	tests := []struct {
		declared string
		want     string
	}{
		{"application/pdf", MIMEPDF},
		{"image/PNG", MIMEPNG},
		{"image/jpg", MIMEJPEG},
		{"image/jpeg; charset=binary", MIMEJPEG},
		{"text/plain", "text/plain"},
	}
	for _, tt := range tests {
		if got := DetectMIME(tt.declared, []byte("whatever")); got != tt.want {
			t.Errorf("DetectMIME(%q) = %q, want %q", tt.declared, got, tt.want)
		}
	}
}

func TestDetectMIME_SniffsGenericDeclarations(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	if got := DetectMIME("", png); got != MIMEPNG {
		t.Errorf("expected %q for sniffed png, got %q", MIMEPNG, got)
	}
	if got := DetectMIME("application/octet-stream", pdf); got != MIMEPDF {
		t.Errorf("expected %q for sniffed pdf, got %q", MIMEPDF, got)
	}
}

func TestIsSupportedMIME(t *testing.T) {
	for _, mt := range []string{MIMEPDF, MIMEPNG, MIMEJPEG, "image/jpg"} {
		if !IsSupportedMIME(mt) {
			t.Errorf("expected %q to be supported", mt)
		}
	}
	for _, mt := range []string{"", "text/plain", "image/gif", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"} {
		if IsSupportedMIME(mt) {
			t.Errorf("expected %q to be rejected", mt)
		}
	}
}

func TestErrorsUnwrap(t *testing.T) {
	base := errors.New("boom")
	if !errors.Is(&FileReadError{Filename: "x.pdf", Err: base}, base) {
		t.Error("FileReadError should unwrap to its cause")
	}
	if !errors.Is(&ServiceError{Service: "documentai", Err: base}, base) {
		t.Error("ServiceError should unwrap to its cause")
	}
}

func TestProcessorName(t *testing.T) {
	got := ProcessorName("my-project", "us", "6a4d6bf5a98ce47c")
	want := "projects/my-project/locations/us/processors/6a4d6bf5a98ce47c"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if ep := documentAIEndpoint(""); ep != "us-documentai.googleapis.com:443" {
		t.Errorf("unexpected default endpoint %q", ep)
	}
	if ep := documentAIEndpoint("eu"); ep != "eu-documentai.googleapis.com:443" {
		t.Errorf("unexpected eu endpoint %q", ep)
	}
}
