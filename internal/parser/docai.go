package parser

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/status"

	"github.com/dgallion1/demystify/internal/config"
)

// DocumentAIConfig identifies the Document AI processor used for images.
type DocumentAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
	Credentials config.Credentials
}

// DocumentAI calls the Google Document AI ProcessDocument API.
type DocumentAI struct {
	client    *documentai.DocumentProcessorClient
	processor string
}

func NewDocumentAI(ctx context.Context, cfg DocumentAIConfig) (*DocumentAI, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(documentAIEndpoint(cfg.Location)),
	}
	switch {
	case len(cfg.Credentials.JSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.Credentials.JSON))
	case cfg.Credentials.File != "":
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials.File))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create document ai client: %w", err)
	}
	return &DocumentAI{
		client:    client,
		processor: ProcessorName(cfg.ProjectID, cfg.Location, cfg.ProcessorID),
	}, nil
}

// ProcessorName builds the fully qualified processor resource name.
func ProcessorName(project, location, processor string) string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", project, location, processor)
}

func documentAIEndpoint(location string) string {
	if location == "" {
		location = "us"
	}
	return location + "-documentai.googleapis.com:443"
}

// ProcessDocument sends raw bytes to the processor and returns the document text.
func (d *DocumentAI) ProcessDocument(ctx context.Context, data []byte, mimeType string) (string, error) {
	req := &documentaipb.ProcessRequest{
		Name: d.processor,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
	}
	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return "", &ServiceError{Service: "documentai", Code: status.Code(err).String(), Err: err}
	}
	return resp.GetDocument().GetText(), nil
}

// Close releases the underlying connection.
func (d *DocumentAI) Close() error {
	return d.client.Close()
}
