package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Online file annotation processes at most this many PDF pages per request.
const maxInlinePDFPages = 5

// GoogleVision implements Client on the Cloud Vision API using
// DOCUMENT_TEXT_DETECTION, which handles dense and right-to-left text.
type GoogleVision struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
}

// NewGoogleVision builds the Vision client. Credentials come from
// GOOGLE_APPLICATION_CREDENTIALS or ambient application default credentials.
func NewGoogleVision(ctx context.Context, timeout time.Duration) (*GoogleVision, error) {
	var opts []option.ClientOption
	if creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GoogleVision{client: client, timeout: timeout}, nil
}

func (g *GoogleVision) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// ImageText OCRs a single raster image.
func (g *GoogleVision) ImageText(ctx context.Context, img []byte, mimeType string) (string, error) {
	if len(img) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: img},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if r0.FullTextAnnotation == nil {
		return "", nil
	}
	return r0.FullTextAnnotation.Text, nil
}

// PDFText OCRs a PDF with inline file annotation. The online endpoint caps
// the request at five pages, which covers the study-note uploads this
// service sees in practice.
func (g *GoogleVision) PDFText(ctx context.Context, doc []byte, progress ProgressFunc) (string, error) {
	if len(doc) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	pages := make([]int32, 0, maxInlinePDFPages)
	for p := int32(1); p <= maxInlinePDFPages; p++ {
		pages = append(pages, p)
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  doc,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				Pages: pages,
			},
		},
	}

	resp, err := g.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateFiles: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}

	fileResp := resp.Responses[0]
	if fileResp.Error != nil && fileResp.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", fileResp.Error.Message)
	}

	total := len(fileResp.Responses)
	var out strings.Builder
	for i, pageResp := range fileResp.Responses {
		if progress != nil {
			progress(i+1, total)
		}
		if pageResp == nil {
			continue
		}
		if pageResp.Error != nil && pageResp.Error.Message != "" {
			continue
		}
		if pageResp.FullTextAnnotation == nil {
			continue
		}
		txt := strings.TrimSpace(pageResp.FullTextAnnotation.Text)
		if txt == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(txt)
	}
	return out.String(), nil
}

var _ Client = (*GoogleVision)(nil)
