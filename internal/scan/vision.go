package scan

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"

	"ledger/internal/logger"
)

// MaxPagesSync is the number of PDF pages Vision reads synchronously.
const MaxPagesSync = 5

// VisionReader implements TextReader using Google Cloud Vision document text detection.
type VisionReader struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewVisionReader creates a reader with credentials from the environment.
func NewVisionReader(ctx context.Context) (*VisionReader, error) {
	const op = "NewVisionReader"

	client, err := vision.NewImageAnnotatorClient(ctx, credentialOptions()...)
	if err != nil {
		return nil, wrapError(op, ErrMissingCredentials, err.Error())
	}

	return &VisionReader{
		client: client,
		log:    logger.WithComponent("vision"),
	}, nil
}

// ReadText returns the detected text. PDFs go through file annotation (first
// five pages, joined with page markers); images through image annotation.
func (v *VisionReader) ReadText(ctx context.Context, content []byte, mimeType string) (string, error) {
	const op = "ReadText"

	var (
		text string
		err  error
	)
	if mimeType == "application/pdf" {
		text, err = v.readFile(ctx, content, mimeType)
	} else {
		text, err = v.readImage(ctx, content)
	}
	if err != nil {
		return "", wrapError(op, err, "")
	}

	if strings.TrimSpace(text) == "" {
		return "", wrapError(op, ErrEmptyDocument, "")
	}

	v.log.Debug().Int("text_length", len(text)).Msg("OCR extraction completed")
	return text, nil
}

func (v *VisionReader) readImage(ctx context.Context, content []byte) (string, error) {
	resp, err := v.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image:    &visionpb.Image{Content: content},
				Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: Vision API call failed: %v", ErrOCRFailed, err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", fmt.Errorf("%w: no response from Vision API", ErrOCRFailed)
	}

	img := resp.GetResponses()[0]
	if img.GetError() != nil {
		return "", fmt.Errorf("%w: Vision API error: %s", ErrOCRFailed, img.GetError().GetMessage())
	}
	return img.GetFullTextAnnotation().GetText(), nil
}

func (v *VisionReader) readFile(ctx context.Context, content []byte, mimeType string) (string, error) {
	pages := make([]int32, 0, MaxPagesSync)
	for i := int32(1); i <= MaxPagesSync; i++ {
		pages = append(pages, i)
	}

	resp, err := v.client.BatchAnnotateFiles(ctx, &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  content,
					MimeType: mimeType,
				},
				Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
				Pages:    pages,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: Vision API call failed: %v", ErrOCRFailed, err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", fmt.Errorf("%w: no response from Vision API", ErrOCRFailed)
	}

	fileResp := resp.GetResponses()[0]
	if fileResp.GetError() != nil {
		return "", fmt.Errorf("%w: Vision API error: %s", ErrOCRFailed, fileResp.GetError().GetMessage())
	}

	var b strings.Builder
	for i, page := range fileResp.GetResponses() {
		if page.GetError() != nil {
			return "", fmt.Errorf("%w: page %d: %s", ErrOCRFailed, i+1, page.GetError().GetMessage())
		}
		if i > 0 {
			fmt.Fprintf(&b, "\n\n--- Page %d ---\n\n", i+1)
		}
		b.WriteString(page.GetFullTextAnnotation().GetText())
	}
	return b.String(), nil
}

// Close closes the underlying Vision client.
func (v *VisionReader) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
