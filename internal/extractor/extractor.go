package extractor

import (
	"context"
	"fmt"
	"strings"

	"dealpipe/internal/dto"
	"dealpipe/pkg/logger"

	"github.com/gen2brain/go-fitz"
)

// Extractor turns a stored deck into sanitized plain text. It never returns
// a Go error; failures are reported through ExtractionResult.
type Extractor interface {
	Extract(ctx context.Context, data []byte) dto.ExtractionResult
}

type pdfExtractor struct {
	log *logger.Logger
}

func NewPDFExtractor(log *logger.Logger) Extractor {
	return &pdfExtractor{log: log}
}

func (e *pdfExtractor) Extract(ctx context.Context, data []byte) dto.ExtractionResult {
	if len(data) == 0 {
		return dto.ExtractionResult{Error: "document is empty"}
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		e.log.ErrorContext(ctx, "Failed to open PDF", logger.ErrorField(err))
		return dto.ExtractionResult{Error: fmt.Sprintf("failed to open PDF: %v", err)}
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return dto.ExtractionResult{Error: "PDF has no pages"}
	}

	var sb strings.Builder
	for page := 0; page < pageCount; page++ {
		select {
		case <-ctx.Done():
			return dto.ExtractionResult{
				PageCount: pageCount,
				Error:     fmt.Sprintf("extraction cancelled: %v", ctx.Err()),
			}
		default:
		}

		pageText, err := doc.Text(page)
		if err != nil {
			// One unreadable page is not fatal to the document.
			e.log.WarnContext(ctx, "Failed to extract text from page",
				logger.IntField("page", page+1),
				logger.ErrorField(err),
			)
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n--- Page %d ---\n", page+1))
		sb.WriteString(pageText)
	}

	text := SanitizeText(sb.String())
	if text == "" {
		return dto.ExtractionResult{
			PageCount: pageCount,
			Error:     "no text could be extracted from PDF",
		}
	}

	return dto.ExtractionResult{
		Text:      text,
		PageCount: pageCount,
		OK:        true,
	}
}
