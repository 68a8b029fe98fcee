package gateway

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vbonduro/foodiq/internal/domain"
	"github.com/vbonduro/foodiq/internal/llm"
	"github.com/vbonduro/foodiq/internal/prompt"
)

// MaxImageSize is the largest decoded label photo accepted for extraction.
const MaxImageSize = 10 * 1024 * 1024 // 10 MB

// User-facing extraction failure messages.
const (
	MsgNotAnImage    = "Please upload an image file"
	MsgImageTooLarge = "Image size should be less than 10MB"
	MsgNoIngredients = "Could not find ingredients list in this image. Please try a clearer photo of the ingredients section."
	MsgImageUnclear  = "The image is too blurry or unclear. Please take a clearer photo."
	MsgFailed        = "Failed to process image. Please try again."
)

type ExtractionGateway struct {
	completer llm.Completer
	logger    *slog.Logger
}

func NewExtractionGateway(c llm.Completer, logger *slog.Logger) *ExtractionGateway {
	return &ExtractionGateway{completer: c, logger: logger}
}

// Extract reads the ingredients section from a label photo given as a data
// URL. Every failure is reported in the result, never as an error.
func (g *ExtractionGateway) Extract(ctx context.Context, imageDataURL string) domain.ExtractionResult {
	_, data, err := llm.ParseImageDataURL(imageDataURL)
	if err != nil {
		g.logger.Info("extraction rejected image", "error", err)
		return domain.ExtractionFailed(MsgNotAnImage)
	}
	if len(data) > MaxImageSize {
		g.logger.Info("extraction rejected image", "bytes", len(data))
		return domain.ExtractionFailed(MsgImageTooLarge)
	}

	text, err := g.completer.CompleteWithImage(ctx, prompt.Extraction, imageDataURL)
	if err != nil {
		g.logger.Error("extraction call failed", "error", err)
		return domain.ExtractionFailed(MsgFailed)
	}

	switch {
	case strings.Contains(text, prompt.NoIngredientsFound):
		return domain.ExtractionFailed(MsgNoIngredients)
	case strings.Contains(text, prompt.ImageUnclear):
		return domain.ExtractionFailed(MsgImageUnclear)
	}

	ingredients := strings.TrimSpace(text)
	if ingredients == "" {
		return domain.ExtractionFailed(MsgNoIngredients)
	}
	return domain.ExtractionOK(ingredients)
}
