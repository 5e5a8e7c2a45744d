package pipeline

import (
	"strings"

	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
)

// shapeOutput validates raw generation output against the shape the
// feature promised: a sequentially numbered list for question and answer
// generation, a single non-empty content block for everything else.
func shapeOutput(feature models.Feature, raw string) (*models.StructuredResponse, error) {
	if !feature.NumberedOutput() {
		resp, err := models.NewContentResponse(raw)
		if err != nil {
			return nil, fault.Wrap(fault.CodeMalformedOutput,
				"generation output failed structure validation", err)
		}
		return resp, nil
	}

	var items []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	resp, err := models.NewNumberedListResponse(items)
	if err != nil {
		return nil, fault.Wrap(fault.CodeMalformedOutput,
			"generation output failed structure validation", err)
	}
	return resp, nil
}
