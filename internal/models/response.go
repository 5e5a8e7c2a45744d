package models

import (
	"fmt"
	"strings"
)

// StructuredResponse is the shape-checked output of a generation call:
// either a single non-empty content block, or a sequentially numbered list.
// Exactly one of Content and Items is populated.
type StructuredResponse struct {
	Content string   `json:"content,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// NewContentResponse wraps a single content block, rejecting blank output.
func NewContentResponse(content string) (*StructuredResponse, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, fmt.Errorf("content block is empty")
	}
	return &StructuredResponse{Content: trimmed}, nil
}

// NewNumberedListResponse wraps a list of items, enforcing sequential
// numbering: item i must start with "i." (after leading whitespace),
// beginning at 1 with no gaps.
func NewNumberedListResponse(items []string) (*StructuredResponse, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("numbered list is empty")
	}
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			return nil, fmt.Errorf("item %d is empty", i+1)
		}
		prefix := fmt.Sprintf("%d.", i+1)
		if !strings.HasPrefix(strings.TrimLeft(item, " \t"), prefix) {
			return nil, fmt.Errorf("item %d does not start with %q", i+1, prefix)
		}
	}
	return &StructuredResponse{Items: items}, nil
}

// SequentiallyNumbered reports whether every string in items starts with
// its 1-based position followed by a dot, with no gaps. Used to validate
// caller-supplied question lists before they are echoed into a prompt.
func SequentiallyNumbered(items []string) bool {
	if len(items) == 0 {
		return false
	}
	for i, item := range items {
		if !strings.HasPrefix(strings.TrimLeft(item, " \t"), fmt.Sprintf("%d.", i+1)) {
			return false
		}
	}
	return true
}
