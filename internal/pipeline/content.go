package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// contentID marks the main content region of a biography page
const contentID = "mw-content-text"

// ExtractBiography returns the text of the main content region of a
// biography page. A page without the content element is a per-item error,
// not a fatal one.
func ExtractBiography(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse biography html: %w", err)
	}

	body := findFirst(doc, byID(contentID))
	if body == nil {
		return "", fmt.Errorf("content element %q not found", contentID)
	}

	text := extractText(body)
	if text == "" {
		return "", fmt.Errorf("content element %q is empty", contentID)
	}

	return text, nil
}
