package feed

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"trovekeep/internal/services"
)

// DefaultPayloadMarker is the element id carrying the embedded catalog
// payload inside the root document.
const DefaultPayloadMarker = "webpack-monthly-trove-data"

// Extractor locates the embedded catalog payload inside the root document.
// It is an opaque capability: implementations know nothing about cache or
// catalog structure.
type Extractor interface {
	Extract(doc []byte) ([]byte, error)
}

// HTMLExtractor finds the payload by walking the DOM for an element with a
// known id and returning its text content.
type HTMLExtractor struct {
	marker string
}

// NewHTMLExtractor constructs an extractor for the given element id. An
// empty marker selects DefaultPayloadMarker.
func NewHTMLExtractor(marker string) *HTMLExtractor {
	if strings.TrimSpace(marker) == "" {
		marker = DefaultPayloadMarker
	}
	return &HTMLExtractor{marker: marker}
}

// Extract returns the text content of the marker element.
func (e *HTMLExtractor) Extract(doc []byte) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "feed", "parse root document", e.marker, err)
	}

	node := findByID(root, e.marker)
	if node == nil {
		return nil, services.Wrap(services.ErrParse, "feed", "locate payload", e.marker, nil)
	}

	text := strings.TrimSpace(collectText(node))
	if text == "" {
		return nil, services.Wrap(services.ErrParse, "feed", "empty payload", e.marker, nil)
	}
	return []byte(text), nil
}

func findByID(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		for _, attr := range node.Attr {
			if attr.Key == "id" && attr.Val == id {
				return node
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func collectText(node *html.Node) string {
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String()
}
