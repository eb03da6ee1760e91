package feed

import (
	"errors"
	"testing"

	"trovekeep/internal/services"
)

func TestExtractFindsPayload(t *testing.T) {
	doc := []byte(`<html><head></head><body>
<div class="wrapper"><script id="webpack-monthly-trove-data" type="application/json">
  {"chunks": 2}
</script></div>
</body></html>`)

	payload, err := NewHTMLExtractor("").Extract(doc)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if string(payload) != `{"chunks": 2}` {
		t.Errorf("payload: got %q", payload)
	}
}

func TestExtractCustomMarker(t *testing.T) {
	doc := []byte(`<html><body><div id="other-data">{"a":1}</div></body></html>`)

	payload, err := NewHTMLExtractor("other-data").Extract(doc)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if string(payload) != `{"a":1}` {
		t.Errorf("payload: got %q", payload)
	}
}

func TestExtractMissingMarkerIsParseError(t *testing.T) {
	doc := []byte(`<html><body><p>no data here</p></body></html>`)

	_, err := NewHTMLExtractor("").Extract(doc)
	if err == nil {
		t.Fatal("expected error for missing marker")
	}
	if !errors.Is(err, services.ErrParse) {
		t.Errorf("error should classify as parse: %v", err)
	}
}

func TestExtractEmptyPayloadIsParseError(t *testing.T) {
	doc := []byte(`<html><body><script id="webpack-monthly-trove-data">   </script></body></html>`)

	_, err := NewHTMLExtractor("").Extract(doc)
	if err == nil {
		t.Fatal("expected error for empty payload")
	}
	if !errors.Is(err, services.ErrParse) {
		t.Errorf("error should classify as parse: %v", err)
	}
}
