package models

import (
	"encoding/json"
	"testing"
)

func TestPageJSONFieldNames(t *testing.T) {
	page := Page{Link: Link{Address: "https://example.com/a", Depth: 1}, HTML: "<html></html>"}
	payload, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal page: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("unmarshal page: %v", err)
	}
	if len(fields) != 2 || fields["html"] != "<html></html>" {
		t.Fatalf("unexpected page payload: %s", payload)
	}
	link, ok := fields["link"].(map[string]any)
	if !ok || len(link) != 2 || link["address"] != "https://example.com/a" || link["depth"] != float64(1) {
		t.Fatalf("unexpected link payload: %s", payload)
	}
}

func TestLinkChildIncrementsDepth(t *testing.T) {
	parent := Link{Address: "https://example.com/", Depth: 3}
	child := parent.Child("https://example.com/next")
	if child.Depth != 4 {
		t.Fatalf("expected depth 4, got %d", child.Depth)
	}
	if child.Address != "https://example.com/next" {
		t.Fatalf("unexpected child address: %s", child.Address)
	}
	if parent.Depth != 3 {
		t.Fatalf("parent mutated: %+v", parent)
	}
}
