package models

import (
	"encoding/json"
	"testing"
)

func TestCommandIndexOptional(t *testing.T) {
	var cmd Command
	if err := json.Unmarshal([]byte(`{"action":"next"}`), &cmd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cmd.Action != ActionNext {
		t.Errorf("Expected action 'next', got '%s'", cmd.Action)
	}
	if cmd.Index != nil {
		t.Errorf("Expected nil index, got %d", *cmd.Index)
	}

	if err := json.Unmarshal([]byte(`{"action":"goto","index":0}`), &cmd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cmd.Index == nil || *cmd.Index != 0 {
		t.Errorf("Expected index 0 to survive decoding")
	}
}

func TestItemOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Item{ItemID: "v1", Showcase: "videos", Kind: KindVideo, Title: "Spot TV"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	_ = json.Unmarshal(b, &raw)
	if _, ok := raw["quote"]; ok {
		t.Errorf("Expected quote to be omitted for a video item")
	}
	if raw["title"] != "Spot TV" {
		t.Errorf("Expected title 'Spot TV', got '%v'", raw["title"])
	}
}
