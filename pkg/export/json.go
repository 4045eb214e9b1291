package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chesedcore/evesses/pkg/event"
)

// HistoryDocument is the JSON shape of an exported timing history.
type HistoryDocument struct {
	Name   string               `json:"name,omitempty"`
	Events []*event.TimingEvent `json:"events"`
}

// ExportJSON serializes a timing history to JSON with 2-space indentation.
func ExportJSON(name string, history []*event.TimingEvent) ([]byte, error) {
	if history == nil {
		history = []*event.TimingEvent{}
	}
	doc := HistoryDocument{Name: name, Events: history}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportJSONCompact serializes a timing history to compact JSON.
func ExportJSONCompact(name string, history []*event.TimingEvent) ([]byte, error) {
	if history == nil {
		history = []*event.TimingEvent{}
	}
	doc := HistoryDocument{Name: name, Events: history}
	return json.Marshal(doc)
}

// SaveJSONToFile exports the history to an indented JSON file.
// The file is created with 0644 permissions.
func SaveJSONToFile(name string, history []*event.TimingEvent, filepath string) error {
	data, err := ExportJSON(name, history)
	if err != nil {
		return fmt.Errorf("failed to export history JSON: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}
