package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngestItemTitle(t *testing.T) {
	tests := []struct {
		name string
		item ingestItem
		want string
	}{
		{"topic wins", ingestItem{Topic: "Awards", Service: "mAgri"}, "Awards"},
		{"service next", ingestItem{Service: "mAgri", ServiceName: "other"}, "mAgri"},
		{"service_name last", ingestItem{ServiceName: "Vuka"}, "Vuka"},
		{"empty", ingestItem{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.title())
		})
	}
}

func TestIngestItemEntry(t *testing.T) {
	t.Run("explicit content", func(t *testing.T) {
		item := ingestItem{Topic: "Awards", Content: "We won the MIT Solver award.", Category: "Recognition"}
		entry := item.entry()
		assert.Equal(t, "Awards", entry.ServiceName)
		assert.Equal(t, "We won the MIT Solver award.", entry.Content)
		assert.Equal(t, "Recognition", entry.Metadata["category"])
	})

	t.Run("assembled content", func(t *testing.T) {
		item := ingestItem{
			Service:     "mAgri",
			USSDCode:    "*157#",
			Description: "Agricultural platform.",
			KeyFeatures: []string{"market prices", "farming advice"},
		}
		entry := item.entry()
		assert.Equal(t, "mAgri", entry.ServiceName)
		assert.Equal(t, "mAgri (*157#): Agricultural platform. Features: market prices, farming advice", entry.Content)
		assert.Equal(t, "*157#", entry.Metadata["ussd"])
		assert.Equal(t, "General", entry.Metadata["category"])
	})

	t.Run("features fallback", func(t *testing.T) {
		item := ingestItem{Service: "Vuka", USSDCode: "*156#", Description: "Social.", Features: []string{"profiles"}}
		assert.Contains(t, item.entry().Content, "profiles")
	})
}
