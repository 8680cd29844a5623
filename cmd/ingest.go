package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brastorne/lebo/internal/app"
	"github.com/brastorne/lebo/internal/config"
	"github.com/brastorne/lebo/internal/knowledge"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.json>",
	Short: "Embed and upsert knowledge base entries",
	Long: `Ingest reads a JSON array of knowledge items, generates an
embedding for each and upserts it keyed by service name. Existing
entries with the same service name are overwritten. Items that fail to
embed are logged and skipped; the rest of the file still loads.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// ingestItem is one source record. Either content is given directly, or
// it is assembled from the service fields.
type ingestItem struct {
	Topic       string   `json:"topic"`
	Service     string   `json:"service"`
	ServiceName string   `json:"service_name"`
	Content     string   `json:"content"`
	USSDCode    string   `json:"ussd_code"`
	Description string   `json:"description"`
	KeyFeatures []string `json:"key_features"`
	Features    []string `json:"features"`
	Category    string   `json:"category"`
	Leadership  string   `json:"leadership"`
	Awards      string   `json:"awards"`
	Countries   string   `json:"countries"`
}

// title returns the natural key for the item.
func (it ingestItem) title() string {
	switch {
	case it.Topic != "":
		return it.Topic
	case it.Service != "":
		return it.Service
	default:
		return it.ServiceName
	}
}

// entry converts the item to a knowledge entry, assembling the
// embeddable text when no content is given.
func (it ingestItem) entry() knowledge.Entry {
	content := it.Content
	if content == "" {
		features := it.KeyFeatures
		if len(features) == 0 {
			features = it.Features
		}
		content = fmt.Sprintf("%s (%s): %s Features: %s",
			it.Service, it.USSDCode, it.Description, strings.Join(features, ", "))
	}

	metadata := map[string]string{}
	if it.USSDCode != "" {
		metadata["ussd"] = it.USSDCode
	}
	if it.Category != "" {
		metadata["category"] = it.Category
	} else {
		metadata["category"] = "General"
	}
	if it.Leadership != "" {
		metadata["leadership"] = it.Leadership
	}
	if it.Awards != "" {
		metadata["awards"] = it.Awards
	}
	if it.Countries != "" {
		metadata["countries"] = it.Countries
	}

	return knowledge.Entry{
		ServiceName: it.title(),
		Content:     content,
		Metadata:    metadata,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateChat(); err != nil {
		return fmt.Errorf("ingest needs the chat pipeline: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	var items []ingestItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if len(items) == 0 {
		return fmt.Errorf("%s contains no items", args[0])
	}

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	store := a.Knowledge

	var failed int
	for _, item := range items {
		title := item.title()
		if title == "" {
			logger.Warn("skipping item without a title")
			failed++
			continue
		}
		if err := store.Upsert(ctx, item.entry()); err != nil {
			logger.Error("failed to ingest item", "service", title, "error", err)
			failed++
			continue
		}
		logger.Info("ingested", "service", title)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d items failed", failed, len(items))
	}
	logger.Info("knowledge base ingestion complete", "items", len(items))
	return nil
}
