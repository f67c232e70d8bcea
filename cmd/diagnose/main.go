// Command diagnose runs every configured source adapter once and reports
// what each one returns, without touching the database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"newsboard/internal/infra/fetcher"
	"newsboard/internal/infra/scraper"
	"newsboard/internal/observability/logging"
	envconfig "newsboard/pkg/config"
)

// Diagnostic statuses.
const (
	StatusOK        = "OK"
	StatusEmpty     = "EMPTY"
	StatusTransport = "TRANSPORT_ERROR"
	StatusParse     = "PARSE_ERROR"
)

// Diagnostic is the result of one source probe.
type Diagnostic struct {
	Name         string `json:"name"`
	Tag          string `json:"tag"`
	URL          string `json:"url"`
	Kind         string `json:"kind"`
	Status       string `json:"status"`
	ItemCount    int    `json:"item_count"`
	SampleTitle  string `json:"sample_title,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	sourcesFile := flag.String("sources", envconfig.GetEnvString("SOURCES_FILE", ""), "source definitions file (default: embedded)")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	timeout := flag.Duration("timeout", 30*time.Second, "per-source timeout")
	flag.Parse()

	if err := envconfig.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.NewLogger(os.Stderr, envconfig.GetEnvString("LOG_LEVEL", "info"))
	slog.SetDefault(logger)

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("invalid fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}
	sources, err := scraper.LoadSources(*sourcesFile)
	if err != nil {
		logger.Error("failed to load sources", slog.Any("error", err))
		os.Exit(1)
	}
	registry, err := scraper.NewRegistry(fetcher.New(fetchCfg), sources)
	if err != nil {
		logger.Error("failed to build source registry", slog.Any("error", err))
		os.Exit(1)
	}

	diagnostics := diagnoseAll(context.Background(), registry, *timeout)
	if *asJSON {
		err = writeJSON(os.Stdout, diagnostics)
	} else {
		err = writeReport(os.Stdout, diagnostics)
	}
	if err != nil {
		logger.Error("failed to write report", slog.Any("error", err))
		os.Exit(1)
	}
	for _, d := range diagnostics {
		if d.Status != StatusOK {
			os.Exit(2)
		}
	}
}

// diagnoseAll probes the tagged sources in declaration order, then the listing source.
func diagnoseAll(ctx context.Context, registry *scraper.Registry, timeout time.Duration) []Diagnostic {
	var bindings []scraper.Binding
	for _, tag := range registry.Tags() {
		b, _ := registry.Lookup(tag)
		bindings = append(bindings, b)
	}
	if b, ok := registry.Listing(); ok {
		bindings = append(bindings, b)
	}

	out := make([]Diagnostic, 0, len(bindings))
	for i, b := range bindings {
		slog.Info("diagnosing source",
			slog.Int("n", i+1),
			slog.Int("total", len(bindings)),
			slog.String("name", b.Source.Name))
		out = append(out, diagnose(ctx, b, timeout))
	}
	return out
}

func diagnose(ctx context.Context, b scraper.Binding, timeout time.Duration) Diagnostic {
	d := Diagnostic{
		Name: b.Source.Name,
		Tag:  string(b.Source.Tag),
		URL:  b.Source.URL,
		Kind: string(b.Source.Kind),
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	stubs, err := b.Adapter.Fetch(ctx, b.Source.URL)
	d.ResponseTime = time.Since(start).Milliseconds()

	switch {
	case errors.Is(err, fetcher.ErrTransport):
		d.Status = StatusTransport
		d.ErrorMessage = err.Error()
	case err != nil:
		d.Status = StatusParse
		d.ErrorMessage = err.Error()
	case len(stubs) == 0:
		d.Status = StatusEmpty
	default:
		d.Status = StatusOK
		d.ItemCount = len(stubs)
		d.SampleTitle = stubs[0].Title
	}
	return d
}

func writeJSON(w io.Writer, diagnostics []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diagnostics)
}

func writeReport(w io.Writer, diagnostics []Diagnostic) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTAG\tSTATUS\tITEMS\tTIME\tDETAIL")
	for _, d := range diagnostics {
		detail := d.SampleTitle
		if d.ErrorMessage != "" {
			detail = d.ErrorMessage
		}
		tag := d.Tag
		if tag == "" {
			tag = "(listing)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%dms\t%s\n", d.Name, tag, d.Status, d.ItemCount, d.ResponseTime, detail)
	}
	return tw.Flush()
}
