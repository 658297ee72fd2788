package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"prism-engine/internal/config"
	"prism-engine/internal/ingestion"
	"prism-engine/internal/llm"
	"prism-engine/internal/observability"
	"prism-engine/internal/orchestrator"
	"prism-engine/internal/reporting"
	"prism-engine/internal/storage/memory"
)

func main() {
	dataDir := flag.String("data", "data", "Directory holding partners.csv, subs.csv, clients.csv, trades.csv")
	outDir := flag.String("out", "", "Directory for report files (default: stdout markdown only)")
	format := flag.String("format", "md", "Report formats: md, csv, html, or all")
	serveMetrics := flag.Bool("serve-metrics", false, "Keep serving Prometheus metrics after the pass")
	llmEnrich := flag.Bool("llm-enrich", false, "Ask the configured LLM for an analyst narrative per case")

	flag.Parse()

	logger := log.New(os.Stderr, "[detect] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Loading config: %v", err)
	}

	snap, err := ingestion.LoadSnapshotFromFiles(
		filepath.Join(*dataDir, "partners.csv"),
		filepath.Join(*dataDir, "subs.csv"),
		filepath.Join(*dataDir, "clients.csv"),
		filepath.Join(*dataDir, "trades.csv"),
		nil,
	)
	if err != nil {
		observability.DefaultMetrics.SnapshotLoadsByTable.WithLabelValues("snapshot", "error").Inc()
		logger.Fatalf("Loading snapshot: %v", err)
	}
	for _, table := range []string{ingestion.TablePartners, ingestion.TableSubAffiliates, ingestion.TableClients, ingestion.TableTrades} {
		observability.DefaultMetrics.SnapshotLoadsByTable.WithLabelValues(table, "success").Inc()
	}
	observability.DefaultMetrics.TradesLoaded.Add(float64(len(snap.Trades)))
	observability.DefaultMetrics.TradeRowsSkipped.Add(float64(snap.SkippedTrades))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	partnerStore := memory.NewPartnerStore()
	subStore := memory.NewSubAffiliateStore()
	clientStore := memory.NewClientStore()
	tradeStore := memory.NewTradeStore()

	if err := partnerStore.InsertBulk(ctx, snap.Partners); err != nil {
		logger.Fatalf("Storing partners: %v", err)
	}
	if err := subStore.InsertBulk(ctx, snap.SubAffiliates); err != nil {
		logger.Fatalf("Storing sub-affiliates: %v", err)
	}
	if err := clientStore.InsertBulk(ctx, snap.Clients); err != nil {
		logger.Fatalf("Storing clients: %v", err)
	}
	if err := tradeStore.InsertBulk(ctx, snap.Trades); err != nil {
		logger.Fatalf("Storing trades: %v", err)
	}

	o := orchestrator.New(tradeStore, clientStore, subStore, partnerStore, cfg, nil)
	res, err := o.RunPass(ctx)
	if err != nil {
		logger.Fatalf("Detection pass failed: %v", err)
	}

	summary, err := o.Summary(ctx)
	if err != nil {
		logger.Fatalf("Summarizing snapshot: %v", err)
	}
	summary.SkippedTrades = snap.SkippedTrades

	report := reporting.NewGenerator().Generate(res.ReportInput(summary))

	if *outDir == "" {
		fmt.Print(reporting.RenderMarkdown(report))
	} else {
		if err := writeReports(*outDir, *format, report); err != nil {
			logger.Fatalf("Writing reports: %v", err)
		}
		logger.Printf("Reports written to %s", *outDir)
	}

	if *llmEnrich {
		if err := enrichWithLLM(ctx, cfg, res, *outDir, logger); err != nil {
			logger.Printf("LLM enrichment skipped: %v", err)
		}
	}

	if *serveMetrics {
		addr := fmt.Sprintf(":%d", cfg.PrometheusPort)
		logger.Printf("Serving metrics on %s/metrics", addr)
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Metrics server: %v", err)
		}
	}
}

// enrichWithLLM asks the configured provider for an analyst narrative
// per case and writes them alongside the reports (or stdout).
func enrichWithLLM(ctx context.Context, cfg *config.Config, res *orchestrator.Results, outDir string, logger *log.Logger) error {
	if cfg.LLMAPIKey == "" {
		return fmt.Errorf("no LLM_API_KEY configured")
	}

	client := llm.NewClient(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel)
	if !client.TestConnection(ctx) {
		return fmt.Errorf("provider %s connection test failed", cfg.LLMProvider)
	}

	var sb strings.Builder
	sb.WriteString("# Analyst Narratives\n\n")
	for _, ev := range res.Evidence {
		prompt := fmt.Sprintf(
			"Case hypothesis: %s\nIndicators: %s\nConfidence: %.2f\n"+
				"Write a short analyst narrative assessing this fraud case.",
			ev.Hypothesis, strings.Join(ev.Indicators, "; "), ev.Confidence)

		narrative, err := client.Analyze(ctx, prompt)
		if err != nil {
			logger.Printf("Analysis failed for case %s: %v", ev.CaseID[:12], err)
			continue
		}
		sb.WriteString(fmt.Sprintf("## Case %s\n\n%s\n\n", ev.CaseID[:12], narrative))
	}

	if outDir == "" {
		fmt.Print(sb.String())
		return nil
	}
	return os.WriteFile(filepath.Join(outDir, "narratives.md"), []byte(sb.String()), 0o644)
}

func writeReports(dir, format string, report *reporting.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if format == "md" || format == "all" {
		if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			return err
		}
	}
	if format == "csv" || format == "all" {
		if err := os.WriteFile(filepath.Join(dir, "findings.csv"), []byte(reporting.RenderFindingsCSV(report)), 0o644); err != nil {
			return err
		}
	}
	if format == "html" || format == "all" {
		html, err := reporting.RenderHTML(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "report.html"), []byte(html), 0o644); err != nil {
			return err
		}
	}
	return nil
}
