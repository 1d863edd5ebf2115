package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/germanamz/modelsync/pkg/discovery"
	"github.com/germanamz/modelsync/pkg/document"
	"github.com/germanamz/modelsync/pkg/modeladapter"
	"github.com/germanamz/modelsync/pkg/ranking"
)

// Status tells which tier produced the written document.
type Status string

const (
	// Written means the regular document was produced and persisted.
	Written Status = "written"
	// Fallback means an unexpected error replaced it with document.Fallback.
	Fallback Status = "fallback"
)

// Outcome is the result of a run. Run never fails: errors are carried in Err
// and always come with Status Fallback.
type Outcome struct {
	Status   Status
	Document document.ModelsDocument
	Reports  []Report // In output order. Empty if the run failed before ranking.
	Err      error
}

// Report describes how one provider's preference list was obtained.
type Report struct {
	discovery.Result
	Preferred    int  // Length of the prefer list.
	UsedFallback bool // The prefer list is the configured fallback list.
}

// rateLimitReporter is implemented by listers that track rate limit headers.
type rateLimitReporter interface {
	LastRateLimitInfo() *modeladapter.RateLimitInfo
}

// Engine runs discovery, ranking and persistence for one configuration.
type Engine struct {
	cfg       Config
	log       *slog.Logger
	client    *http.Client
	factories map[string]ListerFactory
	writeFile func(path string, data []byte) error
	stdout    io.Writer
}

// Option customizes an Engine.
type Option func(*Engine)

// WithHTTPClient sets the client used by every lister.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

// WithLister replaces the lister factory of the named provider.
func WithLister(provider string, f ListerFactory) Option {
	return func(e *Engine) { e.factories[provider] = f }
}

// WithFileWriter replaces the function used to persist the output file.
func WithFileWriter(f func(path string, data []byte) error) Option {
	return func(e *Engine) { e.writeFile = f }
}

// WithStdout sets where dry runs print the document.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// New creates an Engine. The config is validated by Run so that an invalid
// config still ends in a fallback document.
func New(cfg Config, log *slog.Logger, opts ...Option) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		cfg:       cfg,
		log:       log,
		factories: defaultFactories(),
		writeFile: document.WriteBytes,
		stdout:    os.Stdout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run discovers, ranks, assembles and writes the document. Any error or panic
// that escapes the per-provider recovery is logged with a FATAL marker and
// answered by writing document.Fallback to the same path.
func (e *Engine) Run(ctx context.Context) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = e.fallback(ctx, fmt.Errorf("engine: panic: %v", r), out.Reports)
		}
	}()

	if err := e.cfg.Validate(); err != nil {
		return e.fallback(ctx, err, nil)
	}

	doc, reports := e.assemble(e.discover(ctx))
	out.Reports = reports

	if err := e.persist(ctx, doc); err != nil {
		return e.fallback(ctx, err, out.Reports)
	}

	e.log.InfoContext(ctx, fmt.Sprintf("%s %s, counts: %s",
		filepath.Base(e.cfg.Output), e.verb(), countsOf(doc)))

	out.Status = Written
	out.Document = doc

	return out
}

// discover runs every provider's discovery in output order.
func (e *Engine) discover(ctx context.Context) []discovery.Result {
	timeout, _ := e.cfg.RequestTimeout()

	client := e.client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	providers := e.cfg.providers()
	results := make([]discovery.Result, 0, len(providers))

	for _, p := range providers {
		factory, ok := e.factories[p.name]
		if !ok {
			panic(fmt.Sprintf("no lister registered for provider %q", p.name))
		}

		var lister discovery.Lister
		res := discovery.Discover(ctx, e.log, p.name, p.cfg.APIKey, func(key string) discovery.Lister {
			lister = factory(p.cfg, key, client)
			return lister
		})

		if r, ok := lister.(rateLimitReporter); ok {
			if info := r.LastRateLimitInfo(); info != nil {
				e.log.DebugContext(ctx, "rate limit",
					"provider", p.name,
					"remaining_requests", info.RemainingRequests,
					"limit_requests", info.LimitRequests,
					"requests_reset", info.RequestsReset)
			}
		}

		results = append(results, res)
	}

	return results
}

// assemble ranks each provider's discovery result and builds the document.
func (e *Engine) assemble(results []discovery.Result) (document.ModelsDocument, []Report) {
	doc := document.ModelsDocument{
		Version:        document.Numbered(1),
		RefreshSeconds: e.cfg.RefreshSeconds,
	}
	reports := make([]Report, 0, len(results))

	for i, p := range e.cfg.providers() {
		prefer := ranking.Prefer(results[i].Models, p.cfg.Deny, p.cfg.Fallback)

		reports = append(reports, Report{
			Result:       results[i],
			Preferred:    len(prefer),
			UsedFallback: len(ranking.Filter(results[i].Models, p.cfg.Deny)) == 0,
		})

		doc.Providers = append(doc.Providers, document.ProviderEntry{
			Name: p.name,
			Config: document.ProviderConfig{
				Prefer:             prefer,
				Deny:               p.cfg.Deny,
				DefaultTemperature: p.cfg.Temperature,
			},
		})
	}

	return doc, reports
}

// persist encodes doc and writes it, or prints it on a dry run.
func (e *Engine) persist(ctx context.Context, doc document.ModelsDocument) error {
	data, err := document.Encode(doc)
	if err != nil {
		return err
	}

	if e.cfg.Diff {
		e.logDiff(ctx, data)
	}

	if e.cfg.DryRun {
		if _, err := e.stdout.Write(data); err != nil {
			return fmt.Errorf("engine: print document: %w", err)
		}
		return nil
	}

	return e.writeFile(e.cfg.Output, data)
}

// logDiff logs how data differs from the file currently on disk. Failing to
// read the old file is not fatal.
func (e *Engine) logDiff(ctx context.Context, data []byte) {
	previous, err := document.ReadPrevious(e.cfg.Output)
	if err != nil {
		e.log.WarnContext(ctx, "cannot read previous document", "error", err)
		return
	}

	diff, err := document.Diff(filepath.Base(e.cfg.Output), previous, data)
	if err != nil {
		e.log.WarnContext(ctx, "cannot diff documents", "error", err)
		return
	}

	if diff == "" {
		e.log.InfoContext(ctx, "document unchanged")
		return
	}

	e.log.InfoContext(ctx, "document changed", "diff", diff)
}

// Fallback skips the run and writes the static fallback document because of
// cause, exactly as Run does when it fails. Callers use it for errors that
// happen before an Engine could be configured, such as a broken config file.
func (e *Engine) Fallback(ctx context.Context, cause error) Outcome {
	return e.fallback(ctx, cause, nil)
}

// fallback logs cause and writes the static fallback document to the output
// path. A failure to write it is logged too; the run still counts as done.
func (e *Engine) fallback(ctx context.Context, cause error, reports []Report) Outcome {
	e.log.ErrorContext(ctx, "FATAL: "+cause.Error(), "action", "writing fallback document")

	doc := document.Fallback()
	out := Outcome{Status: Fallback, Document: doc, Reports: reports, Err: cause}

	data, err := document.Encode(doc)
	if err != nil {
		e.log.ErrorContext(ctx, "FATAL: encode fallback document", "error", err)
		return out
	}

	path := e.cfg.Output
	if path == "" {
		path = DefaultOutput
	}

	if e.cfg.DryRun {
		_, err = e.stdout.Write(data)
	} else {
		err = e.writeFile(path, data)
	}

	if err != nil {
		e.log.ErrorContext(ctx, "FATAL: write fallback document", "path", path, "error", err)
		return out
	}

	e.log.InfoContext(ctx, "fallback document written", "path", path)

	return out
}

func (e *Engine) verb() string {
	if e.cfg.DryRun {
		return "rendered (dry run)"
	}
	return "written"
}

// countsOf formats "groq=<n> gemini=<n>" in provider order.
func countsOf(doc document.ModelsDocument) string {
	parts := make([]string, 0, len(doc.Providers))
	for _, p := range doc.Providers {
		parts = append(parts, fmt.Sprintf("%s=%d", p.Name, len(p.Config.Prefer)))
	}
	return strings.Join(parts, " ")
}
