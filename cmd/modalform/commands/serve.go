package commands

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-modalform/pkg/form"
	"github.com/goliatone/go-modalform/pkg/host/memdom"
	"github.com/goliatone/go-modalform/pkg/loader"
	"github.com/goliatone/go-modalform/pkg/render/template/pongo"
)

//go:embed templates/*.tmpl
var pageTemplates embed.FS

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the loaded forms and validate their submissions",
		Long: `serve exposes every loaded form over HTTP:

  GET  /               page with every modal
  GET  /forms          form names as JSON
  GET  /forms/{name}   modal markup
  POST /forms/{name}   demo endpoint; answers "success" or a JSON object
                       of failing fields (status 422)
  GET  /schema.json    document schema
  GET  /metrics        Prometheus metrics

The POST endpoint is a protocol stub for trying the modals and the remote
client locally. It replays the modal's own validators so both answer shapes
can be exercised; it is not a server-side validation layer and stores
nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			srv, err := newServer(a.logger, store, reg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.listen(ctx, a.v.GetString(keyAddr))
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	_ = a.v.BindPFlag(keyAddr, cmd.Flags().Lookup("addr"))
	return cmd
}

type server struct {
	logger      *slog.Logger
	store       *loader.Store
	pages       *pongo.Engine
	gatherer    prometheus.Gatherer
	submissions *prometheus.CounterVec
	modals      map[string]string
}

func newServer(logger *slog.Logger, store *loader.Store, reg *prometheus.Registry) (*server, error) {
	sub, err := fs.Sub(pageTemplates, "templates")
	if err != nil {
		return nil, errors.Wrap(err, "page templates")
	}
	pages, err := pongo.New(pongo.WithFS(sub))
	if err != nil {
		return nil, errors.Wrap(err, "page templates")
	}

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modalform_server_submissions_total",
		Help: "Submissions validated by the server, by outcome.",
	}, []string{"form", "outcome"})
	if err := reg.Register(submissions); err != nil {
		return nil, errors.Wrap(err, "register metrics")
	}

	markup, err := renderForms(memdom.New(), &app{logger: logger}, store.Specs())
	if err != nil {
		return nil, err
	}
	modals := make(map[string]string, len(markup))
	for i, name := range store.Names() {
		modals[name] = markup[i]
	}

	return &server{
		logger:      logger,
		store:       store,
		pages:       pages,
		gatherer:    reg,
		submissions: submissions,
		modals:      modals,
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Get("/forms", s.list)
	r.Get("/forms/{name}", s.modal)
	r.Post("/forms/{name}", s.submit)
	r.Get("/schema.json", s.schema)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *server) listen(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "forms", len(s.modals))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	}
}

func (s *server) index(w http.ResponseWriter, _ *http.Request) {
	forms := make([]map[string]any, 0, len(s.modals))
	for _, spec := range s.store.Specs() {
		title := spec.Title
		if title == "" {
			title = spec.Name
		}
		forms = append(forms, map[string]any{
			"name":     spec.Name,
			"title":    title,
			"modal_id": form.ModalID(spec.Name),
			"markup":   s.modals[spec.Name],
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := s.pages.RenderTemplate("index", map[string]any{"title": "Forms", "forms": forms}, w); err != nil {
		s.logger.Error("render index", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *server) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Names())
}

func (s *server) modal(w http.ResponseWriter, r *http.Request) {
	markup, ok := s.modals[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))
}

// submit is the demo endpoint. It replays the modal's validators on the posted
// values only to produce both answer shapes the remote client understands.
func (s *server) submit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	spec, ok := s.store.Spec(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	spec.RemoteEndpoint = ""
	f, err := form.New(memdom.New(), spec,
		form.WithLogger(s.logger),
		form.OnSubmit(func(_ *form.Form, data map[string]any) {
			s.logger.Debug("submission accepted", "form", name, "fields", len(data))
		}),
	)
	if err != nil {
		s.logger.Error("build form", "form", name, "error", err)
		http.Error(w, "form unavailable", http.StatusInternalServerError)
		return
	}
	for _, field := range f.Fields() {
		field.SetValue(r.Form.Get(field.Name()))
	}

	outcome, err := f.Submit(r.Context()).Wait(r.Context())
	if err != nil {
		http.Error(w, "submission interrupted", http.StatusServiceUnavailable)
		return
	}
	s.submissions.WithLabelValues(name, outcome.Status.String()).Inc()

	switch outcome.Status {
	case form.StatusHandled:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("success"))
	case form.StatusInvalid:
		markers := make(map[string]string, len(outcome.FieldErrors))
		for field, kind := range outcome.FieldErrors {
			markers[field] = kind.String()
		}
		writeJSON(w, http.StatusUnprocessableEntity, markers)
	default:
		s.logger.Error("form misconfigured", "form", name, "errors", outcome.FieldErrors)
		http.Error(w, "form misconfigured", http.StatusInternalServerError)
	}
}

func (s *server) schema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write([]byte(loader.Schema()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
