package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-modalform/internal/logging"
	"github.com/goliatone/go-modalform/pkg/host/terminal"
	"github.com/goliatone/go-modalform/pkg/loader"
)

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	if a == nil {
		a = &app{v: newViper(), logger: logging.NewDiscard()}
	}
	cmd := newRootCommand(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, nil, "render", "contact", "--forms", "testdata/forms")
	require.NoError(t, err)
	assert.Contains(t, out, `id="contactModal"`)
	assert.Contains(t, out, `id="contactEmail"`)
	assert.NotContains(t, out, "productModal")

	out, err = run(t, nil, "render", "--all", "--forms", "testdata/forms")
	require.NoError(t, err)
	assert.Contains(t, out, "contactModal")
	assert.Contains(t, out, "productModal")
	assert.Contains(t, out, "€")
}

func TestRenderCommandErrors(t *testing.T) {
	_, err := run(t, nil, "render", "--forms", "testdata/forms")
	require.Error(t, err)

	_, err = run(t, nil, "render", "missing", "--forms", "testdata/forms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown form "missing"`)

	_, err = run(t, nil, "render", "contact", "--forms", filepath.Join(t.TempDir(), "nothing"))
	require.Error(t, err)
}

func TestFormsFromEnvironment(t *testing.T) {
	t.Setenv("MODALFORM_FORMS", "testdata/forms")
	a := &app{v: newViper(), logger: logging.NewDiscard()}
	out, err := run(t, a, "render", "product")
	require.NoError(t, err)
	assert.Contains(t, out, "productModal")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	abs, err := filepath.Abs("testdata/forms")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(config, []byte("forms: "+abs+"\nlog:\n  level: debug\n"), 0o600))

	out, err := run(t, nil, "render", "contact", "--config", config)
	require.NoError(t, err)
	assert.Contains(t, out, "contactModal")

	_, err = run(t, nil, "render", "contact", "--config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, nil, "render", "contact", "--forms", "testdata/forms", "--log-level", "loud")
	require.Error(t, err)
}

type scriptedDriver struct {
	inputs   []string
	confirms []bool
}

func (d *scriptedDriver) Input(context.Context, terminal.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", terminal.ErrAborted
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg terminal.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(context.Context, terminal.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, terminal.ErrAborted
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, terminal.SelectConfig) (int, error) {
	return 0, nil
}

func (d *scriptedDriver) TextArea(ctx context.Context, cfg terminal.TextAreaConfig) (string, error) {
	return d.Input(ctx, terminal.InputConfig{Message: cfg.Message})
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func TestPromptCommandPrintsLocalSubmission(t *testing.T) {
	a := &app{
		v:      newViper(),
		logger: logging.NewDiscard(),
		driver: &scriptedDriver{inputs: []string{"nope", "ada@example.com"}, confirms: []bool{true}},
	}
	metrics := filepath.Join(t.TempDir(), "metrics.prom")
	out, err := run(t, a, "prompt", "contact", "--forms", "testdata/forms", "--metrics-textfile", metrics)
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, "ada@example.com", data["email"])
	assert.Equal(t, float64(1), data["subscribe"])
	assert.FileExists(t, metrics)
}

func TestPromptCommandSubmitsRemotely(t *testing.T) {
	received := make(chan url.Values, 1)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		received <- r.PostForm
		_, _ = w.Write([]byte("success"))
	}))
	defer backend.Close()

	dir := t.TempDir()
	doc := "name: remote\nremoteEndpoint: " + backend.URL + "\nfields:\n  - name: label\n    title: Label\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "remote.yaml"), []byte(doc), 0o600))

	a := &app{v: newViper(), logger: logging.NewDiscard(), driver: &scriptedDriver{inputs: []string{"lamp"}}}
	out, err := run(t, a, "prompt", "remote", "--forms", dir)
	require.NoError(t, err)
	assert.Equal(t, "submitted\n", out)
	assert.Equal(t, "lamp", (<-received).Get("label"))
}

func TestImportCommand(t *testing.T) {
	out, err := run(t, nil, "import", "testdata/petstore.yaml", "--operation", "createPet")
	require.NoError(t, err)

	specs, err := loader.Parse([]byte(out), "imported.yaml")
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "createPet", specs[0].Name)
	assert.Equal(t, "/pets", specs[0].RemoteEndpoint)

	target := filepath.Join(t.TempDir(), "all.yaml")
	_, err = run(t, nil, "import", "testdata/petstore.yaml", "-o", target)
	require.NoError(t, err)
	store, err := loader.LoadPath(target)
	require.NoError(t, err)
	assert.Len(t, store.Names(), 2)

	_, err = run(t, nil, "import", "testdata/petstore.yaml", "--operation", "listPets")
	require.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, nil, "schema")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestServeHelpDescribesDemoEndpoint(t *testing.T) {
	out, err := run(t, nil, "serve", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "protocol stub")
	assert.Contains(t, out, "not a server-side validation layer")
}

func newTestServer(t *testing.T) (*server, *prometheus.Registry) {
	t.Helper()
	store, err := loader.LoadPath("testdata/forms")
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	srv, err := newServer(logging.NewDiscard(), store, reg)
	require.NoError(t, err)
	return srv, reg
}

func TestServerPages(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/forms/contact"`)
	assert.Contains(t, rec.Body.String(), `id="productModal"`)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms", nil))
	assert.JSONEq(t, `["contact","product"]`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "<div"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema.json", nil))
	assert.True(t, json.Valid(rec.Body.Bytes()))
}

func postForm(handler http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerValidatesSubmissions(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	rec := postForm(handler, "/forms/product", url.Values{"label": {"Lamp"}, "price": {"12.5"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", rec.Body.String())

	rec = postForm(handler, "/forms/product", url.Values{"label": {""}, "price": {"cheap"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"label":"NOTEMPTY","price":"NUMBER"}`, rec.Body.String())

	rec = postForm(handler, "/forms/unknown", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `modalform_server_submissions_total{form="product",outcome="handled"} 1`)
	assert.Contains(t, string(body), `modalform_server_submissions_total{form="product",outcome="invalid"} 1`)
}
