package registry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-modalform/pkg/form"
	"github.com/goliatone/go-modalform/pkg/host/memdom"
	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/testsupport"
)

func validSpec(name string) model.FormSpec {
	return model.FormSpec{
		Name:           name,
		RemoteEndpoint: "https://example.test/save",
		Fields:         []model.FieldSpec{{Name: "title", Validators: model.Validators{"NOTEMPTY"}}},
	}
}

func quietRegistry(doc *memdom.Document, opts ...Option) *Registry {
	return New(doc, append([]Option{WithLogger(testsupport.DiscardLogger())}, opts...)...)
}

func TestCreateForm_AppliesDefaults(t *testing.T) {
	doc := memdom.New()
	reg := quietRegistry(doc)

	first, err := reg.CreateForm(validSpec("first"))
	require.NoError(t, err)
	second, err := reg.CreateForm(validSpec("second"))
	require.NoError(t, err)

	assert.Equal(t, model.ModeCreate, first.Mode())
	assert.Equal(t, "custom-form-0", first.Title())
	assert.Equal(t, "custom-form-1", second.Title())
	assert.Equal(t, form.DefaultSubmitLabel, first.Spec().SubmitLabel)
	assert.Equal(t, "POST", first.Spec().Method())
	assert.Equal(t, []string{"first", "second"}, reg.Names())
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Get("first")
	require.True(t, ok)
	assert.Same(t, first, got)

	container, ok := doc.Container("firstModal")
	require.True(t, ok)
	assert.Contains(t, container.HTML(), "custom-form-0")
}

func TestCreateForm_PreconditionOrder(t *testing.T) {
	cases := []struct {
		name string
		spec model.FormSpec
		want error
	}{
		{
			name: "endpoint checked first",
			spec: model.FormSpec{Mode: "bogus"},
			want: ErrMissingEndpoint,
		},
		{
			name: "fields before mode",
			spec: model.FormSpec{RemoteEndpoint: "/x", Mode: "bogus"},
			want: ErrNoFields,
		},
		{
			name: "mode before name",
			spec: model.FormSpec{RemoteEndpoint: "/x", Mode: "bogus", Fields: []model.FieldSpec{{Name: "a"}}},
			want: ErrInvalidMode,
		},
		{
			name: "name",
			spec: model.FormSpec{RemoteEndpoint: "/x", Fields: []model.FieldSpec{{Name: "a"}}},
			want: ErrMissingName,
		},
		{
			name: "blank endpoint",
			spec: model.FormSpec{Name: "x", RemoteEndpoint: "   ", Fields: []model.FieldSpec{{Name: "a"}}},
			want: ErrMissingEndpoint,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := quietRegistry(memdom.New())
			created, err := reg.CreateForm(tc.spec)
			assert.Nil(t, created)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, reg.Len())
		})
	}
}

func TestCreateForm_DuplicateNameKeepsFirstUsable(t *testing.T) {
	doc := memdom.New()
	var rec []map[string]any
	reg := quietRegistry(doc, WithLocalForms(), WithFormOptions(form.OnSubmit(func(_ *form.Form, data map[string]any) {
		rec = append(rec, data)
	})))

	spec := validSpec("dup")
	spec.RemoteEndpoint = ""
	first, err := reg.CreateForm(spec)
	require.NoError(t, err)

	again, err := reg.CreateForm(spec)
	assert.Nil(t, again)
	assert.True(t, errors.Is(err, ErrDuplicateName), "got %v", err)
	assert.Equal(t, 1, reg.Len())

	field, ok := first.Field("title")
	require.True(t, ok)
	field.SetValue("hello")
	outcome, err := first.Submit(context.Background()).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, form.StatusHandled, outcome.Status)
	require.Len(t, rec, 1)
	assert.Equal(t, "hello", rec[0]["title"])
}

func TestCreateForm_LogsDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	reg := New(memdom.New(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, err := reg.CreateForm(model.FormSpec{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "form not created")
	assert.Contains(t, buf.String(), "remote endpoint is required")
}

func TestCreateForm_ConstructionErrorIsWrapped(t *testing.T) {
	reg := quietRegistry(memdom.New())
	spec := validSpec("broken")
	spec.Fields = []model.FieldSpec{{Name: "a", Type: "slider"}}

	created, err := reg.CreateForm(spec)
	assert.Nil(t, created)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry: create \"broken\"")
	assert.Zero(t, reg.Len())
}
