package modalform

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/goliatone/go-modalform/pkg/host/memdom"
	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/registry"
	"github.com/goliatone/go-modalform/pkg/testsupport"
)

func TestCreateFormRequiresInit(t *testing.T) {
	mu.Lock()
	defaultReg = nil
	mu.Unlock()

	if _, err := CreateForm(model.FormSpec{Name: "x"}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, ok := Form("x"); ok {
		t.Fatalf("lookup must fail before Init")
	}
}

func TestDefaultRegistry(t *testing.T) {
	doc := memdom.New()
	reg := Init(doc, registry.WithLogger(testsupport.DiscardLogger()))
	if Default() != reg {
		t.Fatalf("Default must return the registry built by Init")
	}

	spec := model.FormSpec{
		Name:           "note",
		RemoteEndpoint: "/notes",
		Fields:         []model.FieldSpec{{Name: "body", Type: model.FieldTextarea}},
	}
	created, err := CreateForm(spec)
	if err != nil {
		t.Fatalf("create form: %v", err)
	}
	got, ok := Form("note")
	if !ok || got != created {
		t.Fatalf("expected the created form to be registered")
	}
	if _, err := CreateForm(spec); !errors.Is(err, registry.ErrDuplicateName) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, mounted := doc.Container("noteModal"); !mounted {
		t.Fatalf("expected the modal to be mounted")
	}
}

func TestCreateFormsStopsAtFirstFailure(t *testing.T) {
	reg := registry.New(memdom.New(), registry.WithLogger(testsupport.DiscardLogger()))
	specs := []model.FormSpec{
		{Name: "a", RemoteEndpoint: "/a", Fields: []model.FieldSpec{{Name: "x"}}},
		{Name: "b", RemoteEndpoint: "/b"},
		{Name: "c", RemoteEndpoint: "/c", Fields: []model.FieldSpec{{Name: "x"}}},
	}
	created, err := CreateForms(reg, specs)
	if !errors.Is(err, registry.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
	if len(created) != 1 || reg.Len() != 1 {
		t.Fatalf("expected one form before the failure, got %d", len(created))
	}
}

func TestCreateFormsFromDocument(t *testing.T) {
	doc := memdom.New()
	reg := registry.New(doc, registry.WithLogger(testsupport.DiscardLogger()))
	specs := testsupport.MustLoadSpecs(t, "pkg/loader/testdata/forms/nested/products.json")

	created, err := CreateForms(reg, specs)
	if err != nil {
		t.Fatalf("create forms: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected two forms, got %d", len(created))
	}
	for _, id := range []string{"productModal", "categoryModal"} {
		if _, ok := doc.Container(id); !ok {
			t.Fatalf("expected %s to be mounted", id)
		}
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/modal.tmpl"); err != nil {
		t.Fatalf("modal template missing: %v", err)
	}
}
