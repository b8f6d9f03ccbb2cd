package memdom

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modalform/pkg/host"
)

const sampleMarkup = `<div class="modal" id="contactModal">
<form id="contactForm">
<div class="form-group"><label for="contactName">Name</label><input type="text" id="contactName" name="name" value="Ada" data-field-type="text"></div>
<div class="form-group"><label for="contactNotes">Notes</label><textarea id="contactNotes" name="notes" data-field-type="textarea">hello</textarea></div>
<div class="form-group"><div class="checkbox"><label for="contactActive"><input type="checkbox" id="contactActive" name="active" value="1" data-field-type="checkbox"> Active</label></div></div>
<div class="form-group"><label for="contactSize">Size</label><select id="contactSize" name="size" data-field-type="select"><option value="s">Small</option><option value="m" selected>Medium</option></select></div>
<button type="submit" id="contactSubmit">Add</button>
</form>
</div>`

func mount(t *testing.T, doc *Document) *Container {
	t.Helper()
	container, err := doc.MountContainer("contactModal", sampleMarkup)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return container
}

func only(t *testing.T, c *Container, id string) *Element {
	t.Helper()
	found := c.FindElements(id)
	if len(found) != 1 {
		t.Fatalf("expected one element %q, got %d", id, len(found))
	}
	return found[0]
}

func TestContainer_ControlState(t *testing.T) {
	doc := New()
	c := mount(t, doc)

	name := only(t, c, "contactName")
	if name.Value() != "Ada" {
		t.Fatalf("unexpected input value %q", name.Value())
	}
	name.SetValue("Grace")
	if name.Value() != "Grace" {
		t.Fatalf("input value not updated")
	}

	notes := only(t, c, "contactNotes")
	if notes.Value() != "hello" {
		t.Fatalf("unexpected textarea value %q", notes.Value())
	}
	notes.SetValue("<b>x</b>")
	if notes.Value() != "<b>x</b>" {
		t.Fatalf("textarea value not updated: %q", notes.Value())
	}

	active := only(t, c, "contactActive")
	if active.Checked() {
		t.Fatalf("checkbox should start unchecked")
	}
	active.SetChecked(true)
	if !active.Checked() {
		t.Fatalf("checkbox should be checked")
	}

	size := only(t, c, "contactSize")
	if size.Value() != "m" {
		t.Fatalf("unexpected select value %q", size.Value())
	}
	size.SetValue("s")
	if size.Value() != "s" {
		t.Fatalf("select value not updated: %q", size.Value())
	}
	size.SetValue("xl")
	if size.Value() != "" {
		t.Fatalf("unmatched select value should clear, got %q", size.Value())
	}

	rendered := c.HTML()
	for _, want := range []string{`value="Grace"`, `&lt;b&gt;x&lt;/b&gt;</textarea>`, `checked=""`} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected HTML to contain %q\n%s", want, rendered)
		}
	}
}

func TestElement_GroupClass(t *testing.T) {
	c := mount(t, New())
	active := only(t, c, "contactActive")

	active.SetGroupClass("has-error", true)
	active.SetGroupClass("has-error", true)
	if !active.HasGroupClass("has-error") {
		t.Fatalf("expected group class")
	}
	if strings.Count(c.HTML(), "has-error") != 1 {
		t.Fatalf("class should be added once:\n%s", c.HTML())
	}
	if !strings.Contains(c.HTML(), `<div class="form-group has-error"><div class="checkbox">`) {
		t.Fatalf("class should land on the enclosing form group:\n%s", c.HTML())
	}

	active.SetGroupClass("has-error", false)
	if active.HasGroupClass("has-error") {
		t.Fatalf("expected group class removed")
	}
}

func TestContainer_DuplicateAndMissingIDs(t *testing.T) {
	doc := New(WithMountTransform(func(markup string) string {
		markup = strings.Replace(markup, `id="contactNotes"`, `id="contactName"`, 1)
		return strings.Replace(markup, `id="contactSize"`, `id="other"`, 1)
	}))
	c := mount(t, doc)

	if got := len(c.Find("contactName")); got != 2 {
		t.Fatalf("expected duplicate id to match twice, got %d", got)
	}
	if got := len(c.Find("contactSize")); got != 0 {
		t.Fatalf("expected missing id to match nothing, got %d", got)
	}
}

func TestContainer_Controls(t *testing.T) {
	c := mount(t, New())

	controls := c.Controls()
	type summary struct {
		ID, Tag, FieldType, Label string
		Options                   []ControlOption
	}
	var got []summary
	for _, control := range controls {
		got = append(got, summary{control.ID, control.Tag, control.FieldType, control.Label, control.Options})
	}
	want := []summary{
		{"contactName", "input", "text", "Name", nil},
		{"contactNotes", "textarea", "textarea", "Notes", nil},
		{"contactActive", "input", "checkbox", "Active", nil},
		{"contactSize", "select", "select", "Size", []ControlOption{{"s", "Small"}, {"m", "Medium"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
}

func TestContainer_ShowDismissAndRemove(t *testing.T) {
	doc := New()
	c := mount(t, doc)

	if err := c.Show(); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !c.Visible() || c.Shows() != 1 {
		t.Fatalf("expected visible after show")
	}
	if err := c.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if c.Visible() {
		t.Fatalf("expected hidden after dismiss")
	}

	if _, err := doc.Mount("contactModal", sampleMarkup); err == nil {
		t.Fatalf("expected duplicate mount to fail")
	}
	if !doc.Remove("contactModal") {
		t.Fatalf("expected remove to succeed")
	}
	if err := c.Show(); !errors.Is(err, host.ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
	if len(c.Find("contactName")) != 0 {
		t.Fatalf("removed container should not resolve elements")
	}
}

func TestContainer_ClickAndPost(t *testing.T) {
	doc := New()
	c := mount(t, doc)

	ch, err := c.Click(context.Background())
	if err != nil {
		t.Fatalf("click without handler: %v", err)
	}
	<-ch

	calls := 0
	c.OnSubmit(func(context.Context) <-chan struct{} {
		calls++
		done := make(chan struct{})
		doc.Post(func() {
			doc.ShowError("posted")
			close(done)
		})
		return done
	})
	c.OnSubmit(func(context.Context) <-chan struct{} {
		calls += 10
		done := make(chan struct{})
		doc.Post(func() { close(done) })
		return done
	})

	ch, err = c.Click(context.Background())
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("submission never settled")
	}
	doc.Drain()

	if calls != 10 {
		t.Fatalf("expected only the replacement handler to run, calls=%d", calls)
	}
	if len(doc.Errors()) != 0 {
		t.Fatalf("unexpected errors %v", doc.Errors())
	}
}

func TestElement_Widgets(t *testing.T) {
	failing := errors.New("no editor")
	doc := New(WithWidgetError(host.WidgetRichText, failing))
	c := mount(t, doc)

	if _, err := only(t, c, "contactNotes").InitWidget(host.WidgetRichText, host.WidgetOptions{}); !errors.Is(err, failing) {
		t.Fatalf("expected widget failure, got %v", err)
	}

	widget, err := only(t, c, "contactName").InitWidget(host.WidgetUpload, host.WidgetOptions{Reset: true})
	if err != nil {
		t.Fatalf("init upload: %v", err)
	}
	if only(t, c, "contactName").Value() != "" {
		t.Fatalf("reset upload should clear value")
	}
	widget.SetValue("photo.png")
	if only(t, c, "contactName").Value() != "photo.png" {
		t.Fatalf("widget setter should update value")
	}
	if !strings.Contains(c.HTML(), `data-current="photo.png"`) {
		t.Fatalf("upload widget should record the current asset")
	}

	want := []WidgetRecord{{ElementID: "contactName", Kind: host.WidgetUpload, Reset: true}}
	if diff := cmp.Diff(want, doc.Widgets()); diff != "" {
		t.Fatalf("widgets mismatch (-want +got):\n%s", diff)
	}
}
