package memdom

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-modalform/pkg/host"
)

// Option configures a Document.
type Option func(*Document)

// WithMountTransform rewrites markup before it is parsed. Tests use it to
// drop or duplicate element ids.
func WithMountTransform(fn func(markup string) string) Option {
	return func(d *Document) {
		d.transform = fn
	}
}

// WithWidgetError makes InitWidget fail for kind.
func WithWidgetError(kind host.WidgetKind, err error) Option {
	return func(d *Document) {
		if d.widgetErrors == nil {
			d.widgetErrors = make(map[host.WidgetKind]error)
		}
		d.widgetErrors[kind] = err
	}
}

// WidgetRecord describes one widget initialization.
type WidgetRecord struct {
	ElementID string
	Kind      host.WidgetKind
	Reset     bool
}

// Document is an in-memory page. Posted work and submit dispatch are
// serialized on the loop lock; element state is guarded separately.
type Document struct {
	loop    sync.Mutex
	pending sync.WaitGroup

	mu           sync.Mutex
	containers   map[string]*Container
	order        []string
	reloads      int
	errors       []string
	widgets      []WidgetRecord
	transform    func(string) string
	widgetErrors map[host.WidgetKind]error
}

var _ host.Document = (*Document)(nil)

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{containers: make(map[string]*Container)}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Mount implements host.Document.
func (d *Document) Mount(id, markup string) (host.Container, error) {
	return d.MountContainer(id, markup)
}

// MountContainer is Mount returning the concrete container.
func (d *Document) MountContainer(id, markup string) (*Container, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("memdom: container id is required")
	}
	if d.transform != nil {
		markup = d.transform(markup)
	}

	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), root)
	if err != nil {
		return nil, fmt.Errorf("memdom: parse container %q: %w", id, err)
	}
	for _, node := range nodes {
		root.AppendChild(node)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.containers[id]; exists {
		return nil, fmt.Errorf("memdom: container %q already mounted", id)
	}
	container := &Container{doc: d, id: id, root: root, mounted: true}
	d.containers[id] = container
	d.order = append(d.order, id)
	return container, nil
}

// Post runs fn on the event loop from a new goroutine. It never blocks the
// caller, so it is safe to call from inside a submit handler.
func (d *Document) Post(fn func()) {
	if fn == nil {
		return
	}
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		d.loop.Lock()
		defer d.loop.Unlock()
		fn()
	}()
}

// Drain blocks until every posted function has run.
func (d *Document) Drain() {
	d.pending.Wait()
}

// Reload implements host.Document by counting reloads.
func (d *Document) Reload() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reloads++
}

// ShowError implements host.Document by recording the message.
func (d *Document) ShowError(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, message)
}

// Reloads reports how many times Reload ran.
func (d *Document) Reloads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reloads
}

// Errors returns the messages passed to ShowError.
func (d *Document) Errors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.errors)
}

// Widgets returns the recorded widget initializations.
func (d *Document) Widgets() []WidgetRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.widgets)
}

// Container returns a mounted container.
func (d *Document) Container(id string) (*Container, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	container, ok := d.containers[id]
	return container, ok
}

// Containers lists mounted container ids in mount order.
func (d *Document) Containers() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.order)
}

// Remove unmounts a container. Its elements stop resolving.
func (d *Document) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	container, ok := d.containers[id]
	if !ok {
		return false
	}
	container.mounted = false
	container.visible = false
	delete(d.containers, id)
	d.order = slices.DeleteFunc(d.order, func(existing string) bool { return existing == id })
	return true
}

func (d *Document) initWidget(elementID string, kind host.WidgetKind, opts host.WidgetOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.widgetErrors[kind]; err != nil {
		return err
	}
	d.widgets = append(d.widgets, WidgetRecord{ElementID: elementID, Kind: kind, Reset: opts.Reset})
	return nil
}
