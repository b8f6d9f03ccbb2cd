package memdom

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-modalform/pkg/host"
)

// Container is one mounted fragment.
type Container struct {
	doc     *Document
	id      string
	root    *html.Node
	handler host.SubmitHandler
	visible bool
	mounted bool
	shows   int
}

var _ host.Container = (*Container)(nil)

// ID implements host.Container.
func (c *Container) ID() string {
	return c.id
}

// Find implements host.Container.
func (c *Container) Find(id string) []host.Element {
	elements := c.FindElements(id)
	out := make([]host.Element, 0, len(elements))
	for _, element := range elements {
		out = append(out, element)
	}
	return out
}

// FindElements is Find returning concrete elements.
func (c *Container) FindElements(id string) []*Element {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if !c.mounted || id == "" {
		return nil
	}

	var out []*Element
	walk(c.root, func(node *html.Node) {
		if node.Type == html.ElementNode && attr(node, "id") == id {
			out = append(out, &Element{doc: c.doc, node: node})
		}
	})
	return out
}

// OnSubmit implements host.Container.
func (c *Container) OnSubmit(handler host.SubmitHandler) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	c.handler = handler
}

// Show implements host.Container.
func (c *Container) Show() error {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if !c.mounted {
		return host.ErrNotMounted
	}
	c.visible = true
	c.shows++
	return nil
}

// Dismiss implements host.Container.
func (c *Container) Dismiss() error {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if !c.mounted {
		return host.ErrNotMounted
	}
	c.visible = false
	return nil
}

// Visible implements host.Container.
func (c *Container) Visible() bool {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	return c.visible
}

// Shows reports how many times Show ran.
func (c *Container) Shows() int {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	return c.shows
}

// Click simulates pressing the submit button. The handler runs on the event
// loop; the returned channel closes when the submission settles.
func (c *Container) Click(ctx context.Context) (<-chan struct{}, error) {
	c.doc.loop.Lock()
	defer c.doc.loop.Unlock()

	c.doc.mu.Lock()
	mounted, handler := c.mounted, c.handler
	c.doc.mu.Unlock()

	if !mounted {
		return nil, host.ErrNotMounted
	}
	if handler == nil {
		return closedChan(), nil
	}
	settled := handler(ctx)
	if settled == nil {
		return closedChan(), nil
	}
	return settled, nil
}

// Control describes one interactive control in document order.
type Control struct {
	ID        string
	Tag       string
	InputType string
	FieldType string
	Label     string
	Options   []ControlOption
	Element   *Element
}

// ControlOption is one select option.
type ControlOption struct {
	Value string
	Label string
}

// Controls lists every element carrying data-field-type, in document order.
func (c *Container) Controls() []Control {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if !c.mounted {
		return nil
	}

	labels := make(map[string]string)
	walk(c.root, func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "label" {
			if target := attr(node, "for"); target != "" {
				labels[target] = strings.TrimSpace(textContent(node))
			}
		}
	})

	var controls []Control
	walk(c.root, func(node *html.Node) {
		if node.Type != html.ElementNode {
			return
		}
		fieldType, ok := attrOK(node, "data-field-type")
		if !ok {
			return
		}
		id := attr(node, "id")
		control := Control{
			ID:        id,
			Tag:       node.Data,
			InputType: attr(node, "type"),
			FieldType: fieldType,
			Label:     labels[id],
			Element:   &Element{doc: c.doc, node: node},
		}
		if control.Label == "" {
			control.Label = attr(node, "name")
		}
		if node.Data == "select" {
			for _, option := range options(node) {
				control.Options = append(control.Options, ControlOption{
					Value: optionValue(option),
					Label: strings.TrimSpace(textContent(option)),
				})
			}
		}
		controls = append(controls, control)
	})
	return controls
}

// HTML renders the current state of the container.
func (c *Container) HTML() string {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()

	var buf bytes.Buffer
	for child := c.root.FirstChild; child != nil; child = child.NextSibling {
		_ = html.Render(&buf, child)
	}
	return buf.String()
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
