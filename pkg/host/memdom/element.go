package memdom

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-modalform/pkg/host"
)

const groupClass = "form-group"

// Element wraps one parsed node. State reads and writes go straight to the
// tree.
type Element struct {
	doc  *Document
	node *html.Node
}

var _ host.Element = (*Element)(nil)

// ID implements host.Element.
func (e *Element) ID() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attr(e.node, "id")
}

// Value implements host.Element.
func (e *Element) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.value()
}

func (e *Element) value() string {
	switch e.node.Data {
	case "textarea":
		return textContent(e.node)
	case "select":
		if _, cleared := attrOK(e.node, "data-cleared"); cleared {
			return ""
		}
		opts := options(e.node)
		for _, option := range opts {
			if _, ok := attrOK(option, "selected"); ok {
				return optionValue(option)
			}
		}
		if len(opts) > 0 {
			return optionValue(opts[0])
		}
		return ""
	default:
		return attr(e.node, "value")
	}
}

// SetValue implements host.Element.
func (e *Element) SetValue(value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.setValue(value)
}

func (e *Element) setValue(value string) {
	switch e.node.Data {
	case "textarea":
		for child := e.node.FirstChild; child != nil; {
			next := child.NextSibling
			e.node.RemoveChild(child)
			child = next
		}
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: value})
	case "select":
		matched := false
		for _, option := range options(e.node) {
			if !matched && optionValue(option) == value {
				setAttr(option, "selected", "")
				matched = true
				continue
			}
			removeAttr(option, "selected")
		}
		if matched {
			removeAttr(e.node, "data-cleared")
		} else {
			setAttr(e.node, "data-cleared", "")
		}
	default:
		setAttr(e.node, "value", value)
	}
}

// Checked implements host.Element.
func (e *Element) Checked() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	_, ok := attrOK(e.node, "checked")
	return ok
}

// SetChecked implements host.Element.
func (e *Element) SetChecked(checked bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if checked {
		setAttr(e.node, "checked", "")
		return
	}
	removeAttr(e.node, "checked")
}

// SetGroupClass implements host.Element. Without an enclosing form group the
// class lands on the element itself.
func (e *Element) SetGroupClass(class string, on bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	target := e.group()
	classes := strings.Fields(attr(target, "class"))
	has := slices.Contains(classes, class)
	switch {
	case on && !has:
		classes = append(classes, class)
	case !on && has:
		classes = slices.DeleteFunc(classes, func(existing string) bool { return existing == class })
	default:
		return
	}
	setAttr(target, "class", strings.Join(classes, " "))
}

// HasGroupClass implements host.Element.
func (e *Element) HasGroupClass(class string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return slices.Contains(strings.Fields(attr(e.group(), "class")), class)
}

func (e *Element) group() *html.Node {
	for node := e.node.Parent; node != nil; node = node.Parent {
		if node.Type == html.ElementNode && slices.Contains(strings.Fields(attr(node, "class")), groupClass) {
			return node
		}
	}
	return e.node
}

// InitWidget implements host.Element.
func (e *Element) InitWidget(kind host.WidgetKind, opts host.WidgetOptions) (host.Widget, error) {
	id := e.ID()
	if err := e.doc.initWidget(id, kind, opts); err != nil {
		return nil, err
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, "data-widget-ready", string(kind))
	if kind == host.WidgetUpload && opts.Reset {
		setAttr(e.node, "value", "")
		removeAttr(e.node, "data-current")
	}
	return &Widget{element: e, kind: kind}, nil
}

// Widget is an initialized enhanced control.
type Widget struct {
	element *Element
	kind    host.WidgetKind
}

var _ host.Widget = (*Widget)(nil)

// Kind implements host.Widget.
func (w *Widget) Kind() host.WidgetKind {
	return w.kind
}

// SetValue implements host.Widget. The upload widget also records the current
// asset so it can be previewed.
func (w *Widget) SetValue(value string) {
	doc := w.element.doc
	doc.mu.Lock()
	defer doc.mu.Unlock()
	w.element.setValue(value)
	if w.kind == host.WidgetUpload {
		setAttr(w.element.node, "data-current", value)
	}
}

func walk(node *html.Node, visit func(*html.Node)) {
	visit(node)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func attr(node *html.Node, key string) string {
	value, _ := attrOK(node, key)
	return value
}

func attrOK(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(node *html.Node, key, value string) {
	for idx, a := range node.Attr {
		if a.Namespace == "" && a.Key == key {
			node.Attr[idx].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(node *html.Node, key string) {
	node.Attr = slices.DeleteFunc(node.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

func textContent(node *html.Node) string {
	var b strings.Builder
	walk(node, func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	})
	return b.String()
}

func options(selectNode *html.Node) []*html.Node {
	var out []*html.Node
	walk(selectNode, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "option" {
			out = append(out, n)
		}
	})
	return out
}

func optionValue(option *html.Node) string {
	if value, ok := attrOK(option, "value"); ok {
		return value
	}
	return strings.TrimSpace(textContent(option))
}
