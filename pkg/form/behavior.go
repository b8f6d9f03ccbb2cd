package form

import (
	"github.com/goliatone/go-modalform/pkg/host"
	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/render/components"
)

type accessor int

const (
	accessText accessor = iota
	accessChecked
)

// behavior is everything that varies by field type.
type behavior struct {
	component string
	access    accessor
	widget    host.WidgetKind
}

var behaviors = map[model.FieldType]behavior{
	model.FieldText:         {component: components.NameInput},
	model.FieldPrice:        {component: components.NameInput},
	model.FieldPassword:     {component: components.NameInput},
	model.FieldTextarea:     {component: components.NameTextarea},
	model.FieldRichTextarea: {component: components.NameTextarea, widget: host.WidgetRichText},
	model.FieldCheckbox:     {component: components.NameCheckbox, access: accessChecked},
	model.FieldUpload:       {component: components.NameUpload, widget: host.WidgetUpload},
	model.FieldSelect:       {component: components.NameSelect},
}

func behaviorFor(kind model.FieldType) (behavior, bool) {
	b, ok := behaviors[kind.Normalize()]
	return b, ok
}
