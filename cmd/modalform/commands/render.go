package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-modalform/pkg/form"
	"github.com/goliatone/go-modalform/pkg/host/memdom"
	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/registry"
)

func newRenderCommand(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "render [form...]",
		Short: "Print the modal markup of one or more forms",
		Args: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New("name at least one form or pass --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			names := args
			if all {
				names = store.Names()
			}

			specs := make([]model.FormSpec, 0, len(names))
			for _, name := range names {
				spec, ok := store.Spec(name)
				if !ok {
					return errors.Newf("unknown form %q", name)
				}
				specs = append(specs, spec)
			}

			doc := memdom.New()
			markup, err := renderForms(doc, a, specs)
			if err != nil {
				return err
			}
			for _, html := range markup {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), html); err != nil {
					return errors.Wrap(err, "write markup")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "render every loaded form")
	return cmd
}

// renderForms mounts specs into doc and returns each container's markup.
func renderForms(doc *memdom.Document, a *app, specs []model.FormSpec) ([]string, error) {
	reg := registry.New(doc, registry.WithLogger(a.logger), registry.WithLocalForms())
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		created, err := reg.CreateForm(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "render %s", spec.Name)
		}
		container, ok := doc.Container(form.ModalID(created.Name()))
		if !ok {
			return nil, errors.Newf("form %q was not mounted", created.Name())
		}
		out = append(out, container.HTML())
	}
	return out, nil
}
