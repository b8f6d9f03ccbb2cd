package commands

import (
	"bytes"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-modalform/pkg/loader"
	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/openapi"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		operations []string
		output     string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "import <openapi document>",
		Short: "Derive form documents from OpenAPI operations",
		Long: `import reads an OpenAPI 3 document from a file or an http(s) URL and
writes a YAML form document with one form per operation that has a request
body. Use --operation to pick specific operations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fetcher := openapi.NewFetcher(openapi.WithTimeout(timeout))
			data, err := fetcher.Fetch(ctx, args[0])
			if err != nil {
				return errors.Wrap(err, "fetch document")
			}
			doc, err := openapi.New(openapi.WithLogger(a.logger)).Load(ctx, data)
			if err != nil {
				return errors.Wrap(err, "load document")
			}

			var specs []model.FormSpec
			if len(operations) == 0 {
				specs = doc.Forms()
			} else {
				for _, id := range operations {
					spec, err := doc.Form(id)
					if err != nil {
						return errors.Wrapf(err, "operation %s", id)
					}
					specs = append(specs, spec)
				}
			}
			if len(specs) == 0 {
				return errors.Newf("%s has no operations with a request body", args[0])
			}

			encoded, err := encodeDocument(specs)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(encoded)
				return errors.Wrap(err, "write document")
			}
			if err := os.WriteFile(output, encoded, 0o644); err != nil {
				return errors.Wrap(err, "write document")
			}
			a.logger.Info("forms written", "path", output, "forms", len(specs))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&operations, "operation", nil, "operation id to import (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to this file instead of stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "timeout for http(s) documents")
	return cmd
}

// encodeDocument writes specs as a {forms: [...]} YAML document and checks
// that it loads back.
func encodeDocument(specs []model.FormSpec) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(map[string]any{"forms": specs}); err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	if _, err := loader.Parse(buf.Bytes(), "import.yaml"); err != nil {
		return nil, errors.Wrap(err, "generated document is invalid")
	}
	return buf.Bytes(), nil
}
