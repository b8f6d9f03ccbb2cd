package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-modalform/pkg/form"
	"github.com/goliatone/go-modalform/pkg/host/terminal"
	"github.com/goliatone/go-modalform/pkg/registry"
	"github.com/goliatone/go-modalform/pkg/remote"
)

func newPromptCommand(a *app) *cobra.Command {
	var metricsFile string
	cmd := &cobra.Command{
		Use:   "prompt <form>",
		Short: "Fill in a form from the terminal",
		Long: `prompt asks for every field of the form, then submits it. Forms with a
remote endpoint are sent there; other forms print the collected data as JSON.
Fields rejected by validation are asked again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			spec, ok := store.Spec(args[0])
			if !ok {
				return errors.Newf("unknown form %q", args[0])
			}

			timeout, err := time.ParseDuration(a.v.GetString(keyTimeout))
			if err != nil {
				return errors.Wrap(err, "parse remote timeout")
			}
			gatherer := prometheus.NewRegistry()
			metrics, err := remote.NewMetrics(gatherer)
			if err != nil {
				return errors.Wrap(err, "register metrics")
			}
			client := remote.New(
				remote.WithLogger(a.logger),
				remote.WithMetrics(metrics),
				remote.WithHTTPClient(&http.Client{Timeout: timeout}),
			)

			out := cmd.OutOrStdout()
			driver := a.driver
			if driver == nil {
				driver = terminal.NewSurveyDriver(out)
			}
			host := terminal.New(terminal.WithPromptDriver(driver), terminal.WithLogger(a.logger))

			var (
				mu       sync.Mutex
				printErr error
			)
			emit := func(line string) {
				mu.Lock()
				defer mu.Unlock()
				if _, err := fmt.Fprintln(out, line); err != nil && printErr == nil {
					printErr = err
				}
			}

			reg := registry.New(host,
				registry.WithLogger(a.logger),
				registry.WithLocalForms(),
				registry.WithFormOptions(
					form.WithRemoteClient(client),
					form.OnSubmit(func(_ *form.Form, data map[string]any) {
						encoded, err := json.MarshalIndent(data, "", "  ")
						if err != nil {
							emit("error: " + err.Error())
							return
						}
						emit(string(encoded))
					}),
					form.OnSuccess(func() { emit("submitted") }),
				),
			)

			f, err := reg.CreateForm(spec)
			if err != nil {
				return errors.Wrapf(err, "create %s", spec.Name)
			}
			if err := f.Show(cmd.Context()); err != nil {
				return errors.Wrap(err, "show form")
			}
			err = host.Show(cmd.Context(), f.Container().ID())
			host.Drain()
			if err != nil && !errors.Is(err, terminal.ErrAborted) {
				return errors.Wrap(err, "prompt")
			}

			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, gatherer); err != nil {
					return errors.Wrap(err, "write metrics")
				}
			}
			mu.Lock()
			defer mu.Unlock()
			return printErr
		},
	}
	cmd.Flags().StringVar(&metricsFile, "metrics-textfile", "", "write submission metrics to this file in Prometheus text format")
	return cmd
}
