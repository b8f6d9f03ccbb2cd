package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-modalform/pkg/form"
	"github.com/goliatone/go-modalform/pkg/host"
	"github.com/goliatone/go-modalform/pkg/host/memdom"
)

// DefaultMaxRounds bounds how many times Show submits before giving up.
const DefaultMaxRounds = 5

// Host is a host.Document for terminals. Markup is kept in memory; the user
// fills it in through prompts.
type Host struct {
	*memdom.Document

	driver    PromptDriver
	logger    *slog.Logger
	maxRounds int
}

var _ host.Document = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(h *Host) {
		if driver != nil {
			h.driver = driver
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMaxRounds caps submit attempts. Zero or less means no limit.
func WithMaxRounds(rounds int) Option {
	return func(h *Host) {
		h.maxRounds = rounds
	}
}

// New builds a Host on a fresh in-memory document.
func New(opts ...Option) *Host {
	h := &Host{
		Document:  memdom.New(),
		logger:    slog.Default(),
		maxRounds: DefaultMaxRounds,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.driver == nil {
		h.driver = NewSurveyDriver(nil)
	}
	return h
}

// ShowError records the message and prints it.
func (h *Host) ShowError(message string) {
	h.Document.ShowError(message)
	if err := h.driver.Info(context.Background(), "error: "+message); err != nil {
		h.logger.Warn("print error message", "error", err)
	}
}

// Show runs the prompt loop for a visible container: every control is asked
// once, submit is pressed, and only flagged controls are asked again. It
// returns when the container is dismissed or nothing is flagged after the
// submission settles.
func (h *Host) Show(ctx context.Context, containerID string) error {
	container, ok := h.Container(containerID)
	if !ok {
		return fmt.Errorf("terminal: container %q: %w", containerID, host.ErrNotMounted)
	}
	if !container.Visible() {
		return fmt.Errorf("terminal: container %q is not visible", containerID)
	}

	controls := container.Controls()
	pending := controls
	for round := 1; ; round++ {
		for _, control := range pending {
			if err := h.ask(ctx, control); err != nil {
				return err
			}
		}

		settled, err := container.Click(ctx)
		if err != nil {
			return fmt.Errorf("terminal: submit %q: %w", containerID, err)
		}
		select {
		case <-settled:
		case <-ctx.Done():
			return ctx.Err()
		}

		if !container.Visible() {
			return nil
		}
		pending = flagged(controls)
		if len(pending) == 0 {
			return nil
		}
		if h.maxRounds > 0 && round >= h.maxRounds {
			return fmt.Errorf("terminal: %q still has %d invalid fields: %w", containerID, len(pending), ErrTooManyAttempts)
		}
		for _, control := range pending {
			if err := h.driver.Info(ctx, fmt.Sprintf("%s: invalid value", label(control))); err != nil {
				return err
			}
		}
	}
}

func flagged(controls []memdom.Control) []memdom.Control {
	var out []memdom.Control
	for _, control := range controls {
		if control.Element.HasGroupClass(form.ErrorClass) {
			out = append(out, control)
		}
	}
	return out
}

func (h *Host) ask(ctx context.Context, control memdom.Control) error {
	element := control.Element
	message := label(control)

	switch control.FieldType {
	case "checkbox":
		answer, err := h.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: element.Checked()})
		if err != nil {
			return err
		}
		element.SetChecked(answer)
	case "select":
		if len(control.Options) == 0 {
			return nil
		}
		labels := make([]string, len(control.Options))
		current := element.Value()
		defaultIndex := 0
		for i, option := range control.Options {
			labels[i] = option.Label
			if option.Value == current {
				defaultIndex = i
			}
		}
		index, err := h.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: defaultIndex})
		if err != nil {
			return err
		}
		if index < 0 || index >= len(control.Options) {
			return fmt.Errorf("terminal: %s: choice %d out of range", control.ID, index)
		}
		element.SetValue(control.Options[index].Value)
	case "password":
		answer, err := h.driver.Password(ctx, InputConfig{Message: message})
		if err != nil {
			return err
		}
		element.SetValue(answer)
	case "textarea", "rich-textarea":
		answer, err := h.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: element.Value()})
		if err != nil {
			return err
		}
		element.SetValue(answer)
	case "upload":
		answer, err := h.driver.Input(ctx, InputConfig{Message: message, Help: "Path of the file to send"})
		if err != nil {
			return err
		}
		element.SetValue(strings.TrimSpace(answer))
	default:
		answer, err := h.driver.Input(ctx, InputConfig{Message: message, Default: element.Value()})
		if err != nil {
			return err
		}
		element.SetValue(answer)
	}
	return nil
}

func label(control memdom.Control) string {
	if control.Label != "" {
		return control.Label
	}
	return control.ID
}
