package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

// Generator is the port to an external text-generation service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var errEmptyResponse = errors.New("empty response from generator")

// Classifier maps free-text descriptions to a Category. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	gen     Generator
	timeout time.Duration
	name    string
}

type Option func(*Classifier)

// WithTimeout bounds each generator call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		c.timeout = d
	}
}

// WithName labels log lines with the backing model.
func WithName(name string) Option {
	return func(c *Classifier) {
		c.name = name
	}
}

func New(gen Generator, opts ...Option) *Classifier {
	c := &Classifier{gen: gen}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the configured model label.
func (c *Classifier) Name() string {
	return c.name
}

// Classify always returns one of the known categories. Generator failures,
// empty answers and cancelled contexts resolve to category.Default.
func (c *Classifier) Classify(ctx context.Context, description string) category.Category {
	response, err := c.generate(ctx, BuildPrompt(description))
	if err != nil {
		slog.Warn("category prediction failed",
			"error", err,
			"model", c.name,
			"description_len", len(description),
		)

		return category.Default
	}

	return category.Normalize(response)
}

func (c *Classifier) generate(ctx context.Context, prompt string) (resp string, err error) {
	if c.gen == nil {
		return "", errors.New("no generator configured")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()

	resp, err = c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	if strings.TrimSpace(resp) == "" {
		return "", errEmptyResponse
	}

	return resp, nil
}
