// Package summary provides the generateSummary capability: an ordered
// list of providers is tried in turn, first success wins, otherwise the
// caller gets an explicit "unavailable" result. No caller depends on
// which concrete provider answered.
package summary

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// ErrUnavailable is returned when no provider produced a summary.
var ErrUnavailable = errors.New("summary unavailable")

// Provider produces a summary for a piece of content.
type Provider interface {
	Name() string
	Summarize(ctx context.Context, content string) (string, error)
}

// Chain tries providers in order; the first non-empty answer wins.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain from the given providers, in priority order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Summarize runs the chain. Returns ErrUnavailable when every provider
// fails or answers empty.
func (c *Chain) Summarize(ctx context.Context, content string) (string, error) {
	for _, p := range c.providers {
		out, err := p.Summarize(ctx, content)
		if err != nil {
			continue
		}
		if out = strings.TrimSpace(out); out != "" {
			return out, nil
		}
	}
	return "", ErrUnavailable
}

// CommandProvider pipes content through an external command and uses its
// stdout as the summary.
type CommandProvider struct {
	Command string
}

// Name implements Provider.
func (p *CommandProvider) Name() string { return "command" }

// Summarize implements Provider.
func (p *CommandProvider) Summarize(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(p.Command) == "" {
		return "", ErrUnavailable
	}

	parts := strings.Fields(p.Command)
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(content)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return out.String(), nil
}

// HeadlineProvider is the local fallback: the first markdown heading, or
// the first few lines of content.
type HeadlineProvider struct {
	MaxLines int
}

// Name implements Provider.
func (p *HeadlineProvider) Name() string { return "headline" }

// Summarize implements Provider.
func (p *HeadlineProvider) Summarize(_ context.Context, content string) (string, error) {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "# ")), nil
		}
	}

	max := p.MaxLines
	if max <= 0 {
		max = 3
	}

	var picked []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		picked = append(picked, line)
		if len(picked) >= max {
			break
		}
	}
	if len(picked) == 0 {
		return "", ErrUnavailable
	}
	return strings.Join(picked, " "), nil
}
