package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codex-k8s/astro-mcp-server/internal/constants"
	"github.com/codex-k8s/astro-mcp-server/internal/params"
	"github.com/codex-k8s/astro-mcp-server/internal/protocol"
)

func (d *Dispatcher) validate(_ context.Context, args map[string]any) (protocol.Payload, error) {
	token, _ := args["token"].(string)
	if !d.auth.Check(token) {
		return protocol.ErrorPayload(d.message("error.invalid_token", nil, "Invalid validation token")), nil
	}
	return protocol.Payload{OwnerID: d.ownerID}, nil
}

func (d *Dispatcher) profile(ctx context.Context, args map[string]any) (protocol.Payload, error) {
	dob := params.String(args, "dob")
	if dob == "" {
		return protocol.Payload{}, errors.New(d.missing("dob"))
	}
	attrs, err := d.profiles(dob)
	if err != nil {
		return protocol.Payload{}, err
	}
	text, err := d.prompts.Profile(attrs)
	if err != nil {
		return protocol.Payload{}, err
	}
	return d.generate(ctx, constants.ToolProfile, text)
}

func (d *Dispatcher) explore(ctx context.Context, args map[string]any) (protocol.Payload, error) {
	if missing := params.Missing(args, "topic", "subject", "dob"); len(missing) > 0 {
		return protocol.ErrorPayload(d.missing(missing...)), nil
	}
	topic := params.String(args, "topic")
	if !strings.EqualFold(topic, constants.TopicCareer) {
		return protocol.Payload{Message: d.message("info.explore_topic", map[string]any{"Topic": topic},
			fmt.Sprintf("Only the %q topic is supported right now.", constants.TopicCareer))}, nil
	}
	attrs, err := d.profiles(params.String(args, "dob"))
	if err != nil {
		return protocol.Payload{}, err
	}
	text, err := d.prompts.Explore(attrs, params.String(args, "subject"))
	if err != nil {
		return protocol.Payload{}, err
	}
	return d.generate(ctx, constants.ToolExplore, text)
}

func (d *Dispatcher) compare(ctx context.Context, args map[string]any) (protocol.Payload, error) {
	if missing := params.Missing(args, "dob1", "dob2"); len(missing) > 0 {
		return protocol.ErrorPayload(d.missing(missing...)), nil
	}
	first, err := d.profiles(params.String(args, "dob1"))
	if err != nil {
		return protocol.Payload{}, fmt.Errorf("dob1: %w", err)
	}
	second, err := d.profiles(params.String(args, "dob2"))
	if err != nil {
		return protocol.Payload{}, fmt.Errorf("dob2: %w", err)
	}
	text, err := d.prompts.Compare(first, second)
	if err != nil {
		return protocol.Payload{}, err
	}
	return d.generate(ctx, constants.ToolCompare, text)
}

func (d *Dispatcher) daily(ctx context.Context, args map[string]any) (protocol.Payload, error) {
	if missing := params.Missing(args, "dob"); len(missing) > 0 {
		return protocol.ErrorPayload(d.missing(missing...)), nil
	}
	attrs, err := d.profiles(params.String(args, "dob"))
	if err != nil {
		return protocol.Payload{}, err
	}
	text, err := d.prompts.Daily(attrs, d.now())
	if err != nil {
		return protocol.Payload{}, err
	}
	return d.generate(ctx, constants.ToolDaily, text)
}

func (d *Dispatcher) lifePath(ctx context.Context, args map[string]any) (protocol.Payload, error) {
	if missing := params.Missing(args, "dob"); len(missing) > 0 {
		return protocol.ErrorPayload(d.missing(missing...)), nil
	}
	attrs, err := d.profiles(params.String(args, "dob"))
	if err != nil {
		return protocol.Payload{}, err
	}
	text, err := d.prompts.LifePath(attrs)
	if err != nil {
		return protocol.Payload{}, err
	}
	return d.generate(ctx, constants.ToolLifePath, text)
}

func (d *Dispatcher) generate(ctx context.Context, tool, text string) (protocol.Payload, error) {
	content, err := d.generator.Generate(ctx, text)
	if err != nil {
		return protocol.Payload{}, fmt.Errorf("%s: %w", tool, err)
	}
	return protocol.Payload{Content: content}, nil
}

func (d *Dispatcher) missing(names ...string) string {
	return d.message("error.missing_params", map[string]any{"Names": names},
		"Missing required parameters: "+strings.Join(names, ", "))
}
