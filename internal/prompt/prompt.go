// Package prompt turns profile attributes into provider-ready prompts.
package prompt

import (
	"errors"
	"fmt"
	"time"

	"github.com/codex-k8s/astro-mcp-server/internal/profile"
	"github.com/codex-k8s/astro-mcp-server/internal/templates"
)

// Template keys in the message bundle.
const (
	KeyProfile  = "prompt.profile"
	KeyExplore  = "prompt.explore"
	KeyCompare  = "prompt.compare"
	KeyDaily    = "prompt.daily"
	KeyLifePath = "prompt.lifepath"
)

// DayLayout formats the date embedded in daily prompts.
const DayLayout = "Monday, January 2, 2006"

// Builder renders prompts from a template bundle.
type Builder struct {
	renderer templates.Renderer
}

// NewBuilder returns a Builder backed by renderer.
func NewBuilder(renderer templates.Renderer) (*Builder, error) {
	if renderer == nil {
		return nil, errors.New("prompt renderer is nil")
	}
	return &Builder{renderer: renderer}, nil
}

// Profile builds the personality profile prompt.
func (b *Builder) Profile(a profile.Attributes) (string, error) {
	return b.render(KeyProfile, a)
}

// Explore builds the career exploration prompt for subject.
func (b *Builder) Explore(a profile.Attributes, subject string) (string, error) {
	return b.render(KeyExplore, struct {
		Profile profile.Attributes
		Subject string
	}{a, subject})
}

// Compare builds the compatibility prompt for two people.
func (b *Builder) Compare(first, second profile.Attributes) (string, error) {
	return b.render(KeyCompare, struct {
		A, B profile.Attributes
	}{first, second})
}

// Daily builds the guidance prompt for the given day.
func (b *Builder) Daily(a profile.Attributes, day time.Time) (string, error) {
	return b.render(KeyDaily, struct {
		Profile profile.Attributes
		Day     string
	}{a, day.Format(DayLayout)})
}

// LifePath builds the life path explanation prompt.
func (b *Builder) LifePath(a profile.Attributes) (string, error) {
	return b.render(KeyLifePath, a)
}

func (b *Builder) render(key string, data any) (string, error) {
	out, err := b.renderer.Render(key, data)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}
	return out, nil
}
