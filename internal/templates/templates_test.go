package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FallsBackToDefault(t *testing.T) {
	bundle, err := Load("xx")
	require.NoError(t, err)
	assert.Equal(t, DefaultLang, bundle.Lang())
}

func TestRender_Messages(t *testing.T) {
	bundle, err := Load("en")
	require.NoError(t, err)

	msg, err := bundle.Render("error.unknown_tool", map[string]any{"Name": "horoscope"})
	require.NoError(t, err)
	assert.Equal(t, `Tool "horoscope" not implemented on this server.`, msg)

	msg, err = bundle.Render("error.missing_params", map[string]any{"Names": []string{"dob"}})
	require.NoError(t, err)
	assert.Equal(t, "Missing required parameter: dob", msg)

	msg, err = bundle.Render("error.missing_params", map[string]any{"Names": []string{"topic", "dob"}})
	require.NoError(t, err)
	assert.Equal(t, "Missing required parameters: topic, dob", msg)
}

func TestRender_Errors(t *testing.T) {
	bundle, err := Load("en")
	require.NoError(t, err)

	_, err = bundle.Render("no.such.key", nil)
	assert.ErrorContains(t, err, "template not found")

	_, err = bundle.Render("error.unknown_tool", map[string]any{})
	assert.Error(t, err)

	var nilBundle *Bundle
	_, err = nilBundle.Render("error.unknown_tool", nil)
	assert.Error(t, err)
}

func TestRenderOr(t *testing.T) {
	bundle, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, "Invalid validation token", RenderOr(bundle, "error.invalid_token", nil, "fallback"))
	assert.Equal(t, "fallback", RenderOr(bundle, "missing", nil, "fallback"))
	assert.Equal(t, "fallback", RenderOr(nil, "error.invalid_token", nil, "fallback"))
}
