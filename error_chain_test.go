package scopedlog

import (
	"bytes"
	"encoding/json"
	stderrs "errors"
	"strings"
	"testing"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorChain_WithDetailedAndStd(t *testing.T) {
	inner := smerrors.New("auth.Session").Msg("session cookie missing")
	middle := smerrors.New("auth.State").Err(inner).Msg("authentication state unavailable")
	outer := smerrors.New("portal.Init").Err(middle).Msg("component init failed")

	chain, _, root, _ := buildErrorChain(outer)
	assert.Equal(t, []string{
		"component init failed",
		"authentication state unavailable",
		"session cookie missing",
	}, chain)
	assert.Equal(t, "session cookie missing", root)

	wrapped := smerrors.New("wrap.Std").Errorf("wrap: %w", outer)
	chain2, _, root2, _ := buildErrorChain(wrapped)
	assert.True(t, strings.HasPrefix(chain2[0], "wrap:"))
	assert.Equal(t, root, root2)
}

func TestBuildErrorChain_IdentityUnavailable(t *testing.T) {
	err := &IdentityUnavailableError{ScopeID: "s", Cause: stderrs.New("no active session")}

	chain, ops, root, rootOp := buildErrorChain(err)
	assert.Equal(t, []string{"identity unavailable: no active session", "no active session"}, chain)
	assert.Equal(t, []string{"", ""}, ops)
	assert.Equal(t, "no active session", root)
	assert.Empty(t, rootOp)

	chain, _, _, _ = buildErrorChain(nil)
	assert.Empty(t, chain)
}

func TestEventErr_EmitsChainFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	le := newLogEvent(logger.Error())

	inner := smerrors.New("auth.Session").Msg("session cookie missing")
	outer := smerrors.New("portal.Init").Err(inner).Msg("component init failed")

	le.Err(outer).Msg("boom")

	var entry map[string]any
	require.NoError(t, json.NewDecoder(&buf).Decode(&entry))

	assert.NotEmpty(t, entry[zerolog.ErrorFieldName])
	for _, key := range []string{"error_chain", "error_root", "error_history", "error_ops"} {
		assert.Contains(t, entry, key)
	}
	assert.Equal(t, "component init failed -> session cookie missing", entry["error_history"])
}
