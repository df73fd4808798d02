package scopedlog

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Station-Manager/scopedlog/identity"
)

func TestScopedLogger_WrapsEachLogInIdentityScope(t *testing.T) {
	spy := &spyLogger{category: "Foo"}
	l := NewScopedLogger(spy, identity.Describe(alicePrincipal()))

	l.Log(zerolog.InfoLevel, EventID{ID: 7, Name: "greet"}, "hello", nil, MessageFormatter)

	emissions := spy.recorded()
	require.Len(t, emissions, 1)
	e := emissions[0]
	assert.Equal(t, zerolog.InfoLevel, e.level)
	assert.Equal(t, "hello", e.message)
	assert.Equal(t, EventID{ID: 7, Name: "greet"}, e.eventID)
	require.Len(t, e.scopes, 1)

	scope, ok := e.scopes[0].(Scope)
	require.True(t, ok)
	assert.Equal(t, []Field{
		{Key: UsernameFieldName, Value: "alice"},
		{Key: UserIDFieldName, Value: "u42"},
	}, scope.Fields)
	assert.Equal(t, "User:alice, u42", scope.String())

	pushes, pops, open := spy.balance()
	assert.Equal(t, 1, pushes)
	assert.Equal(t, 1, pops)
	assert.Zero(t, open)
}

func TestScopedLogger_AnonymousScope(t *testing.T) {
	spy := &spyLogger{}
	l := NewScopedLogger(spy, identity.Describe(identity.Anonymous()))

	l.Info("hi")

	e := spy.recorded()[0]
	scope := e.scopes[0].(Scope)
	assert.Equal(t, []Field{
		{Key: UsernameFieldName, Value: identity.AnonymousName},
		{Key: UserIDFieldName, Value: nil},
	}, scope.Fields)
	assert.Equal(t, "User:Anonymous, (null)", scope.String())
}

func TestScopedLogger_ReleasesScopeWhenDelegatePanics(t *testing.T) {
	spy := &spyLogger{panicOnLog: "sink failure"}
	l := NewScopedLogger(spy, identity.Describe(alicePrincipal()))

	assert.PanicsWithValue(t, "sink failure", func() {
		l.Error(errors.New("boom"), "failing")
	})

	pushes, pops, open := spy.balance()
	assert.Equal(t, 1, pushes)
	assert.Equal(t, 1, pops)
	assert.Zero(t, open)
}

func TestScopedLogger_PassThrough(t *testing.T) {
	spy := &spyLogger{disabled: true}
	l := NewScopedLogger(spy, identity.Describe(alicePrincipal()))

	assert.False(t, l.IsEnabled(zerolog.InfoLevel))
	pushes, _, _ := spy.balance()
	assert.Zero(t, pushes, "IsEnabled must not touch scopes")

	release := l.BeginScope("request 1")
	pushes, pops, open := spy.balance()
	assert.Equal(t, 1, pushes)
	assert.Zero(t, pops)
	assert.Equal(t, 1, open)

	l.Warn("inside")
	e := spy.recorded()[0]
	require.Len(t, e.scopes, 2)
	assert.Equal(t, "request 1", e.scopes[0])
	assert.IsType(t, Scope{}, e.scopes[1])

	release()
	release()
	_, pops, open = spy.balance()
	assert.Equal(t, 2, pops)
	assert.Zero(t, open)
}

func TestScopedLogger_ConvenienceLevels(t *testing.T) {
	spy := &spyLogger{}
	l := NewScopedLogger(spy, identity.Describe(alicePrincipal()))

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	err := errors.New("e")
	l.Error(err, "x")

	got := spy.recorded()
	require.Len(t, got, 4)
	assert.Equal(t, zerolog.DebugLevel, got[0].level)
	assert.Equal(t, zerolog.InfoLevel, got[1].level)
	assert.Equal(t, zerolog.WarnLevel, got[2].level)
	assert.Equal(t, zerolog.ErrorLevel, got[3].level)
	assert.Equal(t, err, got[3].err)
	assert.Equal(t, "x", got[3].message)
}

// The scoped logger decorates the zerolog sink end to end.
func TestScopedLogger_ZerologSink(t *testing.T) {
	s, buf := newBufferedService(t, validConfig())
	l := NewScopedLogger(s.CreateLogger("Foo"), identity.Describe(alicePrincipal()))

	release := l.BeginScope(map[string]any{"order": "o-1"})
	l.Log(zerolog.InfoLevel, EventID{ID: 3}, "hello", nil, nil)
	release()
	l.Info("after")

	entries := buf.entries(t)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "hello", first["message"])
	assert.Equal(t, "Foo", first[CategoryFieldName])
	assert.Equal(t, float64(3), first[EventIDFieldName])
	assert.Equal(t, "alice", first[UsernameFieldName])
	assert.Equal(t, "u42", first[UserIDFieldName])
	assert.Equal(t, "o-1", first["order"])
	assert.Equal(t, []any{"User:alice, u42"}, first[ScopeFieldName])

	second := entries[1]
	assert.NotContains(t, second, "order")
	assert.Equal(t, "alice", second[UsernameFieldName])
	assert.Equal(t, int32(0), s.ActiveOperations())
}

func TestScopedLogger_ScopesFollowLoggerInstance(t *testing.T) {
	s, buf := newBufferedService(t, validConfig())
	d := identity.Describe(alicePrincipal())
	shared := NewScopedLogger(s.CreateLogger("Foo"), d)
	own := NewScopedLogger(s.CreateLogger("Foo"), d)

	release := shared.BeginScope(map[string]any{"request": "A"})
	done := make(chan struct{})
	go func() {
		defer close(done)
		shared.Info("from shared")
		own.Info("from own")
	}()
	<-done
	release()

	entries := buf.entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0]["request"])
	assert.NotContains(t, entries[1], "request")
}

func TestScopedLogger_ZerologSinkAnonymousAndError(t *testing.T) {
	s, buf := newBufferedService(t, validConfig())
	l := NewScopedLogger(s.CreateLogger("Foo"), identity.Describe(nil))

	l.Error(&IdentityUnavailableError{Cause: errors.New("no session")}, "failed")

	entries := buf.entries(t)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, identity.AnonymousName, e[UsernameFieldName])
	assert.Contains(t, e, UserIDFieldName)
	assert.Nil(t, e[UserIDFieldName])
	assert.Equal(t, "no session", e["error_root"])
}
