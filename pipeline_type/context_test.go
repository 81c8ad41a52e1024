package pipeline_type

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() *Context {
	ctx := NewContext()
	ctx.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return ctx
}

func TestContextSetGetRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{name: "string", key: "bearerToken", value: "abc"},
		{name: "number", key: "usersCount", value: 42},
		{name: "record", key: "currentUser", value: Record{"id": "u1"}},
		{name: "list", key: "usersList", value: []User{{ID: "u1"}, {ID: "u2"}}},
		{name: "nil value", key: "nothing", value: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			ctx.Set(tt.key, tt.value)

			got, ok := ctx.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.value, got)
			assert.True(t, ctx.Has(tt.key))
		})
	}
}

func TestContextSetOverwrites(t *testing.T) {
	ctx := newTestContext()
	ctx.Set("clientId", "first")
	ctx.Set("clientId", "second")

	got, ok := ctx.Get("clientId")
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, ctx.Len())
}

func TestContextGetAbsent(t *testing.T) {
	ctx := newTestContext()

	got, ok := ctx.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, ctx.Has("missing"))
}

func TestContextUnset(t *testing.T) {
	ctx := newTestContext()
	ctx.Set("selectedUserId", "u1")
	ctx.Unset("selectedUserId")

	_, ok := ctx.Get("selectedUserId")
	assert.False(t, ok)
	assert.False(t, ctx.Has("selectedUserId"))

	// absent key is a no-op
	ctx.Unset("selectedUserId")
	assert.Equal(t, 0, ctx.Len())
}

func TestContextClear(t *testing.T) {
	ctx := newTestContext()
	keys := []string{"bearerToken", "clientId", "usersList"}
	for _, k := range keys {
		ctx.Set(k, k)
	}

	ctx.Clear()

	for _, k := range keys {
		assert.False(t, ctx.Has(k), "key %s should be gone", k)
	}
	assert.Empty(t, ctx.Keys())
}

func TestContextGetAllIsSnapshot(t *testing.T) {
	ctx := newTestContext()
	ctx.Set("clientId", "c1")

	snapshot := ctx.GetAll()
	snapshot["clientId"] = "tampered"
	snapshot["extra"] = true
	delete(snapshot, "clientId")

	got, ok := ctx.Get("clientId")
	require.True(t, ok)
	assert.Equal(t, "c1", got)
	assert.False(t, ctx.Has("extra"))
}

func TestContextRestore(t *testing.T) {
	ctx := newTestContext()
	ctx.Set("clientId", "c1")
	snapshot := ctx.GetAll()

	ctx.Set("usersList", []User{{ID: "u1"}})
	ctx.Set("clientId", "c2")
	ctx.Restore(snapshot)

	assert.Equal(t, snapshot, ctx.GetAll())
	assert.False(t, ctx.Has("usersList"))

	// the restored map is not shared with the snapshot
	snapshot["clientId"] = "tampered"
	got, _ := ctx.Get("clientId")
	assert.Equal(t, "c1", got)
}

func TestContextKeysSorted(t *testing.T) {
	ctx := newTestContext()
	ctx.Set("b", 1)
	ctx.Set("a", 2)
	ctx.Set("c", 3)

	assert.Equal(t, []string{"a", "b", "c"}, ctx.Keys())
}

func TestContextSetLogsSummaries(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext()
	ctx.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx.Set("bearerToken", strings.Repeat("x", 80))
	ctx.Set("usersList", []User{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	ctx.Set("currentUser", Record{"id": "u1", "email": "a@b.c"})

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("x", 50)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 51))
	assert.Contains(t, out, "[Array with 3 item(s)]")
	assert.Contains(t, out, "{Object with 2 field(s)}")
}

func TestSummarizeTruncatesOnRuneBoundary(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "short", value: "token", want: "token"},
		{name: "ascii", value: strings.Repeat("a", 60), want: strings.Repeat("a", 50) + "..."},
		{name: "multibyte straddles limit", value: strings.Repeat("a", 49) + "éé", want: strings.Repeat("a", 49) + "..."},
		{name: "multibyte", value: strings.Repeat("日", 20), want: strings.Repeat("日", 16) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize(tt.value)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
