package pipeline_type

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"unicode/utf8"
)

// maxLoggedStringLen caps how much of a string value is echoed when it is set.
const maxLoggedStringLen = 50

// Context carries values between steps for the lifetime of one session.
// It is owned by a single orchestrator and only touched from its goroutine,
// so it does no locking.
type Context struct {
	data   map[string]interface{}
	logger *slog.Logger
}

func NewContext() *Context {
	return &Context{
		data:   make(map[string]interface{}),
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger used for the diagnostic line emitted on Set.
func (c *Context) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Set stores value under key, overwriting any previous value.
func (c *Context) Set(key string, value interface{}) {
	c.data[key] = value
	c.logger.Info("context set", slog.String("key", key), slog.String("value", summarize(value)))
}

// Get returns the stored value and whether the key was present.
func (c *Context) Get(key string) (interface{}, bool) {
	val, ok := c.data[key]
	return val, ok
}

func (c *Context) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Unset removes key. Removing an absent key is a no-op.
func (c *Context) Unset(key string) {
	if _, ok := c.data[key]; !ok {
		return
	}
	delete(c.data, key)
	c.logger.Info("context unset", slog.String("key", key))
}

// Clear removes every key.
func (c *Context) Clear() {
	clear(c.data)
	c.logger.Info("context cleared")
}

// GetAll returns a shallow copy of the stored values. Mutating the returned
// map does not affect the context.
func (c *Context) GetAll() map[string]interface{} {
	return maps.Clone(c.data)
}

// Restore replaces the whole content of the context with snapshot, as
// previously returned by GetAll.
func (c *Context) Restore(snapshot map[string]interface{}) {
	c.data = maps.Clone(snapshot)
	if c.data == nil {
		c.data = make(map[string]interface{})
	}
	c.logger.Debug("context restored", slog.Int("keys", len(c.data)))
}

func (c *Context) Len() int {
	return len(c.data)
}

// Keys returns the stored keys in sorted order.
func (c *Context) Keys() []string {
	return slices.Sorted(maps.Keys(c.data))
}

// summarize renders a value for the log without flooding it: long strings
// are cut and collections are reduced to their size.
func summarize(value interface{}) string {
	if value == nil {
		return "<nil>"
	}
	if s, ok := value.(string); ok {
		return truncate(s, maxLoggedStringLen)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("[Array with %d item(s)]", rv.Len())
	case reflect.Map:
		return fmt.Sprintf("{Object with %d field(s)}", rv.Len())
	}
	return fmt.Sprintf("%v", value)
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	end := 0
	for end < len(s) {
		_, size := utf8.DecodeRuneInString(s[end:])
		if end+size > limit {
			break
		}
		end += size
	}
	return s[:end] + "..."
}
