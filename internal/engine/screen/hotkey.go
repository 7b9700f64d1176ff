package screen

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// HotKey watches a global key combination while a scan is running.
type HotKey struct {
	keys []string

	mu   sync.Mutex
	done chan struct{}
}

// NewHotKey parses a combination such as "ctrl+e" or "ctrl+shift+q".
func NewHotKey(combo string) (*HotKey, error) {
	keys, err := HotKeyKeys(combo)
	if err != nil {
		return nil, err
	}
	return &HotKey{keys: keys}, nil
}

// HotKeyKeys converts "mod+...+key" into gohook's order: the key first, then
// the modifiers.
func HotKeyKeys(combo string) ([]string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, fmt.Errorf("invalid hot key %q", combo)
		}
	}
	key := parts[len(parts)-1]
	return append([]string{key}, parts[:len(parts)-1]...), nil
}

func (h *HotKey) String() string {
	mods := h.keys[1:]
	return strings.Join(append(append([]string(nil), mods...), h.keys[0]), "+")
}

// Watch calls fire once when the combination is pressed. The global hook is
// released when ctx is done. Only one watch runs at a time; a new Watch waits
// for the previous hook to be torn down.
func (h *HotKey) Watch(ctx context.Context, fire func()) {
	h.mu.Lock()
	if h.done != nil {
		<-h.done
	}
	done := make(chan struct{})
	h.done = done
	h.mu.Unlock()

	var once sync.Once
	hook.Register(hook.KeyDown, h.keys, func(hook.Event) {
		once.Do(fire)
	})
	processed := hook.Process(hook.Start())

	go func() {
		defer close(done)
		<-ctx.Done()
		hook.End()
		<-processed
	}()
}
