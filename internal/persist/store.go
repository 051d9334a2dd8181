package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lifeos/internal/kvstore"
	"github.com/dmitrijs2005/lifeos/internal/logging"
)

// Store is the persistence surface consumed by the feature modules. Every
// key passed in is physically stored under the active user's prefix
// ("user_<username>_"); with no active user, reads and writes go to the
// unprefixed legacy keys.
type Store struct {
	device kvstore.Device
	prefix string
	log    logging.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log logging.Logger) Option {
	return func(s *Store) { s.log = log.With("component", "persist") }
}

// WithClock injects the time source used when seeding default settings.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore constructs a Store with no active user.
func NewStore(device kvstore.Device, opts ...Option) *Store {
	s := &Store{
		device: device,
		log:    logging.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetActiveUser switches the namespace. An empty username deactivates
// namespacing and falls back to the legacy unprefixed keys.
func (s *Store) SetActiveUser(username string) {
	s.prefix = prefixFor(username)
}

// ActivePrefix returns the current physical key prefix, empty when no user
// is active.
func (s *Store) ActivePrefix() string { return s.prefix }

func prefixFor(username string) string {
	if username == "" {
		return ""
	}
	return "user_" + username + "_"
}

// Save serializes v as JSON and writes it under the active namespace.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return s.device.Set(ctx, s.prefix+key, data)
}

// Load reads the key from the active namespace into dest. When the key is
// absent, or its stored bytes fail to parse, dest is left untouched —
// callers pre-fill it with their default, and corrupt data reads as
// absent rather than as a hard error.
func (s *Store) Load(ctx context.Context, key string, dest any) error {
	data, err := s.device.Get(ctx, s.prefix+key)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.log.Warn(ctx, "corrupt value, using default", "key", key, "error", err)
	}
	return nil
}

// LoadRaw returns the stored JSON for the key, or nil when absent or not
// valid JSON.
func (s *Store) LoadRaw(ctx context.Context, key string) (json.RawMessage, error) {
	data, err := s.device.Get(ctx, s.prefix+key)
	if err != nil {
		return nil, err
	}
	if data == nil || !json.Valid(data) {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// Remove deletes the key from the active namespace.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.device.Delete(ctx, s.prefix+key)
}

// ClearNamespace deletes every registry key under the active prefix. Other
// users' namespaces and the unprefixed legacy keys are untouched.
func (s *Store) ClearNamespace(ctx context.Context) error {
	err := s.device.Batch(ctx, func(d kvstore.Device) error {
		for _, e := range Registry {
			if err := d.Delete(ctx, s.prefix+e.StorageKey); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "namespace cleared", "prefix", s.prefix)
	return nil
}

// defaultSettings mirrors what the dashboard seeds on first run.
func (s *Store) defaultSettings() map[string]any {
	return map[string]any{
		"theme":         "dark",
		"notifications": true,
		"streak":        0,
		"lastVisit":     s.now().UTC().Format(time.RFC3339),
	}
}

func defaultStats() map[string]any {
	return map[string]any{
		"dailyProgress":  map[string]any{},
		"weeklyGoals":    map[string]any{},
		"totalCompleted": 0,
	}
}

// InitializeDefaults seeds the primary keys that are still absent in the
// active namespace: empty lists for lessons, tasks and notifications, and
// the default settings and stats objects. Existing values are preserved.
func (s *Store) InitializeDefaults(ctx context.Context) error {
	seed := func(key string, value any) error {
		raw, err := s.LoadRaw(ctx, key)
		if err != nil {
			return err
		}
		if raw != nil {
			return nil
		}
		return s.Save(ctx, key, value)
	}

	for _, key := range []string{KeyLessons, KeyTasks, KeyNotifications} {
		if err := seed(key, []any{}); err != nil {
			return err
		}
	}
	if err := seed(KeySettings, s.defaultSettings()); err != nil {
		return err
	}
	return seed(KeyStats, defaultStats())
}
