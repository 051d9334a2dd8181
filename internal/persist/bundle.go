package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lifeos/internal/kvstore"
)

// ErrMalformedImport is returned when an import payload is not a JSON
// object. Nothing is written in that case.
var ErrMalformedImport = errors.New("malformed import bundle")

// ExportNamespace collects every registry key of the active namespace into
// one backup document: a flat JSON object keyed by logical name, each value
// the key's current content, defaulting to an empty array when absent.
func (s *Store) ExportNamespace(ctx context.Context) ([]byte, error) {
	bundle := make(map[string]json.RawMessage, len(Registry))
	for _, e := range Registry {
		raw, err := s.LoadRaw(ctx, e.StorageKey)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			raw = json.RawMessage("[]")
		}
		bundle[e.Name] = raw
	}
	return json.MarshalIndent(bundle, "", "  ")
}

// ImportNamespace overwrites the active namespace from a previously
// exported bundle. The whole document is validated before anything is
// written, and the writes are applied as one batch, so a malformed payload
// leaves every key unchanged. Bundle entries outside the registry are
// ignored.
func (s *Store) ImportNamespace(ctx context.Context, data []byte) error {
	var bundle map[string]json.RawMessage
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if bundle == nil {
		return fmt.Errorf("%w: document is null", ErrMalformedImport)
	}

	err := s.device.Batch(ctx, func(d kvstore.Device) error {
		for _, e := range Registry {
			raw, ok := bundle[e.Name]
			if !ok || raw == nil {
				continue
			}
			if err := d.Set(ctx, s.prefix+e.StorageKey, raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "namespace imported", "prefix", s.prefix)
	return nil
}

// MigrateLegacyData copies (never moves) every registry key from the
// unprefixed legacy namespace into user_<username>_*. Run once, when the
// very first account is registered; the unprefixed originals stay behind
// as a safety fallback.
func (s *Store) MigrateLegacyData(ctx context.Context, username string) error {
	prefix := prefixFor(username)
	if prefix == "" {
		return nil
	}

	err := s.device.Batch(ctx, func(d kvstore.Device) error {
		for _, e := range Registry {
			data, err := d.Get(ctx, e.StorageKey)
			if err != nil {
				return err
			}
			if data == nil {
				continue
			}
			if err := d.Set(ctx, prefix+e.StorageKey, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "legacy data migrated", "username", username)
	return nil
}
