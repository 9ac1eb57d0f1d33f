// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

// Package fieldmap translates between the internal storage shapes used
// by the game and the remote session document schema.
//
// Most fields pass through unchanged. Three fields are associative maps
// internally but must be arrays of keyed objects remotely, because the
// remote schema forbids open-ended maps. Every element of an
// array-shaped remote field must carry a stable "id"; elements written
// without one get a deterministic id derived from the field's natural
// key columns, so re-submitting the same logical item never produces a
// duplicate-looking entry.
//
// Conversion is driven entirely by the static field table in models;
// there is no runtime shape inference.
package fieldmap

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/evenstad/julekalender/models"
)

// itemIDField is the element field the remote schema requires on every
// member of an array-shaped field.
const itemIDField = "id"

var (
	// ErrUnknownKey is returned when an internal key has no entry in
	// the field table.
	ErrUnknownKey = errors.New("unknown internal storage key")

	// ErrUnknownField is returned when a remote field name has no entry
	// in the field table.
	ErrUnknownField = errors.New("unknown remote field")
)

// ToRemote converts an internal key/value pair to its remote field name
// and remote-shape value.
func ToRemote(internalKey string, value any) (string, any, error) {
	spec, ok := models.FieldByKey(internalKey)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownKey, internalKey)
	}

	switch spec.Kind {
	case models.KindMap:
		return spec.Remote, mapToEntries(spec, value), nil
	case models.KindArray:
		return spec.Remote, withItemIDs(spec, value), nil
	default:
		return spec.Remote, value, nil
	}
}

// FromRemote converts a remote field and its remote-shape value back to
// the internal key and internal-shape value.
func FromRemote(remoteField string, value any) (string, any, error) {
	spec, ok := models.FieldByRemote(remoteField)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownField, remoteField)
	}

	if spec.Kind == models.KindMap {
		return spec.Key, entriesToMap(spec, value), nil
	}

	// identity for value fields; array fields keep their ids, which are
	// preserved verbatim on the next write
	return spec.Key, value, nil
}

// RemoteName resolves an internal key to its remote field name.
func RemoteName(internalKey string) (string, bool) {
	spec, ok := models.FieldByKey(internalKey)
	if !ok {
		return "", false
	}
	return spec.Remote, true
}

// mapToEntries converts {k: v} to [{id, <entryKey>: k, <entryValue>: v}]
// sorted by key, so repeated conversions of equal maps are identical.
func mapToEntries(spec models.FieldSpec, value any) any {
	m, ok := value.(map[string]any)
	if !ok {
		return value
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]any, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, map[string]any{
			itemIDField:     k,
			spec.EntryKey:   k,
			spec.EntryValue: m[k],
		})
	}
	return entries
}

// entriesToMap is the exact inverse of mapToEntries.
func entriesToMap(spec models.FieldSpec, value any) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}

	m := make(map[string]any, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		k, ok := entry[spec.EntryKey].(string)
		if !ok {
			continue
		}
		m[k] = entry[spec.EntryValue]
	}
	return m
}

// withItemIDs returns a copy of an array value in which every object
// element carries a stable id. An id already present is preserved.
func withItemIDs(spec models.FieldSpec, value any) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		if id, has := entry[itemIDField].(string); has && id != "" {
			out = append(out, entry)
			continue
		}

		withID := make(map[string]any, len(entry)+1)
		for k, v := range entry {
			withID[k] = v
		}
		withID[itemIDField] = DeriveItemID(spec, entry)
		out = append(out, withID)
	}
	return out
}

// DeriveItemID builds the stable id of an array element from the
// field's natural key columns (e.g. code + submission date, day number,
// badge id + award date). The same logical item always derives the same
// id. An element missing every natural key gets a random id; that only
// happens for malformed data, which the remote schema still requires an
// id for.
func DeriveItemID(spec models.FieldSpec, entry map[string]any) string {
	parts := make([]string, 0, len(spec.IDFields))
	for _, f := range spec.IDFields {
		v, ok := entry[f]
		if !ok || v == nil {
			continue
		}
		parts = append(parts, formatIDValue(v))
	}
	if len(parts) == 0 {
		return uuid.NewString()
	}
	return strings.Join(parts, "-")
}

func formatIDValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
