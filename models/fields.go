package models

// FieldKind classifies how a field is represented on each side of the
// storage boundary.
type FieldKind int

const (
	// KindValue fields pass through unchanged: booleans, numbers,
	// strings and nested status objects.
	KindValue FieldKind = iota

	// KindArray fields are arrays of objects on both sides. The remote
	// schema requires every element to carry a stable "id"; elements
	// written without one get a deterministic id derived from the
	// field's natural key columns.
	KindArray

	// KindMap fields are associative maps internally but arrays of
	// keyed objects remotely, because the remote schema forbids
	// open-ended maps.
	KindMap
)

// FieldSpec is one entry of the static field table: the correspondence
// between an internal storage key and a remote document field, plus the
// shape-conversion rule for that field.
type FieldSpec struct {
	// Key is the internal storage key used by the application facade.
	Key string

	// Remote is the field name inside the remote session document.
	Remote string

	Kind FieldKind

	// Default is the remote-shape value a freshly created document
	// carries for this field, and the value the field is reset to by
	// remove/clear.
	Default any

	// IDFields names the element fields whose values compose the
	// stable item id of a KindArray element.
	IDFields []string

	// EntryKey and EntryValue name the object fields that hold a map
	// entry's key and value in the remote array shape of a KindMap
	// field.
	EntryKey   string
	EntryValue string
}

// Fields is the full field table of the session document. Order matters
// only for deterministic iteration (clear() resets fields in this order).
var Fields = []FieldSpec{
	{Key: "authenticated", Remote: "authenticated", Kind: KindValue, Default: false},
	{Key: "submitted-codes", Remote: "submittedCodes", Kind: KindArray, Default: []any{}, IDFields: []string{"kode", "dato"}},
	{Key: "viewed-emails", Remote: "viewedEmails", Kind: KindArray, Default: []any{}, IDFields: []string{"emailId"}},
	{Key: "sounds-enabled", Remote: "soundsEnabled", Kind: KindValue, Default: true},
	{Key: "music-enabled", Remote: "musicEnabled", Kind: KindValue, Default: true},
	{Key: "bonus-oppdrag-badges", Remote: "bonusOppdragBadges", Kind: KindArray, Default: []any{}, IDFields: []string{"dag"}},
	{Key: "eventyr-badges", Remote: "eventyrBadges", Kind: KindArray, Default: []any{}, IDFields: []string{"dag"}},
	{Key: "earned-badges", Remote: "earnedBadges", Kind: KindArray, Default: []any{}, IDFields: []string{"badgeId", "dato"}},
	{Key: "topic-unlocks", Remote: "topicUnlocks", Kind: KindMap, Default: []any{}, EntryKey: "topic", EntryValue: "dag"},
	{Key: "unlocked-files", Remote: "unlockedFiles", Kind: KindArray, Default: []any{}, IDFields: []string{"fileId"}},
	{Key: "unlocked-modules", Remote: "unlockedModules", Kind: KindArray, Default: []any{}, IDFields: []string{"moduleId"}},
	{Key: "collected-symbols", Remote: "collectedSymbols", Kind: KindArray, Default: []any{}, IDFields: []string{"symbolId"}},
	{Key: "solved-decryptions", Remote: "solvedDecryptions", Kind: KindArray, Default: []any{}, IDFields: []string{"oppgaveId"}},
	{Key: "decryption-attempts", Remote: "decryptionAttempts", Kind: KindMap, Default: []any{}, EntryKey: "oppgaveId", EntryValue: "forsoek"},
	{Key: "failed-attempts", Remote: "failedAttempts", Kind: KindMap, Default: []any{}, EntryKey: "oppgaveId", EntryValue: "antall"},
	{Key: "crisis-status", Remote: "crisisStatus", Kind: KindValue, Default: map[string]any{}},
	{Key: "santa-letters", Remote: "santaLetters", Kind: KindArray, Default: []any{}, IDFields: []string{"navn", "dato"}},
	{Key: "player-names", Remote: "playerNames", Kind: KindArray, Default: []any{}, IDFields: []string{"navn"}},
	{Key: "dagbok-last-read", Remote: "dagbokLastRead", Kind: KindValue, Default: float64(0)},
}

var (
	fieldsByKey    = make(map[string]FieldSpec, len(Fields))
	fieldsByRemote = make(map[string]FieldSpec, len(Fields))
)

func init() {
	for _, f := range Fields {
		fieldsByKey[f.Key] = f
		fieldsByRemote[f.Remote] = f
	}
}

// FieldByKey looks up a field spec by its internal storage key.
func FieldByKey(key string) (FieldSpec, bool) {
	f, ok := fieldsByKey[key]
	return f, ok
}

// FieldByRemote looks up a field spec by its remote document field name.
func FieldByRemote(remote string) (FieldSpec, bool) {
	f, ok := fieldsByRemote[remote]
	return f, ok
}

// DefaultDocument builds the document a brand-new tenant starts with:
// every field of the table set to its documented default.
func DefaultDocument() SessionDocument {
	doc := make(SessionDocument, len(Fields))
	for _, f := range Fields {
		doc[f.Remote] = defaultValue(f)
	}
	return doc
}

// defaultValue copies the field default so callers never share the slice
// or map stored in the table.
func defaultValue(f FieldSpec) any {
	switch d := f.Default.(type) {
	case []any:
		out := make([]any, len(d))
		copy(out, d)
		return out
	case map[string]any:
		out := make(map[string]any, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out
	default:
		return d
	}
}

// FieldDefault returns a copy of the default value for the given remote
// field name, or nil when the field is unknown.
func FieldDefault(remote string) any {
	f, ok := fieldsByRemote[remote]
	if !ok {
		return nil
	}
	return defaultValue(f)
}
