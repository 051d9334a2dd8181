// Package persist maps logical storage keys to per-user namespaced keys and
// provides the bulk lifecycle operations (clear, export, import, legacy
// migration) over one authoritative key registry.
package persist

// Storage keys used by the dashboard feature modules. The first five are
// the primary set; the rest were written directly by individual modules
// before the registry existed and are kept for compatibility.
const (
	KeyLessons       = "lifeos_lessons"
	KeyTasks         = "lifeos_tasks"
	KeyNotifications = "lifeos_notifications"
	KeySettings      = "lifeos_settings"
	KeyStats         = "lifeos_stats"

	KeyPomodoro = "lifeos_pomodoro"
	KeySchedule = "lifeos_schedule"
	KeyShows    = "lifeos_shows"
	KeyNotes    = "lifeos_notes"
	KeyProfile  = "lifeos_profile"
)

// RegistryEntry ties a logical name (used in export bundles) to its
// storage key.
type RegistryEntry struct {
	Name       string
	StorageKey string
}

// Registry is the closed set of keys handled by ClearNamespace,
// ExportNamespace, ImportNamespace and MigrateLegacyData. All four iterate
// this one list so the set can never drift between them.
var Registry = []RegistryEntry{
	{Name: "lessons", StorageKey: KeyLessons},
	{Name: "tasks", StorageKey: KeyTasks},
	{Name: "notifications", StorageKey: KeyNotifications},
	{Name: "settings", StorageKey: KeySettings},
	{Name: "stats", StorageKey: KeyStats},
	{Name: "pomodoro", StorageKey: KeyPomodoro},
	{Name: "schedule", StorageKey: KeySchedule},
	{Name: "shows", StorageKey: KeyShows},
	{Name: "notes", StorageKey: KeyNotes},
	{Name: "profile", StorageKey: KeyProfile},
}

// StorageKeyFor resolves a logical bundle name to its storage key.
func StorageKeyFor(name string) (string, bool) {
	for _, e := range Registry {
		if e.Name == name {
			return e.StorageKey, true
		}
	}
	return "", false
}
