package redis

const (
	// KeyPrefixSnapshot is the prefix for locale snapshot keys
	KeyPrefixSnapshot = "sidebar:snapshot:"
	// KeyAllSnapshots is the key for the set of all stored locales
	KeyAllSnapshots = "sidebar:snapshots:all"
)

// SnapshotKey returns the Redis key for the snapshot of a locale
func SnapshotKey(locale string) string {
	return KeyPrefixSnapshot + locale
}

// AllSnapshotsKey returns the key for the set of all stored locales
func AllSnapshotsKey() string {
	return KeyAllSnapshots
}
