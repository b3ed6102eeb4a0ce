package domain

// RootSentinel prefixes every key path of a wrapped tree.
const RootSentinel = "____root"

// PathSeparator joins the keys of a key path.
const PathSeparator = "."

// JoinPath extends a key path prefix with a key.
func JoinPath(prefix, key string) string {
	return prefix + PathSeparator + key
}
