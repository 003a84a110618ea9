package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Namespace prefixes every key so a cache directory shared with other
// tools never serves foreign entries.
const Namespace = "umlstack"

// KeyVersion is bumped whenever rendered output changes for the same
// input, which retires every key built by an older release.
const KeyVersion = 1

// Key returns "umlstack:v<KeyVersion>:<kind>:<sha256 of parts>". The parts
// are hashed as a JSON array, so ("ab", "c") and ("a", "bc") differ.
func Key(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:v%d:%s:%s", Namespace, KeyVersion, kind, Hash(data))
}

// RenderKey is the key of a DOT document rendered to format.
func RenderKey(format, dot string) string {
	return Key("render", format, dot)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
