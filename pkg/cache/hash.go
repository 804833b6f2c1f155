package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// hashKey derives a key such as "build:<sha256>" from a kind and the JSON
// of its inputs: a word source, a vocabulary hash plus build options, or a
// vocabulary hash plus placements.
func hashKey(kind string, inputs ...any) string {
	data, _ := json.Marshal(inputs)
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Sources use it to scope cached
// word lists to an API token without storing the token.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashWords identifies a vocabulary in build and report keys. Word ids are
// list indexes, so the same words in another order hash differently.
func HashWords(words []string) string {
	return Hash([]byte(strings.Join(words, "\n")))
}
