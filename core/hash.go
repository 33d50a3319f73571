package core

import (
	"fmt"
	"path"
)

// StringHash is a 32-bit SDBM hash used to key events, event parameters and
// cached resources.
type StringHash uint32

// NewStringHash hashes s, folding ASCII letters to lower case. Event and
// parameter names use it.
func NewStringHash(s string) StringHash {
	return sdbm(s, true)
}

// NewPathHash hashes a resource name exactly as written after cleaning it.
// Resource names are case-sensitive, like the file lookup they key.
func NewPathHash(name string) StringHash {
	return sdbm(path.Clean(name), false)
}

func sdbm(s string, fold bool) StringHash {
	var hash uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if fold && c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		hash = uint32(c) + (hash << 6) + (hash << 16) - hash
	}
	return StringHash(hash)
}

func (h StringHash) String() string {
	return fmt.Sprintf("#%08X", uint32(h))
}
