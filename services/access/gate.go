// Package access holds the Access Gate and the allowlist store behind it.
package access

// KeySet is the read-only view of the allowlist the gate consults
type KeySet interface {
	Contains(key string) bool
	Len() int
}

// Allowed reports whether presented is an exact, case-sensitive member of
// keys. An unset or empty allowlist and an empty key are never allowed.
func Allowed(keys KeySet, presented string) bool {
	if keys == nil || keys.Len() == 0 || presented == "" {
		return false
	}
	return keys.Contains(presented)
}

// StaticKeys is an immutable in-memory KeySet
type StaticKeys map[string]struct{}

// NewStaticKeys builds a KeySet from keys, dropping empty entries
func NewStaticKeys(keys ...string) StaticKeys {
	set := make(StaticKeys, len(keys))
	for _, k := range keys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// Contains reports membership
func (s StaticKeys) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Len returns the number of keys
func (s StaticKeys) Len() int {
	return len(s)
}
