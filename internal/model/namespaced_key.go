package model

import (
	"fmt"
	"strings"
)

// NamespacedKey identifies a value in a DataContainer as "namespace:key".
type NamespacedKey struct {
	Namespace string
	Key       string
}

// NewNamespacedKey validates and builds a key. Both parts must be non-empty and
// use only [a-z0-9._-/].
func NewNamespacedKey(namespace, key string) (NamespacedKey, error) {
	if !validKeyPart(namespace) {
		return NamespacedKey{}, fmt.Errorf("invalid namespace %q", namespace)
	}
	if !validKeyPart(key) {
		return NamespacedKey{}, fmt.Errorf("invalid key %q", key)
	}
	return NamespacedKey{Namespace: namespace, Key: key}, nil
}

// MustNamespacedKey is NewNamespacedKey for package-level constants.
func MustNamespacedKey(namespace, key string) NamespacedKey {
	k, err := NewNamespacedKey(namespace, key)
	if err != nil {
		panic(err)
	}
	return k
}

// ParseNamespacedKey parses "namespace:key".
func ParseNamespacedKey(s string) (NamespacedKey, error) {
	ns, key, ok := strings.Cut(s, ":")
	if !ok {
		return NamespacedKey{}, fmt.Errorf("namespaced key %q: missing ':'", s)
	}
	return NewNamespacedKey(ns, key)
}

func (k NamespacedKey) String() string {
	return k.Namespace + ":" + k.Key
}

func validKeyPart(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-', r == '/':
		default:
			return false
		}
	}
	return true
}
