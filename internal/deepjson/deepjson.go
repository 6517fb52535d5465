// Package deepjson walks arbitrarily-shaped decoded JSON (the any values
// produced by encoding/json) and collects values whose key matches a
// caller-supplied predicate. Upstream state blobs have no stable schema, so
// extraction is by key shape, not by struct.
package deepjson

import "sort"

// Predicate inspects one key/value pair reached during the walk.
type Predicate func(key string, value any) bool

// Find walks root depth-first and returns every value whose map key
// satisfies pred, in walk order. Object keys are visited sorted so the
// walk is deterministic (Go map iteration is not). Array elements are
// descended into but carry no key of their own.
func Find(root any, pred Predicate) []any {
    var hits []any
    walk(root, pred, &hits)
    return hits
}

func walk(v any, pred Predicate, hits *[]any) {
    switch node := v.(type) {
    case map[string]any:
        keys := make([]string, 0, len(node))
        for k := range node {
            keys = append(keys, k)
        }
        sort.Strings(keys)
        for _, k := range keys {
            val := node[k]
            if pred(k, val) {
                *hits = append(*hits, val)
            }
            walk(val, pred, hits)
        }
    case []any:
        for _, val := range node {
            walk(val, pred, hits)
        }
    }
}

// FirstString returns the first non-empty string among vals.
func FirstString(vals []any) string {
    for _, v := range vals {
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    return ""
}
