package deepjson

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
    t.Helper()
    var v any
    require.NoError(t, json.Unmarshal([]byte(raw), &v))
    return v
}

func TestFindWalkOrderIsDeterministic(t *testing.T) {
    root := decode(t, `{
        "zebra": {"size": 3},
        "apple": {"size": 1},
        "mango": {"size": 2}
    }`)
    hits := Find(root, func(k string, v any) bool { return k == "size" })
    require.Len(t, hits, 3)
    // parents visit in sorted key order, so sizes come back 1, 2, 3
    assert.Equal(t, []any{1.0, 2.0, 3.0}, hits)
}

func TestFindDescendsArrays(t *testing.T) {
    root := decode(t, `{"items": [{"name": "a"}, {"name": "b"}], "name": "top"}`)
    hits := Find(root, func(k string, v any) bool { return k == "name" })
    require.Len(t, hits, 3)
    // "items" sorts before "name" at the top level
    assert.Equal(t, []any{"a", "b", "top"}, hits)
}

func TestFindMatchesContainers(t *testing.T) {
    root := decode(t, `{"address": {"city": "San Jose"}, "other": 1}`)
    hits := Find(root, func(k string, v any) bool {
        _, isObj := v.(map[string]any)
        return isObj && k == "address"
    })
    require.Len(t, hits, 1)
    obj := hits[0].(map[string]any)
    assert.Equal(t, "San Jose", obj["city"])
}

func TestFindOnScalarsAndNil(t *testing.T) {
    assert.Empty(t, Find("just a string", func(string, any) bool { return true }))
    assert.Empty(t, Find(nil, func(string, any) bool { return true }))
}

func TestFirstString(t *testing.T) {
    assert.Equal(t, "b", FirstString([]any{1.0, "", "b", "c"}))
    assert.Equal(t, "", FirstString([]any{1.0, true, nil}))
    assert.Equal(t, "", FirstString(nil))
}
