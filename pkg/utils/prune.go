package utils

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Prune drops null leaves, empty strings and containers that end up empty,
// recursively. Zero numbers and false are kept. Slice elements are pruned in
// place but never removed, so positions survive.
func Prune(v interface{}) (interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return t, t != ""
	case map[string]interface{}:
		for k, val := range t {
			if pruned, ok := Prune(val); ok {
				t[k] = pruned
			} else {
				delete(t, k)
			}
		}
		return t, len(t) > 0
	case []interface{}:
		if len(t) == 0 {
			return t, false
		}
		for i, val := range t {
			if pruned, ok := Prune(val); ok {
				t[i] = pruned
			}
		}
		return t, true
	}
	return v, true
}

// PruneObject converts v to its generic JSON form and prunes it. The result
// is an empty map when nothing is left.
func PruneObject(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	res := make(map[string]interface{})
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	pruned, ok := Prune(res)
	if !ok {
		return map[string]interface{}{}, nil
	}
	return pruned.(map[string]interface{}), nil
}
