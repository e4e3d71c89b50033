// Package emond decodes the macOS emond rule list: a plist (XML or
// binary) array of dictionaries, each naming a rule id, criteria, and
// one or more actions. The plist itself is decoded by internal/plist;
// this package only interprets the resulting generic value into a
// typed rule list.
package emond

import (
	"github.com/puffycid/artemis-core/internal/plist"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// Rule is one decoded emond rule.
type Rule struct {
	Name       string
	Enabled    bool
	EventTypes []string
	Actions    []map[string]any
}

// Parse decodes an emond rule-list plist into a flat rule slice.
func Parse(buf []byte) ([]Rule, error) {
	val, err := plist.Decode(buf)
	if err != nil {
		return nil, err
	}
	arr, ok := val.([]any)
	if !ok {
		return nil, &primitives.FormatViolation{Artifact: "emond", Kind: "root is not an array of rules"}
	}

	var rules []Rule
	for _, item := range arr {
		dict, ok := item.(map[string]any)
		if !ok {
			continue // skip malformed rule entries, keep the rest
		}
		rules = append(rules, decodeRule(dict))
	}
	return rules, nil
}

func decodeRule(dict map[string]any) Rule {
	r := Rule{}
	if name, ok := dict["name"].(string); ok {
		r.Name = name
	}
	if enabled, ok := dict["enabled"].(bool); ok {
		r.Enabled = enabled
	}
	if types, ok := dict["eventTypes"].([]any); ok {
		for _, t := range types {
			if s, ok := t.(string); ok {
				r.EventTypes = append(r.EventTypes, s)
			}
		}
	}
	if actions, ok := dict["actions"].([]any); ok {
		for _, a := range actions {
			if m, ok := a.(map[string]any); ok {
				r.Actions = append(r.Actions, m)
			}
		}
	}
	return r
}
