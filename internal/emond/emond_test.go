package emond

import "testing"

func TestParseXMLRuleList(t *testing.T) {
	xml := `<plist><array>
<dict>
	<key>name</key><string>rule1</string>
	<key>enabled</key><true/>
	<key>eventTypes</key>
	<array><string>startup</string></array>
</dict>
</array></plist>`

	rules, err := Parse([]byte(xml))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].Name != "rule1" || !rules[0].Enabled {
		t.Fatalf("unexpected rule: %#v", rules[0])
	}
	if len(rules[0].EventTypes) != 1 || rules[0].EventTypes[0] != "startup" {
		t.Fatalf("unexpected event types: %#v", rules[0].EventTypes)
	}
}

func TestParseRejectsNonArrayRoot(t *testing.T) {
	xml := `<plist><dict><key>a</key><string>b</string></dict></plist>`
	if _, err := Parse([]byte(xml)); err == nil {
		t.Fatal("expected format violation for non-array root")
	}
}
