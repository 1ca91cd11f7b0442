package telephony

import (
	"strings"
	"testing"
)

func TestStreamTwiML(t *testing.T) {
	xml, err := StreamTwiML("voice.example.com", "+1 (555) 123-4567", "+19491112222")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`url="wss://voice.example.com/stream"`,
		`<Parameter name="callerPhone" value="+1 (555) 123-4567"`,
		`<Parameter name="restaurantPhone" value="+19491112222"`,
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("expected %q in twiml:\n%s", want, xml)
		}
	}
}

func TestStreamTwiMLStripsInjection(t *testing.T) {
	xml, err := StreamTwiML("voice.example.com", `+1555"/><Evil attr="x`, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(xml, "Evil") || strings.Contains(xml, "&quot;") {
		t.Fatalf("injection characters must be stripped:\n%s", xml)
	}
	if !strings.Contains(xml, `value="+1555`) {
		t.Fatalf("expected sanitized digits kept:\n%s", xml)
	}
}

func TestSanitizePhone(t *testing.T) {
	cases := map[string]string{
		"+1 (555) 123-4567": "+1 (555) 123-4567",
		"  +15551234567  ":  "+15551234567",
		`"><script>`:        "",
		"anonymous":         "",
		"555;DROP TABLE":    "555 ",
	}
	for in, want := range cases {
		if got := SanitizePhone(in); got != want {
			t.Fatalf("SanitizePhone(%q): expected %q, got %q", in, want, got)
		}
	}
}
