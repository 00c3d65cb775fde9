package terser

import (
	"strings"
	"testing"

	hl7 "github.com/gohl7/hl7v2"
)

const sampleMessage = "MSH|^~\\&|SENDER|FAC|RECEIVER|FAC|20240101120000||ADT^A01|MSG001|P|2.5\r" +
	"PID|1||12345^^^MRN^MR~67890^^^SSN||Doe^John^Q||19800101|M|||123 Main St^^Metropolis^NY^10001\r" +
	"OBX|1|ST|GLUCOSE||98\r" +
	"OBX|2|ST|SODIUM||140"

func mustParse(t *testing.T, text string) *hl7.Message {
	t.Helper()
	msg, err := hl7.ParseMessage(text)
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}
	return msg
}

func TestGet(t *testing.T) {
	msg := mustParse(t, sampleMessage)

	tests := []struct {
		path string
		want string
	}{
		{"MSH-9", "ADT"},
		{"MSH-9-2", "A01"},
		{"MSH-10", "MSG001"},
		{"PID-1", "1"},
		{"PID-3", "12345"},
		{"PID-3-4", "MR"},
		{"PID-3(2)", "67890"},
		{"PID-3(2)-4", "SSN"},
		{"PID-5-1", "Doe"},
		{"PID-5-2", "John"},
		{"PID-11-3", "Metropolis"},
		{"OBX-5", "98"},
		{"OBX(2)-5", "140"},
		{"PID-2", ""},    // present but empty
		{"PID-99", ""},   // absent field
		{"PID-5-9", ""},  // absent component
		{"PID-3(5)", ""}, // absent repetition
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Get(msg, tt.path)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetSubcomponent(t *testing.T) {
	msg := mustParse(t, "MSH|^~\\&|A|B\rPID|1||id^^^assigner&univ&ISO")

	got, err := Get(msg, "PID-3-4-2")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "univ" {
		t.Errorf("Get(PID-3-4-2) = %q, want %q", got, "univ")
	}
}

func TestGetMissingSegment(t *testing.T) {
	msg := mustParse(t, sampleMessage)

	if _, err := Get(msg, "ZZZ-1"); err == nil {
		t.Error("Get on missing segment: error = nil, want non-nil")
	}
	if _, err := Get(msg, "OBX(3)-5"); err == nil {
		t.Error("Get on missing segment occurrence: error = nil, want non-nil")
	}
}

func TestGetMalformedPath(t *testing.T) {
	msg := mustParse(t, sampleMessage)

	paths := []string{
		"",
		"PID",
		"PID-",
		"PID-abc",
		"PID-0",
		"pid-3",
		"PIDX-3",
		"PID(x)-3",
		"PID(2-3",
		"PID-3-1-1-1",
	}
	for _, path := range paths {
		if _, err := Get(msg, path); err == nil {
			t.Errorf("Get(%q): error = nil, want non-nil", path)
		}
	}
}

func TestSet(t *testing.T) {
	msg := mustParse(t, sampleMessage)

	tests := []struct {
		path  string
		value string
	}{
		{"PID-8", "F"},
		{"PID-5-2", "Jane"},
		{"PID-3(3)", "99999"},
		{"PID-3-4-2", "newuniv"},
		{"PID-20", "late"}, // grows the segment
	}
	for _, tt := range tests {
		if err := Set(msg, tt.path, tt.value); err != nil {
			t.Fatalf("Set(%q) error: %v", tt.path, err)
		}
		got, err := Get(msg, tt.path)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", tt.path, err)
		}
		if got != tt.value {
			t.Errorf("after Set, Get(%q) = %q, want %q", tt.path, got, tt.value)
		}
	}
}

func TestSetPreservesSiblings(t *testing.T) {
	msg := mustParse(t, sampleMessage)

	if err := Set(msg, "PID-5-2", "Jane"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, _ := Get(msg, "PID-5-1")
	if got != "Doe" {
		t.Errorf("PID-5-1 after sibling Set = %q, want %q", got, "Doe")
	}
}

func TestSetCreatesSegment(t *testing.T) {
	msg := mustParse(t, sampleMessage)

	if err := Set(msg, "NK1-2", "Doe^Mary"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := Get(msg, "NK1-2")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "Doe^Mary" {
		t.Errorf("NK1-2 = %q, want %q", got, "Doe^Mary")
	}

	// Third OBX is next in sequence, so it is appended
	if err := Set(msg, "OBX(3)-5", "7.2"); err != nil {
		t.Fatalf("Set(OBX(3)-5) error: %v", err)
	}
	if got, _ := Get(msg, "OBX(3)-5"); got != "7.2" {
		t.Errorf("OBX(3)-5 = %q, want %q", got, "7.2")
	}

	// Fifth OBX skips an occurrence
	if err := Set(msg, "OBX(5)-5", "x"); err == nil {
		t.Error("Set skipping a segment occurrence: error = nil, want non-nil")
	}
}

func TestSetRoundTripsThroughEncode(t *testing.T) {
	msg := mustParse(t, sampleMessage)

	if err := Set(msg, "PID-8", "F"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	encoded := msg.Encode()
	if !strings.Contains(encoded, "|F|") {
		t.Errorf("encoded message missing updated field: %q", encoded)
	}

	reparsed := mustParse(t, encoded)
	if got, _ := Get(reparsed, "PID-8"); got != "F" {
		t.Errorf("after round trip, PID-8 = %q, want %q", got, "F")
	}
}

func BenchmarkGet(b *testing.B) {
	msg, err := hl7.ParseMessage(sampleMessage)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Get(msg, "PID-3-4"); err != nil {
			b.Fatal(err)
		}
	}
}
