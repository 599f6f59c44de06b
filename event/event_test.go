package event

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, src Source) []Event {
	t.Helper()
	var out []Event
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		out = append(out, ev)
	}
}

func kinds(events []Event) []Kind {
	out := make([]Kind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func equalKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKindSet(t *testing.T) {
	s := NewKindSet(Scalar, MappingEnd)
	if !s.Has(Scalar) || !s.Has(MappingEnd) {
		t.Errorf("set %v missing members", s)
	}
	if s.Has(SequenceStart) {
		t.Errorf("set %v should not contain sequence-start", s)
	}
	if got, want := s.String(), "scalar|mapping-end"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := NewKindSet().String(); got != "" {
		t.Errorf("empty set String() = %q, want empty", got)
	}
}

func TestYAMLSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{
			name:  "empty stream",
			input: "",
			want:  []Kind{StreamStart, StreamEnd},
		},
		{
			name:  "single scalar",
			input: "hello\n",
			want:  []Kind{StreamStart, DocumentStart, Scalar, DocumentEnd, StreamEnd},
		},
		{
			name:  "mapping with sequence",
			input: "a: [x, y]\n",
			want: []Kind{
				StreamStart, DocumentStart, MappingStart,
				Scalar, SequenceStart, Scalar, Scalar, SequenceEnd,
				MappingEnd, DocumentEnd, StreamEnd,
			},
		},
		{
			name:  "two documents",
			input: "---\na: 1\n---\nb: 2\n",
			want: []Kind{
				StreamStart,
				DocumentStart, MappingStart, Scalar, Scalar, MappingEnd, DocumentEnd,
				DocumentStart, MappingStart, Scalar, Scalar, MappingEnd, DocumentEnd,
				StreamEnd,
			},
		},
		{
			name:  "alias expanded",
			input: "a: &x [1, 2]\nb: *x\n",
			want: []Kind{
				StreamStart, DocumentStart, MappingStart,
				Scalar, SequenceStart, Scalar, Scalar, SequenceEnd,
				Scalar, SequenceStart, Scalar, Scalar, SequenceEnd,
				MappingEnd, DocumentEnd, StreamEnd,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(collect(t, NewYAMLSource(strings.NewReader(tt.input))))
			if !equalKinds(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYAMLSourcePositions(t *testing.T) {
	events := collect(t, NewYAMLSource(strings.NewReader("a: 1\nbee: two\n")))
	var found bool
	for _, ev := range events {
		if ev.Kind == Scalar && ev.Value == "bee" {
			found = true
			if ev.Line != 2 || ev.Column != 1 {
				t.Errorf("position = %d:%d, want 2:1", ev.Line, ev.Column)
			}
			if ev.Position() != "2:1" {
				t.Errorf("Position() = %q, want %q", ev.Position(), "2:1")
			}
		}
	}
	if !found {
		t.Fatal("scalar \"bee\" not found")
	}
}

func TestYAMLSourceBlockScalar(t *testing.T) {
	events := collect(t, NewYAMLSource(strings.NewReader("k: |\n  line1\n  line2\n")))
	if got := events[4].Value; got != "line1\nline2\n" {
		t.Errorf("block scalar = %q", got)
	}
}

func TestYAMLSourceSyntaxError(t *testing.T) {
	src := NewYAMLSource(strings.NewReader("a: [1, 2\n"))
	if _, err := src.Next(); err != nil {
		t.Fatalf("stream-start should not fail: %v", err)
	}
	if _, err := src.Next(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if _, err := src.Next(); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("error after failure = %v, want ErrSourceClosed", err)
	}
}

func TestYAMLSourceExcessiveAliasing(t *testing.T) {
	input := `a: &a [x, x, x, x, x, x, x, x, x]
b: &b [*a, *a, *a, *a, *a, *a, *a, *a, *a]
c: &c [*b, *b, *b, *b, *b, *b, *b, *b, *b]
d: &d [*c, *c, *c, *c, *c, *c, *c, *c, *c]
e: &e [*d, *d, *d, *d, *d, *d, *d, *d, *d]
f: &f [*e, *e, *e, *e, *e, *e, *e, *e, *e]
`
	src := NewYAMLSource(strings.NewReader(input))
	var (
		n   int
		err error
	)
	for n = 0; n < 100000; n++ {
		if _, err = src.Next(); err != nil {
			break
		}
	}
	if err == nil || !strings.Contains(err.Error(), "excessive aliasing") {
		t.Fatalf("after %d events error = %v, want excessive aliasing", n, err)
	}
	if !strings.HasPrefix(err.Error(), "event: yaml: ") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestYAMLSourceSharedAliases(t *testing.T) {
	var b strings.Builder
	b.WriteString("base: &b [x]\n")
	for i := range 400 {
		fmt.Fprintf(&b, "k%d: *b\n", i)
	}

	events := collect(t, NewYAMLSource(strings.NewReader(b.String())))
	// stream, document and mapping delimiters, the anchored pair, and
	// 400 keys each followed by a three-event sequence
	if want := 6 + 4 + 400*4; len(events) != want {
		t.Errorf("got %d events, want %d", len(events), want)
	}
}

func TestJSONSource(t *testing.T) {
	src := NewJSONSource(strings.NewReader(`{"a": [1, true, null, "s"]} "doc2"`))
	events := collect(t, src)
	want := []Kind{
		StreamStart,
		DocumentStart, MappingStart, Scalar, SequenceStart, Scalar, Scalar, Scalar, Scalar, SequenceEnd, MappingEnd, DocumentEnd,
		DocumentStart, Scalar, DocumentEnd,
		StreamEnd,
	}
	if got := kinds(events); !equalKinds(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	values := []string{"a", "1", "true", "null", "s"}
	var scalars []string
	for _, ev := range events[:12] {
		if ev.Kind == Scalar {
			scalars = append(scalars, ev.Value)
		}
	}
	for i, v := range values {
		if scalars[i] != v {
			t.Errorf("scalar %d = %q, want %q", i, scalars[i], v)
		}
	}
}

func TestJSONSourceTruncated(t *testing.T) {
	src := NewJSONSource(strings.NewReader(`{"a": [1`))
	var err error
	for range 10 {
		if _, err = src.Next(); err != nil {
			break
		}
	}
	if err == nil || errors.Is(err, io.EOF) {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestListSource(t *testing.T) {
	src := NewListSource(append([]Event{StreamStartEvent()}, Sequence("a", "b")...)...)
	if src.Remaining() != 5 {
		t.Errorf("Remaining() = %d, want 5", src.Remaining())
	}
	got := kinds(collect(t, src))
	want := []Kind{StreamStart, SequenceStart, Scalar, Scalar, SequenceEnd}
	if !equalKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		format, path, want string
	}{
		{FormatAuto, "suite.yml", FormatYAML},
		{FormatAuto, "suite.JSON", FormatJSON},
		{"", "-", FormatYAML},
		{FormatJSON, "suite.yml", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.format, tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q, %q) = %q, want %q", tt.format, tt.path, got, tt.want)
		}
	}

	if _, err := NewSource(strings.NewReader(""), "xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("NewSource(xml) error = %v, want ErrUnknownFormat", err)
	}
}
