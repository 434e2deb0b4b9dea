package debug

import "testing"

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "test", want: "test\n"},
		{name: "depth 1", depth: 1, format: "indented", want: "  indented\n"},
		{name: "depth 2", depth: 2, format: "double indent", want: "    double indent\n"},
		{name: "with formatting", depth: 1, format: "[%d] %s", args: []any{3, "ch003.xhtml"}, want: "  [3] ch003.xhtml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tw := NewTreeWriter()
	tw.Field(0, "title", "Flow’s End")
	tw.Field(1, "empty", "")

	want := "title: \"Flow’s End\"\n  empty: \n"
	if got := tw.String(); got != want {
		t.Errorf("Field() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Empty(t *testing.T) {
	if got := NewTreeWriter().String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}
