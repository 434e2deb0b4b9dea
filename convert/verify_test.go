package convert

import (
	"strings"
	"testing"

	"epubgen/convert/epub"
)

func TestVerifyNav(t *testing.T) {
	chapters := testChapters()
	meta := testMetadata()

	generated, err := epub.Render(epub.BuildNav(chapters, nil, meta))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "generated document",
			doc:  string(generated),
		},
		{
			name:    "no toc",
			doc:     `<html><body><nav epub:type="landmarks"><a href="Text/ch000-preface.xhtml">x</a></nav></body></html>`,
			wantErr: "no toc nav element",
		},
		{
			name: "missing chapter",
			doc: `<html><body><nav epub:type="toc"><ol>
<li><a href="Text/ch000-preface.xhtml">Preface</a></li>
<li><a href="Text/ch001-flow-in-love.xhtml">Flow</a></li>
</ol></nav></body></html>`,
			wantErr: "ch002-love.xhtml is not referenced",
		},
		{
			name: "duplicate chapter",
			doc: `<html><body><nav epub:type="toc"><ol>
<li><a href="Text/ch000-preface.xhtml">Preface</a></li>
<li><a href="Text/ch001-flow-in-love.xhtml">Flow</a></li>
<li><a href="Text/ch002-love.xhtml">Love</a></li>
<li><a href="Text/ch002-love.xhtml">Love again</a></li>
</ol></nav></body></html>`,
			wantErr: "referenced from navigation 2 times",
		},
		{
			name: "links outside toc do not count",
			doc: `<html><body>
<a href="Text/ch000-preface.xhtml">Preface</a>
<nav epub:type="toc"><ol>
<li><a href="Text/ch001-flow-in-love.xhtml">Flow</a></li>
<li><a href="Text/ch002-love.xhtml">Love</a></li>
</ol></nav></body></html>`,
			wantErr: "ch000-preface.xhtml is not referenced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyNav([]byte(tt.doc), chapters, meta)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("verifyNav() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("verifyNav() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("verifyNav() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
