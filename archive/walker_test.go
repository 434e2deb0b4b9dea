package archive

import (
	"archive/zip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func createZip(t *testing.T, files map[string]string, order ...string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, name := range order {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(files[name])); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	zipFile.Close()
	return zipPath
}

var containerFiles = map[string]string{
	"mimetype":                       "application/epub+zip",
	"META-INF/container.xml":         "<container/>",
	"OEBPS/content.opf":              "<package/>",
	"OEBPS/Text/":                    "",
	"OEBPS/Text/ch000-preface.xhtml": "preface",
	"OEBPS/Text/ch001-part.xhtml":    "part",
	"OEBPS/text/lower.xhtml":         "lower",
}

var containerOrder = []string{
	"mimetype",
	"META-INF/container.xml",
	"OEBPS/content.opf",
	"OEBPS/Text/",
	"OEBPS/Text/ch000-preface.xhtml",
	"OEBPS/Text/ch001-part.xhtml",
	"OEBPS/text/lower.xhtml",
}

func TestWalkFile(t *testing.T) {
	zipPath := createZip(t, containerFiles, containerOrder...)

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{
			name:   "everything",
			prefix: "",
			want: []string{
				"mimetype",
				"META-INF/container.xml",
				"OEBPS/content.opf",
				"OEBPS/Text/ch000-preface.xhtml",
				"OEBPS/Text/ch001-part.xhtml",
				"OEBPS/text/lower.xhtml",
			},
		},
		{
			name:   "chapters only",
			prefix: "OEBPS/Text/",
			want:   []string{"OEBPS/Text/ch000-preface.xhtml", "OEBPS/Text/ch001-part.xhtml"},
		},
		{
			name:   "case sensitive prefix",
			prefix: "OEBPS/text/",
			want:   []string{"OEBPS/text/lower.xhtml"},
		},
		{
			name:   "no match",
			prefix: "OEBPS/Images/",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			err := WalkFile(zipPath, tt.prefix, func(file *zip.File) error {
				got = append(got, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("WalkFile() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("visited %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWalkFile_Content(t *testing.T) {
	zipPath := createZip(t, containerFiles, containerOrder...)

	content := make(map[string]string)
	err := WalkFile(zipPath, "OEBPS/Text/", func(file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		content[file.Name] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkFile() error = %v", err)
	}
	if content["OEBPS/Text/ch001-part.xhtml"] != "part" {
		t.Errorf("unexpected content: %v", content)
	}
}

func TestWalkFile_StopsOnError(t *testing.T) {
	zipPath := createZip(t, containerFiles, containerOrder...)
	stop := errors.New("stop")

	var visited int
	err := WalkFile(zipPath, "", func(file *zip.File) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("WalkFile() error = %v, want %v", err, stop)
	}
	if visited != 2 {
		t.Errorf("visited %d entries, want 2", visited)
	}
}

func TestWalkFile_InvalidArchive(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		if err := WalkFile(filepath.Join(t.TempDir(), "missing.epub"), "", func(*zip.File) error { return nil }); err == nil {
			t.Error("expected error for missing archive")
		}
	})

	t.Run("not a zip", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "book.epub")
		if err := os.WriteFile(name, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if err := WalkFile(name, "", func(*zip.File) error { return nil }); err == nil {
			t.Error("expected error for invalid archive")
		}
	})
}

func TestWalk_UnsafePath(t *testing.T) {
	for _, name := range []string{"../evil.txt", "OEBPS/../../evil.txt", "/etc/passwd"} {
		t.Run(name, func(t *testing.T) {
			zipPath := createZip(t, map[string]string{"ok.txt": "ok", name: "evil"}, "ok.txt", name)
			err := WalkFile(zipPath, "", func(file *zip.File) error { return nil })
			if err == nil {
				t.Error("expected error for unsafe entry")
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	zipPath := createZip(t, map[string]string{
		"OEBPS/toc.xhtml":     "nav",
		"OEBPS/toc.xhtml.bak": "backup",
		"OEBPS/content.opf":   "opf",
	}, "OEBPS/toc.xhtml.bak", "OEBPS/toc.xhtml", "OEBPS/content.opf")

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("Failed to open zip: %v", err)
	}
	defer r.Close()

	data, err := ReadFile(&r.Reader, "OEBPS/toc.xhtml")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "nav" {
		t.Errorf("ReadFile() = %q, want %q", data, "nav")
	}

	if _, err := ReadFile(&r.Reader, "OEBPS/missing.xhtml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() for missing entry error = %v, want fs.ErrNotExist", err)
	}
}
