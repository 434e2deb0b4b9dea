package format

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestNop(t *testing.T) {
	if err := (Nop{}).Format(context.Background(), []string{"a", "b"}); err != nil {
		t.Errorf("Nop.Format() error = %v", err)
	}
}

func TestNew(t *testing.T) {
	log := zaptest.NewLogger(t)
	if _, ok := New(false, []string{"prettier"}, log).(Nop); !ok {
		t.Error("disabled formatter must be Nop")
	}
	if _, ok := New(true, []string{"prettier"}, log).(*Command); !ok {
		t.Error("enabled formatter must be Command")
	}
}

func TestCommand_NotAvailable(t *testing.T) {
	log := zaptest.NewLogger(t)

	tests := []struct {
		name string
		argv []string
	}{
		{"empty", nil},
		{"missing program", []string{"epubgen-no-such-formatter-program", "--write"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCommand(tt.argv, log).Format(context.Background(), []string{"toc.xhtml"})
			if !errors.Is(err, ErrNotAvailable) {
				t.Errorf("Format() error = %v, want ErrNotAvailable", err)
			}
		})
	}
}

func TestCommand_NoFiles(t *testing.T) {
	// nothing to format, program is never looked up
	err := NewCommand([]string{"epubgen-no-such-formatter-program"}, zaptest.NewLogger(t)).Format(context.Background(), nil)
	if err != nil {
		t.Errorf("Format() error = %v", err)
	}
}

func TestCommand_Runs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no shell available")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "toc.xhtml")
	if err := os.WriteFile(target, []byte("<html/>"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	log := zaptest.NewLogger(t)

	t.Run("success", func(t *testing.T) {
		// appends marker to every file passed after arguments
		argv := []string{sh, "-c", `for f in "$@"; do echo formatted >> "$f"; done`, "formatter"}
		if err := NewCommand(argv, log).Format(context.Background(), []string{target}); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		data, err := os.ReadFile(target)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(data) != "<html/>formatted\n" {
			t.Errorf("file content = %q", data)
		}
	})

	t.Run("failure", func(t *testing.T) {
		argv := []string{sh, "-c", `echo "bad input" >&2; exit 3`, "formatter"}
		err := NewCommand(argv, log).Format(context.Background(), []string{target})
		if err == nil {
			t.Fatal("expected error for failing formatter")
		}
		if errors.Is(err, ErrNotAvailable) {
			t.Error("failure must not be reported as absence")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		argv := []string{sh, "-c", "sleep 5", "formatter"}
		if err := NewCommand(argv, log).Format(ctx, []string{target}); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
