package state

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"epubgen/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())

	env := EnvFromContext(ctx)
	if env.start.IsZero() {
		t.Error("start time is not set")
	}
	if EnvFromContext(ctx) != env {
		t.Error("context must carry the same environment for Before, Action and After hooks")
	}

	t.Run("missing", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic for context without environment")
			}
		}()
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_ApplyArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantRoot  string
		wantDst   string
		wantExtra []string
	}{
		{"no arguments", nil, "preset-root", "preset-dst", nil},
		{"root only", []string{"book"}, "book", "preset-dst", nil},
		{"root and destination", []string{"book", "out"}, "book", "out", nil},
		{"empty root keeps preset", []string{"", "out"}, "preset-root", "out", nil},
		{"extra arguments", []string{"book", "out", "x", "y"}, "book", "out", []string{"x", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &LocalEnv{Root: "preset-root", Destination: "preset-dst"}
			extra := env.ApplyArgs(tt.args)

			if env.Root != tt.wantRoot {
				t.Errorf("Root = %q, want %q", env.Root, tt.wantRoot)
			}
			if env.Destination != tt.wantDst {
				t.Errorf("Destination = %q, want %q", env.Destination, tt.wantDst)
			}
			if len(extra) != len(tt.wantExtra) {
				t.Fatalf("extra = %v, want %v", extra, tt.wantExtra)
			}
			for i := range extra {
				if extra[i] != tt.wantExtra[i] {
					t.Errorf("extra[%d] = %q, want %q", i, extra[i], tt.wantExtra[i])
				}
			}
		})
	}
}

func TestLocalEnv_Locations(t *testing.T) {
	base := t.TempDir()
	cfgRoot := filepath.Join(base, "configured")
	cfgDst := filepath.Join(base, "configured-out")
	argRoot := filepath.Join(base, "book")
	argDst := filepath.Join(base, "out")

	tests := []struct {
		name     string
		root     string
		dst      string
		cfgRoot  string
		cfgDst   string
		wantRoot string
		wantDst  string
	}{
		{"configuration only", "", "", cfgRoot, cfgDst, cfgRoot, cfgDst},
		{"destination defaults to root", "", "", cfgRoot, "", cfgRoot, cfgRoot},
		{"command line root", argRoot, "", cfgRoot, "", argRoot, argRoot},
		{"command line root keeps configured destination", argRoot, "", cfgRoot, cfgDst, argRoot, cfgDst},
		{"command line wins", argRoot, argDst, cfgRoot, cfgDst, argRoot, argDst},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &LocalEnv{
				Cfg:         &config.Config{},
				Root:        tt.root,
				Destination: tt.dst,
			}
			env.Cfg.Layout.Root = tt.cfgRoot
			env.Cfg.Package.Destination = tt.cfgDst

			root, dst, err := env.Locations()
			if err != nil {
				t.Fatalf("Locations() error = %v", err)
			}
			if root != tt.wantRoot {
				t.Errorf("root = %q, want %q", root, tt.wantRoot)
			}
			if dst != tt.wantDst {
				t.Errorf("destination = %q, want %q", dst, tt.wantDst)
			}
		})
	}
}

func TestLocalEnv_LocationsRelative(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unable to get working directory: %v", err)
	}

	env := &LocalEnv{Root: "book"}
	root, dst, err := env.Locations()
	if err != nil {
		t.Fatalf("Locations() error = %v", err)
	}
	if want := filepath.Join(wd, "book"); root != want || dst != want {
		t.Errorf("Locations() = %q, %q, want %q for both", root, dst, want)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RedirectStdLog()
	log.Print("message from standard logger")
	env.RestoreStdLog()

	if logs.Len() != 1 {
		t.Fatalf("captured %d records, want 1", logs.Len())
	}
	if msg := logs.All()[0].Message; msg != "message from standard logger" {
		t.Errorf("captured message = %q", msg)
	}

	t.Run("nil logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("nothing to restore without logger")
		}
		env.RestoreStdLog()
	})
}
