// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"epubgen/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// set from command line, override configuration
	Root        string
	Destination string

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

// ApplyArgs takes optional root and destination from positional command line
// arguments. Empty arguments do not override anything. Returns arguments left
// unused.
func (e *LocalEnv) ApplyArgs(args []string) []string {
	if len(args) > 0 && len(args[0]) > 0 {
		e.Root = args[0]
	}
	if len(args) > 1 && len(args[1]) > 0 {
		e.Destination = args[1]
	}
	if len(args) > 2 {
		return args[2:]
	}
	return nil
}

// Locations returns absolute working tree root and output directory. Command
// line wins over configuration, when destination is not set anywhere book is
// put into the root.
func (e *LocalEnv) Locations() (root, dst string, err error) {
	root, dst = e.Root, e.Destination
	if e.Cfg != nil {
		if root == "" {
			root = e.Cfg.Layout.Root
		}
		if dst == "" {
			dst = e.Cfg.Package.Destination
		}
	}
	if dst == "" {
		dst = root
	}
	if root, err = filepath.Abs(root); err != nil {
		return "", "", fmt.Errorf("unable to resolve layout root: %w", err)
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return "", "", fmt.Errorf("unable to resolve destination: %w", err)
	}
	return root, dst, nil
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
