package convert

import (
	"context"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"epubgen/state"
)

// Run is the action of the root command: builds the book from the working
// tree. Optional arguments override layout root and destination directory.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	if extra := env.ApplyArgs(cmd.Args().Slice()); len(extra) > 0 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", extra))
	}

	root, dst, err := env.Locations()
	if err != nil {
		return err
	}
	b := NewBuilder(env.Cfg, root, dst, env.Rpt, log)

	log.Info("Processing starting", zap.String("source", root), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err = b.Build(ctx)
	return err
}
