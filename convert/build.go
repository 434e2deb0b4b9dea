package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"epubgen/archive"
	"epubgen/book"
	"epubgen/config"
	"epubgen/convert/epub"
	"epubgen/convert/format"
)

// Builder runs complete pipeline for a single book working tree.
type Builder struct {
	cfg       *config.Config
	root      string
	outDir    string
	formatter format.Formatter
	rpt       *config.Report
	log       *zap.Logger
	now       func() time.Time
}

// Layout is resolved working tree.
type Layout struct {
	Root       string
	ContentDir string
	TextDir    string
}

// NewBuilder prepares builder. Empty root means configured layout root,
// empty outDir means package destination or, if it is not set either, the
// root.
func NewBuilder(cfg *config.Config, root, outDir string, rpt *config.Report, log *zap.Logger) *Builder {
	if root == "" {
		root = cfg.Layout.Root
	}
	if outDir == "" {
		outDir = cfg.Package.Destination
	}
	if outDir == "" {
		outDir = root
	}
	return &Builder{
		cfg:       cfg,
		root:      root,
		outDir:    outDir,
		formatter: format.New(cfg.Formatter.Enable, cfg.Formatter.Command, log.Named("format")),
		rpt:       rpt,
		log:       log,
		now:       time.Now,
	}
}

// Layout returns directories builder works with.
func (b *Builder) Layout() Layout {
	content := filepath.Join(b.root, filepath.FromSlash(b.cfg.Layout.ContentDir))
	return Layout{
		Root:       b.root,
		ContentDir: content,
		TextDir:    filepath.Join(content, filepath.FromSlash(b.cfg.Layout.TextDir)),
	}
}

// Build scans chapters, writes navigation and package documents, formats
// them, packs working tree and checks the result. Returns path to the
// produced book.
func (b *Builder) Build(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	layout := b.Layout()
	start := b.now()

	b.log.Info("Discovering chapters", zap.String("source", layout.TextDir))
	chapters, err := book.Scan(layout.TextDir, book.ScanOptions{
		Prefix: b.cfg.Layout.ChapterPrefix,
		Ext:    b.cfg.Layout.ChapterExt,
		Order:  b.cfg.Layout.Order,
	})
	if err != nil {
		return "", fmt.Errorf("unable to scan chapters: %w", err)
	}
	b.logChapters(chapters)
	b.rpt.StoreData("chapters.txt", []byte(chapters.String()))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	meta := epub.NewMetadata(b.cfg, layout.ContentDir, b.log)
	docs, err := epub.Generate(layout.ContentDir, chapters, b.cfg.Book.MajorSections, meta, start)
	if err != nil {
		return "", err
	}
	b.log.Info("Wrote navigation document", zap.String("file", docs.Nav))
	b.log.Info("Wrote package document", zap.String("file", docs.Package))
	b.storeCopy(epub.NavFile, docs.Nav)
	b.storeCopy(epub.PackageFile, docs.Package)

	if err := b.format(ctx, layout, docs, chapters); err != nil {
		return "", err
	}

	dest := buildOutputPath(newValues(meta, chapters, start), b.outDir, &b.cfg.Package, b.log)
	if dest, err = filepath.Abs(dest); err != nil {
		return "", err
	}

	plog := b.log.Named("package")
	plog.Info("Packaging", zap.String("to", dest))
	stats, err := archive.Pack(ctx, layout.Root, dest, archive.PackOptions{
		SkipDirs:  b.cfg.Package.SkipDirs,
		SkipFiles: b.cfg.Package.SkipFiles,
	}, plog)
	if err != nil {
		return "", fmt.Errorf("unable to package archive: %w", err)
	}

	if b.cfg.Package.FixZip {
		if err := archive.FixDataDescriptors(dest); err != nil {
			return "", fmt.Errorf("unable to fix archive: %w", err)
		}
	}
	b.rpt.Store("result.epub", dest)

	if b.cfg.Package.Verify {
		// book is already written, problems are reported but do not fail build
		if err := verifyContainer(dest, &b.cfg.Layout, chapters, meta); err != nil {
			plog.Warn("Resulting book failed verification", zap.String("file", dest), zap.Error(err))
		} else {
			plog.Debug("Archive verified", zap.String("file", dest))
		}
	}

	b.log.Info("Done",
		zap.String("file", dest),
		zap.String("size", fmt.Sprintf("%.1f KB", float64(stats.Size)/1024)),
		zap.Int("entries", stats.Entries),
		zap.Int("chapters", len(chapters)),
		zap.Duration("elapsed", time.Since(start)))
	return dest, nil
}

func (b *Builder) logChapters(chapters book.Chapters) {
	parts, regular := chapters.Count()
	b.log.Info("Found chapters", zap.Int("count", len(chapters)), zap.Int("parts", parts), zap.Int("chapters", regular))
	for i, c := range chapters {
		b.log.Info(fmt.Sprintf("%3d. [%d] %s", i, c.Level, c.Filename))
	}
	for _, id := range epub.DuplicateManifestIDs(chapters) {
		b.log.Warn("Several chapters share manifest id, package document will be invalid", zap.String("id", id))
	}
}

// format runs formatter over navigation document and chapters. Failure is
// not fatal unless build was cancelled.
func (b *Builder) format(ctx context.Context, layout Layout, docs epub.Documents, chapters book.Chapters) error {
	paths := make([]string, 0, len(chapters)+1)
	paths = append(paths, docs.Nav)
	for _, c := range chapters {
		paths = append(paths, filepath.Join(layout.TextDir, c.Filename))
	}

	if _, ok := b.formatter.(format.Nop); ok {
		return nil
	}

	b.log.Info("Formatting", zap.Int("files", len(paths)))
	if err := b.formatter.Format(ctx, paths); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.log.Warn("Formatter is not available or failed, skipping formatting", zap.Error(err))
		return nil
	}
	b.log.Info("Formatted", zap.Int("files", len(paths)))
	return nil
}

func (b *Builder) storeCopy(name, path string) {
	if err := b.rpt.StoreCopy(name, path); err != nil {
		b.log.Debug("Unable to store copy in report", zap.String("file", path), zap.Error(err))
	}
}
