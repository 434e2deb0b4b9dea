package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"epubgen/config"
)

const outputExt = ".epub"

// buildOutputPath returns constructed output file path/name. It uses either
// book title or user-defined template, the latter may put result into
// subdirectories of dst. It cleans up path and if requested transliterates
// it.
func buildOutputPath(values Values, dst string, cfg *config.PackageConfig, log *zap.Logger) string {
	defaultFile := buildDefaultFileName(values.Title, cfg)

	if cfg.OutputNameTemplate == "" {
		return filepath.Join(dst, defaultFile)
	}

	expandedName := expandOutputNameTemplate(values, cfg, log)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(dst, defaultFile)
	}

	return assemblePathWithSubdirs(dst, expandedName, cfg)
}

func buildDefaultFileName(title string, cfg *config.PackageConfig) string {
	return cleanPathSegment(title, cfg) + outputExt
}

func expandOutputNameTemplate(values Values, cfg *config.PackageConfig, log *zap.Logger) string {
	expandedName, err := expandTemplate(values, config.OutputNameTemplateFieldName, cfg.OutputNameTemplate)
	if err != nil {
		log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(filepath.FromSlash(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName string, cfg *config.PackageConfig) string {
	pathSegments := splitAndCleanPath(expandedName)

	if len(pathSegments) == 0 {
		return outDir
	}

	fileName := strings.TrimSuffix(pathSegments[len(pathSegments)-1], outputExt)
	fileName = cleanPathSegment(fileName, cfg) + outputExt
	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)

	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, cfg))
	}

	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}

	return segments
}

func cleanPathSegment(segment string, cfg *config.PackageConfig) string {
	if cfg.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
