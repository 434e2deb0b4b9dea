package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"epubgen/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// MajorSection groups parts under a heading in the table of contents.
	MajorSection struct {
		Title string   `yaml:"title" validate:"required"`
		Parts []string `yaml:"parts" validate:"dive,required"`
	}

	BookConfig struct {
		Title         string         `yaml:"title" validate:"required"`
		Author        string         `yaml:"author" validate:"required"`
		Language      string         `yaml:"language" validate:"required"`
		UUID          string         `yaml:"uuid"`
		MajorSections []MajorSection `yaml:"major_sections" validate:"dive"`
	}

	LayoutConfig struct {
		Root          string              `yaml:"root" sanitize:"path_clean" validate:"required"`
		ContentDir    string              `yaml:"content_dir" validate:"required"`
		TextDir       string              `yaml:"text_dir" validate:"required"`
		ChapterPrefix string              `yaml:"chapter_prefix" validate:"required"`
		ChapterExt    string              `yaml:"chapter_ext" validate:"required,startswith=."`
		Order         common.ChapterOrder `yaml:"order" validate:"gte=0"`
	}

	// AssetsConfig lists static files maintained on disk, paths are relative
	// to the content directory.
	AssetsConfig struct {
		CoverImage string `yaml:"cover_image" validate:"required"`
		Stylesheet string `yaml:"stylesheet" validate:"required"`
		CoverPage  string `yaml:"cover_page" validate:"required"`
		TitlePage  string `yaml:"title_page" validate:"required"`
	}

	PackageConfig struct {
		Destination           string   `yaml:"destination,omitempty" sanitize:"path_clean"`
		OutputNameTemplate    string   `yaml:"output_name_template"`
		FileNameTransliterate bool     `yaml:"file_name_transliterate"`
		FixZip                bool     `yaml:"fix_zip"`
		Verify                bool     `yaml:"verify"`
		SkipDirs              []string `yaml:"skip_dirs" validate:"dive,required"`
		SkipFiles             []string `yaml:"skip_files" validate:"dive,required"`
	}

	FormatterConfig struct {
		Enable  bool     `yaml:"enable"`
		Command []string `yaml:"command" validate:"required_if=Enable true,dive,required"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Book      BookConfig      `yaml:"book"`
		Layout    LayoutConfig    `yaml:"layout"`
		Assets    AssetsConfig    `yaml:"assets"`
		Package   PackageConfig   `yaml:"package"`
		Formatter FormatterConfig `yaml:"formatter"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("unable to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		if err := cfg.Book.check(); err != nil {
			return nil, err
		}
		if err := cfg.Formatter.check(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (b *BookConfig) check() error {
	if _, err := language.Parse(b.Language); err != nil {
		return fmt.Errorf("book language %q is not a valid BCP 47 tag: %w", b.Language, err)
	}
	return nil
}

// validator treats empty non-nil slice as present
func (f *FormatterConfig) check() error {
	if f.Enable && len(f.Command) == 0 {
		return fmt.Errorf("formatter is enabled but no command is configured")
	}
	return nil
}

// Identifier returns configured book UUID. When it is absent or malformed a
// name based UUID derived from the title is returned, so repeated builds of
// the same book keep the same identity. The second value reports whether
// configured value was used.
func (b *BookConfig) Identifier() (uuid.UUID, bool) {
	if id, err := uuid.Parse(b.UUID); err == nil {
		return id, true
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:epubgen:"+b.Title)), false
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
