// Package config loads route tables from TOML or YAML documents.
//
// A document declares the route tree and a few router options. Guards cannot be
// written in a document, so routes refer to them by name and Routes looks the
// names up in a Registry:
//
//	[options]
//	max_redirects = 5
//
//	[[routes]]
//	path = "/"
//	name = "home"
//
//	[[routes]]
//	path = "/account"
//	name = "account"
//	before_enter = ["auth"]
//	meta = { title = "Account" }
//
//	  [[routes.children]]
//	  path = "settings/:section?"
//	  name = "account-settings"
//
//	[[routes]]
//	path = "/profile"
//	redirect = "/account"
//
// Documents are read from files or fetched over HTTP(S).
package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/BrandonKowalski/certifiable" // Add CA certificates to the default trust store
	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/matcher"
)

// MaxDocumentSize is the largest document Load accepts.
const MaxDocumentSize = 4 << 20

// Format is the encoding of a route document.
type Format int

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from the extension of a file name or URL path.
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// File is a decoded route document.
type File struct {
	Options Options     `toml:"options" yaml:"options"`
	Routes  []RouteSpec `toml:"routes" yaml:"routes" validate:"required,min=1,dive"`
}

// Options configures the matcher and router built from a document.
type Options struct {
	CaseSensitive bool `toml:"case_sensitive" yaml:"case_sensitive"`
	Strict        bool `toml:"strict" yaml:"strict"`
	MaxRedirects  int  `toml:"max_redirects" yaml:"max_redirects" validate:"gte=0,lte=100"` // 0 keeps the router default
}

// MatcherOptions converts the options that apply to the matcher.
func (o Options) MatcherOptions() []matcher.Option {
	var opts []matcher.Option
	if o.CaseSensitive {
		opts = append(opts, matcher.CaseSensitive())
	}
	if o.Strict {
		opts = append(opts, matcher.Strict())
	}
	return opts
}

// RouteSpec declares one route. Guard lists hold Registry names.
type RouteSpec struct {
	Path     string         `toml:"path" yaml:"path" validate:"required"`
	Name     string         `toml:"name" yaml:"name" validate:"omitempty,max=128"`
	Redirect string         `toml:"redirect" yaml:"redirect"`
	Meta     map[string]any `toml:"meta" yaml:"meta"`

	BeforeEnter []string `toml:"before_enter" yaml:"before_enter" validate:"dive,required"`
	Leave       []string `toml:"leave" yaml:"leave" validate:"dive,required"`
	Update      []string `toml:"update" yaml:"update" validate:"dive,required"`
	Enter       []string `toml:"enter" yaml:"enter" validate:"dive,required"`

	Children []RouteSpec `toml:"children" yaml:"children" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a document. Unknown keys are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var f File

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			var errs error
			for _, key := range undecoded {
				errs = multierr.Append(errs, fmt.Errorf("%w %q", ErrUnknownKey, key.String()))
			}
			return nil, errs
		}

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, err
		}

	default:
		return nil, ErrUnknownFormat
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the document structure, reporting every problem at once.
func (f *File) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errs error
	for _, fe := range verrs {
		errs = multierr.Append(errs, &FieldError{Field: fe.Namespace(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return errs
}

// Load reads a document from a file path or an http(s) URL. The format comes
// from the extension.
func Load(ctx context.Context, source string) (*File, error) {
	var (
		data   []byte
		format Format
		err    error
	)

	if isURL(source) {
		data, format, err = fetch(ctx, source)
	} else {
		format = FormatOf(filepath.Base(source))
		data, err = readFile(source)
	}
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return f, nil
}

// LoadAll loads every source concurrently and merges them in the order given.
func LoadAll(ctx context.Context, sources ...string) (*File, error) {
	files := make([]*File, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			f, err := Load(ctx, source)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(files...), nil
}

// Merge concatenates the routes of files. Options set in later files override
// earlier ones.
func Merge(files ...*File) *File {
	merged := &File{}
	for _, f := range files {
		if f == nil {
			continue
		}
		merged.Routes = append(merged.Routes, f.Routes...)
		merged.Options.CaseSensitive = merged.Options.CaseSensitive || f.Options.CaseSensitive
		merged.Options.Strict = merged.Options.Strict || f.Options.Strict
		if f.Options.MaxRedirects != 0 {
			merged.Options.MaxRedirects = f.Options.MaxRedirects
		}
	}
	return merged
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func readFile(name string) ([]byte, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readLimited(file)
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func fetch(ctx context.Context, url string) ([]byte, Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, FormatUnknown, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, FormatUnknown, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, FormatUnknown, fmt.Errorf("unexpected status %s", resp.Status)
	}

	format := FormatOf(resp.Request.URL.Path)
	if format == FormatUnknown {
		format = formatOfContentType(resp.Header.Get("Content-Type"))
	}

	data, err := readLimited(resp.Body)
	return data, format, err
}

func formatOfContentType(contentType string) Format {
	switch {
	case strings.Contains(contentType, "toml"):
		return FormatTOML
	case strings.Contains(contentType, "yaml"):
		return FormatYAML
	default:
		return FormatUnknown
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
