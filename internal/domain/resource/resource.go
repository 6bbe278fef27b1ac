// Package resource exposes host files as readable resources addressed by URI.
//
// Unlike command execution, failures here are returned as typed errors: a
// missing resource is a protocol error, not a data value.
package resource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	ReadmeURI         = "file://mcpreadme"
	DefaultReadmeDir  = "Desktop"
	DefaultReadmeName = "mcpreadme.md"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidResource = errors.New("invalid resource")
	ErrReadError       = errors.New("resource read error")
)

// Error reports a failed resource access. Kind is one of ErrNotFound,
// ErrInvalidResource or ErrReadError, so errors.Is works against the kinds.
type Error struct {
	Kind error
	URI  string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.URI)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Definition describes one resource for listing.
type Definition struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// Config locates the README resource relative to the user's home directory.
type Config struct {
	Dir  string
	Name string
}

// Accessor reads the resources it knows about. The home directory is resolved
// on every read so a changed HOME is honored without a restart.
type Accessor struct {
	dir     string
	name    string
	homeDir func() (string, error)
	logger  zerolog.Logger
}

func NewAccessor(cfg Config, logger zerolog.Logger) *Accessor {
	if cfg.Dir == "" {
		cfg.Dir = DefaultReadmeDir
	}
	if cfg.Name == "" {
		cfg.Name = DefaultReadmeName
	}
	return &Accessor{
		dir:     cfg.Dir,
		name:    cfg.Name,
		homeDir: os.UserHomeDir,
		logger:  logger.With().Str("component", "resource").Logger(),
	}
}

func (a *Accessor) Resources() []Definition {
	return []Definition{{
		URI:         ReadmeURI,
		Name:        "mcpreadme",
		Description: fmt.Sprintf("Contents of %s in the %s folder of the server user's home directory", a.name, a.dir),
		MIMEType:    "text/markdown",
	}}
}

// Read returns the full text of the resource at uri.
func (a *Accessor) Read(ctx context.Context, uri string) (string, error) {
	switch uri {
	case ReadmeURI:
		return a.ReadReadme(ctx)
	default:
		return "", &Error{Kind: ErrNotFound, URI: uri}
	}
}

// ReadmePath resolves the README location from the current environment.
func (a *Accessor) ReadmePath() (string, error) {
	home, err := a.homeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, a.dir, a.name), nil
}

func (a *Accessor) ReadReadme(ctx context.Context) (string, error) {
	path, err := a.ReadmePath()
	if err != nil {
		return "", &Error{Kind: ErrReadError, URI: ReadmeURI, Err: err}
	}
	content, err := readTextFile(ReadmeURI, path)
	if err != nil {
		a.logger.Debug().Err(err).Str("path", path).Msg("resource read failed")
		return "", err
	}
	return content, nil
}

// missingPath reports stat errors meaning nothing exists at the path: a
// missing entry, a path component that is not a directory, or a symlink loop.
func missingPath(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.ELOOP)
}

// readTextFile checks existence, then regular-file-ness, then reads and
// validates UTF-8, in that order.
func readTextFile(uri, path string) (string, error) {
	info, err := os.Stat(path)
	if missingPath(err) {
		return "", &Error{Kind: ErrNotFound, URI: uri, Path: path, Err: err}
	}
	if err != nil {
		return "", &Error{Kind: ErrReadError, URI: uri, Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", &Error{Kind: ErrInvalidResource, URI: uri, Path: path, Err: errors.New("not a regular file")}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Kind: ErrReadError, URI: uri, Path: path, Err: err}
	}
	if !utf8.Valid(raw) {
		return "", &Error{Kind: ErrReadError, URI: uri, Path: path, Err: errors.New("content is not valid UTF-8")}
	}
	return string(raw), nil
}
