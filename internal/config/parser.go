// Package config provides configuration file parsing.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Parser handles configuration file parsing.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a new configuration parser.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ExpandPath expands a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Abs(expanded)
}

// LoadFile loads and checks the repositories defined in the file at path.
func (p *Parser) LoadFile(path string) (*Store, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConfigNotFound, err)
	}

	p.logger.Info().Str("file", resolved).Msg("loading configuration")

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConfigNotFound, err)
	}
	p.checkPermissions(resolved, info)

	f, err := os.Open(resolved) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConfigNotFound, err)
	}
	defer func() { _ = f.Close() }()

	return p.LoadReader(f)
}

// LoadReader loads repositories from a reader (useful for testing).
// Unknown fields and additional YAML documents are rejected.
func (p *Parser) LoadReader(r io.Reader) (*Store, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	repositories := map[string]*models.Repository{}
	err := dec.Decode(&repositories)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, fmt.Errorf("%w: %w", models.ErrConfigParse, err)
	default:
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			if err == nil {
				err = errors.New("expected a single YAML document")
			}
			return nil, fmt.Errorf("%w: %w", models.ErrConfigParse, err)
		}
	}

	store := NewStore(repositories)

	p.logger.Debug().Int("repositories", store.Len()).Msg("checking configuration")
	if err := store.Check(); err != nil {
		return nil, err
	}

	return store, nil
}

// checkPermissions warns when the configuration, which may hold
// passphrases, is readable by anyone but its owner.
func (p *Parser) checkPermissions(path string, info os.FileInfo) {
	if runtime.GOOS == "windows" {
		return
	}
	if info.Mode().Perm()&0o077 != 0 {
		p.logger.Warn().
			Str("file", path).
			Str("mode", info.Mode().Perm().String()).
			Msg("configuration file should not be accessible to anyone except its owner")
	}
}
