package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileRepository stores the profile as a single JSON document named after
// StorageKey inside a data directory. Writes go through a temp file and
// rename, so a crash mid-write never leaves a half-written profile behind.
type FileRepository struct {
	dir    string
	logger zerolog.Logger
}

var _ Repository = (*FileRepository)(nil)

func NewFileRepository(dir string, logger zerolog.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRepository{
		dir:    dir,
		logger: logger.With().Str("component", "profile-repo").Logger(),
	}, nil
}

func (r *FileRepository) path() string {
	return filepath.Join(r.dir, StorageKey+".json")
}

// Save marshals and writes the profile, unconditionally replacing whatever
// was stored before.
func (r *FileRepository) Save(ctx context.Context, p *EmergencyProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace profile file: %w", err)
	}
	r.logger.Debug().Str("path", r.path()).Msg("profile saved")
	return nil
}

// Load reads and decodes the stored profile. A missing file, an unreadable
// file, and a file that fails to decode or validate all yield ErrNoProfile;
// the distinction is logged but not surfaced.
func (r *FileRepository) Load(ctx context.Context) (*EmergencyProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path())
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn().Err(err).Str("path", r.path()).Msg("profile unreadable")
		}
		return nil, ErrNoProfile
	}
	var p EmergencyProfile
	if err := json.Unmarshal(data, &p); err != nil {
		r.logger.Warn().Err(err).Str("path", r.path()).Msg("stored profile undecodable")
		return nil, ErrNoProfile
	}
	if err := p.Validate(); err != nil {
		r.logger.Warn().Err(err).Str("path", r.path()).Msg("stored profile invalid")
		return nil, ErrNoProfile
	}
	return &p, nil
}

// Clear removes the stored profile file if present.
func (r *FileRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(r.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove profile file: %w", err)
	}
	return nil
}
