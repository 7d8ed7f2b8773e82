package progressrepository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/reporting"
	"github.com/Amund211/awardtracker/internal/strutils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// File stores each player's awards in <dir>/<playerID>.json
type File struct {
	dir        string
	quarantine bool
	tracer     trace.Tracer
}

type FileOption func(*File)

// WithQuarantine makes Load move files it can't parse to <playerID>.json.corrupt.
// The player then has no stored data, and the next save starts a fresh file.
func WithQuarantine() FileOption {
	return func(f *File) {
		f.quarantine = true
	}
}

// NewFile creates dir if it does not exist
func NewFile(dir string, opts ...FileOption) (*File, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}

	f := &File{
		dir:    dir,
		tracer: otel.Tracer("awardtracker/progressrepository/file"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *File) path(playerID string) (string, error) {
	if err := strutils.ValidatePlayerID(playerID); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidPlayerID, err)
	}
	return filepath.Join(f.dir, fmt.Sprintf("%s.json", playerID)), nil
}

func (f *File) Load(ctx context.Context, playerID string) ([]domain.PlayerAward, error) {
	ctx, span := f.tracer.Start(ctx, "File.Load", trace.WithAttributes(attribute.String("player_id", playerID)))
	defer span.End()

	path, err := f.path(playerID)
	if err != nil {
		reporting.Report(ctx, err)
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerDataNotFound, playerID)
	} else if err != nil {
		err := fmt.Errorf("failed to read player data: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return nil, err
	}

	awards, err := decodePlayerAwards(data)
	if err != nil {
		err := fmt.Errorf("failed to parse player data: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
			"data":     fmt.Sprintf("%.500s", data),
		})
		if !f.quarantine {
			return nil, err
		}
		return nil, f.moveCorrupt(ctx, playerID, path, err)
	}

	return awards, nil
}

func (f *File) moveCorrupt(ctx context.Context, playerID, path string, parseErr error) error {
	corruptPath := path + ".corrupt"
	err := os.Rename(path, corruptPath)
	if err != nil {
		err := fmt.Errorf("failed to move unreadable player data: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return errors.Join(parseErr, err)
	}

	return fmt.Errorf("%w: moved unreadable data to %s: %w", domain.ErrPlayerDataNotFound, corruptPath, parseErr)
}

func (f *File) Save(ctx context.Context, playerID string, awards []domain.PlayerAward) error {
	ctx, span := f.tracer.Start(ctx, "File.Save", trace.WithAttributes(
		attribute.String("player_id", playerID),
		attribute.Int("record_count", len(awards)),
	))
	defer span.End()

	path, err := f.path(playerID)
	if err != nil {
		reporting.Report(ctx, err)
		return err
	}

	data, err := encodePlayerAwards(awards)
	if err != nil {
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return err
	}

	err = writeFileAtomic(path, data)
	if err != nil {
		err := fmt.Errorf("failed to write player data: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return err
	}

	return nil
}

// Write to a temporary file in the same directory and rename it into place
func writeFileAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".%s.tmp*", name))
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write temporary file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync temporary file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
