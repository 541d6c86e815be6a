// Package intake validates and stages uploaded media before analysis.
// Accepted blobs are spooled to a local directory and exposed through a
// preview URL until they are cleared, replaced, or expire.
package intake

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/your-org/cid/internal/config"
	"github.com/your-org/cid/internal/observability"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrUnknownKind     = errors.New("unknown upload kind")
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var videoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/avi":       true,
	"video/x-msvideo": true,
}

// StagedFile is one accepted upload, spooled locally.
type StagedFile struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	Filename   string    `json:"filename"`
	MIME       string    `json:"mime"`
	Size       int64     `json:"size"`
	Path       string    `json:"-"`
	PreviewURL string    `json:"preview_url"`
	StagedAt   time.Time `json:"staged_at"`
}

// Intake stages uploads under a spool directory. At most one file per
// kind is staged at a time; re-staging a kind releases the previous file.
// Staged entries expire so abandoned uploads do not accumulate on disk.
type Intake struct {
	cfg    config.IntakeConfig
	staged *cache.Cache

	mu     sync.Mutex
	byKind map[Kind]string
}

func New(cfg config.IntakeConfig) (*Intake, error) {
	if err := os.MkdirAll(cfg.SpoolDir, 0o700); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}

	in := &Intake{
		cfg:    cfg,
		staged: cache.New(cfg.StagedTTL, time.Minute),
		byKind: make(map[Kind]string),
	}
	in.staged.OnEvicted(func(_ string, v interface{}) {
		sf, ok := v.(StagedFile)
		if !ok {
			return
		}
		if err := os.Remove(sf.Path); err != nil && !os.IsNotExist(err) {
			slog.Warn("remove spool file", "path", sf.Path, "error", err)
		}
		observability.StagedFiles.WithLabelValues(string(sf.Kind)).Dec()
	})
	return in, nil
}

// Stage validates the upload and spools it. The previously staged file of
// the same kind, if any, is released.
func (in *Intake) Stage(kind Kind, filename, mime string, size int64, r io.Reader) (StagedFile, error) {
	if err := in.validate(kind, mime, size); err != nil {
		return StagedFile{}, err
	}

	id := uuid.New()
	path := filepath.Join(in.cfg.SpoolDir, id.String()+spoolExt(filename))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return StagedFile{}, fmt.Errorf("create spool file: %w", err)
	}
	written, err := io.Copy(f, io.LimitReader(r, size))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return StagedFile{}, fmt.Errorf("write spool file: %w", err)
	}

	sf := StagedFile{
		ID:         id,
		Kind:       kind,
		Filename:   filepath.Base(filename),
		MIME:       normalizeMIME(mime),
		Size:       written,
		Path:       path,
		PreviewURL: "/v1/uploads/" + id.String(),
		StagedAt:   time.Now().UTC(),
	}

	in.mu.Lock()
	prev, had := in.byKind[kind]
	in.byKind[kind] = id.String()
	in.mu.Unlock()

	if had {
		in.staged.Delete(prev)
	}
	in.staged.Set(id.String(), sf, cache.DefaultExpiration)
	observability.StagedFiles.WithLabelValues(string(kind)).Inc()

	return sf, nil
}

// Staged returns the currently staged file of the given kind.
func (in *Intake) Staged(kind Kind) (StagedFile, bool) {
	in.mu.Lock()
	id, ok := in.byKind[kind]
	in.mu.Unlock()
	if !ok {
		return StagedFile{}, false
	}

	v, ok := in.staged.Get(id)
	if !ok {
		// Expired under us; drop the stale mapping.
		in.mu.Lock()
		if in.byKind[kind] == id {
			delete(in.byKind, kind)
		}
		in.mu.Unlock()
		return StagedFile{}, false
	}
	return v.(StagedFile), true
}

// Get returns a staged file by id, for preview serving.
func (in *Intake) Get(id uuid.UUID) (StagedFile, bool) {
	v, ok := in.staged.Get(id.String())
	if !ok {
		return StagedFile{}, false
	}
	return v.(StagedFile), true
}

// Clear releases the staged file of the given kind, if any.
func (in *Intake) Clear(kind Kind) {
	in.mu.Lock()
	id, ok := in.byKind[kind]
	if ok {
		delete(in.byKind, kind)
	}
	in.mu.Unlock()

	if ok {
		in.staged.Delete(id)
	}
}

func (in *Intake) validate(kind Kind, mime string, size int64) error {
	mt := normalizeMIME(mime)
	switch kind {
	case KindImage:
		if size > in.cfg.MaxImageBytes {
			return fmt.Errorf("%w: image exceeds %d MiB", ErrFileTooLarge, in.cfg.MaxImageBytes>>20)
		}
		if !imageTypes[mt] {
			return fmt.Errorf("%w: %s (want JPG, PNG or WEBP)", ErrUnsupportedType, mt)
		}
	case KindVideo:
		if size > in.cfg.MaxVideoBytes {
			return fmt.Errorf("%w: video exceeds %d MiB", ErrFileTooLarge, in.cfg.MaxVideoBytes>>20)
		}
		if !videoTypes[mt] {
			return fmt.Errorf("%w: %s (want MP4, MOV or AVI)", ErrUnsupportedType, mt)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return nil
}

func normalizeMIME(mime string) string {
	mt, _, _ := strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func spoolExt(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) > 8 {
		return ""
	}
	return strings.ToLower(ext)
}
