package settings

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	"github.com/raulk/clock"
	"golang.org/x/time/rate"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
)

//go:embed default_settings.xml
var defaultTemplate []byte

// DefaultFlushInterval is the minimum spacing between deferred flushes.
const DefaultFlushInterval = time.Second

// Well-known keys.
const (
	KeyHotspotActive   = "is_hotspot_active"
	KeyHotspotSection  = "hotspot"
	KeyHotspotSSID     = "ssid"
	KeyHotspotPassword = "password"
)

// Flush modes, used as the metric label.
const (
	flushDeferred  = "deferred"
	flushImmediate = "immediate"
	flushReset     = "reset"
)

// Config configures the settings store.
type Config struct {
	// Path is the durable settings file.
	Path string

	// DefaultPath overrides the embedded default template when set.
	DefaultPath string

	// FlushInterval is the minimum spacing between deferred flushes.
	FlushInterval time.Duration
}

// Option configures optional Store collaborators.
type Option func(*Store)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Store) { s.metrics = m }
}

// Store is the hierarchical settings store.
//
// Store is not safe for concurrent use; the owner serializes access.
type Store struct {
	cfg     Config
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metric.Registry

	doc   *etree.Document
	cache *node

	dirty        bool
	lastFlush    time.Time
	flushes      uint64
	limiter      *rate.Limiter
	resetPending bool
}

// Open creates a store and loads it from cfg.Path.
func Open(cfg Config, opts ...Option) (*Store, error) {
	if cfg.Path == "" {
		return nil, domain.ErrMissingArgument.WithDetails("settings path")
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	s := &Store{
		cfg:    cfg,
		clock:  clock.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = metric.OrNew(s.metrics)
	s.limiter = rate.NewLimiter(rate.Every(cfg.FlushInterval), 1)

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the durable file, restoring the default template if it is
// missing or unparsable, then merges in any missing default keys.
//
// Only a broken default template is reported as an error.
func (s *Store) Load() error {
	def, err := s.readDefault()
	if err != nil {
		return err
	}

	doc := etree.NewDocument()
	if err := readDocument(doc, s.cfg.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("settings file not found, creating from defaults", "path", s.cfg.Path)
		} else {
			s.logger.Warn("settings file unreadable, restoring defaults",
				"path", s.cfg.Path,
				"error", domain.ErrParseFailure.WithCause(err))
		}
		s.install(def.Copy())
		s.dirty = true
		if err := s.flush(flushReset); err != nil {
			s.logger.Warn("failed to write default settings", "path", s.cfg.Path, "error", err)
		}
		return nil
	}

	changed := mergeDefaults(def.Root(), doc.Root())
	s.install(doc)
	if changed {
		s.logger.Info("merged missing default settings", "path", s.cfg.Path)
		s.dirty = true
		if err := s.SaveImmediate(); err != nil {
			s.logger.Warn("failed to write merged settings", "path", s.cfg.Path, "error", err)
		}
	}
	return nil
}

// Get returns the value at path. It reports false if any segment is
// missing or the path names a section.
func (s *Store) Get(path ...string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	n := s.cache.lookup(path)
	if n == nil || !n.leaf {
		return "", false
	}
	return n.value, true
}

// GetOr returns the value at path, or def when absent.
func (s *Store) GetOr(def string, path ...string) string {
	if v, ok := s.Get(path...); ok {
		return v
	}
	return def
}

// Set stores fmt.Sprint(value) at path and marks the store dirty.
// Missing sections are created; a leaf on the way becomes a section and a
// section at the end becomes a leaf.
func (s *Store) Set(path []string, value any) error {
	if len(path) == 0 {
		return domain.ErrMissingArgument.WithDetails("settings path")
	}
	for _, p := range path {
		if p == "" {
			return domain.ErrInvalidArgument.WithDetails("empty path segment")
		}
	}
	if path[0] == networksTag {
		return domain.ErrInvalidArgument.WithDetails("saved networks are managed separately")
	}

	v := fmt.Sprint(value)
	s.cache.set(path, v)
	setElement(s.doc.Root(), path, v)
	s.dirty = true
	return nil
}

// SetValue is Set with the path given as trailing arguments.
func (s *Store) SetValue(value any, path ...string) error {
	return s.Set(path, value)
}

// Keys lists the child keys of the section at path in document order.
// An empty path lists top-level keys. It returns nil for leaves and
// missing paths.
func (s *Store) Keys(path ...string) []string {
	n := s.cache.lookup(path)
	if n == nil || n.leaf {
		return nil
	}
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Snapshot returns every leaf keyed by its dotted path.
func (s *Store) Snapshot() map[string]string {
	out := make(map[string]string)
	s.cache.walk(nil, func(path []string, value string) {
		out[joinPath(path)] = value
	})
	return out
}

// SaveDeferred flushes if the store is dirty and at least one flush
// interval has passed since the last flush. It reports whether a flush
// happened.
func (s *Store) SaveDeferred() (bool, error) {
	if !s.dirty {
		return false, nil
	}
	if !s.limiter.AllowN(s.clock.Now(), 1) {
		return false, nil
	}
	if err := s.flush(flushDeferred); err != nil {
		return false, err
	}
	return true, nil
}

// SaveImmediate flushes now if the store is dirty.
func (s *Store) SaveImmediate() error {
	if !s.dirty {
		return nil
	}
	return s.flush(flushImmediate)
}

// ResetToDefault overwrites the durable file with the default template
// and reloads. ConsumeReset reports the reset afterwards.
func (s *Store) ResetToDefault() error {
	def, err := s.readDefault()
	if err != nil {
		return err
	}
	s.install(def)
	s.dirty = true
	s.resetPending = true
	s.logger.Info("settings reset to defaults", "path", s.cfg.Path)
	return s.flush(flushReset)
}

// ConsumeReset reports whether a reset happened since the last call.
func (s *Store) ConsumeReset() bool {
	r := s.resetPending
	s.resetPending = false
	return r
}

// Dirty reports whether there are unflushed changes.
func (s *Store) Dirty() bool { return s.dirty }

// LastFlush returns the time of the last successful flush.
func (s *Store) LastFlush() time.Time { return s.lastFlush }

// Flushes returns the number of successful flushes.
func (s *Store) Flushes() uint64 { return s.flushes }

// Path returns the durable file path.
func (s *Store) Path() string { return s.cfg.Path }

// install replaces the live document and rebuilds the cache. Unflushed
// changes to the old document are dropped.
func (s *Store) install(doc *etree.Document) {
	s.doc = doc
	s.cache = buildTree(doc.Root())
	s.dirty = false
}

func (s *Store) readDefault() (*etree.Document, error) {
	doc := etree.NewDocument()
	var err error
	if s.cfg.DefaultPath != "" {
		err = readDocument(doc, s.cfg.DefaultPath)
	} else {
		err = doc.ReadFromBytes(defaultTemplate)
		if err == nil && doc.Root() == nil {
			err = errors.New("no root element")
		}
	}
	if err != nil {
		return nil, domain.ErrDefaultTemplate.WithCause(err)
	}
	return doc, nil
}

func readDocument(doc *etree.Document, path string) error {
	if err := doc.ReadFromFile(path); err != nil {
		return err
	}
	if doc.Root() == nil {
		return errors.New("no root element")
	}
	return nil
}

// flush writes the document atomically and restarts the deferred window.
func (s *Store) flush(mode string) error {
	s.doc.Indent(2)
	var buf bytes.Buffer
	if _, err := s.doc.WriteTo(&buf); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if err := writeFileAtomic(s.cfg.Path, buf.Bytes()); err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	now := s.clock.Now()
	s.dirty = false
	s.lastFlush = now
	s.flushes++
	s.limiter = rate.NewLimiter(rate.Every(s.cfg.FlushInterval), 1)
	s.limiter.AllowN(now, 1)
	s.metrics.SettingsFlushes.WithLabelValues(mode).Inc()
	s.logger.Debug("settings flushed", "path", s.cfg.Path, "mode", mode)
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
