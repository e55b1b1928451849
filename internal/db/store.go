package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/jwulff/folio/internal/audit"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store keeps the ordered audit history in memory and mirrors it to the
// history slot. It is not safe for concurrent use; the TUI only touches it
// from its update loop.
type Store struct {
	db         *sql.DB
	log        *zap.Logger
	now        func() time.Time
	dateLayout string

	audits []audit.SavedAudit
	lastID int64
}

// Options configures a Store. Zero values select defaults.
type Options struct {
	Logger     *zap.Logger
	Now        func() time.Time
	DateLayout string
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "folio", "folio.sqlite")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "folio", "folio.sqlite")
}

// Open opens (creating if needed) the database at path with WAL and loads
// the persisted history.
func Open(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	return open(dsn, opts)
}

// OpenMemory opens a private in-memory database.
func OpenMemory(opts Options) (*Store, error) {
	return open(":memory:", opts)
}

func open(dsn string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: an in-memory database is per connection, and the
	// store is single-writer anyway.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{
		db:         db,
		log:        opts.Logger,
		now:        opts.Now,
		dateLayout: opts.DateLayout,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.dateLayout == "" {
		s.dateLayout = DefaultDateLayout
	}
	s.Load()
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load re-reads the history slot and replaces the in-memory sequence.
// A missing slot, an unreadable database, or an unparseable payload all
// yield an empty history; an unparseable payload is first copied to the
// corrupt slot so it can be inspected later.
func (s *Store) Load() []audit.SavedAudit {
	s.audits = nil
	s.lastID = 0

	slot, err := s.slot(HistoryKey)
	if err != nil {
		s.log.Warn("read history failed, starting empty", zap.Error(err))
		return s.Audits()
	}
	if slot == nil {
		return s.Audits()
	}

	var audits []audit.SavedAudit
	if err := json.Unmarshal([]byte(slot.Value), &audits); err != nil {
		s.log.Warn("history is corrupt, starting empty",
			zap.Error(err), zap.Int("bytes", len(slot.Value)))
		if err := s.put(CorruptHistoryKey, slot.Value); err != nil {
			s.log.Error("preserve corrupt history failed", zap.Error(err))
		}
		return s.Audits()
	}

	s.audits = audits
	s.lastID = maxNumericID(audits)
	s.log.Debug("history loaded", zap.Int("audits", len(audits)))
	return s.Audits()
}

// Audits returns a copy of the history, newest first.
func (s *Store) Audits() []audit.SavedAudit {
	out := make([]audit.SavedAudit, len(s.audits))
	copy(out, s.audits)
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (audit.SavedAudit, bool) {
	for _, a := range s.audits {
		if a.ID == id {
			return a, true
		}
	}
	return audit.SavedAudit{}, false
}

// Append wraps report in a new record, prepends it, and persists the whole
// history. On a failed write the in-memory history is left untouched.
func (s *Store) Append(report audit.Report, program audit.Program) (audit.SavedAudit, error) {
	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	idStr := strconv.FormatInt(id, 10)

	rec := audit.SavedAudit{
		ID:       idStr,
		Date:     now.Format(s.dateLayout),
		Program:  program,
		FileName: audit.FileNameForID(idStr),
		Report:   report,
	}

	next := make([]audit.SavedAudit, 0, len(s.audits)+1)
	next = append(next, rec)
	next = append(next, s.audits...)

	if err := s.persist(next); err != nil {
		return audit.SavedAudit{}, err
	}
	s.audits = next
	s.lastID = id
	s.log.Info("audit saved", zap.String("id", rec.ID), zap.String("program", string(program)),
		zap.Float64("overall_score", report.OverallScore))
	return rec, nil
}

// Remove deletes the record with the given id and persists the remainder.
// An unknown id is not an error and writes nothing.
func (s *Store) Remove(id string) ([]audit.SavedAudit, error) {
	next := make([]audit.SavedAudit, 0, len(s.audits))
	for _, a := range s.audits {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if len(next) == len(s.audits) {
		return s.Audits(), nil
	}

	if err := s.persist(next); err != nil {
		return s.Audits(), err
	}
	s.audits = next
	s.log.Info("audit removed", zap.String("id", id))
	return s.Audits(), nil
}

// Import merges a JSON array of saved audits, such as a history exported
// from the browser client. Records whose id is already present are
// ignored. Records with an unknown program, an out-of-range report, or no
// usable date are skipped. It returns how many records were added and how
// many were skipped as invalid.
func (s *Store) Import(r io.Reader) (added, skipped int, err error) {
	var incoming []audit.SavedAudit
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return 0, 0, audit.ErrValidation.Wrap("decode import", err)
	}

	seen := make(map[string]bool, len(s.audits))
	for _, a := range s.audits {
		seen[a.ID] = true
	}
	next := s.Audits()
	for _, a := range incoming {
		if a.ID == "" || seen[a.ID] {
			continue
		}
		rec, reason := s.normalizeImport(a)
		if reason != "" {
			s.log.Warn("skipping imported audit", zap.String("id", a.ID), zap.String("reason", reason))
			skipped++
			continue
		}
		seen[rec.ID] = true
		next = append(next, rec)
		added++
	}
	if added == 0 {
		return 0, skipped, nil
	}
	sortNewestFirst(next)

	if err := s.persist(next); err != nil {
		return 0, skipped, err
	}
	s.audits = next
	s.lastID = max(s.lastID, maxNumericID(next))
	s.log.Info("history imported", zap.Int("added", added), zap.Int("skipped", skipped))
	return added, skipped, nil
}

// normalizeImport checks one imported record and fills the fields the
// store derives itself. A non-empty reason means the record is unusable.
func (s *Store) normalizeImport(a audit.SavedAudit) (audit.SavedAudit, string) {
	p, err := audit.ParseProgram(string(a.Program))
	if err != nil {
		return a, fmt.Sprintf("unknown program %q", a.Program)
	}
	a.Program = p
	if err := a.Report.Validate(); err != nil {
		return a, err.Error()
	}
	if a.Date == "" {
		ms, err := strconv.ParseInt(a.ID, 10, 64)
		if err != nil {
			return a, "no date and a non-numeric id"
		}
		a.Date = time.UnixMilli(ms).Format(s.dateLayout)
	}
	if a.FileName == "" {
		a.FileName = audit.FileNameForID(a.ID)
	}
	return a, ""
}

// Export writes the history as an indented JSON array.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nonNil(s.audits)); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return nil
}

// CorruptPayload returns a history payload set aside by Load, if any.
func (s *Store) CorruptPayload() (*Slot, error) {
	slot, err := s.slot(CorruptHistoryKey)
	if err != nil {
		return nil, audit.ErrPersistence.Wrap("read corrupt history", err)
	}
	return slot, nil
}

// LastSaved returns when the history slot was last written, or the zero
// time if it never was.
func (s *Store) LastSaved() (time.Time, error) {
	slot, err := s.slot(HistoryKey)
	if err != nil {
		return time.Time{}, audit.ErrPersistence.Wrap("read history", err)
	}
	if slot == nil {
		return time.Time{}, nil
	}
	return slot.UpdatedAt, nil
}

func (s *Store) persist(audits []audit.SavedAudit) error {
	data, err := json.Marshal(nonNil(audits))
	if err != nil {
		return audit.ErrPersistence.Wrap("marshal history", err)
	}
	if err := s.put(HistoryKey, string(data)); err != nil {
		s.log.Error("persist history failed", zap.Error(err))
		return audit.ErrPersistence.Wrap("write history", err)
	}
	return nil
}

func (s *Store) put(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updatedAt) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt
	`, key, value, unixFromTime(s.now()))
	return err
}

func (s *Store) slot(key string) (*Slot, error) {
	row := s.db.QueryRow(`SELECT key, value, updatedAt FROM kv WHERE key = ?`, key)

	var slot Slot
	var updatedAt float64
	if err := row.Scan(&slot.Key, &slot.Value, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan slot: %w", err)
	}
	slot.UpdatedAt = timeFromUnix(updatedAt)
	return &slot, nil
}

func nonNil(audits []audit.SavedAudit) []audit.SavedAudit {
	if audits == nil {
		return []audit.SavedAudit{}
	}
	return audits
}

func maxNumericID(audits []audit.SavedAudit) int64 {
	var hi int64
	for _, a := range audits {
		if n, err := strconv.ParseInt(a.ID, 10, 64); err == nil && n > hi {
			hi = n
		}
	}
	return hi
}

// sortNewestFirst orders by numeric id descending; non-numeric ids sink to
// the end in their existing order.
func sortNewestFirst(audits []audit.SavedAudit) {
	sort.SliceStable(audits, func(i, j int) bool {
		a, errA := strconv.ParseInt(audits[i].ID, 10, 64)
		b, errB := strconv.ParseInt(audits[j].ID, 10, 64)
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a > b
		}
	})
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
