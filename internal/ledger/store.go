// Package ledger persists the sales/payments ledger as a flat CSV file.
// Entries are append-only: there is no update, and storage order is append
// order, which under the single-writer assumption is also chronological.
package ledger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"mecatech/parts-ledger/internal/fileutils"
	"mecatech/parts-ledger/internal/logging"
	"mecatech/parts-ledger/internal/models"
	"mecatech/parts-ledger/internal/storeerror"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Store persists ledger entries in one CSV file. Appends go through a full
// load-append-rewrite under the store mutex so the on-disk file is always a
// complete, well-formed CSV.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a ledger store over the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() ([]models.LedgerEntry, error) {
	if !fileutils.FileExists(s.path) {
		return nil, nil
	}

	file, err := os.Open(s.path) // #nosec G304 -- store path comes from configuration
	if err != nil {
		return nil, storeerror.NewIO("read", s.path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close ledger file")
		}
	}()

	var entries []models.LedgerEntry
	if err := gocsv.UnmarshalFile(file, &entries); err != nil {
		return nil, storeerror.NewIO("decode", s.path, err)
	}
	return entries, nil
}

func (s *Store) save(entries []models.LedgerEntry) error {
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	data, err := gocsv.MarshalString(&entries)
	if err != nil {
		return storeerror.NewIO("encode", s.path, err)
	}
	if err := fileutils.WriteFileAtomic(s.path, []byte(data), 0600); err != nil {
		return storeerror.NewIO("write", s.path, err)
	}
	return nil
}

// Append adds one entry to the end of the ledger.
func (s *Store) Append(entry models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if err := s.save(entries); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		logging.FieldCustomer: entry.Customer,
		logging.FieldKind:     string(entry.Kind),
	}).Debug("Ledger entry appended")
	return nil
}

// All returns every entry in storage order.
func (s *Store) All() ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Query filters a ledger scan. All set fields must match (conjunctive).
type Query struct {
	From     *time.Time
	To       *time.Time
	Customer string
	Kind     models.OperationKind
}

// Filter returns the entries matching the query, in storage order.
func (s *Store) Filter(q Query) ([]models.LedgerEntry, error) {
	entries, err := s.All()
	if err != nil {
		return nil, err
	}

	customer := models.NormalizeName(q.Customer)
	var matches []models.LedgerEntry
	for _, entry := range entries {
		if customer != "" && models.NormalizeName(entry.Customer) != customer {
			continue
		}
		if q.Kind != "" && entry.Kind != q.Kind {
			continue
		}
		if q.From != nil || q.To != nil {
			ts, err := entry.Timestamp()
			if err != nil {
				log.WithError(err).WithFields(logrus.Fields{
					logging.FieldCustomer: entry.Customer,
					"date":                entry.Date,
				}).Warn("Skipping entry with unparsable date from filtered listing")
				continue
			}
			if q.From != nil && ts.Before(*q.From) {
				continue
			}
			if q.To != nil && ts.After(*q.To) {
				continue
			}
		}
		matches = append(matches, entry)
	}
	return matches, nil
}

// ForCustomer returns every entry for one customer, matched
// case-insensitively on the stored name.
func (s *Store) ForCustomer(name string) ([]models.LedgerEntry, error) {
	return s.Filter(Query{Customer: strings.TrimSpace(name)})
}
