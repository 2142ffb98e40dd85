package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"mecatech/parts-ledger/internal/fileutils"
	"mecatech/parts-ledger/internal/models"
	"mecatech/parts-ledger/internal/pricing"
	"mecatech/parts-ledger/internal/storeerror"
)

// RecordKind is the NotFoundError kind for catalog lookups.
const RecordKind = "part"

// Store persists the catalog as one JSON file. Every mutation is a full
// load-modify-rewrite under the store mutex; the rewrite itself is atomic
// (temp file + rename), so a failed write leaves the previous file intact.
type Store struct {
	mu     sync.Mutex
	path   string
	engine *pricing.Engine
}

// NewStore returns a catalog store over the given file path and pricing
// engine.
func NewStore(path string, engine *pricing.Engine) *Store {
	return &Store{path: path, engine: engine}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole catalog. A missing file is an empty catalog, not an
// error.
func (s *Store) Load() (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Catalog, error) {
	if !fileutils.FileExists(s.path) {
		return NewCatalog(), nil
	}

	data, err := fileutils.ReadFile(s.path)
	if err != nil {
		return nil, storeerror.NewIO("read", s.path, err)
	}

	cat := NewCatalog()
	if err := json.Unmarshal(data, cat); err != nil {
		return nil, storeerror.NewIO("decode", s.path, err)
	}
	return cat, nil
}

func (s *Store) save(cat *Catalog) error {
	data, err := json.Marshal(cat)
	if err != nil {
		return storeerror.NewIO("encode", s.path, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return storeerror.NewIO("encode", s.path, err)
	}
	out.WriteByte('\n')

	if err := fileutils.WriteFileAtomic(s.path, out.Bytes(), 0600); err != nil {
		return storeerror.NewIO("write", s.path, err)
	}
	return nil
}

// Replace persists the given catalog wholesale, discarding the previous
// content. Used after a full rebuild from a price list.
func (s *Store) Replace(cat *Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cat)
}

// Get returns the entry for a code; the boolean signals a miss, which is an
// expected condition, not an error.
func (s *Store) Get(code string) (models.CatalogEntry, bool, error) {
	cat, err := s.Load()
	if err != nil {
		return models.CatalogEntry{}, false, err
	}
	entry, ok := cat.Get(code)
	return entry, ok, nil
}

// Add derives and inserts a new entry. Fails with DuplicateKey when the code
// already exists.
func (s *Store) Add(in EntryInput) (models.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.load()
	if err != nil {
		return models.CatalogEntry{}, err
	}
	if cat.Has(in.Code) {
		return models.CatalogEntry{}, storeerror.NewDuplicateKey(RecordKind, in.Code)
	}

	entry, err := deriveEntry(s.engine, in)
	if err != nil {
		return models.CatalogEntry{}, err
	}

	cat.Set(in.Code, entry)
	if err := s.save(cat); err != nil {
		return models.CatalogEntry{}, err
	}
	return entry, nil
}

// FieldChanges is a partial update of one catalog entry. Nil fields are left
// untouched. Changing any pricing input (dealer price, consumer price or
// weight) recomputes every derived field.
type FieldChanges struct {
	Name          *string
	Espanol       *string
	QtyForBag     *int
	DealerPrice   *decimal.Decimal
	ConsumerPrice *decimal.Decimal
	Weight        *float64
}

func (fc FieldChanges) touchesPricing() bool {
	return fc.DealerPrice != nil || fc.ConsumerPrice != nil || fc.Weight != nil
}

// UpdateEntry merges changes into an existing entry. Fails with NotFound
// when the code is absent.
func (s *Store) UpdateEntry(code string, changes FieldChanges) (models.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.load()
	if err != nil {
		return models.CatalogEntry{}, err
	}
	entry, ok := cat.Get(code)
	if !ok {
		return models.CatalogEntry{}, storeerror.NewNotFound(RecordKind, code)
	}

	if changes.Name != nil {
		entry.Name = *changes.Name
	}
	if changes.Espanol != nil {
		entry.Espanol = changes.Espanol
	}
	if changes.QtyForBag != nil && *changes.QtyForBag >= 1 {
		entry.QtyForBag = *changes.QtyForBag
	}
	if changes.DealerPrice != nil {
		entry.DealerPrice = *changes.DealerPrice
	}
	if changes.ConsumerPrice != nil {
		entry.ConsumerPrice = changes.ConsumerPrice
	}
	if changes.Weight != nil {
		entry.Weight = changes.Weight
	}

	if changes.touchesPricing() {
		derived, err := deriveEntry(s.engine, EntryInput{
			Code:          code,
			Name:          entry.Name,
			Espanol:       entry.Espanol,
			QtyForBag:     entry.QtyForBag,
			DealerPrice:   entry.DealerPrice,
			ConsumerPrice: entry.ConsumerPrice,
			Weight:        entry.Weight,
		})
		if err != nil {
			return models.CatalogEntry{}, err
		}
		entry = derived
	}

	cat.Set(code, entry)
	if err := s.save(cat); err != nil {
		return models.CatalogEntry{}, err
	}
	return entry, nil
}

// Remove deletes an entry. Fails with NotFound when the code is absent.
func (s *Store) Remove(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.load()
	if err != nil {
		return err
	}
	if !cat.Delete(code) {
		return storeerror.NewNotFound(RecordKind, code)
	}
	return s.save(cat)
}

// SearchResult pairs a code with its entry, in catalog iteration order.
type SearchResult struct {
	Code  string
	Entry models.CatalogEntry
}

// Search returns all entries whose code, name or localized name contains the
// query, case-insensitively. An empty query matches everything. Results
// follow catalog iteration order.
func (s *Store) Search(query string) ([]SearchResult, error) {
	cat, err := s.Load()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []SearchResult
	for _, code := range cat.Codes() {
		entry, _ := cat.Get(code)
		if query == "" ||
			strings.Contains(strings.ToLower(code), query) ||
			strings.Contains(strings.ToLower(entry.Name), query) ||
			(entry.Espanol != nil && strings.Contains(strings.ToLower(*entry.Espanol), query)) {
			results = append(results, SearchResult{Code: code, Entry: entry})
		}
	}
	return results, nil
}

// Statistics summarizes the stored catalog.
type Statistics struct {
	Count          int
	WithEspanol    int
	MinDealerPrice decimal.Decimal
	AvgDealerPrice decimal.Decimal
	MaxDealerPrice decimal.Decimal
}

// Statistics computes aggregate numbers over the stored catalog.
func (s *Store) Statistics() (Statistics, error) {
	cat, err := s.Load()
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{Count: cat.Len()}
	if stats.Count == 0 {
		return stats, nil
	}

	var sum decimal.Decimal
	first := true
	for _, code := range cat.Codes() {
		entry, _ := cat.Get(code)
		if entry.Espanol != nil && *entry.Espanol != "" {
			stats.WithEspanol++
		}
		sum = sum.Add(entry.DealerPrice)
		if first {
			stats.MinDealerPrice = entry.DealerPrice
			stats.MaxDealerPrice = entry.DealerPrice
			first = false
			continue
		}
		if entry.DealerPrice.LessThan(stats.MinDealerPrice) {
			stats.MinDealerPrice = entry.DealerPrice
		}
		if entry.DealerPrice.GreaterThan(stats.MaxDealerPrice) {
			stats.MaxDealerPrice = entry.DealerPrice
		}
	}
	stats.AvgDealerPrice = sum.Div(decimal.NewFromInt(int64(stats.Count)))
	return stats, nil
}
