// Package customers manages the customer record store: a single JSON file
// holding a {"clientes": [...]} collection, rewritten wholesale on every
// mutation.
package customers

import (
	"encoding/json"
	"strings"
	"sync"

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

// RecordKind is the NotFoundError kind for customer lookups.
const RecordKind = "customer"

// document is the persisted shape of the store file.
type document struct {
	Clientes []models.Customer `json:"clientes"`
}

// Store persists customers in one JSON file. Mutations are
// load-modify-rewrite under the store mutex, with an atomic replace on disk.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a customer store over the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() ([]models.Customer, error) {
	if !fileutils.FileExists(s.path) {
		return nil, nil
	}

	data, err := fileutils.ReadFile(s.path)
	if err != nil {
		return nil, storeerror.NewIO("read", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, storeerror.NewIO("decode", s.path, err)
	}
	return doc.Clientes, nil
}

func (s *Store) save(customers []models.Customer) error {
	doc := document{Clientes: customers}
	if doc.Clientes == nil {
		doc.Clientes = []models.Customer{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return storeerror.NewIO("encode", s.path, err)
	}
	data = append(data, '\n')

	if err := fileutils.WriteFileAtomic(s.path, data, 0600); err != nil {
		return storeerror.NewIO("write", s.path, err)
	}
	return nil
}

func indexOf(customers []models.Customer, name string) int {
	normalized := models.NormalizeName(name)
	for i, c := range customers {
		if models.NormalizeName(c.Name) == normalized {
			return i
		}
	}
	return -1
}

// Add creates a new customer. An empty credential gets the default value.
// Fails with DuplicateKey when the normalized name already exists.
func (s *Store) Add(name, credential string, extras map[string]string) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.load()
	if err != nil {
		return models.Customer{}, err
	}
	if indexOf(customers, name) >= 0 {
		return models.Customer{}, storeerror.NewDuplicateKey(RecordKind, name)
	}

	if credential == "" {
		credential = models.DefaultCredential
	}
	customer := models.Customer{Name: name, Credential: credential}
	for k, v := range extras {
		customer.SetExtra(k, v)
	}

	customers = append(customers, customer)
	if err := s.save(customers); err != nil {
		return models.Customer{}, err
	}

	log.WithField(logging.FieldCustomer, name).Debug("Customer added")
	return customer, nil
}

// Remove deletes a customer. Fails with NotFound when absent.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.load()
	if err != nil {
		return err
	}
	idx := indexOf(customers, name)
	if idx < 0 {
		return storeerror.NewNotFound(RecordKind, name)
	}

	customers = append(customers[:idx], customers[idx+1:]...)
	return s.save(customers)
}

// Find looks a customer up by name, case-insensitively. A miss is signalled
// by the boolean, not by an error: it is an expected, common case.
func (s *Store) Find(name string) (models.Customer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.load()
	if err != nil {
		return models.Customer{}, false, err
	}
	idx := indexOf(customers, name)
	if idx < 0 {
		return models.Customer{}, false, nil
	}
	return customers[idx], true, nil
}

// Update merges the supplied fields into an existing customer. The keys
// "nombre" and "password" address the required fields; anything else lands
// in the extras bag. Fails with NotFound when absent.
func (s *Store) Update(name string, changes map[string]string) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.load()
	if err != nil {
		return models.Customer{}, err
	}
	idx := indexOf(customers, name)
	if idx < 0 {
		return models.Customer{}, storeerror.NewNotFound(RecordKind, name)
	}

	customer := customers[idx]
	for key, value := range changes {
		switch key {
		case "nombre":
			if value == "" {
				continue
			}
			// A rename must not collide with another record's
			// normalized name.
			if existing := indexOf(customers, value); existing >= 0 && existing != idx {
				return models.Customer{}, storeerror.NewDuplicateKey(RecordKind, value)
			}
			customer.Name = value
		case "password":
			if value != "" {
				customer.Credential = value
			}
		default:
			customer.SetExtra(key, value)
		}
	}

	customers[idx] = customer
	if err := s.save(customers); err != nil {
		return models.Customer{}, err
	}
	return customer, nil
}

// ListAll returns every customer in persisted order.
func (s *Store) ListAll() ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SearchByText returns customers whose name contains the substring,
// case-insensitively, in persisted order.
func (s *Store) SearchByText(substring string) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.load()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(substring)
	var matches []models.Customer
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// VerifyCredential checks a customer's credential. It returns false both for
// an unknown name and for a mismatch, without revealing which occurred.
func (s *Store) VerifyCredential(name, credential string) (bool, error) {
	customer, ok, err := s.Find(name)
	if err != nil {
		return false, err
	}
	return ok && customer.Credential == credential, nil
}

// Statistics summarizes the customer store.
type Statistics struct {
	Total       int
	WithEmail   int
	WithPhone   int
	WithAddress int
}

// Statistics counts customers and the populated common extras.
func (s *Store) Statistics() (Statistics, error) {
	customers, err := s.ListAll()
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{Total: len(customers)}
	for _, c := range customers {
		if c.Extra("email") != "" {
			stats.WithEmail++
		}
		if c.Extra("telefono") != "" {
			stats.WithPhone++
		}
		if c.Extra("direccion") != "" {
			stats.WithAddress++
		}
	}
	return stats, nil
}
