// Package sales orchestrates the customer store, the catalog and the ledger:
// it validates and records sale/payment events and computes balances and
// aggregate statistics from full ledger scans.
package sales

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mecatech/parts-ledger/internal/catalog"
	"mecatech/parts-ledger/internal/customers"
	"mecatech/parts-ledger/internal/ledger"
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

// Manager validates and records transactions. Each call is a single atomic
// step: either the full ledger entry is appended or nothing is written.
type Manager struct {
	customers *customers.Store
	catalog   *catalog.Store
	ledger    *ledger.Store
	now       func() time.Time
}

// NewManager wires a transaction manager over the three stores.
func NewManager(cust *customers.Store, cat *catalog.Store, led *ledger.Store) *Manager {
	return &Manager{
		customers: cust,
		catalog:   cat,
		ledger:    led,
		now:       time.Now,
	}
}

// SetClock overrides the wall clock used to stamp entries. Intended for
// tests.
func (m *Manager) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// Record validates and appends one ledger entry.
//
//   - The customer must exist, else a customer NotFoundError.
//   - purchase and trade-in require an existing part, else a part
//     NotFoundError. A purchase without an explicit amount takes the
//     catalog sell price; a trade-in records amount 0 regardless of any
//     supplied value.
//   - payment takes no part and requires a positive explicit amount, else
//     InvalidAmountError.
//
// Validation failures never write anything.
func (m *Manager) Record(customerName string, kind models.OperationKind, partCode string, amount *decimal.Decimal, note string) (models.LedgerEntry, error) {
	if _, err := models.ParseOperationKind(string(kind)); err != nil {
		return models.LedgerEntry{}, &storeerror.InvalidInputError{
			Field: "operation_kind",
			Value: string(kind),
		}
	}

	customer, ok, err := m.customers.Find(customerName)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if !ok {
		return models.LedgerEntry{}, storeerror.NewNotFound(customers.RecordKind, customerName)
	}

	entry := models.LedgerEntry{
		Customer: customer.Name,
		Kind:     kind,
		Note:     note,
	}

	switch kind {
	case models.OperationPurchase, models.OperationTradeIn:
		part, found, err := m.catalog.Get(partCode)
		if err != nil {
			return models.LedgerEntry{}, err
		}
		if partCode == "" || !found {
			return models.LedgerEntry{}, storeerror.NewNotFound(catalog.RecordKind, partCode)
		}
		entry.PartCode = partCode
		entry.PartName = part.DisplayName()

		if kind == models.OperationTradeIn {
			// A trade-in never affects the balance; any supplied
			// amount is discarded.
			entry.Amount = decimal.Zero
			break
		}
		if amount == nil {
			entry.Amount = part.SellPrice
			break
		}
		if !amount.IsPositive() {
			return models.LedgerEntry{}, &storeerror.InvalidAmountError{
				Reason: "purchase amount must be positive",
			}
		}
		entry.Amount = *amount

	case models.OperationPayment:
		if amount == nil || !amount.IsPositive() {
			return models.LedgerEntry{}, &storeerror.InvalidAmountError{
				Reason: "payment requires a positive amount",
			}
		}
		entry.Amount = *amount
	}

	entry.Date = m.now().Format(models.DateTimeLayout)

	if err := m.ledger.Append(entry); err != nil {
		return models.LedgerEntry{}, err
	}

	log.WithFields(logrus.Fields{
		logging.FieldCustomer: entry.Customer,
		logging.FieldKind:     string(entry.Kind),
		logging.FieldCode:     entry.PartCode,
	}).Debug("Transaction recorded")
	return entry, nil
}

// Balance is a customer's position derived from the ledger: purchases
// increase it, payments decrease it, trade-ins are neutral. Never persisted;
// always recomputed from a full scan.
type Balance struct {
	Purchases decimal.Decimal
	Payments  decimal.Decimal
	Balance   decimal.Decimal
}

// Balance folds every ledger entry of one customer.
func (m *Manager) Balance(customerName string) (Balance, error) {
	entries, err := m.ledger.ForCustomer(customerName)
	if err != nil {
		return Balance{}, err
	}
	return fold(entries), nil
}

func fold(entries []models.LedgerEntry) Balance {
	var b Balance
	for _, entry := range entries {
		switch entry.Kind {
		case models.OperationPurchase:
			b.Purchases = b.Purchases.Add(entry.Amount)
		case models.OperationPayment:
			b.Payments = b.Payments.Add(entry.Amount)
		}
	}
	b.Balance = b.Purchases.Sub(b.Payments)
	return b
}

// AllBalances returns the balance of every customer appearing in the
// ledger, keyed by the stored customer name.
func (m *Manager) AllBalances() (map[string]Balance, error) {
	entries, err := m.ledger.All()
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.LedgerEntry)
	for _, entry := range entries {
		grouped[entry.Customer] = append(grouped[entry.Customer], entry)
	}

	balances := make(map[string]Balance, len(grouped))
	for name, group := range grouped {
		balances[name] = fold(group)
	}
	return balances, nil
}

// ListTransactions returns ledger entries matching the query, in storage
// order. All set filters are conjunctive.
func (m *Manager) ListTransactions(q ledger.Query) ([]models.LedgerEntry, error) {
	return m.ledger.Filter(q)
}

// Statistics aggregates the whole ledger.
type Statistics struct {
	Total             int
	CountByKind       map[models.OperationKind]int
	TotalPurchases    decimal.Decimal
	TotalPayments     decimal.Decimal
	NetBalance        decimal.Decimal
	DistinctCustomers int
	DistinctParts     int
}

// Statistics computes totals over the full ledger.
func (m *Manager) Statistics() (Statistics, error) {
	entries, err := m.ledger.All()
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		Total:       len(entries),
		CountByKind: make(map[models.OperationKind]int),
	}

	customersSeen := make(map[string]struct{})
	partsSeen := make(map[string]struct{})
	for _, entry := range entries {
		stats.CountByKind[entry.Kind]++
		customersSeen[models.NormalizeName(entry.Customer)] = struct{}{}
		if entry.PartCode != "" {
			partsSeen[entry.PartCode] = struct{}{}
		}
		switch entry.Kind {
		case models.OperationPurchase:
			stats.TotalPurchases = stats.TotalPurchases.Add(entry.Amount)
		case models.OperationPayment:
			stats.TotalPayments = stats.TotalPayments.Add(entry.Amount)
		}
	}

	stats.NetBalance = stats.TotalPurchases.Sub(stats.TotalPayments)
	stats.DistinctCustomers = len(customersSeen)
	stats.DistinctParts = len(partsSeen)
	return stats, nil
}
