package billing_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cartera-pro/internal/domain"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia.
//
// Los getters devuelven copias: mutar la entidad retornada no toca el "almacén"
// hasta llamar Update, igual que con la base de datos real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	if c.ExternalID != "" {
		for _, other := range r.customers {
			if other.ExternalID == c.ExternalID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByExternalID(externalID string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.ExternalID == externalID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) List(search string, limit, offset int) ([]*repository.CustomerWithTotals, error) {
	var list []*repository.CustomerWithTotals
	for _, c := range r.customers {
		list = append(list, &repository.CustomerWithTotals{
			Customer:          *c,
			TotalAmount:       decimal.Zero,
			OutstandingAmount: decimal.Zero,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Customer.CreatedAt.After(list[j].Customer.CreatedAt)
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeCustomerRepo) Count(search string) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return fmt.Errorf("cliente inexistente: %s", c.ID)
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Delete(id string) error {
	delete(r.customers, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	// onCreate se invoca antes del insert; permite simular una violación de
	// unicidad por una escritura concurrente.
	onCreate func(*entity.Invoice) error
	// overdueOverride, si no es nil, reemplaza el resultado de
	// ListOverduePending (simula una lista de candidatas obsoleta).
	overdueOverride []*entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if r.onCreate != nil {
		if err := r.onCreate(inv); err != nil {
			return err
		}
	}
	if inv.ExternalID != "" {
		for _, other := range r.invoices {
			if other.CustomerID == inv.CustomerID && other.ExternalID == inv.ExternalID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetByCustomerAndExternalID(customerID, externalID string) (*entity.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.CustomerID == customerID && inv.ExternalID == externalID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	list := r.filtered(filter)
	if filter.Offset >= len(list) {
		return nil, nil
	}
	list = list[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (r *fakeInvoiceRepo) Count(filter repository.InvoiceFilter) (int64, error) {
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeInvoiceRepo) filtered(filter repository.InvoiceFilter) []*entity.Invoice {
	var list []*entity.Invoice
	for _, inv := range r.invoices {
		if filter.CustomerID != "" && inv.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		cp := *inv
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return fmt.Errorf("factura inexistente: %s", inv.ID)
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) ListByCustomer(customerID string) ([]*entity.Invoice, error) {
	return r.filtered(repository.InvoiceFilter{CustomerID: customerID}), nil
}

func (r *fakeInvoiceRepo) ListOverduePending(cutoff time.Time) ([]*entity.Invoice, error) {
	if r.overdueOverride != nil {
		return r.overdueOverride, nil
	}
	var list []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.Status == entity.StatusPending && inv.DueDate.Before(cutoff) {
			cp := *inv
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeInvoiceRepo) MarkPastDueIfPending(id string, now time.Time) (bool, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.Status != entity.StatusPending {
		return false, nil
	}
	inv.Status = entity.StatusPastDue
	inv.UpdatedAt = now
	return true, nil
}

// ──────────────────────────────────────────────────────────────────────────────

type fakeAuditRepo struct {
	entries []*entity.InvoiceAuditLog
	failErr error
	nextID  int
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (r *fakeAuditRepo) Create(log *entity.InvoiceAuditLog) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.nextID++
	cp := *log
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("audit-%d", r.nextID)
	}
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeAuditRepo) CreateBatch(logs []*entity.InvoiceAuditLog) error {
	for _, l := range logs {
		if err := r.Create(l); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAuditRepo) ListByInvoice(invoiceID string) ([]*entity.InvoiceAuditLog, error) {
	var list []*entity.InvoiceAuditLog
	for _, l := range r.entries {
		if l.InvoiceID == invoiceID {
			cp := *l
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list, nil
}

// byField devuelve las entradas de un campo concreto, en orden de inserción.
func (r *fakeAuditRepo) byField(field string) []*entity.InvoiceAuditLog {
	var list []*entity.InvoiceAuditLog
	for _, l := range r.entries {
		if l.FieldChanged == field {
			list = append(list, l)
		}
	}
	return list
}

// ──────────────────────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta el callback directamente sobre los fakes. No simula
// rollback: los tests que lo usan verifican efectos, no atomicidad.
type fakeTxRunner struct {
	invoiceRepo repository.InvoiceRepository
	auditRepo   repository.AuditLogRepository
}

func (tr *fakeTxRunner) RunBilling(_ context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return fn(tr.invoiceRepo, tr.auditRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Builders
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestCustomer(id, externalID string) *entity.Customer {
	now := time.Now()
	return &entity.Customer{
		ID:         id,
		Name:       "ACME S.A.S.",
		Email:      "facturacion@acme.co",
		ExternalID: externalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func newTestInvoice(id, customerID, amount, status string, dueDate time.Time) *entity.Invoice {
	now := time.Now()
	return &entity.Invoice{
		ID:         id,
		CustomerID: customerID,
		Amount:     dec(amount),
		Status:     status,
		DueDate:    dueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
