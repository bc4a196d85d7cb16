package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cartera-pro/internal/application/billing"
	"github.com/tu-usuario/cartera-pro/internal/application/dto"
	"github.com/tu-usuario/cartera-pro/internal/domain"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
)

func buildCustomerUC() (*billing.CustomerUseCase, *fakeCustomerRepo, *fakeInvoiceRepo) {
	customers := newFakeCustomerRepo()
	invoices := newFakeInvoiceRepo()
	return billing.NewCustomerUseCase(customers, invoices), customers, invoices
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CustomerUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerCreate_OK(t *testing.T) {
	uc, customers, _ := buildCustomerUC()

	resp, err := uc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:       "Panadería El Trigal",
		Email:      "pagos@eltrigal.co",
		ExternalID: "EXT-CUST-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Panadería El Trigal", resp.Name)

	stored, err := customers.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "EXT-CUST-1", stored.ExternalID)
}

func TestCustomerCreate_SinNombreOEmail_RetornaError(t *testing.T) {
	uc, _, _ := buildCustomerUC()

	_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Email: "x@y.co"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "Sin Email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerCreate_ExternalIDRepetido_RetornaDuplicate(t *testing.T) {
	uc, customers, _ := buildCustomerUC()
	require.NoError(t, customers.Create(newTestCustomer("cust-1", "EXT-CUST-1")))

	_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:       "Otro Negocio",
		Email:      "otro@negocio.co",
		ExternalID: "EXT-CUST-1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "external_id es único a nivel global")
}

func TestCustomerGet_IncluyeFacturas(t *testing.T) {
	uc, customers, invoices := buildCustomerUC()
	require.NoError(t, customers.Create(newTestCustomer("cust-1", "")))
	require.NoError(t, invoices.Create(newTestInvoice("inv-1", "cust-1", "100", entity.StatusPending, time.Now())))
	require.NoError(t, invoices.Create(newTestInvoice("inv-2", "otro-cliente", "999", entity.StatusPending, time.Now())))

	detail, err := uc.Get(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Len(t, detail.Invoices, 1, "solo las facturas del cliente")
	assert.Equal(t, "inv-1", detail.Invoices[0].ID)
}

func TestCustomerGet_NoExiste_RetornaNotFound(t *testing.T) {
	uc, _, _ := buildCustomerUC()
	_, err := uc.Get(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerUpdate_ExternalIDEnConflicto_RetornaDuplicate(t *testing.T) {
	uc, customers, _ := buildCustomerUC()
	require.NoError(t, customers.Create(newTestCustomer("cust-1", "EXT-A")))
	require.NoError(t, customers.Create(newTestCustomer("cust-2", "EXT-B")))

	_, err := uc.Update(context.Background(), "cust-2", dto.UpdateCustomerRequest{
		Name:       "ACME S.A.S.",
		Email:      "facturacion@acme.co",
		ExternalID: "EXT-A",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCustomerUpdate_MismoExternalID_NoEsConflicto(t *testing.T) {
	uc, customers, _ := buildCustomerUC()
	require.NoError(t, customers.Create(newTestCustomer("cust-1", "EXT-A")))

	resp, err := uc.Update(context.Background(), "cust-1", dto.UpdateCustomerRequest{
		Name:       "ACME Renombrada",
		Email:      "facturacion@acme.co",
		ExternalID: "EXT-A",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME Renombrada", resp.Name)
}

func TestCustomerDelete_NoExiste_RetornaNotFound(t *testing.T) {
	uc, _, _ := buildCustomerUC()
	err := uc.Delete(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerList_PaginacionPorDefecto(t *testing.T) {
	uc, customers, _ := buildCustomerUC()
	require.NoError(t, customers.Create(newTestCustomer("cust-1", "")))

	resp, err := uc.List(context.Background(), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Customers, 1)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 10, resp.Pagination.Limit)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}
