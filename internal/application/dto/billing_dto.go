package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id.
// name y email son obligatorios (mismo contrato que la creación).
type UpdateCustomerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	ExternalID string    `json:"external_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CustomerListItem cliente con acumulados de facturas para el listado.
type CustomerListItem struct {
	CustomerResponse
	InvoiceCount      int64           `json:"invoice_count"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"` // PENDING + PAST_DUE
}

// CustomerListResponse respuesta de GET /api/customers.
type CustomerListResponse struct {
	Customers  []CustomerListItem `json:"customers"`
	Pagination Pagination         `json:"pagination"`
}

// CustomerDetailResponse cliente con sus facturas (GET /api/customers/:id).
type CustomerDetailResponse struct {
	CustomerResponse
	Invoices []InvoiceResponse `json:"invoices"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// amount y due_date son obligatorios; status opcional (default PENDING).
// El monto acepta número o string JSON; due_date acepta RFC 3339 o YYYY-MM-DD.
type CreateInvoiceRequest struct {
	CustomerID  string          `json:"customer_id"`
	ExternalID  string          `json:"external_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status,omitempty"`
	DueDate     string          `json:"due_date"`
	Description string          `json:"description,omitempty"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id.
// Los punteros distinguen "campo ausente" (nil = sin cambio solicitado) de
// "campo enviado", incluido el string vacío.
type UpdateInvoiceRequest struct {
	ExternalID  *string          `json:"external_id,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Status      *string          `json:"status,omitempty"`
	DueDate     *string          `json:"due_date,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// InvoiceResponse factura en respuestas.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	ExternalID    string          `json:"external_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	DisplayStatus string          `json:"display_status"`
	DueDate       time.Time       `json:"due_date"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceCustomerSummary resumen del cliente embebido en el detalle de factura.
type InvoiceCustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InvoiceDetailResponse factura con cliente y auditoría (GET /api/invoices/:id).
type InvoiceDetailResponse struct {
	InvoiceResponse
	Customer  InvoiceCustomerSummary `json:"customer"`
	AuditLogs []AuditLogResponse     `json:"audit_logs"`
}

// InvoiceListResponse respuesta de GET /api/invoices.
type InvoiceListResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	Pagination Pagination        `json:"pagination"`
}

// AuditLogResponse entrada del historial de cambios.
type AuditLogResponse struct {
	ID            string    `json:"id"`
	InvoiceID     string    `json:"invoice_id"`
	FieldChanged  string    `json:"field_changed"`
	PreviousValue string    `json:"previous_value"`
	NewValue      string    `json:"new_value"`
	Timestamp     time.Time `json:"timestamp"`
}

// ExternalInvoiceRequest body para POST /api/external/invoices (ingesta del
// partner). Los cuatro primeros campos son obligatorios.
type ExternalInvoiceRequest struct {
	ExternalCustomerID string          `json:"externalCustomerId"`
	ExternalInvoiceID  string          `json:"externalInvoiceId"`
	Amount             decimal.Decimal `json:"amount"`
	DueDate            string          `json:"dueDate"`
	Description        string          `json:"description,omitempty"`
}

// ExternalInvoiceResponse respuesta de la ingesta externa.
type ExternalInvoiceResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Action  string                 `json:"action"` // "created" | "updated"
	Invoice ExternalInvoiceSummary `json:"invoice"`
}

// ExternalInvoiceSummary vista reducida de la factura para el partner.
type ExternalInvoiceSummary struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"externalId"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	DueDate    time.Time       `json:"dueDate"`
}

// SweepResponse respuesta de GET /api/cron/check-overdue-invoices.
type SweepResponse struct {
	Success         bool `json:"success"`
	UpdatedInvoices int  `json:"updated_invoices"`
}
