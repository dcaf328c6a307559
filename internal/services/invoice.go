package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tatangdev/Mern-Invoice-App/internal/db"
	"github.com/tatangdev/Mern-Invoice-App/internal/models"
	"github.com/tatangdev/Mern-Invoice-App/internal/validation"
)

// InvoiceService builds and mutates invoices. Line items are resolved
// against the catalog and frozen as snapshots: first every product reference
// is resolved (aborting on the first miss), then immutable item copies are
// materialized, then the aggregates are computed. Later catalog changes
// never touch an existing invoice.
type InvoiceService struct {
	db      *gorm.DB
	catalog *CatalogService
}

func NewInvoiceService(conn *gorm.DB, catalog *CatalogService) *InvoiceService {
	return &InvoiceService{db: conn, catalog: catalog}
}

type InvoiceItemParams struct {
	ProductID string
	Qty       int
}

type CreateInvoiceParams struct {
	Recipient string
	Number    string
	Items     []InvoiceItemParams
	Tax       float64
	Discount  float64
	Status    models.Status
	IssueDate *time.Time
	DueDate   *time.Time
	Notes     string
}

// UpdateInvoiceParams is a partial patch. Nil pointers mean "not provided".
// DueDate and Notes support explicit clearing, so their presence is tracked
// separately from their value. Tax and Discount only participate when Items
// are replaced, mirroring create-time normalization.
type UpdateInvoiceParams struct {
	Recipient  *string
	Number     *string
	Status     *models.Status
	IssueDate  *time.Time
	DueDate    *time.Time
	DueDateSet bool
	Notes      *string
	NotesSet   bool
	Items      []InvoiceItemParams
	Tax        *float64
	Discount   *float64
}

// List returns all invoices owned by ownerID, newest first, items included.
func (s *InvoiceService) List(ctx context.Context, ownerID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", ownerID).
		Order("created_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// Get returns an owned invoice; absence and foreign ownership both collapse
// to not found.
func (s *InvoiceService) Get(ctx context.Context, ownerID, invoiceID string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", invoiceID, ownerID).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("invoice")
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &invoice, nil
}

// Create validates the request, resolves and freezes every line item,
// computes the totals, and persists the invoice atomically. No partial
// invoice is ever written: any item failure aborts the whole operation.
func (s *InvoiceService) Create(ctx context.Context, ownerID string, p CreateInvoiceParams) (*models.Invoice, error) {
	p.Recipient = strings.TrimSpace(p.Recipient)
	p.Number = strings.TrimSpace(p.Number)

	v := validation.Violations{}
	validation.Required("recipient", p.Recipient, v)
	validation.MaxLen("recipient", p.Recipient, 200, v)
	validation.Required("number", p.Number, v)
	if len(p.Items) == 0 {
		v["items"] = "required"
	}
	validation.NonNegative("tax", p.Tax, v)
	validation.NonNegative("discount", p.Discount, v)
	validation.MaxLen("notes", p.Notes, 1000, v)
	if p.Status != "" && !p.Status.Valid() {
		v["status"] = "invalid_status"
	}
	if !v.Empty() {
		return nil, invalid(v)
	}

	items, subtotal, err := s.resolveItems(ctx, p.Items)
	if err != nil {
		return nil, err
	}

	status := p.Status
	if status == "" {
		status = models.StatusDraft
	}
	issueDate := time.Now()
	if p.IssueDate != nil {
		issueDate = *p.IssueDate
	}

	invoice := models.Invoice{
		UserID:    ownerID,
		Recipient: p.Recipient,
		Number:    p.Number,
		Items:     items,
		Subtotal:  subtotal,
		Tax:       p.Tax,
		Discount:  p.Discount,
		Total:     subtotal + p.Tax - p.Discount,
		Status:    status,
		IssueDate: issueDate,
		DueDate:   p.DueDate,
		Notes:     p.Notes,
	}

	if err := s.checkNumberAvailable(ctx, p.Number, ""); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&invoice).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return nil, conflictf("invoice number %q already exists", p.Number)
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return &invoice, nil
}

// Update patches an owned invoice. Scalar fields change only when present in
// the patch. A non-empty Items slice replaces the entire item set and
// recomputes all derived totals exactly like Create; an empty-but-present
// slice is a no-op for items, so an invoice can never end up with zero items.
func (s *InvoiceService) Update(ctx context.Context, ownerID, invoiceID string, p UpdateInvoiceParams) (*models.Invoice, error) {
	invoice, err := s.Get(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	v := validation.Violations{}
	if p.Recipient != nil && *p.Recipient != "" {
		validation.MaxLen("recipient", *p.Recipient, 200, v)
	}
	if p.Status != nil && *p.Status != "" && !p.Status.Valid() {
		v["status"] = "invalid_status"
	}
	if p.NotesSet && p.Notes != nil {
		validation.MaxLen("notes", *p.Notes, 1000, v)
	}
	if p.Tax != nil {
		validation.NonNegative("tax", *p.Tax, v)
	}
	if p.Discount != nil {
		validation.NonNegative("discount", *p.Discount, v)
	}
	if !v.Empty() {
		return nil, invalid(v)
	}

	if p.Recipient != nil && *p.Recipient != "" {
		invoice.Recipient = strings.TrimSpace(*p.Recipient)
	}
	if p.Number != nil && *p.Number != "" {
		number := strings.TrimSpace(*p.Number)
		if number != invoice.Number {
			if err := s.checkNumberAvailable(ctx, number, invoice.ID); err != nil {
				return nil, err
			}
			invoice.Number = number
		}
	}
	if p.Status != nil && *p.Status != "" {
		invoice.Status = *p.Status
	}
	if p.IssueDate != nil {
		invoice.IssueDate = *p.IssueDate
	}
	if p.DueDateSet {
		invoice.DueDate = p.DueDate
	}
	if p.NotesSet {
		if p.Notes != nil {
			invoice.Notes = *p.Notes
		} else {
			invoice.Notes = ""
		}
	}

	replaceItems := len(p.Items) > 0
	if replaceItems {
		items, subtotal, err := s.resolveItems(ctx, p.Items)
		if err != nil {
			return nil, err
		}
		tax, discount := 0.0, 0.0
		if p.Tax != nil {
			tax = *p.Tax
		}
		if p.Discount != nil {
			discount = *p.Discount
		}
		invoice.Items = items
		invoice.Subtotal = subtotal
		invoice.Tax = tax
		invoice.Discount = discount
		invoice.Total = subtotal + tax - discount
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceItems {
			if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(invoice).Error
	})
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, conflictf("invoice number %q already exists", invoice.Number)
		}
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return invoice, nil
}

// Delete removes an owned invoice together with its items.
func (s *InvoiceService) Delete(ctx context.Context, ownerID, invoiceID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", invoiceID, ownerID).Delete(&models.Invoice{})
		if res.Error != nil {
			return fmt.Errorf("delete invoice: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFoundf("invoice")
		}
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		return nil
	})
}

// resolveItems validates the requested items, resolves each product by id
// (not owner-scoped for this snapshot step), and freezes the snapshots.
// The first invalid item or missing product aborts the whole set.
func (s *InvoiceService) resolveItems(ctx context.Context, requested []InvoiceItemParams) ([]models.InvoiceItem, float64, error) {
	items := make([]models.InvoiceItem, 0, len(requested))
	var subtotal float64
	for _, req := range requested {
		v := validation.Violations{}
		if req.ProductID == "" {
			v["items.productId"] = "required"
		}
		validation.MinInt("items.qty", req.Qty, 1, v)
		if !v.Empty() {
			return nil, 0, invalid(v)
		}

		product, err := s.catalog.Resolve(ctx, req.ProductID)
		if err != nil {
			return nil, 0, err
		}

		lineTotal := product.Price * float64(req.Qty)
		subtotal += lineTotal
		items = append(items, models.InvoiceItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductDesc: product.Desc,
			Price:       product.Price,
			Qty:         req.Qty,
			Total:       lineTotal,
		})
	}
	return items, subtotal, nil
}

// checkNumberAvailable is the optimistic pre-check for the global invoice
// number uniqueness; the unique index remains the actual safety mechanism.
func (s *InvoiceService) checkNumberAvailable(ctx context.Context, number, excludeID string) error {
	q := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("number = ?", number)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check invoice number: %w", err)
	}
	if count > 0 {
		return conflictf("invoice number %q already exists", number)
	}
	return nil
}
