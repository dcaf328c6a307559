package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tatangdev/Mern-Invoice-App/internal/auth"
	"github.com/tatangdev/Mern-Invoice-App/internal/httpx"
	"github.com/tatangdev/Mern-Invoice-App/internal/models"
	"github.com/tatangdev/Mern-Invoice-App/internal/services"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

func (h *InvoiceHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type invoiceItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

func toItemParams(items []invoiceItemRequest) []services.InvoiceItemParams {
	params := make([]services.InvoiceItemParams, 0, len(items))
	for _, it := range items {
		params = append(params, services.InvoiceItemParams{ProductID: it.ProductID, Qty: it.Qty})
	}
	return params
}

func (h *InvoiceHandler) list(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	invoices, err := h.invoices.List(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, "list invoices", err)
		return
	}
	httpx.Data(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	invoice, err := h.invoices.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, "get invoice", err)
		return
	}
	httpx.Data(w, http.StatusOK, invoice)
}

type createInvoiceRequest struct {
	Recipient string               `json:"recipient"`
	Number    string               `json:"number"`
	Items     []invoiceItemRequest `json:"items"`
	Tax       float64              `json:"tax"`
	Discount  float64              `json:"discount"`
	Status    models.Status        `json:"status"`
	IssueDate *time.Time           `json:"issueDate"`
	DueDate   *time.Time           `json:"dueDate"`
	Notes     string               `json:"notes"`
}

func (h *InvoiceHandler) create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	invoice, err := h.invoices.Create(r.Context(), ownerID, services.CreateInvoiceParams{
		Recipient: req.Recipient,
		Number:    req.Number,
		Items:     toItemParams(req.Items),
		Tax:       req.Tax,
		Discount:  req.Discount,
		Status:    req.Status,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(w, "create invoice", err)
		return
	}
	httpx.Data(w, http.StatusCreated, invoice)
}

// update decodes the body into raw fields first: for dueDate and notes the
// patch must distinguish "absent" from "explicitly cleared", which a plain
// pointer struct cannot express.
func (h *InvoiceHandler) update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	var params services.UpdateInvoiceParams
	fail := func() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
	}
	if msg, ok := raw["recipient"]; ok {
		if err := json.Unmarshal(msg, &params.Recipient); err != nil {
			fail()
			return
		}
	}
	if msg, ok := raw["number"]; ok {
		if err := json.Unmarshal(msg, &params.Number); err != nil {
			fail()
			return
		}
	}
	if msg, ok := raw["status"]; ok {
		if err := json.Unmarshal(msg, &params.Status); err != nil {
			fail()
			return
		}
	}
	if msg, ok := raw["issueDate"]; ok {
		if err := json.Unmarshal(msg, &params.IssueDate); err != nil {
			fail()
			return
		}
	}
	if msg, ok := raw["dueDate"]; ok {
		params.DueDateSet = true
		if err := json.Unmarshal(msg, &params.DueDate); err != nil {
			fail()
			return
		}
	}
	if msg, ok := raw["notes"]; ok {
		params.NotesSet = true
		if err := json.Unmarshal(msg, &params.Notes); err != nil {
			fail()
			return
		}
	}
	if msg, ok := raw["tax"]; ok {
		if err := json.Unmarshal(msg, &params.Tax); err != nil {
			fail()
			return
		}
	}
	if msg, ok := raw["discount"]; ok {
		if err := json.Unmarshal(msg, &params.Discount); err != nil {
			fail()
			return
		}
	}
	if msg, ok := raw["items"]; ok {
		var items []invoiceItemRequest
		if err := json.Unmarshal(msg, &items); err != nil {
			fail()
			return
		}
		params.Items = toItemParams(items)
	}

	invoice, err := h.invoices.Update(r.Context(), ownerID, chi.URLParam(r, "id"), params)
	if err != nil {
		respondServiceError(w, "update invoice", err)
		return
	}
	httpx.Data(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	if err := h.invoices.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, "delete invoice", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Invoice deleted successfully"})
}
