package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/srikolla28/trackfina/internal/core"
	"github.com/srikolla28/trackfina/internal/export"
	"github.com/srikolla28/trackfina/internal/ledger"
	applog "github.com/srikolla28/trackfina/internal/log"
	"github.com/srikolla28/trackfina/internal/query"
)

const dateLayout = "2006-01-02"

type purchaseDTO struct {
	ID         string `json:"id"`
	Item       string `json:"item"`
	Category   string `json:"category"`
	PriceCents int64  `json:"priceCents"`
	Price      string `json:"price"`
	Type       string `json:"type"`
	Date       string `json:"date"`
}

type activityDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

type summaryDTO struct {
	IncomeCents   int64  `json:"incomeCents"`
	ExpensesCents int64  `json:"expensesCents"`
	BalanceCents  int64  `json:"balanceCents"`
	Income        string `json:"income"`
	Expenses      string `json:"expenses"`
	Balance       string `json:"balance"`
}

type viewDTO struct {
	Summary       summaryDTO    `json:"summary"`
	Items         []purchaseDTO `json:"items"`
	Page          int           `json:"page"`
	TotalPages    int           `json:"totalPages"`
	PageSize      int           `json:"pageSize"`
	SortKey       string        `json:"sortKey"`
	SortDirection string        `json:"sortDirection"`
	Search        string        `json:"search"`
	Category      string        `json:"category"`
	PaymentType   string        `json:"paymentType"`
	DateFrom      string        `json:"dateFrom,omitempty"`
	DateTo        string        `json:"dateTo,omitempty"`
}

func toPurchaseDTO(p core.Purchase) purchaseDTO {
	return purchaseDTO{
		ID:         p.ID,
		Item:       p.Item,
		Category:   string(p.Category),
		PriceCents: p.Price.Cents,
		Price:      core.FormatUSD(p.Price.Cents),
		Type:       string(p.Type),
		Date:       p.Date.UTC().Format(time.RFC3339),
	}
}

func (s *Server) buildView() viewDTO {
	view := s.ledger.Evaluate()
	state := s.ledger.State()

	items := make([]purchaseDTO, 0, len(view.Items))
	for _, p := range view.Items {
		items = append(items, toPurchaseDTO(p))
	}

	dto := viewDTO{
		Summary: summaryDTO{
			IncomeCents:   view.Summary.IncomeCents,
			ExpensesCents: view.Summary.ExpensesCents,
			BalanceCents:  view.Summary.BalanceCents,
			Income:        core.FormatUSD(view.Summary.IncomeCents),
			Expenses:      core.FormatUSD(view.Summary.ExpensesCents),
			Balance:       core.FormatUSD(view.Summary.BalanceCents),
		},
		Items:         items,
		Page:          view.Page,
		TotalPages:    view.TotalPages,
		PageSize:      state.PageSize,
		SortKey:       string(state.SortKey),
		SortDirection: string(state.SortDir),
		Search:        state.Criteria.Search,
		Category:      state.Criteria.Category,
		PaymentType:   state.Criteria.PaymentType,
	}
	if state.Criteria.DateFrom != nil {
		dto.DateFrom = state.Criteria.DateFrom.Format(dateLayout)
	}
	if state.Criteria.DateTo != nil {
		dto.DateTo = state.Criteria.DateTo.Format(dateLayout)
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleView returns the currently evaluated view without changing state.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.buildView())
}

// queryRequest carries partial query state changes. Only the fields present
// in the body are applied; date strings may be empty to clear a bound.
type queryRequest struct {
	Search      *string `json:"search"`
	Category    *string `json:"category"`
	PaymentType *string `json:"paymentType"`
	DateFrom    *string `json:"dateFrom"`
	DateTo      *string `json:"dateTo"`
	SortBy      *string `json:"sortBy"`
	Page        *int    `json:"page"`
	PageSize    *int    `json:"pageSize"`
}

// handleQuery applies the requested filter, sort and pagination changes and
// returns the re-evaluated view.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Search != nil {
		s.ledger.SetSearch(sanitizeInput(*req.Search))
	}
	if req.Category != nil {
		cat := strings.TrimSpace(*req.Category)
		if cat != query.All {
			if _, err := core.ParseCategory(cat); err != nil {
				writeError(w, http.StatusUnprocessableEntity, "unknown category")
				return
			}
		}
		s.ledger.SetCategory(cat)
	}
	if req.PaymentType != nil {
		pt := strings.TrimSpace(*req.PaymentType)
		if pt != query.All {
			if _, err := core.ParsePaymentType(pt); err != nil {
				writeError(w, http.StatusUnprocessableEntity, "unknown payment type")
				return
			}
		}
		s.ledger.SetPaymentType(pt)
	}
	if req.DateFrom != nil || req.DateTo != nil {
		state := s.ledger.State()
		from, to := state.Criteria.DateFrom, state.Criteria.DateTo
		if req.DateFrom != nil {
			if *req.DateFrom == "" {
				from = nil
			} else {
				t, err := parseDate(*req.DateFrom)
				if err != nil {
					writeError(w, http.StatusUnprocessableEntity, "invalid dateFrom, want YYYY-MM-DD")
					return
				}
				from = &t
			}
		}
		if req.DateTo != nil {
			if *req.DateTo == "" {
				to = nil
			} else {
				t, err := parseDate(*req.DateTo)
				if err != nil {
					writeError(w, http.StatusUnprocessableEntity, "invalid dateTo, want YYYY-MM-DD")
					return
				}
				to = &t
			}
		}
		s.ledger.SetDateRange(from, to)
	}
	if req.SortBy != nil {
		key := query.SortKey(strings.TrimSpace(*req.SortBy))
		if !key.IsValid() {
			writeError(w, http.StatusUnprocessableEntity, "unknown sort key")
			return
		}
		s.ledger.SortBy(key)
	}
	if req.PageSize != nil {
		s.ledger.SetPageSize(*req.PageSize)
	}
	if req.Page != nil {
		s.ledger.SetPage(*req.Page)
	}

	writeJSON(w, http.StatusOK, s.buildView())
}

// purchaseRequest is the mutation payload. Price is a decimal string like
// "12.50"; Date is optional and defaults to the current time.
type purchaseRequest struct {
	Item     string `json:"item"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Type     string `json:"type"`
	Date     string `json:"date"`
}

func (s *Server) decodePurchaseRequest(w http.ResponseWriter, r *http.Request) (ledger.PurchaseInput, bool) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return ledger.PurchaseInput{}, false
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Price))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid price")
		return ledger.PurchaseInput{}, false
	}
	cat, err := core.ParseCategory(strings.TrimSpace(req.Category))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown category")
		return ledger.PurchaseInput{}, false
	}
	pt, err := core.ParsePaymentType(strings.TrimSpace(req.Type))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown payment type")
		return ledger.PurchaseInput{}, false
	}

	in := ledger.PurchaseInput{
		Item:       sanitizeInput(req.Item),
		Category:   cat,
		PriceCents: cents,
		Type:       pt,
	}
	if strings.TrimSpace(req.Date) != "" {
		date, err := parseDate(strings.TrimSpace(req.Date))
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, want YYYY-MM-DD")
			return ledger.PurchaseInput{}, false
		}
		in.Date = date
	}
	return in, true
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())

	in, ok := s.decodePurchaseRequest(w, r)
	if !ok {
		return
	}

	p, err := s.ledger.AddPurchase(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateDerived()
	logger.InfoContext(r.Context(), "Purchase created",
		applog.FieldPurchaseID, p.ID,
		applog.FieldItem, p.Item,
		applog.FieldCategory, string(p.Category),
		applog.FieldPriceCents, p.Price.Cents)
	writeJSON(w, http.StatusCreated, toPurchaseDTO(p))
}

func (s *Server) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())
	id := r.PathValue("id")

	in, ok := s.decodePurchaseRequest(w, r)
	if !ok {
		return
	}

	date := in.Date
	if date.IsZero() {
		// Keep the stored date when the payload omits it.
		for _, existing := range s.ledger.Purchases() {
			if existing.ID == id {
				date = existing.Date
				break
			}
		}
	}
	p := core.Purchase{
		ID:       id,
		Item:     in.Item,
		Category: in.Category,
		Price:    core.Money{Cents: in.PriceCents},
		Type:     in.Type,
		Date:     date,
	}

	err := s.ledger.UpdatePurchase(r.Context(), p)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "purchase not found")
		return
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateDerived()
	logger.InfoContext(r.Context(), "Purchase updated", applog.FieldPurchaseID, id)
	writeJSON(w, http.StatusOK, toPurchaseDTO(p))
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())
	id := r.PathValue("id")

	if err := s.ledger.DeletePurchase(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	s.invalidateDerived()
	logger.InfoContext(r.Context(), "Purchase deleted", applog.FieldPurchaseID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	activities := s.ledger.Activities()
	out := make([]activityDTO, 0, len(activities))
	for _, a := range activities {
		out = append(out, activityDTO{
			ID:          a.ID,
			Description: a.Description,
			Timestamp:   a.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleExport streams the report for the current filter configuration as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	purchases, activities := s.ledger.ExportData()
	report := export.BuildReport(purchases, activities)

	data, err := report.CSV()
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Report build failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "report build failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trackfina-report.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleExportChart renders the per-category spending chart for the current
// filter configuration. Answers 204 when no outflows match.
func (s *Server) handleExportChart(w http.ResponseWriter, r *http.Request) {
	state := s.ledger.State()
	key := chartCacheKey(state)

	png, found := s.chartCache.Get(key)
	if !found {
		purchases, _ := s.ledger.ExportData()
		var err error
		png, err = export.CategoryChartPNG(purchases)
		if err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Chart render failed", applog.FieldError, err.Error())
			writeError(w, http.StatusInternalServerError, "chart render failed")
			return
		}
		if png != nil {
			s.chartCache.Set(key, png)
		}
	}
	if len(png) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func chartCacheKey(state query.State) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(state.Criteria.Search))
	b.WriteByte('|')
	b.WriteString(state.Criteria.Category)
	b.WriteByte('|')
	b.WriteString(state.Criteria.PaymentType)
	b.WriteByte('|')
	if state.Criteria.DateFrom != nil {
		b.WriteString(state.Criteria.DateFrom.Format(dateLayout))
	}
	b.WriteByte('|')
	if state.Criteria.DateTo != nil {
		b.WriteString(state.Criteria.DateTo.Format(dateLayout))
	}
	return b.String()
}

// handleSuggest answers a category suggestion for the item query parameter.
// Lookups run through the debouncer: a burst of requests while the user is
// typing costs one upstream call, and superseded requests answer 204.
// Anything that prevents a confident answer also degrades to 204 No Content.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	item := sanitizeInput(r.URL.Query().Get("item"))
	if s.debouncer == nil || len(item) <= 3 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	key := strings.ToLower(item)
	if cat, found := s.suggestCache.Get(key); found {
		writeJSON(w, http.StatusOK, map[string]string{"category": cat})
		return
	}

	answer := make(chan core.Category, 1)
	s.debouncer.Trigger(item, func(cat core.Category) { answer <- cat })

	var cat core.Category
	select {
	case cat = <-answer:
	case <-r.Context().Done():
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if cat == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.suggestCache.Set(key, string(cat))
	writeJSON(w, http.StatusOK, map[string]string{"category": string(cat)})
}

// invalidateDerived drops cached artifacts that depend on the record set.
func (s *Server) invalidateDerived() {
	s.chartCache.Clear()
}
