package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/app/services/history"
	svcerrors "github.com/MathHub-Labs/calc-service/internal/errors"
	"github.com/MathHub-Labs/calc-service/internal/httputil"
	"github.com/MathHub-Labs/calc-service/internal/middleware"
)

type historyListResponse struct {
	Items []calculation.Record `json:"items"`
	Count int                  `json:"count"`
}

type historyDeleteResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// historyFilter parses the shared query parameters of the history endpoints.
func historyFilter(r *http.Request) (calculation.Filter, error) {
	var f calculation.Filter
	q := r.URL.Query()

	if kind := q.Get("operation_type"); kind != "" {
		k := calculation.Kind(kind)
		if !k.Valid() {
			return f, svcerrors.InvalidInput("unknown operation_type").WithDetails("operation_type", kind)
		}
		f.Kind = k
	}
	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, svcerrors.InvalidInput("start_date must be RFC 3339")
		}
		f.Start = t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, svcerrors.InvalidInput("end_date must be RFC 3339")
		}
		f.End = t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, svcerrors.InvalidInput("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}

func (h *Handler) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	f, err := historyFilter(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	items, err := h.history.List(r.Context(), middleware.GetUserID(r.Context()), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if items == nil {
		items = []calculation.Record{}
	}
	httputil.WriteJSON(w, http.StatusOK, historyListResponse{Items: items, Count: len(items)})
}

func (h *Handler) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.history.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	if rec.UserID != middleware.GetUserID(r.Context()) {
		h.writeError(w, svcerrors.Forbidden("history record belongs to another user"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	var req history.DeleteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	n, err := h.history.Delete(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, historyDeleteResponse{DeletedCount: n})
}

func (h *Handler) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.history.Stats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
