package httpapi

import (
	"net/http"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/app/engine"
	"github.com/MathHub-Labs/calc-service/internal/httputil"
	"github.com/MathHub-Labs/calc-service/internal/middleware"
)

type calculationResponse struct {
	ID            string  `json:"id,omitempty"`
	Expression    string  `json:"expression"`
	Result        string  `json:"result"`
	Value         float64 `json:"value"`
	OperationType string  `json:"operation_type"`
}

type conversionResponse struct {
	calculationResponse
	FromUnit       string  `json:"from_unit"`
	ToUnit         string  `json:"to_unit"`
	ConvertedValue float64 `json:"converted_value"`
}

func (h *Handler) handleBasic(w http.ResponseWriter, r *http.Request) {
	var req calculation.BasicRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	result, err := engine.Basic(req)
	h.respondCalculation(w, r, result, err)
}

func (h *Handler) handleAdvanced(w http.ResponseWriter, r *http.Request) {
	var req calculation.AdvancedRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	result, err := engine.Advanced(req)
	h.respondCalculation(w, r, result, err)
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req calculation.ConversionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	result, err := engine.Convert(req)
	resp, ok := h.completeCalculation(w, r, result, err)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, conversionResponse{
		calculationResponse: resp,
		FromUnit:            req.FromUnit,
		ToUnit:              req.ToUnit,
		ConvertedValue:      result.Value,
	})
}

func (h *Handler) handleFinance(w http.ResponseWriter, r *http.Request) {
	var req calculation.FinanceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	result, err := engine.Finance(req)
	h.respondCalculation(w, r, result, err)
}

func (h *Handler) handleOperations(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, engine.Operations())
}

func (h *Handler) respondCalculation(w http.ResponseWriter, r *http.Request, result calculation.Result, err error) {
	resp, ok := h.completeCalculation(w, r, result, err)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// completeCalculation records the outcome metric and, on success, appends the
// result to the caller's history. A failed history write does not fail the
// calculation. Returns false when the error response has already been written.
func (h *Handler) completeCalculation(w http.ResponseWriter, r *http.Request, result calculation.Result, err error) (calculationResponse, bool) {
	kind := string(result.Kind)
	if kind == "" {
		kind = "unknown"
	}
	if err != nil {
		h.metrics.RecordCalculation(kind, false)
		h.writeError(w, err)
		return calculationResponse{}, false
	}
	h.metrics.RecordCalculation(kind, true)

	resp := calculationResponse{
		Expression:    result.Expression,
		Result:        engine.FormatResult(result.Value),
		Value:         result.Value,
		OperationType: string(result.Kind),
	}

	userID := middleware.GetUserID(r.Context())
	if userID != "" {
		rec, appendErr := h.history.Append(r.Context(), userID, result.Kind, result.Expression, resp.Result)
		if appendErr != nil {
			h.log.WithError(appendErr).WithField("user_id", userID).Warn("history append failed")
		} else {
			resp.ID = rec.ID
		}
	}
	return resp, true
}
