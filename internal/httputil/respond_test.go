package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	svcerrors "github.com/MathHub-Labs/calc-service/internal/errors"
)

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestWriteErrorHidesCauseByDefault(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, svcerrors.Internal("database write failed", fmt.Errorf("pq: connection reset")), false)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
	resp := decodeErrorResponse(t, rec)
	if resp.Error != "database write failed" {
		t.Fatalf("message %q", resp.Error)
	}
	if _, ok := resp.Details["cause"]; ok {
		t.Fatal("cause leaked without debug mode")
	}
}

func TestWriteErrorSurfacesCauseInDebug(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, svcerrors.Internal("database write failed", fmt.Errorf("pq: connection reset")), true)

	resp := decodeErrorResponse(t, rec)
	cause, ok := resp.Details["cause"].(string)
	if !ok || cause != "pq: connection reset" {
		t.Fatalf("expected cause detail, got %v", resp.Details)
	}
}

func TestWriteErrorKeepsExistingDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := svcerrors.InvalidAngleUnit("gradians")
	err.Err = fmt.Errorf("unit table miss")
	WriteError(rec, err, true)

	resp := decodeErrorResponse(t, rec)
	if resp.Details["angle_unit"] != "gradians" {
		t.Fatalf("original detail lost: %v", resp.Details)
	}
	if resp.Details["cause"] != "unit table miss" {
		t.Fatalf("cause missing: %v", resp.Details)
	}
	// The error's own detail map must stay untouched.
	if _, ok := err.Details["cause"]; ok {
		t.Fatal("debug detail written back into the error value")
	}
}

func TestWriteErrorUnclassified(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("boom"), false)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
	resp := decodeErrorResponse(t, rec)
	if resp.Code != "INTERNAL_ERROR" || resp.Error != "internal server error" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if resp.Details != nil {
		t.Fatalf("details leaked: %v", resp.Details)
	}
}
