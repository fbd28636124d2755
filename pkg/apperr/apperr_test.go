package apperr_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tempohq/tempo/config"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/listquery"
)

func TestConstructorsCarryStatusAndKind(t *testing.T) {
	cases := []struct {
		err    *apperr.Error
		status int
		kind   apperr.Kind
	}{
		{apperr.Validation(map[string]string{"x": "bad"}), http.StatusBadRequest, apperr.KindValidation},
		{apperr.NotFound("gone"), http.StatusNotFound, apperr.KindNotFound},
		{apperr.Unauthorized("nope"), http.StatusUnauthorized, apperr.KindUnauthorized},
		{apperr.BadID("garbage"), http.StatusBadRequest, apperr.KindBadID},
		{apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.KindInternal},
	}
	for _, tc := range cases {
		if tc.err.Status != tc.status {
			t.Errorf("%s: status %d, want %d", tc.kind, tc.err.Status, tc.status)
		}
		if tc.err.Kind != tc.kind {
			t.Errorf("kind %s, want %s", tc.err.Kind, tc.kind)
		}
	}
}

func TestOperationalFlag(t *testing.T) {
	if !apperr.NotFound("x").Operational {
		t.Error("not-found should be operational")
	}
	if apperr.Internal(errors.New("boom")).Operational {
		t.Error("internal should not be operational")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := apperr.Internal(cause)
	if !errors.Is(err, cause) {
		t.Error("Internal should wrap its cause")
	}
}

func TestFromMongoNoDocuments(t *testing.T) {
	err := apperr.FromMongo(mongo.ErrNoDocuments, "Booking not found", "booking")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
	if appErr.Message != "Booking not found" {
		t.Errorf("got message %q", appErr.Message)
	}
}

func TestFromMongoNil(t *testing.T) {
	if err := apperr.FromMongo(nil, "x", "y"); err != nil {
		t.Errorf("nil should pass through, got %v", err)
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return body
}

func TestWriteValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)

	apperr.Write(rec, req, apperr.ValidationField("duration", "The duration must be between 1 and 4."))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	body := decode(t, rec)
	fields, ok := body["errors"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected errors map, got %v", body)
	}
	if fields["duration"] == "" {
		t.Error("expected duration error message")
	}
}

func TestWriteBadParamTranslation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?filter=nosign", nil)

	apperr.Write(rec, req, &listquery.BadParamError{Param: "filter", Message: "must look like field=value"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	body := decode(t, rec)
	fields, ok := body["errors"].(map[string]interface{})
	if !ok || fields["filter"] == nil {
		t.Fatalf("expected filter field error, got %v", body)
	}
}

func TestWriteUnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)

	apperr.Write(rec, req, errors.New("driver exploded"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	body := decode(t, rec)
	if msg, _ := body["message"].(string); msg == "driver exploded" {
		t.Error("raw cause must not leak to the caller")
	}
}

func TestWriteProductionSuppression(t *testing.T) {
	config.Set("APP_ENV", "production")
	defer config.Set("APP_ENV", "local")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)

	apperr.Write(rec, req, errors.New("secret internals"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	body := decode(t, rec)
	msg, _ := body["message"].(string)
	if msg == "" || msg == "secret internals" {
		t.Errorf("expected generic message, got %q", msg)
	}
}
