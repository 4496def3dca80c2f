package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sgarg26/intelli-alert/internal/platform/remote"
)

func newHandlerFixture() (*Handler, *Service, *echo.Echo) {
	svc := NewService(NewStore(), &mockRepo{}, &mockPusher{}, func() string { return "u123" }, zerolog.Nop())
	return NewHandler(svc), svc, echo.New()
}

func TestHandler_GetProfile(t *testing.T) {
	h, svc, e := newHandlerFixture()
	svc.Store().SetFullName("Asha Rao")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var got EmergencyProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.FullName != "Asha Rao" {
		t.Errorf("fullName = %q", got.FullName)
	}
}

func TestHandler_AddContact(t *testing.T) {
	h, svc, e := newHandlerFixture()
	body := `{"name":"Ben","relationship":"Brother","phoneNumber":"555-0101"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.AddContact(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	contacts := svc.Store().Snapshot().EmergencyContacts
	if len(contacts) != 1 || contacts[0].Name != "Ben" {
		t.Errorf("contacts = %+v", contacts)
	}
}

func TestHandler_AddContact_MissingPhone(t *testing.T) {
	h, _, e := newHandlerFixture()
	body := `{"name":"Ben"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.AddContact(c); err == nil {
		t.Error("expected error for incomplete contact")
	}
}

func TestHandler_RemoveContact_UnknownIDIsNoContent(t *testing.T) {
	h, _, e := newHandlerFixture()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5f9a9a3e-9b7e-4f1d-a8b0-2f1f4c5d6e7f")

	if err := h.RemoveContact(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_AddListItem(t *testing.T) {
	h, svc, e := newHandlerFixture()
	body := `{"value":"Peanuts"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("field")
	c.SetParamValues("allergies")

	if err := h.AddListItem(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if got := svc.Store().Snapshot().MedicalInfo.Allergies; len(got) != 1 || got[0] != "Peanuts" {
		t.Errorf("allergies = %v", got)
	}
}

func TestHandler_AddListItem_UnknownField(t *testing.T) {
	h, _, e := newHandlerFixture()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("field")
	c.SetParamValues("hobbies")

	if err := h.AddListItem(c); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestHandler_RemoveListItem(t *testing.T) {
	h, svc, e := newHandlerFixture()
	svc.Store().AddListItem(FieldMedications, "Aspirin")
	svc.Store().AddListItem(FieldMedications, "Aspirin")

	req := httptest.NewRequest(http.MethodDelete, "/?value=Aspirin", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("field")
	c.SetParamValues("medications")

	if err := h.RemoveListItem(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out struct {
		Removed int      `json:"removed"`
		Items   []string `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Removed != 2 || len(out.Items) != 0 {
		t.Errorf("response = %+v", out)
	}
}

func TestHandler_SetBloodType(t *testing.T) {
	h, svc, e := newHandlerFixture()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"bloodType":"AB-"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SetBloodType(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Store().Snapshot().MedicalInfo.BloodType; got != BloodTypeABNeg {
		t.Errorf("blood type = %q", got)
	}
}

func TestHandler_SetBloodType_Invalid(t *testing.T) {
	h, _, e := newHandlerFixture()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"bloodType":"C+"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SetBloodType(c); err == nil {
		t.Error("expected error for unknown blood type")
	}
}

func TestHandler_SaveProfile(t *testing.T) {
	h, svc, e := newHandlerFixture()
	svc.Store().SetFullName("Asha Rao")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SaveProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_SyncStatus_BeforeAnyPush(t *testing.T) {
	h, _, e := newHandlerFixture()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SyncStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out syncStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Synced {
		t.Error("expected synced=false before any push completes")
	}
}

func TestHandler_SyncStatus_AfterPush(t *testing.T) {
	h, svc, e := newHandlerFixture()
	svc.recordSync(&remote.Result{UserID: "u123", StatusCode: 200})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SyncStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out syncStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Synced || out.UserID != "u123" {
		t.Errorf("response = %+v", out)
	}
}

func TestHandler_ReplaceProfile(t *testing.T) {
	h, svc, e := newHandlerFixture()
	body := `{"fullName":"Asha Rao","medicalInfo":{"bloodType":"O+"}}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ReplaceProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := svc.Store().Snapshot()
	if snap.FullName != "Asha Rao" || snap.MedicalInfo.BloodType != BloodTypeOPos {
		t.Errorf("profile = %+v", snap)
	}
}
