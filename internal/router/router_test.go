package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"easymed/internal/adapters/storage/memory"
	"easymed/internal/router"
)

func TestHTTP_EndToEnd_DataEntry(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Repo: memory.NewScheduleRepo()}))
	defer ts.Close()

	// 1) Alta de paciente nuevo con su primer medicamento
	{
		st, body := doReq(t, ts.URL, "POST", "/patients/Asha/medications", map[string]any{
			"phone": "+911234567890",
			"medication": map[string]any{
				"name":      "Metformin",
				"frequency": "Daily",
				"times":     []string{"08:00", "20:00"},
			},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 creating medication, got %d body=%s", st, string(body))
		}
	}

	// 2) Paciente nuevo sin teléfono => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/patients/Ravi/medications", map[string]any{
			"medication": map[string]any{
				"name":      "Paracetamol",
				"frequency": "Once",
				"datetime":  "2025-06-01 09:00",
			},
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 without phone, got %d", st)
		}
	}

	// 3) Duplicado exacto => 409 (la clave no distingue casing ni espacios)
	{
		st, body := doReq(t, ts.URL, "POST", "/patients/%20ASHA%20/medications", map[string]any{
			"medication": map[string]any{
				"name":      "metformin",
				"frequency": "Daily",
				"times":     []string{"08:00", "20:00"},
			},
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate schedule, got %d body=%s", st, string(body))
		}
	}

	// 4) Misma medicina con un horario distinto => se acepta
	{
		st, body := doReq(t, ts.URL, "POST", "/patients/Asha/medications", map[string]any{
			"medication": map[string]any{
				"name":      "Metformin",
				"frequency": "Daily",
				"times":     []string{"08:00"},
			},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 for different schedule, got %d body=%s", st, string(body))
		}
	}

	// 5) Listado: un solo paciente, clave normalizada, dos medicamentos
	{
		st, body := doReq(t, ts.URL, "GET", "/patients", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing patients, got %d", st)
		}

		var patients []struct {
			Key         string `json:"key"`
			DisplayName string `json:"display_name"`
			Medications []struct {
				Name string `json:"name"`
			} `json:"medications"`
		}
		if err := json.Unmarshal(body, &patients); err != nil {
			t.Fatalf("decode list: %v body=%s", err, string(body))
		}
		if len(patients) != 1 {
			t.Fatalf("expected 1 patient, got %d", len(patients))
		}
		if patients[0].Key != "asha" || patients[0].DisplayName != "Asha" {
			t.Errorf("patient = %+v", patients[0])
		}
		if len(patients[0].Medications) != 2 {
			t.Errorf("expected 2 medications, got %d", len(patients[0].Medications))
		}
	}

	// 6) Edición: reemplazo completo de la agenda
	{
		st, body := doReq(t, ts.URL, "PUT", "/patients/asha/medications/1", map[string]any{
			"name":      "Metformin",
			"frequency": "Weekly",
			"times":     []string{"09:00"},
			"day":       "Monday",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 updating medication, got %d body=%s", st, string(body))
		}
	}

	// 7) Borrado de ambos medicamentos => el paciente desaparece
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/patients/asha/medications/1", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 deleting medication, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/patients/asha/medications/0", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 deleting last medication, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "GET", "/patients/asha", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for pruned patient, got %d", st)
		}
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Repo: memory.NewScheduleRepo()}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health = %d %q", st, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, bytes.TrimSpace(raw)
}
