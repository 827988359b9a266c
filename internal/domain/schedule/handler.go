package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(svc))
		pr.Get("/{patientKey}", getPatientHandler(svc))
		pr.Post("/{patientKey}/medications", addMedicationHandler(svc))
		pr.Put("/{patientKey}/medications/{index}", updateMedicationHandler(svc))
		pr.Delete("/{patientKey}/medications/{index}", removeMedicationHandler(svc))
	})
}

type medicationRequest struct {
	Name      string   `json:"name"`
	Frequency string   `json:"frequency"`
	Times     []string `json:"times,omitempty"`
	Day       string   `json:"day,omitempty"`
	DateTime  string   `json:"datetime,omitempty"`
}

type addMedicationRequest struct {
	Phone      string            `json:"phone,omitempty"`
	Medication medicationRequest `json:"medication"`
}

type medicationResponse struct {
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalized_name"`
	Frequency      string   `json:"frequency"`
	Times          []string `json:"times,omitempty"`
	Day            string   `json:"day,omitempty"`
	DateTime       string   `json:"datetime,omitempty"`
}

type patientResponse struct {
	Key         string               `json:"key"`
	DisplayName string               `json:"display_name"`
	Phone       string               `json:"phone"`
	Medications []medicationResponse `json:"medications"`
}

func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListPatients(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]patientResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toPatientResponse(e.Key, e.Patient))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := NewPatientKey(chi.URLParam(r, "patientKey"))

		p, err := svc.GetPatient(r.Context(), key)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(key, p))
	}
}

func addMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// El path lleva el nombre tal como lo escribió el caregiver; la
		// normalización a clave ocurre en el service.
		patientName := chi.URLParam(r, "patientKey")

		var req addMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Medication.Name) == "" {
			http.Error(w, "medication name required", http.StatusBadRequest)
			return
		}

		p, err := svc.AddMedication(r.Context(), AddMedicationInput{
			PatientName: patientName,
			Phone:       req.Phone,
			Medication:  toMedicationInput(req.Medication),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPatientResponse(NewPatientKey(patientName), p))
	}
}

func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := NewPatientKey(chi.URLParam(r, "patientKey"))

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "invalid index", http.StatusBadRequest)
			return
		}

		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdateMedication(r.Context(), key, index, toMedicationInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(key, p))
	}
}

func removeMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := NewPatientKey(chi.URLParam(r, "patientKey"))

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "invalid index", http.StatusBadRequest)
			return
		}

		if err := svc.RemoveMedication(r.Context(), key, index); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicate):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrMedNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidPhone), errors.Is(err, ErrPhoneRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toMedicationInput(req medicationRequest) MedicationInput {
	return MedicationInput{
		Name:      req.Name,
		Frequency: req.Frequency,
		Times:     req.Times,
		Day:       req.Day,
		DateTime:  req.DateTime,
	}
}

func toPatientResponse(key PatientKey, p Patient) patientResponse {
	meds := make([]medicationResponse, 0, len(p.Medications))
	for _, m := range p.Medications {
		meds = append(meds, medicationResponse{
			Name:           m.Name,
			NormalizedName: m.NormalizedName,
			Frequency:      string(m.Frequency),
			Times:          m.Times,
			Day:            m.Day,
			DateTime:       m.DateTime,
		})
	}
	return patientResponse{
		Key:         key.String(),
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		Medications: meds,
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos;
// si aparece un tercer consumidor recién conviene extraerlo a un helper.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
