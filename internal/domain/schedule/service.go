package schedule

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrPhoneRequired   = errors.New("phone number is required for new patients")
	ErrDuplicate       = errors.New("medicine schedule already exists")
	ErrPatientNotFound = errors.New("patient not found")
	ErrMedNotFound     = errors.New("medication not found")
)

const (
	minDoses = 1
	maxDoses = 5

	timeLayout     = "15:04"
	dateTimeLayout = "2006-01-02 15:04"
)

// Service implementa las operaciones de carga de datos sobre el documento de
// agenda: alta, edición y baja de medicamentos, con rechazo de duplicados.
// Es el colaborador de entrada de datos; el daemon de recordatorios solo lee
// (y poda alarmas Once ya disparadas).
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// MedicationInput son los campos de agenda de un medicamento tal como llegan
// del caller. Según Frequency se usan Times/Day o DateTime.
type MedicationInput struct {
	Name      string
	Frequency string
	Times     []string
	Day       string
	DateTime  string
}

type AddMedicationInput struct {
	PatientName string
	Phone       string // obligatorio para pacientes nuevos; opcional para actualizar
	Medication  MedicationInput
}

// AddMedication da de alta un medicamento. Crea al paciente si no existe
// (con teléfono validado) y rechaza con ErrDuplicate una agenda idéntica a
// una ya registrada para ese paciente.
func (s *Service) AddMedication(ctx context.Context, in AddMedicationInput) (Patient, error) {
	key := NewPatientKey(in.PatientName)
	if key.IsZero() {
		return Patient{}, ErrInvalidInput
	}

	med, err := buildMedication(in.Medication)
	if err != nil {
		return Patient{}, err
	}

	doc, err := s.loadOrEmpty(ctx)
	if err != nil {
		return Patient{}, err
	}

	p, exists := doc.Patients[key]
	phone := strings.TrimSpace(in.Phone)

	if !exists {
		if phone == "" {
			return Patient{}, ErrPhoneRequired
		}
		if !ValidPhone(phone) {
			return Patient{}, ErrInvalidPhone
		}
		p = Patient{
			DisplayName: strings.TrimSpace(in.PatientName),
			Phone:       phone,
		}
	} else if phone != "" {
		// Paciente existente: el teléfono solo se actualiza si viene uno nuevo.
		if !ValidPhone(phone) {
			return Patient{}, ErrInvalidPhone
		}
		p.Phone = phone
	}

	for _, existing := range p.Medications {
		if existing.SameSchedule(med) {
			return Patient{}, ErrDuplicate
		}
	}

	p.Medications = append(p.Medications, med)
	doc.Patients[key] = p
	doc.PruneEmptyPatients()

	if err := s.repo.Save(ctx, doc); err != nil {
		return Patient{}, fmt.Errorf("save schedule: %w", err)
	}
	return p, nil
}

// UpdateMedication reemplaza por completo los campos de agenda del
// medicamento en (paciente, índice). El chequeo de duplicados se hace contra
// el resto de medicamentos del paciente, no contra la entrada editada.
func (s *Service) UpdateMedication(ctx context.Context, key PatientKey, index int, in MedicationInput) (Patient, error) {
	if key.IsZero() || index < 0 {
		return Patient{}, ErrInvalidInput
	}

	med, err := buildMedication(in)
	if err != nil {
		return Patient{}, err
	}

	doc, err := s.loadOrEmpty(ctx)
	if err != nil {
		return Patient{}, err
	}

	p, ok := doc.Patients[key]
	if !ok {
		return Patient{}, ErrPatientNotFound
	}
	if index >= len(p.Medications) {
		return Patient{}, ErrMedNotFound
	}

	for i, existing := range p.Medications {
		if i == index {
			continue
		}
		if existing.SameSchedule(med) {
			return Patient{}, ErrDuplicate
		}
	}

	p.Medications[index] = med
	doc.Patients[key] = p

	if err := s.repo.Save(ctx, doc); err != nil {
		return Patient{}, fmt.Errorf("save schedule: %w", err)
	}
	return p, nil
}

// RemoveMedication borra el medicamento en (paciente, índice). Si el paciente
// queda sin medicamentos, se elimina del documento.
func (s *Service) RemoveMedication(ctx context.Context, key PatientKey, index int) error {
	if key.IsZero() || index < 0 {
		return ErrInvalidInput
	}

	doc, err := s.loadOrEmpty(ctx)
	if err != nil {
		return err
	}

	p, ok := doc.Patients[key]
	if !ok {
		return ErrPatientNotFound
	}
	if index >= len(p.Medications) {
		return ErrMedNotFound
	}

	p.Medications = append(p.Medications[:index], p.Medications[index+1:]...)
	doc.Patients[key] = p
	doc.PruneEmptyPatients()

	if err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

func (s *Service) GetPatient(ctx context.Context, key PatientKey) (Patient, error) {
	if key.IsZero() {
		return Patient{}, ErrInvalidInput
	}

	doc, err := s.loadOrEmpty(ctx)
	if err != nil {
		return Patient{}, err
	}

	p, ok := doc.Patients[key]
	if !ok {
		return Patient{}, ErrPatientNotFound
	}
	return p, nil
}

// ListPatients devuelve (clave, paciente) en orden estable por clave.
func (s *Service) ListPatients(ctx context.Context) ([]PatientEntry, error) {
	doc, err := s.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PatientEntry, 0, len(doc.Patients))
	for _, k := range doc.SortedKeys() {
		out = append(out, PatientEntry{Key: k, Patient: doc.Patients[k]})
	}
	return out, nil
}

type PatientEntry struct {
	Key     PatientKey
	Patient Patient
}

// loadOrEmpty trata un documento inexistente como documento vacío: la API de
// carga crea el archivo con el primer Save. (El daemon NO hace esto; para él
// un load fallido aborta la iteración.)
func (s *Service) loadOrEmpty(ctx context.Context) (Schedule, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewSchedule(), nil
		}
		return Schedule{}, fmt.Errorf("load schedule: %w", err)
	}
	return doc, nil
}

// ValidPhone valida formato internacional laxo: un '+' opcional y solo
// dígitos después de quitar espacios y guiones, entre 8 y 15 dígitos.
func ValidPhone(raw string) bool {
	n := strings.TrimSpace(raw)
	n = strings.ReplaceAll(n, " ", "")
	n = strings.ReplaceAll(n, "-", "")
	n = strings.TrimPrefix(n, "+")

	if len(n) < 8 || len(n) > 15 {
		return false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// buildMedication valida los campos por frecuencia y arma la entrada canónica
// (nombre normalizado incluido).
func buildMedication(in MedicationInput) (Medication, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Medication{}, ErrInvalidInput
	}

	freq, ok := ParseFrequency(in.Frequency)
	if !ok {
		return Medication{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, in.Frequency)
	}

	med := Medication{
		Name:           name,
		NormalizedName: NormalizeMedicineName(name),
		Frequency:      freq,
	}

	switch freq {
	case FrequencyDaily, FrequencyWeekly:
		if len(in.Times) < minDoses || len(in.Times) > maxDoses {
			return Medication{}, fmt.Errorf("%w: between %d and %d times required", ErrInvalidInput, minDoses, maxDoses)
		}
		times := make([]string, 0, len(in.Times))
		for _, t := range in.Times {
			t = strings.TrimSpace(t)
			if _, err := time.Parse(timeLayout, t); err != nil {
				return Medication{}, fmt.Errorf("%w: invalid time %q", ErrInvalidInput, t)
			}
			times = append(times, t)
		}
		med.Times = times

		if freq == FrequencyWeekly {
			day, ok := canonicalWeekday(in.Day)
			if !ok {
				return Medication{}, fmt.Errorf("%w: invalid day %q", ErrInvalidInput, in.Day)
			}
			med.Day = day
		}

	case FrequencyOnce:
		dt := strings.TrimSpace(in.DateTime)
		if _, err := time.Parse(dateTimeLayout, dt); err != nil {
			return Medication{}, fmt.Errorf("%w: invalid datetime %q", ErrInvalidInput, in.DateTime)
		}
		med.DateTime = dt
	}

	return med, nil
}

func canonicalWeekday(raw string) (string, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if raw == strings.ToLower(d.String()) {
			return d.String(), true
		}
	}
	return "", false
}
