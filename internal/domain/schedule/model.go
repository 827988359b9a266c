package schedule

import (
	"sort"
	"strings"
)

// Frequency define los tipos de recordatorio soportados.
// @Enum Daily, Weekly, Once
type Frequency string

const (
	FrequencyDaily  Frequency = "Daily"
	FrequencyWeekly Frequency = "Weekly"
	FrequencyOnce   Frequency = "Once"
)

// ParseFrequency acepta el tag sin importar mayúsculas ("daily" == "Daily").
// Devuelve la forma canónica y ok=false si el tag no es conocido.
func ParseFrequency(raw string) (Frequency, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "daily":
		return FrequencyDaily, true
	case "weekly":
		return FrequencyWeekly, true
	case "once":
		return FrequencyOnce, true
	default:
		return "", false
	}
}

// PatientKey es la identidad normalizada de un paciente: nombre sin espacios
// al borde y en minúsculas. Es la ÚNICA forma válida de indexar el documento;
// el nombre con su casing original vive en Patient.DisplayName.
type PatientKey string

func NewPatientKey(name string) PatientKey {
	return PatientKey(strings.ToLower(strings.TrimSpace(name)))
}

func (k PatientKey) IsZero() bool { return k == "" }

func (k PatientKey) String() string { return string(k) }

// NormalizeMedicineName aplica la misma normalización que PatientKey a un
// nombre de medicamento (clave de deduplicación, no de indexado).
func NormalizeMedicineName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Medication es una entrada de prescripción. Según Frequency aplican campos
// distintos:
//   - Daily:  Times (HH:MM, 1..5 dosis por día)
//   - Weekly: Times + Day (nombre de día, ej. "Monday")
//   - Once:   DateTime ("YYYY-MM-DD HH:MM", instante único)
type Medication struct {
	Name           string
	NormalizedName string
	Frequency      Frequency

	Times    []string // Daily, Weekly
	Day      string   // Weekly
	DateTime string   // Once
}

// SameSchedule decide si dos medicamentos son duplicados para un mismo
// paciente: mismo nombre normalizado, misma frecuencia y mismos campos de
// agenda de esa frecuencia. Cualquier diferencia en un campo de agenda
// (un horario extra, otro día, otra fecha) los hace distintos.
func (m Medication) SameSchedule(other Medication) bool {
	if m.NormalizedName != other.NormalizedName {
		return false
	}
	if m.Frequency != other.Frequency {
		return false
	}

	switch m.Frequency {
	case FrequencyOnce:
		return m.DateTime == other.DateTime
	case FrequencyWeekly:
		if m.Day != other.Day {
			return false
		}
		return equalTimes(m.Times, other.Times)
	case FrequencyDaily:
		return equalTimes(m.Times, other.Times)
	default:
		return false
	}
}

func equalTimes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Patient agrupa los medicamentos de una persona. El orden de Medications es
// significativo: las operaciones de borrado/edición usan el índice original.
type Patient struct {
	DisplayName string
	Phone       string
	Medications []Medication
}

// Schedule es la representación canónica en memoria del documento persistido.
// Después de Load no queda ningún rastro del formato legacy; todo el código
// downstream trabaja solo con esta forma.
type Schedule struct {
	Patients map[PatientKey]Patient
}

func NewSchedule() Schedule {
	return Schedule{Patients: make(map[PatientKey]Patient)}
}

// SortedKeys devuelve las claves de paciente en orden estable (los maps de Go
// iteran en orden aleatorio; logs y despachos necesitan orden determinista).
func (s Schedule) SortedKeys() []PatientKey {
	keys := make([]PatientKey, 0, len(s.Patients))
	for k := range s.Patients {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// PruneEmptyPatients elimina pacientes sin medicamentos. Invariante del
// documento: un paciente sin entradas no sobrevive a ninguna mutación.
func (s Schedule) PruneEmptyPatients() {
	for k, p := range s.Patients {
		if len(p.Medications) == 0 {
			delete(s.Patients, k)
		}
	}
}

// Clone hace una copia profunda (los adapters in-memory la usan para no
// compartir slices con el caller).
func (s Schedule) Clone() Schedule {
	out := NewSchedule()
	for k, p := range s.Patients {
		meds := make([]Medication, len(p.Medications))
		for i, m := range p.Medications {
			times := make([]string, len(m.Times))
			copy(times, m.Times)
			m.Times = times
			meds[i] = m
		}
		out.Patients[k] = Patient{
			DisplayName: p.DisplayName,
			Phone:       p.Phone,
			Medications: meds,
		}
	}
	return out
}
