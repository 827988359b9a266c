package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"easymed/internal/domain/schedule"
)

// Repo persiste el documento de agenda como un único archivo JSON (el mismo
// que mantiene el colaborador de carga de datos). La escritura es temp-file +
// rename para que un lector concurrente nunca vea un documento cortado; la
// disciplina de un solo escritor sigue siendo responsabilidad del operador.
type Repo struct {
	path string
}

func NewScheduleRepo(path string) *Repo {
	return &Repo{path: path}
}

// --- Formato de archivo ---

type document struct {
	Patients map[string]patientDoc `json:"patients"`
}

type patientDoc struct {
	DisplayName string          `json:"display_name,omitempty"`
	Phone       string          `json:"phone"`
	Medications []medicationDoc `json:"medications"`

	legacyList bool `json:"-"`
}

type medicationDoc struct {
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalized_name,omitempty"`
	Frequency      string   `json:"frequency"`
	Times          []string `json:"times,omitempty"`
	Day            string   `json:"day,omitempty"`
	DateTime       string   `json:"datetime,omitempty"`
}

// UnmarshalJSON acepta las dos formas históricas de un paciente: el objeto
// actual {phone, display_name, medications} y la lista legacy de
// medicamentos a secas. La forma legacy se marca para que la migración
// complete los metadatos.
func (p *patientDoc) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var meds []medicationDoc
		if err := json.Unmarshal(trimmed, &meds); err != nil {
			return err
		}
		*p = patientDoc{Medications: meds, legacyList: true}
		return nil
	}

	type alias patientDoc
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = patientDoc(a)
	return nil
}

func (r *Repo) Load(ctx context.Context) (schedule.Schedule, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		// incluye fs.ErrNotExist: el caller decide si "no existe" es fatal
		return schedule.Schedule{}, fmt.Errorf("read %s: %w", r.path, err)
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return schedule.Schedule{}, fmt.Errorf("parse %s: %w", r.path, err)
	}

	return migrate(doc), nil
}

func (r *Repo) Save(ctx context.Context, s schedule.Schedule) error {
	doc := document{Patients: make(map[string]patientDoc, len(s.Patients))}
	for key, p := range s.Patients {
		meds := make([]medicationDoc, 0, len(p.Medications))
		for _, m := range p.Medications {
			meds = append(meds, medicationDoc{
				Name:           m.Name,
				NormalizedName: m.NormalizedName,
				Frequency:      string(m.Frequency),
				Times:          m.Times,
				Day:            m.Day,
				DateTime:       m.DateTime,
			})
		}
		doc.Patients[key.String()] = patientDoc{
			DisplayName: p.DisplayName,
			Phone:       p.Phone,
			Medications: meds,
		}
	}

	b, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	b = append(b, '\n')

	// Escritura atómica: temp file en el mismo directorio + rename.
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", r.path, err)
	}
	return nil
}
