package file

import (
	"strings"

	"easymed/internal/domain/schedule"
)

// migrate lleva el documento crudo a la representación canónica, en un solo
// paso aplicado en Load. Upgrades que hace:
//   - claves de paciente re-normalizadas (trim + lowercase), conservando el
//     casing original en display_name;
//   - pacientes legacy (lista de medicamentos a secas) convertidos a objeto
//     con phone vacío y display_name = clave original;
//   - normalized_name completado donde falte;
//   - tag de frecuencia canonicalizado si es reconocido (un tag desconocido
//     se conserva tal cual para que el matcher lo reporte).
//
// Ningún código downstream vuelve a ver el formato legacy.
func migrate(doc document) schedule.Schedule {
	out := schedule.NewSchedule()

	for rawKey, p := range doc.Patients {
		key := schedule.NewPatientKey(rawKey)
		if key.IsZero() {
			continue
		}

		display := strings.TrimSpace(p.DisplayName)
		if display == "" || p.legacyList {
			display = strings.TrimSpace(rawKey)
		}

		meds := make([]schedule.Medication, 0, len(p.Medications))
		for _, m := range p.Medications {
			freq := m.Frequency
			if canonical, ok := schedule.ParseFrequency(freq); ok {
				freq = string(canonical)
			}

			norm := m.NormalizedName
			if norm == "" {
				norm = schedule.NormalizeMedicineName(m.Name)
			}

			meds = append(meds, schedule.Medication{
				Name:           m.Name,
				NormalizedName: norm,
				Frequency:      schedule.Frequency(freq),
				Times:          m.Times,
				Day:            m.Day,
				DateTime:       m.DateTime,
			})
		}

		out.Patients[key] = schedule.Patient{
			DisplayName: display,
			Phone:       strings.TrimSpace(p.Phone),
			Medications: meds,
		}
	}

	return out
}
