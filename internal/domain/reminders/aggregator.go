package reminders

import (
	"sort"

	"easymed/internal/domain/schedule"
)

// DueItem es un match individual: (paciente, medicamento, horario matcheado).
type DueItem struct {
	Key         schedule.PatientKey
	DisplayName string
	Phone       string
	Medicine    string
	Time        string
}

// Group es un recordatorio agrupado: todos los medicamentos de un paciente
// que cayeron en el mismo minuto van en UNA sola llamada.
type Group struct {
	Key         schedule.PatientKey
	DisplayName string
	Phone       string
	Time        string
	Medicines   []string
}

// Aggregate agrupa los matches por (paciente, horario) preservando el orden
// de aparición de los medicamentos. Un mismo nombre repetido en el mismo
// minuto (p.ej. una agenda con ["08:00","08:00"]) entra una sola vez al
// grupo. La salida viene ordenada por clave de paciente y luego por horario,
// para que el despacho sea determinista.
func Aggregate(items []DueItem) []Group {
	type groupKey struct {
		patient schedule.PatientKey
		time    string
	}

	byKey := make(map[groupKey]*Group)
	seen := make(map[groupKey]map[string]struct{})
	order := make([]groupKey, 0)

	for _, it := range items {
		gk := groupKey{patient: it.Key, time: it.Time}

		g, ok := byKey[gk]
		if !ok {
			g = &Group{
				Key:         it.Key,
				DisplayName: it.DisplayName,
				Phone:       it.Phone,
				Time:        it.Time,
			}
			byKey[gk] = g
			seen[gk] = make(map[string]struct{})
			order = append(order, gk)
		}

		norm := schedule.NormalizeMedicineName(it.Medicine)
		if _, dup := seen[gk][norm]; dup {
			continue
		}
		seen[gk][norm] = struct{}{}
		g.Medicines = append(g.Medicines, it.Medicine)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].patient != order[j].patient {
			return order[i].patient < order[j].patient
		}
		return order[i].time < order[j].time
	})

	out := make([]Group, 0, len(order))
	for _, gk := range order {
		out = append(out, *byKey[gk])
	}
	return out
}
