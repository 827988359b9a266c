package reminders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"easymed/internal/domain/schedule"
	"easymed/internal/platform/logger"
	"easymed/internal/ports/telephony"
)

// Service ejecuta una pasada completa de escaneo: cargar el documento,
// matchear cada medicamento contra el minuto actual, agrupar, despachar las
// llamadas y podar las alarmas Once disparadas. Todos los errores internos
// de la pasada se loguean y se siguen de largo; solo un Load fallido aborta
// la iteración (y la devuelve al caller para que lo loguee el loop).
type Service struct {
	repo   schedule.Repository
	dialer telephony.Dialer
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo schedule.Repository, dialer telephony.Dialer, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		dialer: dialer,
		log:    log,
		now:    time.Now,
	}
}

// Scan es una iteración del loop. Entrada y salida puras respecto del
// documento: la única mutación posible es la poda de alarmas Once, y el Save
// ocurre solo si hubo alguna.
func (s *Service) Scan(ctx context.Context) error {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}

	now := s.now()
	s.log.Info("checking reminders", map[string]any{
		"time":    now.Format(timeLayout),
		"date":    now.Format(dateLayout),
		"weekday": strings.ToLower(now.Weekday().String()),
	})

	due := make([]DueItem, 0)
	reap := make(map[schedule.PatientKey][]int)

	for _, key := range doc.SortedKeys() {
		p := doc.Patients[key]

		if strings.TrimSpace(p.Phone) == "" {
			s.log.Warn("skipping patient without phone number", map[string]any{
				"patient": key.String(),
			})
			continue
		}

		for i, med := range p.Medications {
			res, err := Match(now, med)
			if err != nil {
				s.log.Warn("skipping medication", map[string]any{
					"patient":  key.String(),
					"medicine": med.Name,
					"reason":   err.Error(),
				})
				continue
			}
			if !res.Due {
				continue
			}

			s.log.Info("reminder due", map[string]any{
				"patient":   key.String(),
				"medicine":  med.Name,
				"time":      res.Time,
				"frequency": string(med.Frequency),
			})

			due = append(due, DueItem{
				Key:         key,
				DisplayName: p.DisplayName,
				Phone:       p.Phone,
				Medicine:    med.Name,
				Time:        res.Time,
			})
			if res.Reap {
				reap[key] = append(reap[key], i)
			}
		}
	}

	for _, g := range Aggregate(due) {
		s.dispatch(ctx, g)
	}

	if s.reapOnceAlarms(doc, reap) {
		if err := s.repo.Save(ctx, doc); err != nil {
			// La mutación en memoria se pierde; el Once ya disparado volverá
			// a aparecer en el próximo Load. Riesgo conocido, no fatal.
			s.log.Error("failed to save schedule after once-alarm cleanup", map[string]any{
				"error": err.Error(),
			})
		} else {
			s.log.Info("saved schedule after once-alarm cleanup", nil)
		}
	}

	return nil
}

// dispatch arma y coloca la llamada de un grupo. Número inválido o fallo del
// proveedor: se loguea y se saltea ese grupo, nada más.
func (s *Service) dispatch(ctx context.Context, g Group) {
	to, err := NormalizePhone(g.Phone)
	if err != nil {
		s.log.Warn("skipping call: invalid phone number", map[string]any{
			"patient": g.Key.String(),
			"phone":   g.Phone,
		})
		return
	}

	callID, err := s.dialer.Place(ctx, telephony.Call{
		To:      to,
		Message: BuildMessage(g.DisplayName, g.Medicines, g.Time),
	})
	if err != nil {
		s.log.Warn("failed to place reminder call", map[string]any{
			"patient": g.Key.String(),
			"to":      to,
			"error":   err.Error(),
		})
		return
	}

	s.log.Info("reminder call placed", map[string]any{
		"patient":   g.Key.String(),
		"to":        to,
		"time":      g.Time,
		"medicines": strings.Join(g.Medicines, ", "),
		"call_id":   callID,
	})
}

// BuildMessage arma el texto que lee la voz sintetizada.
func BuildMessage(displayName string, medicines []string, timeStr string) string {
	return fmt.Sprintf(
		"Hello %s, this is a reminder to take your medicines %s at %s.",
		displayName, strings.Join(medicines, ", "), timeStr,
	)
}

// reapOnceAlarms borra las entradas Once ya disparadas, por paciente y en
// orden de índice descendente (borrar de atrás hacia adelante evita que el
// corrimiento de índices arruine los borrados siguientes). Devuelve true si
// hubo alguna mutación.
func (s *Service) reapOnceAlarms(doc schedule.Schedule, reap map[schedule.PatientKey][]int) bool {
	mutated := false

	for key, indices := range reap {
		if len(indices) == 0 {
			continue
		}

		p, ok := doc.Patients[key]
		if !ok {
			continue
		}

		sort.Sort(sort.Reverse(sort.IntSlice(indices)))
		for _, i := range indices {
			if i < 0 || i >= len(p.Medications) {
				continue
			}
			removed := p.Medications[i]
			p.Medications = append(p.Medications[:i], p.Medications[i+1:]...)
			mutated = true

			s.log.Info("removed triggered once alarm", map[string]any{
				"patient":  key.String(),
				"medicine": removed.Name,
			})
		}
		doc.Patients[key] = p
	}

	if mutated {
		doc.PruneEmptyPatients()
	}
	return mutated
}
