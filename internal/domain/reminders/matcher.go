package reminders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"easymed/internal/domain/schedule"
)

var (
	ErrUnknownFrequency = errors.New("unknown frequency")
	ErrBadDateTime      = errors.New("invalid once datetime")
)

const (
	timeLayout     = "15:04"
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// MatchResult indica si un medicamento está "due" en este instante.
// Reap=true solo para Once: el disparo implica además borrar la entrada.
type MatchResult struct {
	Due  bool
	Reap bool
	Time string // HH:MM del match (para agrupar la notificación)
}

// Match compara el instante actual contra la agenda de un medicamento.
// La comparación es por string exacto con granularidad de minuto: si el loop
// corre al menos una vez por minuto, un Once dispara a lo sumo una vez; si el
// proceso estuvo caído en ese minuto exacto, el recordatorio se pierde en
// silencio (sin catch-up).
func Match(now time.Time, med schedule.Medication) (MatchResult, error) {
	currentTime := now.Format(timeLayout)

	freq, ok := schedule.ParseFrequency(string(med.Frequency))
	if !ok {
		return MatchResult{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, med.Frequency)
	}

	switch freq {
	case schedule.FrequencyOnce:
		scheduled, err := time.Parse(dateTimeLayout, strings.TrimSpace(med.DateTime))
		if err != nil {
			return MatchResult{}, fmt.Errorf("%w: %q", ErrBadDateTime, med.DateTime)
		}
		if now.Format(dateLayout) == scheduled.Format(dateLayout) &&
			currentTime == scheduled.Format(timeLayout) {
			return MatchResult{Due: true, Reap: true, Time: scheduled.Format(timeLayout)}, nil
		}
		return MatchResult{}, nil

	case schedule.FrequencyDaily:
		if containsTime(med.Times, currentTime) {
			return MatchResult{Due: true, Time: currentTime}, nil
		}
		return MatchResult{}, nil

	case schedule.FrequencyWeekly:
		if !strings.EqualFold(med.Day, now.Weekday().String()) {
			return MatchResult{}, nil
		}
		if containsTime(med.Times, currentTime) {
			return MatchResult{Due: true, Time: currentTime}, nil
		}
		return MatchResult{}, nil
	}

	return MatchResult{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, med.Frequency)
}

func containsTime(times []string, t string) bool {
	for _, v := range times {
		if strings.TrimSpace(v) == t {
			return true
		}
	}
	return false
}
