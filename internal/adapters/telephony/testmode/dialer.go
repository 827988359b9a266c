package testmode

import (
	"context"

	"github.com/google/uuid"

	"easymed/internal/platform/logger"
	"easymed/internal/ports/telephony"
)

// Dialer es el modo test: loguea lo que se habría enviado en lugar de llamar.
// Devuelve un call id fabricado para que el resto del flujo no cambie.
type Dialer struct {
	log logger.Logger
}

func NewDialer(log logger.Logger) *Dialer {
	return &Dialer{log: log}
}

func (d *Dialer) Place(_ context.Context, c telephony.Call) (string, error) {
	id := "test-" + uuid.NewString()

	d.log.Info("test mode: would place reminder call", map[string]any{
		"to":      c.To,
		"message": c.Message,
		"call_id": id,
	})
	return id, nil
}
