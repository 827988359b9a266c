package telephony

import "context"

// Call es una llamada de voz saliente ya lista para el proveedor: número en
// formato canónico +<dígitos> y mensaje final.
type Call struct {
	To      string
	Message string
}

// Dialer coloca la llamada y devuelve el identificador que asigna el
// proveedor. Es un sink opaco y falible: un error acá nunca es fatal para el
// ciclo de escaneo.
type Dialer interface {
	Place(ctx context.Context, c Call) (callID string, err error)
}
