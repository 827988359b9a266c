package schedule

import "context"

// Repository persiste el documento completo de agenda. No hay escrituras
// parciales: cada mutación es Load → modificar → Save.
//
// El documento lo comparten dos procesos (API de carga y daemon de
// recordatorios) sin lock entre ellos; se asume disciplina de un solo
// escritor a la vez. El adapter de archivo escribe con rename atómico para
// que un lector nunca vea un documento a medio escribir.
type Repository interface {
	Load(ctx context.Context) (Schedule, error)
	Save(ctx context.Context, s Schedule) error
}
