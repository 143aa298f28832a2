// Package saga registra los pasos ya aplicados de una operación de varias escrituras sin transacción
// y, ante la primera falla, los deshace en orden inverso.
package saga

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain"
)

type step struct {
	name string
	undo func(ctx context.Context) error
}

// Saga pasos compensables de una operación. No es seguro para uso concurrente.
type Saga struct {
	operation string
	metrics   ports.Metrics
	log       zerolog.Logger
	steps     []step
}

// New crea una saga para operation (nombre usado en logs y métricas).
func New(operation string, metrics ports.Metrics, log zerolog.Logger) *Saga {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Saga{operation: operation, metrics: metrics, log: log}
}

// Done registra un paso aplicado y la escritura que lo deshace.
func (s *Saga) Done(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, step{name: name, undo: undo})
}

// Abort deshace los pasos registrados (último primero) y devuelve domain.ErrPartialWrite con msg.
// Una compensación fallida se registra y no detiene las siguientes.
func (s *Saga) Abort(ctx context.Context, cause error, msg string) error {
	failed := 0
	for i := len(s.steps) - 1; i >= 0; i-- {
		st := s.steps[i]
		if err := st.undo(ctx); err != nil {
			failed++
			s.metrics.Compensation(s.operation, false)
			s.log.Error().Err(err).
				AnErr("cause", cause).
				Str("operation", s.operation).
				Str("step", st.name).
				Msg("compensación fallida")
			continue
		}
		s.metrics.Compensation(s.operation, true)
	}
	s.steps = nil
	if failed == 0 {
		s.log.Warn().Err(cause).Str("operation", s.operation).Msg("operación revertida")
	}
	return fmt.Errorf("%w: %s", domain.ErrPartialWrite, msg)
}
