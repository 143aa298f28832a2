package saga_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/application/saga"
	"github.com/marko-code-lab/noiddea/internal/domain"
)

func TestAbort_DeshaceEnOrdenInverso(t *testing.T) {
	var order []string
	s := saga.New("signup", ports.NopMetrics{}, zerolog.Nop())
	s.Done("cuenta", func(context.Context) error {
		order = append(order, "cuenta")
		return nil
	})
	s.Done("perfil", func(context.Context) error {
		order = append(order, "perfil")
		return nil
	})

	err := s.Abort(context.Background(), errors.New("boom"), "error creando el negocio")
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Contains(t, err.Error(), "error creando el negocio")
	assert.Equal(t, []string{"perfil", "cuenta"}, order)
}

func TestAbort_CompensacionFallidaNoDetieneLasDemas(t *testing.T) {
	called := false
	s := saga.New("signup", nil, zerolog.Nop())
	s.Done("cuenta", func(context.Context) error {
		called = true
		return nil
	})
	s.Done("perfil", func(context.Context) error {
		return errors.New("sin conexión")
	})

	err := s.Abort(context.Background(), errors.New("boom"), "x")
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.True(t, called)
}

func TestAbort_SinPasos(t *testing.T) {
	s := saga.New("signup", nil, zerolog.Nop())
	assert.ErrorIs(t, s.Abort(context.Background(), errors.New("boom"), "x"), domain.ErrPartialWrite)
}
