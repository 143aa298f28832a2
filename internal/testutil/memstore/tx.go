package memstore

import (
	"context"

	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// TxRunner simula una transacción sobre concesiones y perfiles: si fn falla, restaura el estado previo.
type TxRunner struct{ s *Store }

// Tx devuelve el runner transaccional.
func (s *Store) Tx() *TxRunner { return &TxRunner{s: s} }

func (t *TxRunner) Run(ctx context.Context, fn func(memberships repository.MembershipRepository, users repository.UserRepository) error) error {
	if err := t.s.enter("tx.begin"); err != nil {
		return err
	}
	t.s.mu.Lock()
	businessUsers := cloneMap(t.s.businessUsers)
	branchUsers := cloneMap(t.s.branchUsers)
	users := cloneMap(t.s.users)
	t.s.mu.Unlock()

	if err := fn(t.s.Memberships(), t.s.Users()); err != nil {
		t.s.mu.Lock()
		t.s.businessUsers = businessUsers
		t.s.branchUsers = branchUsers
		t.s.users = users
		t.s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}
