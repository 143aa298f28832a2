// Package memstore implementa los puertos de persistencia e identidad en memoria, con inyección de
// fallas por operación. Lo usan los tests de los casos de uso para ejercitar las compensaciones.
package memstore

import (
	"sync"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	businesses    map[string]*entity.Business
	branches      map[string]*entity.Branch
	businessUsers map[string]*entity.BusinessUser
	branchUsers   map[string]*entity.BranchUser
	users         map[string]*entity.User
	products      map[string]*entity.Product
	presentations map[string]*entity.ProductPresentation
	accounts      map[string]*account
	suppliers     map[string]*entity.Supplier
	purchases     map[string]*entity.Purchase
	purchaseItems map[string][]*entity.PurchaseItem

	calls    map[string]int
	failures map[string]failure
	hooks    map[string]func(call int)
}

type failure struct {
	err error
	nth int // 0 = siempre
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		businesses:    make(map[string]*entity.Business),
		branches:      make(map[string]*entity.Branch),
		businessUsers: make(map[string]*entity.BusinessUser),
		branchUsers:   make(map[string]*entity.BranchUser),
		users:         make(map[string]*entity.User),
		products:      make(map[string]*entity.Product),
		presentations: make(map[string]*entity.ProductPresentation),
		accounts:      make(map[string]*account),
		suppliers:     make(map[string]*entity.Supplier),
		purchases:     make(map[string]*entity.Purchase),
		purchaseItems: make(map[string][]*entity.PurchaseItem),
		calls:         make(map[string]int),
		failures:      make(map[string]failure),
		hooks:         make(map[string]func(call int)),
	}
}

// FailAlways hace que la operación op falle siempre con err.
func (s *Store) FailAlways(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{err: err}
}

// FailOnNth hace que la n-ésima llamada (desde 1) a op falle con err.
func (s *Store) FailOnNth(op string, n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{err: err, nth: n}
}

// ClearFailures quita todas las fallas inyectadas.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// OnCall registra una función que corre antes de cada llamada a op (sin el lock tomado).
// Sirve para simular escrituras concurrentes.
func (s *Store) OnCall(op string, fn func(call int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[op] = fn
}

// Calls devuelve cuántas veces se llamó op.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter cuenta la llamada, corre el hook y devuelve la falla inyectada si corresponde.
// Debe llamarse sin el lock tomado.
func (s *Store) enter(op string) error {
	s.mu.Lock()
	s.calls[op]++
	call := s.calls[op]
	hook := s.hooks[op]
	s.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.failures[op]
	if !ok {
		return nil
	}
	if f.nth == 0 || f.nth == call {
		return f.err
	}
	return nil
}
