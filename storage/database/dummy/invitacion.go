package dummydb

import (
	"context"
	"sort"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/invitacion"
)

type invitacionRepository struct {
	db *DB
}

var _ invitacion.Repository = (*invitacionRepository)(nil) // interface compliance check

func NewInvitacionRepository(db *DB) *invitacionRepository {
	return &invitacionRepository{db: db}
}

func (repo *invitacionRepository) CreateInvitacion(_ context.Context, inv invitacion.Invitacion, _ ...core.DBExecutor) (invitacion.Invitacion, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	inv.ID = repo.db.nextID()
	repo.db.invitaciones[inv.ID] = &inv
	return inv, nil
}

func (repo *invitacionRepository) GetInvitacion(_ context.Context, id int) (invitacion.Invitacion, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if inv, ok := repo.db.invitaciones[id]; ok {
		return *inv, nil
	}
	return invitacion.Invitacion{}, invitacion.ErrNotFound
}

func (repo *invitacionRepository) GetInvitacionByToken(_ context.Context, token string) (invitacion.Invitacion, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, inv := range repo.db.invitaciones {
		if inv.Token == token {
			return *inv, nil
		}
	}
	return invitacion.Invitacion{}, invitacion.ErrNotFound
}

func (repo *invitacionRepository) QueryPendientesByCorreo(_ context.Context, correo string) ([]invitacion.Invitacion, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	invs := make([]invitacion.Invitacion, 0)
	for _, inv := range repo.db.invitaciones {
		if inv.Correo == correo && inv.Estado == invitacion.EstadoPendiente {
			invs = append(invs, *inv)
		}
	}
	sort.Slice(invs, func(i, j int) bool { return invs[i].ID < invs[j].ID })
	return invs, nil
}

func (repo *invitacionRepository) SetToken(_ context.Context, id int, token string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	inv, ok := repo.db.invitaciones[id]
	if !ok {
		return invitacion.ErrNotFound
	}
	inv.Token = token
	return nil
}

func (repo *invitacionRepository) SetEstado(_ context.Context, id int, estado string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	inv, ok := repo.db.invitaciones[id]
	if !ok {
		return invitacion.ErrNotFound
	}
	inv.Estado = estado
	return nil
}
