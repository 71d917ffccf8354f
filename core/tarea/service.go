package tarea

import (
	"context"
	"time"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/seccion"
)

var ErrNotFound = core.NewNotFoundError("tarea not found")

type (
	Repository interface {
		CreateTarea(ctx context.Context, t Tarea, exec ...core.DBExecutor) (Tarea, error)
		GetTarea(ctx context.Context, id int) (Tarea, error)
		QueryBySeccion(ctx context.Context, idSeccion int) ([]Tarea, error)
		QueryBySeccionTipo(ctx context.Context, idSeccion int, tipo string) ([]Tarea, error)
		UpdateTarea(ctx context.Context, t Tarea, exec ...core.DBExecutor) (Tarea, error)
		DeleteTarea(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, nt NewTarea) (Tarea, error)
		Get(ctx context.Context, id int) (Tarea, error)
		PorSeccion(ctx context.Context, idSeccion int) ([]Tarea, error)
		Update(ctx context.Context, id int, nt NewTarea) (Tarea, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		repo        Repository
		seccionRepo seccion.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, seccionRepo seccion.Repository) Service {
	return &service{repo: repo, seccionRepo: seccionRepo}
}

func (svc *service) Create(ctx context.Context, nt NewTarea) (Tarea, error) {
	if _, err := svc.seccionRepo.GetSeccion(ctx, nt.SeccionID); err != nil {
		return Tarea{}, err
	}
	return svc.repo.CreateTarea(ctx, Tarea{
		SeccionID:        nt.SeccionID,
		Nombre:           nt.Nombre,
		Tipo:             nt.Tipo,
		Descripcion:      nt.Descripcion,
		FechaVencimiento: nt.FechaVencimiento,
		FechaCreacion:    time.Now().UTC(),
	})
}

func (svc *service) Get(ctx context.Context, id int) (Tarea, error) {
	return svc.repo.GetTarea(ctx, id)
}

func (svc *service) PorSeccion(ctx context.Context, idSeccion int) ([]Tarea, error) {
	return svc.repo.QueryBySeccion(ctx, idSeccion)
}

func (svc *service) Update(ctx context.Context, id int, nt NewTarea) (Tarea, error) {
	t, err := svc.repo.GetTarea(ctx, id)
	if err != nil {
		return Tarea{}, err
	}
	t.Nombre = nt.Nombre
	t.Tipo = nt.Tipo
	t.Descripcion = nt.Descripcion
	t.FechaVencimiento = nt.FechaVencimiento
	return svc.repo.UpdateTarea(ctx, t)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetTarea(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteTarea(ctx, id)
}
