package person

import (
	"context"

	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("persona not found")
	ErrAlumnoNotFound   = core.NewNotFoundError("alumno not found")
	ErrProfesorNotFound = core.NewNotFoundError("profesor not found")
)

type (
	Repository interface {
		GetPersona(ctx context.Context, id int) (Persona, error)
		GetAlumno(ctx context.Context, id int) (Alumno, error)
		GetProfesor(ctx context.Context, id int) (Profesor, error)
		FindAlumnoByPersona(ctx context.Context, idPersona int) (Alumno, error)
		FindProfesorByPersona(ctx context.Context, idPersona int) (Profesor, error)
	}

	Service interface {
		GetAlumno(ctx context.Context, id int) (Alumno, error)
		GetProfesor(ctx context.Context, id int) (Profesor, error)
		AlumnoPorPersona(ctx context.Context, idPersona int) (Alumno, error)
		ProfesorPorPersona(ctx context.Context, idPersona int) (Profesor, error)
		// RoleOf resolves a persona's role from the presence of linked rows.
		RoleOf(ctx context.Context, idPersona int) (Role, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) GetAlumno(ctx context.Context, id int) (Alumno, error) {
	return svc.repo.GetAlumno(ctx, id)
}

func (svc *service) GetProfesor(ctx context.Context, id int) (Profesor, error) {
	return svc.repo.GetProfesor(ctx, id)
}

func (svc *service) AlumnoPorPersona(ctx context.Context, idPersona int) (Alumno, error) {
	return svc.repo.FindAlumnoByPersona(ctx, idPersona)
}

func (svc *service) ProfesorPorPersona(ctx context.Context, idPersona int) (Profesor, error) {
	return svc.repo.FindProfesorByPersona(ctx, idPersona)
}

func (svc *service) RoleOf(ctx context.Context, idPersona int) (Role, error) {
	if _, err := svc.repo.GetPersona(ctx, idPersona); err != nil {
		return RoleNeither, err
	}

	var isAlumno, isProfesor bool
	if _, err := svc.repo.FindAlumnoByPersona(ctx, idPersona); err == nil {
		isAlumno = true
	} else if !core.IsNotFound(err) {
		return RoleNeither, errors.Wrap(err, "looking up alumno role")
	}
	if _, err := svc.repo.FindProfesorByPersona(ctx, idPersona); err == nil {
		isProfesor = true
	} else if !core.IsNotFound(err) {
		return RoleNeither, errors.Wrap(err, "looking up profesor role")
	}

	switch {
	case isAlumno && isProfesor:
		return RoleBoth, nil
	case isAlumno:
		return RoleAlumno, nil
	case isProfesor:
		return RoleProfesor, nil
	}
	return RoleNeither, nil
}
