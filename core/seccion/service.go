package seccion

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/person"
)

var (
	// errors
	ErrNotFound  = core.NewNotFoundError("seccion not found")
	ErrDuplicate = core.NewConflictError("a section with this name already exists for that year")
	ErrNotOwner  = core.NewPermissionError("no permission to edit this section")
)

type (
	Repository interface {
		CreateSeccion(ctx context.Context, s Seccion, exec ...core.DBExecutor) (Seccion, error)
		GetSeccion(ctx context.Context, id int) (Seccion, error)
		QueryByProfesor(ctx context.Context, idProfesor int) ([]Seccion, error)
		QueryByProfesorAnio(ctx context.Context, idProfesor, anio int) ([]Seccion, error)
		QueryByAlumnoAnio(ctx context.Context, idAlumno, anio int) ([]SeccionAlumno, error)
		UpdateSeccion(ctx context.Context, s Seccion, exec ...core.DBExecutor) (Seccion, error)
		DeleteSeccion(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, ns NewSeccion) (Seccion, error)
		Edit(ctx context.Context, idSeccion, idProfesor int, es EditSeccion) (Seccion, error)
		// Delete reports its outcome as a tag; it does not distinguish
		// failures via error except for unexpected ones.
		Delete(ctx context.Context, idSeccion, idProfesor int) (DeleteOutcome, error)
		Get(ctx context.Context, id int) (Seccion, error)
		PorProfesor(ctx context.Context, idProfesor int) ([]Seccion, error)
		PorProfesorAnio(ctx context.Context, idProfesor, anio int) ([]Seccion, error)
		PorAlumnoAnio(ctx context.Context, idAlumno, anio int) ([]SeccionAlumno, error)
	}

	service struct {
		repo       Repository
		personRepo person.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, personRepo person.Repository) Service {
	return &service{repo: repo, personRepo: personRepo}
}

func validarCampos(nombreCurso string, anio *int) error {
	if core.CleanString(nombreCurso) == "" {
		return core.NewValidationError(errors.New("nombreCurso is required"),
			core.FieldError{Field: "nombreCurso", Error: "this field is required"})
	}
	if anio == nil {
		return core.NewValidationError(errors.New("anio is required"),
			core.FieldError{Field: "anio", Error: "this field is required"})
	}
	if *anio < 2000 {
		return core.NewValidationError(errors.New("anio must be 2000 or later"),
			core.FieldError{Field: "anio", Error: "must be 2000 or later"})
	}
	return nil
}

// checkDuplicate enforces the (profesor, lower(nombreCurso), anio) uniqueness
// invariant; exclID is skipped so edits do not collide with their own row.
func (svc *service) checkDuplicate(ctx context.Context, idProfesor int, nombreCurso string, anio, exclID int) error {
	existing, err := svc.repo.QueryByProfesorAnio(ctx, idProfesor, anio)
	if err != nil {
		return errors.Wrap(err, "querying sections for duplicate check")
	}
	for _, s := range existing {
		if s.ID != exclID && strings.EqualFold(s.NombreCurso, nombreCurso) {
			return ErrDuplicate
		}
	}
	return nil
}

func (svc *service) Create(ctx context.Context, ns NewSeccion) (Seccion, error) {
	if err := validarCampos(ns.NombreCurso, ns.Anio); err != nil {
		return Seccion{}, err
	}

	prof, err := svc.personRepo.GetProfesor(ctx, ns.ProfesorID)
	if err != nil {
		return Seccion{}, err
	}

	if err = svc.checkDuplicate(ctx, prof.ID, ns.NombreCurso, *ns.Anio, 0); err != nil {
		return Seccion{}, err
	}

	return svc.repo.CreateSeccion(ctx, Seccion{
		NombreCurso: core.CleanString(ns.NombreCurso),
		Anio:        *ns.Anio,
		Codigo:      core.CleanString(ns.Codigo),
		ProfesorID:  prof.ID,
	})
}

func (svc *service) Edit(ctx context.Context, idSeccion, idProfesor int, es EditSeccion) (Seccion, error) {
	if err := validarCampos(es.NombreCurso, es.Anio); err != nil {
		return Seccion{}, err
	}

	s, err := svc.repo.GetSeccion(ctx, idSeccion)
	if err != nil {
		return Seccion{}, err
	}
	if s.ProfesorID != idProfesor {
		return Seccion{}, ErrNotOwner
	}

	if err = svc.checkDuplicate(ctx, idProfesor, es.NombreCurso, *es.Anio, s.ID); err != nil {
		return Seccion{}, err
	}

	s.NombreCurso = core.CleanString(es.NombreCurso)
	s.Anio = *es.Anio
	return svc.repo.UpdateSeccion(ctx, s)
}

func (svc *service) Delete(ctx context.Context, idSeccion, idProfesor int) (DeleteOutcome, error) {
	s, err := svc.repo.GetSeccion(ctx, idSeccion)
	if err != nil {
		if core.IsNotFound(err) {
			return DeleteNotFound, nil
		}
		return DeleteNotFound, err
	}
	if s.ProfesorID != idProfesor {
		return DeleteForbidden, nil
	}
	if err = svc.repo.DeleteSeccion(ctx, idSeccion); err != nil {
		return DeleteNotFound, errors.Wrap(err, "deleting section")
	}
	return DeleteOK, nil
}

func (svc *service) Get(ctx context.Context, id int) (Seccion, error) {
	return svc.repo.GetSeccion(ctx, id)
}

func (svc *service) PorProfesor(ctx context.Context, idProfesor int) ([]Seccion, error) {
	return svc.repo.QueryByProfesor(ctx, idProfesor)
}

func (svc *service) PorProfesorAnio(ctx context.Context, idProfesor, anio int) ([]Seccion, error) {
	return svc.repo.QueryByProfesorAnio(ctx, idProfesor, anio)
}

func (svc *service) PorAlumnoAnio(ctx context.Context, idAlumno, anio int) ([]SeccionAlumno, error) {
	return svc.repo.QueryByAlumnoAnio(ctx, idAlumno, anio)
}
