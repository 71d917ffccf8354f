package grupo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/entrega"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/core/tarea"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("grupo not found")
	ErrNoMatricula = core.NewValidationError(errors.New("alumno is not enrolled in this section"),
		core.FieldError{Field: "idAlumno", Error: "is not enrolled in this section"})
	ErrYaAgrupado = core.NewConflictError("one or more students already belong to a group in this section")
	ErrMuyPequenio = core.NewValidationError(errors.New("a group needs at least 2 students"),
		core.FieldError{Field: "alumnoIds", Error: "a group needs at least 2 students"})
)

const fechaEntregaLayout = "2006-01-02 15:04"

type (
	Repository interface {
		CreateGrupo(ctx context.Context, g Grupo, exec ...core.DBExecutor) (Grupo, error)
		GetGrupo(ctx context.Context, id int) (Grupo, error)
		QueryBySeccion(ctx context.Context, idSeccion int) ([]Grupo, error)
		UpdateGrupo(ctx context.Context, g Grupo, exec ...core.DBExecutor) (Grupo, error)
		DeleteGrupo(ctx context.Context, id int, exec ...core.DBExecutor) error
		ExistsGrupo(ctx context.Context, id int) (bool, error)

		// membership rows (alumno_seccion)
		GetMembership(ctx context.Context, idAlumno, idSeccion int) (seccion.Membership, error)
		QueryMembershipsBySeccion(ctx context.Context, idSeccion int) ([]seccion.Membership, error)
		QueryMembershipsByGrupo(ctx context.Context, idGrupo int) ([]seccion.Membership, error)
		QueryMembershipsSinGrupo(ctx context.Context, idSeccion int) ([]seccion.Membership, error)
		// SetMembershipGrupo points the membership row at a group, or clears
		// it when idGrupo is the null zero value.
		SetMembershipGrupo(ctx context.Context, idMembership int, idGrupo null.Int, exec ...core.DBExecutor) error
		// ClearGrupoMembers nulls id_grupo on every membership of the group.
		ClearGrupoMembers(ctx context.Context, idGrupo int, exec ...core.DBExecutor) error
		CreateMembership(ctx context.Context, m seccion.Membership, exec ...core.DBExecutor) error
		ExistsMembership(ctx context.Context, idAlumno, idSeccion int) (bool, error)
	}

	// EntregaRepository is the slice of the submission store this service
	// needs for the group grade view.
	EntregaRepository interface {
		QueryByTareaGrupo(ctx context.Context, idTarea, idGrupo int) ([]entrega.Entrega, error)
	}

	Service interface {
		Crear(ctx context.Context, ng NewGrupo) (Response, error)
		Modificar(ctx context.Context, idGrupo int, eg EditGrupo) (Response, error)
		Eliminar(ctx context.Context, idGrupo int) error
		Get(ctx context.Context, idGrupo int) (Response, error)
		PorSeccion(ctx context.Context, idSeccion int) ([]Response, error)
		Integrantes(ctx context.Context, idGrupo int) ([]Integrante, error)
		// InfoPorAlumno returns nil when the student has no group in the
		// section.
		InfoPorAlumno(ctx context.Context, idSeccion, idAlumno int) (*Info, error)
		AlumnosDisponibles(ctx context.Context, idSeccion int) ([]Alumno, error)
		Alumnos(ctx context.Context, idSeccion int) ([]Alumno, error)
	}

	service struct {
		db          core.DB
		repo        Repository
		seccionRepo seccion.Repository
		tareaRepo   tarea.Repository
		entregaRepo EntregaRepository
	}
)

var _ Service = (*service)(nil)

func NewService(
	db core.DB,
	repo Repository,
	seccionRepo seccion.Repository,
	tareaRepo tarea.Repository,
	entregaRepo EntregaRepository,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		seccionRepo: seccionRepo,
		tareaRepo:   tareaRepo,
		entregaRepo: entregaRepo,
	}
}

func (svc *service) Crear(ctx context.Context, ng NewGrupo) (Response, error) {
	if len(ng.AlumnoIDs) < 2 {
		return Response{}, ErrMuyPequenio
	}
	if _, err := svc.seccionRepo.GetSeccion(ctx, ng.SeccionID); err != nil {
		return Response{}, err
	}

	// every candidate must be enrolled and ungrouped before anything is
	// written
	members := make([]seccion.Membership, 0, len(ng.AlumnoIDs))
	for _, idAlumno := range ng.AlumnoIDs {
		m, err := svc.repo.GetMembership(ctx, idAlumno, ng.SeccionID)
		if err != nil {
			if core.IsNotFound(err) {
				return Response{}, ErrNoMatricula
			}
			return Response{}, errors.Wrap(err, "querying membership")
		}
		if m.GrupoID.Valid {
			return Response{}, ErrYaAgrupado
		}
		members = append(members, m)
	}

	var created Grupo
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		created, err = svc.repo.CreateGrupo(ctx, Grupo{
			SeccionID: ng.SeccionID,
			Nombre:    core.CleanString(ng.NombreGrupo),
		}, tx)
		if err != nil {
			return errors.Wrap(err, "creating grupo")
		}
		for _, m := range members {
			if err = svc.repo.SetMembershipGrupo(ctx, m.ID, null.IntFrom(created.ID), tx); err != nil {
				return errors.Wrap(err, "assigning member")
			}
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return svc.response(ctx, created)
}

func (svc *service) Modificar(ctx context.Context, idGrupo int, eg EditGrupo) (Response, error) {
	if len(eg.AlumnoIDs) < 2 {
		return Response{}, ErrMuyPequenio
	}
	g, err := svc.repo.GetGrupo(ctx, idGrupo)
	if err != nil {
		return Response{}, err
	}

	wanted := make(map[int]bool, len(eg.AlumnoIDs))
	members := make([]seccion.Membership, 0, len(eg.AlumnoIDs))
	for _, idAlumno := range eg.AlumnoIDs {
		m, err := svc.repo.GetMembership(ctx, idAlumno, g.SeccionID)
		if err != nil {
			if core.IsNotFound(err) {
				return Response{}, ErrNoMatricula
			}
			return Response{}, errors.Wrap(err, "querying membership")
		}
		if m.GrupoID.Valid && m.GrupoID.Int != idGrupo {
			return Response{}, ErrYaAgrupado
		}
		wanted[idAlumno] = true
		members = append(members, m)
	}

	current, err := svc.repo.QueryMembershipsByGrupo(ctx, idGrupo)
	if err != nil {
		return Response{}, errors.Wrap(err, "querying members")
	}

	g.Nombre = core.CleanString(eg.NombreGrupo)
	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.repo.UpdateGrupo(ctx, g, tx); err != nil {
			return errors.Wrap(err, "updating grupo")
		}
		for _, m := range current {
			if !wanted[m.AlumnoID] {
				if err := svc.repo.SetMembershipGrupo(ctx, m.ID, null.Int{}, tx); err != nil {
					return errors.Wrap(err, "removing member")
				}
			}
		}
		for _, m := range members {
			if !m.GrupoID.Valid {
				if err := svc.repo.SetMembershipGrupo(ctx, m.ID, null.IntFrom(idGrupo), tx); err != nil {
					return errors.Wrap(err, "adding member")
				}
			}
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return svc.response(ctx, g)
}

func (svc *service) Eliminar(ctx context.Context, idGrupo int) error {
	if _, err := svc.repo.GetGrupo(ctx, idGrupo); err != nil {
		return err
	}
	// member rows must stop referencing the group before the row goes
	return core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if err := svc.repo.ClearGrupoMembers(ctx, idGrupo, tx); err != nil {
			return errors.Wrap(err, "clearing members")
		}
		return errors.Wrap(svc.repo.DeleteGrupo(ctx, idGrupo, tx), "deleting grupo")
	})
}

func (svc *service) Get(ctx context.Context, idGrupo int) (Response, error) {
	g, err := svc.repo.GetGrupo(ctx, idGrupo)
	if err != nil {
		return Response{}, err
	}
	return svc.response(ctx, g)
}

func (svc *service) PorSeccion(ctx context.Context, idSeccion int) ([]Response, error) {
	grupos, err := svc.repo.QueryBySeccion(ctx, idSeccion)
	if err != nil {
		return nil, errors.Wrap(err, "querying grupos")
	}
	resps := make([]Response, 0, len(grupos))
	for _, g := range grupos {
		resp, err := svc.response(ctx, g)
		if err != nil {
			return nil, err
		}
		resps = append(resps, resp)
	}
	return resps, nil
}

func (svc *service) Integrantes(ctx context.Context, idGrupo int) ([]Integrante, error) {
	if _, err := svc.repo.GetGrupo(ctx, idGrupo); err != nil {
		return nil, err
	}
	members, err := svc.repo.QueryMembershipsByGrupo(ctx, idGrupo)
	if err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	integrantes := make([]Integrante, 0, len(members))
	for _, m := range members {
		integrantes = append(integrantes, Integrante{
			IDAlumno:       m.AlumnoID,
			NombreCompleto: m.Alumno.Persona.NombreCompleto(),
			CodigoAlumno:   m.Alumno.CodigoAlumno,
		})
	}
	return integrantes, nil
}

func (svc *service) InfoPorAlumno(ctx context.Context, idSeccion, idAlumno int) (*Info, error) {
	m, err := svc.repo.GetMembership(ctx, idAlumno, idSeccion)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, ErrNoMatricula
		}
		return nil, errors.Wrap(err, "querying membership")
	}
	if !m.GrupoID.Valid {
		return nil, nil
	}

	g, err := svc.repo.GetGrupo(ctx, m.GrupoID.Int)
	if err != nil {
		return nil, err
	}
	s, err := svc.seccionRepo.GetSeccion(ctx, g.SeccionID)
	if err != nil {
		return nil, err
	}
	integrantes, err := svc.Integrantes(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	tareas, notas, err := svc.tareasGrupales(ctx, g)
	if err != nil {
		return nil, err
	}

	return &Info{
		ID:                  g.ID,
		NombreGrupo:         g.Nombre,
		PromedioFinal:       g.PromedioFinal,
		NombreSeccion:       s.NombreCurso,
		CantidadIntegrantes: len(integrantes),
		Integrantes:         integrantes,
		TotalTareas:         len(tareas),
		Tareas:              tareas,
		PromedioActual:      entrega.Promedio(notas),
	}, nil
}

// tareasGrupales builds the group's per-assignment view and collects the
// grades feeding the running average. Zero grades show in the view but are
// left out of the average.
func (svc *service) tareasGrupales(ctx context.Context, g Grupo) ([]TareaGrupal, []float64, error) {
	grupales, err := svc.tareaRepo.QueryBySeccionTipo(ctx, g.SeccionID, tarea.TipoGrupal)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying tareas")
	}

	rows := make([]TareaGrupal, 0, len(grupales))
	var notas []float64
	for _, t := range grupales {
		row := TareaGrupal{TareaID: t.ID, NombreTarea: t.Nombre}
		entregas, err := svc.entregaRepo.QueryByTareaGrupo(ctx, t.ID, g.ID)
		if err != nil {
			return nil, nil, errors.Wrap(err, "querying entregas")
		}
		if len(entregas) > 0 {
			ultima := entregas[0]
			row.Nota = ultima.Nota
			row.FechaEntrega = null.StringFrom(ultima.FechaEntrega.Format(fechaEntregaLayout))
			if ultima.Nota.Valid && ultima.Nota.Float64 > 0 {
				notas = append(notas, ultima.Nota.Float64)
			}
		}
		rows = append(rows, row)
	}
	return rows, notas, nil
}

func (svc *service) AlumnosDisponibles(ctx context.Context, idSeccion int) ([]Alumno, error) {
	members, err := svc.repo.QueryMembershipsSinGrupo(ctx, idSeccion)
	if err != nil {
		return nil, errors.Wrap(err, "querying memberships")
	}
	return alumnos(members), nil
}

func (svc *service) Alumnos(ctx context.Context, idSeccion int) ([]Alumno, error) {
	members, err := svc.repo.QueryMembershipsBySeccion(ctx, idSeccion)
	if err != nil {
		return nil, errors.Wrap(err, "querying memberships")
	}
	return alumnos(members), nil
}

func alumnos(members []seccion.Membership) []Alumno {
	rows := make([]Alumno, 0, len(members))
	for _, m := range members {
		rows = append(rows, Alumno{
			IDAlumno:       m.AlumnoID,
			NombreCompleto: m.Alumno.Persona.NombreCompleto(),
			CodigoAlumno:   m.Alumno.CodigoAlumno,
			GrupoID:        m.GrupoID,
			NombreGrupo:    m.NombreGrupo,
		})
	}
	return rows
}

func (svc *service) response(ctx context.Context, g Grupo) (Response, error) {
	members, err := svc.repo.QueryMembershipsByGrupo(ctx, g.ID)
	if err != nil {
		return Response{}, errors.Wrap(err, "querying members")
	}
	return Response{
		ID:              g.ID,
		NombreGrupo:     g.Nombre,
		PromedioFinal:   g.PromedioFinal,
		SeccionID:       g.SeccionID,
		Alumnos:         alumnos(members),
		CantidadAlumnos: len(members),
	}, nil
}
