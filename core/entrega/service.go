package entrega

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/core/tarea"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("entrega not found")
	ErrTareaNoGrupal = core.NewValidationError(errors.New("tarea is not of type Grupal"),
		core.FieldError{Field: "idTarea", Error: "tarea is not of type Grupal"})
)

// NowFunc returns the submission timestamp; mockable.
var NowFunc = time.Now

type (
	Repository interface {
		CreateEntrega(ctx context.Context, e Entrega, exec ...core.DBExecutor) (Entrega, error)
		LinkAlumno(ctx context.Context, idEntrega, idAlumno int, exec ...core.DBExecutor) error
		LinkGrupo(ctx context.Context, idEntrega, idGrupo int, exec ...core.DBExecutor) error
		GetEntrega(ctx context.Context, id int) (Entrega, error)
		// UpdateNota mutates that exact row's grade in place and reports the
		// number of rows affected.
		UpdateNota(ctx context.Context, idEntrega int, nota float64, exec ...core.DBExecutor) (int64, error)
		// QueryByTareaAlumno returns the submission history for the pair,
		// most recent first (fecha_entrega desc, id desc).
		QueryByTareaAlumno(ctx context.Context, idTarea, idAlumno int) ([]Entrega, error)
		QueryByTareaGrupo(ctx context.Context, idTarea, idGrupo int) ([]Entrega, error)
	}

	// GrupoRepository is the slice of the group store this service needs.
	GrupoRepository interface {
		ExistsGrupo(ctx context.Context, id int) (bool, error)
	}

	// RosterRepository is the slice of the section-membership store this
	// service needs.
	RosterRepository interface {
		GetMembership(ctx context.Context, idAlumno, idSeccion int) (seccion.Membership, error)
		QueryMembershipsBySeccion(ctx context.Context, idSeccion int) ([]seccion.Membership, error)
	}

	Service interface {
		RegistrarIndividual(ctx context.Context, idTarea, idAlumno int, nota *float64) (Entrega, error)
		RegistrarGrupal(ctx context.Context, idTarea, idGrupo int, nota *float64) (Entrega, error)
		// ActualizarNotaPorID mutates the exact row; it is a distinct path
		// from the por-tarea updates, which target the most recent row.
		ActualizarNotaPorID(ctx context.Context, idEntrega int, nota *float64) error
		ActualizarNotaPorTareaYAlumno(ctx context.Context, idTarea, idAlumno int, nota *float64) error
		ActualizarNotaPorTareaYGrupo(ctx context.Context, idTarea, idGrupo int, nota *float64) error
		TareasNotasAlumno(ctx context.Context, idSeccion, idAlumno int) ([]TareaNota, error)
		TareasNotasGrupo(ctx context.Context, idSeccion, idGrupo int) ([]TareaNota, error)
		AlumnosSeccion(ctx context.Context, idSeccion int) ([]AlumnoSeccion, error)
		AlumnoEnSeccion(ctx context.Context, idSeccion, idAlumno int) (AlumnoSeccion, error)
	}

	service struct {
		db         core.DB
		repo       Repository
		tareaRepo  tarea.Repository
		personRepo person.Repository
		grupoRepo  GrupoRepository
		rosterRepo RosterRepository
	}
)

var _ Service = (*service)(nil)

func NewService(
	db core.DB,
	repo Repository,
	tareaRepo tarea.Repository,
	personRepo person.Repository,
	grupoRepo GrupoRepository,
	rosterRepo RosterRepository,
) Service {
	return &service{
		db:         db,
		repo:       repo,
		tareaRepo:  tareaRepo,
		personRepo: personRepo,
		grupoRepo:  grupoRepo,
		rosterRepo: rosterRepo,
	}
}

// validarNota enforces the [0, 20] grade range before any write.
func validarNota(nota *float64) error {
	if nota == nil || *nota < 0 || *nota > 20 {
		return core.NewValidationError(errors.New("nota must be between 0 and 20"),
			core.FieldError{Field: "nota", Error: "must be between 0 and 20"})
	}
	return nil
}

func (svc *service) RegistrarIndividual(ctx context.Context, idTarea, idAlumno int, nota *float64) (Entrega, error) {
	if err := validarNota(nota); err != nil {
		return Entrega{}, err
	}
	if _, err := svc.tareaRepo.GetTarea(ctx, idTarea); err != nil {
		return Entrega{}, err
	}
	if _, err := svc.personRepo.GetAlumno(ctx, idAlumno); err != nil {
		return Entrega{}, err
	}

	var created Entrega
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		created, err = svc.repo.CreateEntrega(ctx, Entrega{
			TareaID:      idTarea,
			Nota:         null.Float64From(*nota),
			FechaEntrega: NowFunc().UTC(),
		}, tx)
		if err != nil {
			return errors.Wrap(err, "creating entrega")
		}
		return errors.Wrap(svc.repo.LinkAlumno(ctx, created.ID, idAlumno, tx), "linking alumno")
	})
	return created, err
}

func (svc *service) RegistrarGrupal(ctx context.Context, idTarea, idGrupo int, nota *float64) (Entrega, error) {
	if err := validarNota(nota); err != nil {
		return Entrega{}, err
	}
	t, err := svc.tareaRepo.GetTarea(ctx, idTarea)
	if err != nil {
		return Entrega{}, err
	}
	if !t.EsGrupal() {
		return Entrega{}, ErrTareaNoGrupal
	}
	exists, err := svc.grupoRepo.ExistsGrupo(ctx, idGrupo)
	if err != nil {
		return Entrega{}, errors.Wrap(err, "checking grupo")
	}
	if !exists {
		return Entrega{}, core.NewNotFoundError("grupo not found")
	}

	var created Entrega
	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		created, err = svc.repo.CreateEntrega(ctx, Entrega{
			TareaID:      idTarea,
			Nota:         null.Float64From(*nota),
			FechaEntrega: NowFunc().UTC(),
		}, tx)
		if err != nil {
			return errors.Wrap(err, "creating entrega")
		}
		return errors.Wrap(svc.repo.LinkGrupo(ctx, created.ID, idGrupo, tx), "linking grupo")
	})
	return created, err
}

func (svc *service) ActualizarNotaPorID(ctx context.Context, idEntrega int, nota *float64) error {
	if err := validarNota(nota); err != nil {
		return err
	}
	updated, err := svc.repo.UpdateNota(ctx, idEntrega, *nota)
	if err != nil {
		return errors.Wrap(err, "updating nota")
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

func (svc *service) ActualizarNotaPorTareaYAlumno(ctx context.Context, idTarea, idAlumno int, nota *float64) error {
	if err := validarNota(nota); err != nil {
		return err
	}
	entregas, err := svc.repo.QueryByTareaAlumno(ctx, idTarea, idAlumno)
	if err != nil {
		return errors.Wrap(err, "querying entregas")
	}
	return svc.actualizarUltima(ctx, entregas, *nota)
}

func (svc *service) ActualizarNotaPorTareaYGrupo(ctx context.Context, idTarea, idGrupo int, nota *float64) error {
	if err := validarNota(nota); err != nil {
		return err
	}
	entregas, err := svc.repo.QueryByTareaGrupo(ctx, idTarea, idGrupo)
	if err != nil {
		return errors.Wrap(err, "querying entregas")
	}
	return svc.actualizarUltima(ctx, entregas, *nota)
}

// actualizarUltima mutates the most recent row of a pair's history.
func (svc *service) actualizarUltima(ctx context.Context, entregas []Entrega, nota float64) error {
	if len(entregas) == 0 {
		return ErrNotFound
	}
	updated, err := svc.repo.UpdateNota(ctx, entregas[0].ID, nota)
	if err != nil {
		return errors.Wrap(err, "updating nota")
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

func (svc *service) TareasNotasAlumno(ctx context.Context, idSeccion, idAlumno int) ([]TareaNota, error) {
	tareas, err := svc.tareaRepo.QueryBySeccionTipo(ctx, idSeccion, tarea.TipoIndividual)
	if err != nil {
		return nil, errors.Wrap(err, "querying tareas")
	}
	return svc.tareasNotas(ctx, tareas, func(idTarea int) ([]Entrega, error) {
		return svc.repo.QueryByTareaAlumno(ctx, idTarea, idAlumno)
	})
}

func (svc *service) TareasNotasGrupo(ctx context.Context, idSeccion, idGrupo int) ([]TareaNota, error) {
	tareas, err := svc.tareaRepo.QueryBySeccionTipo(ctx, idSeccion, tarea.TipoGrupal)
	if err != nil {
		return nil, errors.Wrap(err, "querying tareas")
	}
	return svc.tareasNotas(ctx, tareas, func(idTarea int) ([]Entrega, error) {
		return svc.repo.QueryByTareaGrupo(ctx, idTarea, idGrupo)
	})
}

// tareasNotas builds one row per tarea from the most recent submission, or
// null fields when the pair has no submission yet.
func (svc *service) tareasNotas(ctx context.Context, tareas []tarea.Tarea, query func(idTarea int) ([]Entrega, error)) ([]TareaNota, error) {
	rows := make([]TareaNota, 0, len(tareas))
	for _, t := range tareas {
		row := TareaNota{TareaID: t.ID, NombreTarea: t.Nombre}
		entregas, err := query(t.ID)
		if err != nil {
			return nil, errors.Wrap(err, "querying entregas")
		}
		if len(entregas) > 0 {
			ultima := entregas[0]
			row.EntregaID = null.IntFrom(ultima.ID)
			row.Nota = ultima.Nota
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (svc *service) AlumnosSeccion(ctx context.Context, idSeccion int) ([]AlumnoSeccion, error) {
	members, err := svc.rosterRepo.QueryMembershipsBySeccion(ctx, idSeccion)
	if err != nil {
		return nil, errors.Wrap(err, "querying memberships")
	}
	rows := make([]AlumnoSeccion, 0, len(members))
	for _, m := range members {
		row, err := svc.alumnoSeccion(ctx, m, idSeccion)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (svc *service) AlumnoEnSeccion(ctx context.Context, idSeccion, idAlumno int) (AlumnoSeccion, error) {
	m, err := svc.rosterRepo.GetMembership(ctx, idAlumno, idSeccion)
	if err != nil {
		return AlumnoSeccion{}, err
	}
	return svc.alumnoSeccion(ctx, m, idSeccion)
}

func (svc *service) alumnoSeccion(ctx context.Context, m seccion.Membership, idSeccion int) (AlumnoSeccion, error) {
	promedio, err := svc.promedioAlumno(ctx, idSeccion, m.AlumnoID)
	if err != nil {
		return AlumnoSeccion{}, err
	}
	p := m.Alumno.Persona
	return AlumnoSeccion{
		IDAlumno:        m.AlumnoID,
		IDPersona:       p.ID,
		NombreCompleto:  p.NombreCompleto(),
		Nombres:         p.Nombres,
		ApellidoPaterno: p.ApellidoP,
		ApellidoMaterno: p.ApellidoM,
		Correo:          p.Correo,
		CodigoAlumno:    m.Alumno.CodigoAlumno,
		PromedioFinal:   promedio,
		IDSeccion:       idSeccion,
	}, nil
}

// promedioAlumno averages the latest non-null grade per tarea in the section.
// Unlike the group average, zeros count.
func (svc *service) promedioAlumno(ctx context.Context, idSeccion, idAlumno int) (null.Float64, error) {
	tareas, err := svc.tareaRepo.QueryBySeccion(ctx, idSeccion)
	if err != nil {
		return null.Float64{}, errors.Wrap(err, "querying tareas")
	}

	notas := make([]float64, 0, len(tareas))
	for _, t := range tareas {
		entregas, err := svc.repo.QueryByTareaAlumno(ctx, t.ID, idAlumno)
		if err != nil {
			return null.Float64{}, errors.Wrap(err, "querying entregas")
		}
		if len(entregas) > 0 && entregas[0].Nota.Valid {
			notas = append(notas, entregas[0].Nota.Float64)
		}
	}
	return Promedio(notas), nil
}

// Promedio is the arithmetic mean rounded to 2 decimal places (half-up);
// an empty input yields null, never zero.
func Promedio(notas []float64) null.Float64 {
	if len(notas) == 0 {
		return null.Float64{}
	}
	var suma float64
	for _, n := range notas {
		suma += n
	}
	p := suma / float64(len(notas))
	return null.Float64From(math.Round(p*100) / 100)
}
