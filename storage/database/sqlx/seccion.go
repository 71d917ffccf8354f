package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/seccion"
)

type seccionRepository struct {
	db core.DB
}

var _ seccion.Repository = (*seccionRepository)(nil) // interface compliance check

func NewSeccionRepository(db core.DB) *seccionRepository {
	return &seccionRepository{db: db}
}

func (repo seccionRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.db
}

func (repo seccionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return seccion.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo seccionRepository) CreateSeccion(ctx context.Context, s seccion.Seccion, exec ...core.DBExecutor) (seccion.Seccion, error) {
	err := repo.getExec(exec).QueryRowxContext(ctx,
		`INSERT INTO seccion (id_profesor, nombre_curso, anio, codigo)
		 VALUES ($1, $2, $3, $4) RETURNING id_seccion`,
		s.ProfesorID, s.NombreCurso, s.Anio, s.Codigo,
	).Scan(&s.ID)
	if err != nil {
		return seccion.Seccion{}, errors.Wrap(err, "inserting seccion")
	}
	return s, nil
}

func (repo seccionRepository) GetSeccion(ctx context.Context, id int) (seccion.Seccion, error) {
	var s seccion.Seccion
	err := repo.db.GetContext(ctx, &s,
		`SELECT id_seccion, id_profesor, nombre_curso, anio, codigo FROM seccion WHERE id_seccion = $1`, id)
	if err != nil {
		return seccion.Seccion{}, repo.trapNoRowsErr(err, "getting seccion")
	}
	return s, nil
}

func (repo seccionRepository) QueryByProfesor(ctx context.Context, idProfesor int) ([]seccion.Seccion, error) {
	secciones := make([]seccion.Seccion, 0)
	err := repo.db.SelectContext(ctx, &secciones,
		`SELECT id_seccion, id_profesor, nombre_curso, anio, codigo
		 FROM seccion WHERE id_profesor = $1 ORDER BY anio DESC, nombre_curso`, idProfesor)
	if err != nil {
		return nil, errors.Wrap(err, "querying secciones")
	}
	return secciones, nil
}

func (repo seccionRepository) QueryByProfesorAnio(ctx context.Context, idProfesor, anio int) ([]seccion.Seccion, error) {
	secciones := make([]seccion.Seccion, 0)
	err := repo.db.SelectContext(ctx, &secciones,
		`SELECT id_seccion, id_profesor, nombre_curso, anio, codigo
		 FROM seccion WHERE id_profesor = $1 AND anio = $2 ORDER BY nombre_curso`, idProfesor, anio)
	if err != nil {
		return nil, errors.Wrap(err, "querying secciones")
	}
	return secciones, nil
}

func (repo seccionRepository) QueryByAlumnoAnio(ctx context.Context, idAlumno, anio int) ([]seccion.SeccionAlumno, error) {
	secciones := make([]seccion.SeccionAlumno, 0)
	err := repo.db.SelectContext(ctx, &secciones,
		`SELECT s.id_seccion, s.id_profesor, s.nombre_curso, s.anio, s.codigo,
		        trim(concat_ws(' ', p.nombres, p.apellido_p, p.apellido_m)) AS nombre_profesor
		 FROM seccion s
		 JOIN alumno_seccion m ON m.id_seccion = s.id_seccion
		 JOIN profesor pr ON pr.id_profesor = s.id_profesor
		 JOIN persona p ON p.id_persona = pr.id_persona
		 WHERE m.id_alumno = $1 AND s.anio = $2
		 ORDER BY s.nombre_curso`, idAlumno, anio)
	if err != nil {
		return nil, errors.Wrap(err, "querying secciones")
	}
	return secciones, nil
}

func (repo seccionRepository) UpdateSeccion(ctx context.Context, s seccion.Seccion, exec ...core.DBExecutor) (seccion.Seccion, error) {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE seccion SET nombre_curso = $1, anio = $2, codigo = $3 WHERE id_seccion = $4`,
		s.NombreCurso, s.Anio, s.Codigo, s.ID)
	if err != nil {
		return seccion.Seccion{}, errors.Wrap(err, "updating seccion")
	}
	return s, nil
}

func (repo seccionRepository) DeleteSeccion(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM seccion WHERE id_seccion = $1`, id)
	return errors.Wrap(err, "deleting seccion")
}
