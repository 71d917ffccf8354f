package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/grupo"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
)

type grupoRepository struct {
	db core.DB
}

var _ grupo.Repository = (*grupoRepository)(nil) // interface compliance check

func NewGrupoRepository(db core.DB) *grupoRepository {
	return &grupoRepository{db: db}
}

func (repo grupoRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.db
}

func (repo grupoRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return grupo.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo grupoRepository) CreateGrupo(ctx context.Context, g grupo.Grupo, exec ...core.DBExecutor) (grupo.Grupo, error) {
	err := repo.getExec(exec).QueryRowxContext(ctx,
		`INSERT INTO grupo (id_seccion, nombre_grupo, promedio_final)
		 VALUES ($1, $2, $3) RETURNING id_grupo`,
		g.SeccionID, g.Nombre, g.PromedioFinal,
	).Scan(&g.ID)
	if err != nil {
		return grupo.Grupo{}, errors.Wrap(err, "inserting grupo")
	}
	return g, nil
}

func (repo grupoRepository) GetGrupo(ctx context.Context, id int) (grupo.Grupo, error) {
	var g grupo.Grupo
	err := repo.db.GetContext(ctx, &g,
		`SELECT id_grupo, id_seccion, nombre_grupo, promedio_final FROM grupo WHERE id_grupo = $1`, id)
	if err != nil {
		return grupo.Grupo{}, repo.trapNoRowsErr(err, "getting grupo")
	}
	return g, nil
}

func (repo grupoRepository) QueryBySeccion(ctx context.Context, idSeccion int) ([]grupo.Grupo, error) {
	grupos := make([]grupo.Grupo, 0)
	err := repo.db.SelectContext(ctx, &grupos,
		`SELECT id_grupo, id_seccion, nombre_grupo, promedio_final
		 FROM grupo WHERE id_seccion = $1 ORDER BY nombre_grupo, id_grupo`, idSeccion)
	if err != nil {
		return nil, errors.Wrap(err, "querying grupos")
	}
	return grupos, nil
}

func (repo grupoRepository) UpdateGrupo(ctx context.Context, g grupo.Grupo, exec ...core.DBExecutor) (grupo.Grupo, error) {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE grupo SET nombre_grupo = $1, promedio_final = $2 WHERE id_grupo = $3`,
		g.Nombre, g.PromedioFinal, g.ID)
	if err != nil {
		return grupo.Grupo{}, errors.Wrap(err, "updating grupo")
	}
	return g, nil
}

func (repo grupoRepository) DeleteGrupo(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM grupo WHERE id_grupo = $1`, id)
	return errors.Wrap(err, "deleting grupo")
}

func (repo grupoRepository) ExistsGrupo(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM grupo WHERE id_grupo = $1)`, id)
	return exists, errors.Wrap(err, "checking grupo")
}

const membershipQuery = `
SELECT m.id, m.id_alumno, m.id_seccion, m.id_grupo, g.nombre_grupo,
       a.codigo_alumno, p.id_persona, p.nombres, p.apellido_p, p.apellido_m, p.correo
FROM alumno_seccion m
JOIN alumno a ON a.id_alumno = m.id_alumno
JOIN persona p ON p.id_persona = a.id_persona
LEFT JOIN grupo g ON g.id_grupo = m.id_grupo`

// membershipRow flattens the joined roster row; it is unpacked into the
// nested domain model after scanning.
type membershipRow struct {
	ID           int         `db:"id"`
	AlumnoID     int         `db:"id_alumno"`
	SeccionID    int         `db:"id_seccion"`
	GrupoID      null.Int    `db:"id_grupo"`
	NombreGrupo  null.String `db:"nombre_grupo"`
	CodigoAlumno string      `db:"codigo_alumno"`
	PersonaID    int         `db:"id_persona"`
	Nombres      string      `db:"nombres"`
	ApellidoP    string      `db:"apellido_p"`
	ApellidoM    string      `db:"apellido_m"`
	Correo       string      `db:"correo"`
}

func (row membershipRow) membership() seccion.Membership {
	return seccion.Membership{
		ID:          row.ID,
		AlumnoID:    row.AlumnoID,
		SeccionID:   row.SeccionID,
		GrupoID:     row.GrupoID,
		NombreGrupo: row.NombreGrupo,
		Alumno: person.Alumno{
			ID:           row.AlumnoID,
			PersonaID:    row.PersonaID,
			CodigoAlumno: row.CodigoAlumno,
			Persona: person.Persona{
				ID:        row.PersonaID,
				Nombres:   row.Nombres,
				ApellidoP: row.ApellidoP,
				ApellidoM: row.ApellidoM,
				Correo:    row.Correo,
			},
		},
	}
}

func memberships(rows []membershipRow) []seccion.Membership {
	members := make([]seccion.Membership, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.membership())
	}
	return members
}

func (repo grupoRepository) GetMembership(ctx context.Context, idAlumno, idSeccion int) (seccion.Membership, error) {
	var row membershipRow
	err := repo.db.GetContext(ctx, &row,
		membershipQuery+` WHERE m.id_alumno = $1 AND m.id_seccion = $2`, idAlumno, idSeccion)
	if err != nil {
		if err == sql.ErrNoRows {
			return seccion.Membership{}, core.NewNotFoundError("alumno is not enrolled in this section")
		}
		return seccion.Membership{}, errors.Wrap(err, "getting membership")
	}
	return row.membership(), nil
}

func (repo grupoRepository) QueryMembershipsBySeccion(ctx context.Context, idSeccion int) ([]seccion.Membership, error) {
	rows := make([]membershipRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		membershipQuery+` WHERE m.id_seccion = $1 ORDER BY p.apellido_p, p.nombres, m.id`, idSeccion)
	if err != nil {
		return nil, errors.Wrap(err, "querying memberships")
	}
	return memberships(rows), nil
}

func (repo grupoRepository) QueryMembershipsByGrupo(ctx context.Context, idGrupo int) ([]seccion.Membership, error) {
	rows := make([]membershipRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		membershipQuery+` WHERE m.id_grupo = $1 ORDER BY p.apellido_p, p.nombres, m.id`, idGrupo)
	if err != nil {
		return nil, errors.Wrap(err, "querying memberships")
	}
	return memberships(rows), nil
}

func (repo grupoRepository) QueryMembershipsSinGrupo(ctx context.Context, idSeccion int) ([]seccion.Membership, error) {
	rows := make([]membershipRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		membershipQuery+` WHERE m.id_seccion = $1 AND m.id_grupo IS NULL ORDER BY p.apellido_p, p.nombres, m.id`, idSeccion)
	if err != nil {
		return nil, errors.Wrap(err, "querying memberships")
	}
	return memberships(rows), nil
}

func (repo grupoRepository) SetMembershipGrupo(ctx context.Context, idMembership int, idGrupo null.Int, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE alumno_seccion SET id_grupo = $1 WHERE id = $2`, idGrupo, idMembership)
	return errors.Wrap(err, "updating membership")
}

func (repo grupoRepository) ClearGrupoMembers(ctx context.Context, idGrupo int, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE alumno_seccion SET id_grupo = NULL WHERE id_grupo = $1`, idGrupo)
	return errors.Wrap(err, "clearing members")
}

func (repo grupoRepository) CreateMembership(ctx context.Context, m seccion.Membership, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO alumno_seccion (id_alumno, id_seccion, id_grupo) VALUES ($1, $2, $3)`,
		m.AlumnoID, m.SeccionID, m.GrupoID)
	return errors.Wrap(err, "inserting membership")
}

func (repo grupoRepository) ExistsMembership(ctx context.Context, idAlumno, idSeccion int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM alumno_seccion WHERE id_alumno = $1 AND id_seccion = $2)`, idAlumno, idSeccion)
	return exists, errors.Wrap(err, "checking membership")
}
