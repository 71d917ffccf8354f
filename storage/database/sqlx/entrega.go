package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/entrega"
)

type entregaRepository struct {
	db core.DB
}

var _ entrega.Repository = (*entregaRepository)(nil) // interface compliance check

func NewEntregaRepository(db core.DB) *entregaRepository {
	return &entregaRepository{db: db}
}

func (repo entregaRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.db
}

func (repo entregaRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return entrega.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo entregaRepository) CreateEntrega(ctx context.Context, e entrega.Entrega, exec ...core.DBExecutor) (entrega.Entrega, error) {
	err := repo.getExec(exec).QueryRowxContext(ctx,
		`INSERT INTO entrega (id_tarea, nota, fecha_entrega) VALUES ($1, $2, $3) RETURNING id_entrega`,
		e.TareaID, e.Nota, e.FechaEntrega,
	).Scan(&e.ID)
	if err != nil {
		return entrega.Entrega{}, errors.Wrap(err, "inserting entrega")
	}
	return e, nil
}

func (repo entregaRepository) LinkAlumno(ctx context.Context, idEntrega, idAlumno int, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO entrega_individual (id_entrega, id_alumno) VALUES ($1, $2)`, idEntrega, idAlumno)
	return errors.Wrap(err, "linking alumno")
}

func (repo entregaRepository) LinkGrupo(ctx context.Context, idEntrega, idGrupo int, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO entrega_grupal (id_entrega, id_grupo) VALUES ($1, $2)`, idEntrega, idGrupo)
	return errors.Wrap(err, "linking grupo")
}

func (repo entregaRepository) GetEntrega(ctx context.Context, id int) (entrega.Entrega, error) {
	var e entrega.Entrega
	err := repo.db.GetContext(ctx, &e,
		`SELECT id_entrega, id_tarea, nota, fecha_entrega FROM entrega WHERE id_entrega = $1`, id)
	if err != nil {
		return entrega.Entrega{}, repo.trapNoRowsErr(err, "getting entrega")
	}
	return e, nil
}

func (repo entregaRepository) UpdateNota(ctx context.Context, idEntrega int, nota float64, exec ...core.DBExecutor) (int64, error) {
	res, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE entrega SET nota = $1 WHERE id_entrega = $2`, nota, idEntrega)
	if err != nil {
		return 0, errors.Wrap(err, "updating nota")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "updating nota")
}

func (repo entregaRepository) QueryByTareaAlumno(ctx context.Context, idTarea, idAlumno int) ([]entrega.Entrega, error) {
	entregas := make([]entrega.Entrega, 0)
	err := repo.db.SelectContext(ctx, &entregas,
		`SELECT e.id_entrega, e.id_tarea, e.nota, e.fecha_entrega
		 FROM entrega e
		 JOIN entrega_individual ei ON ei.id_entrega = e.id_entrega
		 WHERE e.id_tarea = $1 AND ei.id_alumno = $2
		 ORDER BY e.fecha_entrega DESC, e.id_entrega DESC`, idTarea, idAlumno)
	if err != nil {
		return nil, errors.Wrap(err, "querying entregas")
	}
	return entregas, nil
}

func (repo entregaRepository) QueryByTareaGrupo(ctx context.Context, idTarea, idGrupo int) ([]entrega.Entrega, error) {
	entregas := make([]entrega.Entrega, 0)
	err := repo.db.SelectContext(ctx, &entregas,
		`SELECT e.id_entrega, e.id_tarea, e.nota, e.fecha_entrega
		 FROM entrega e
		 JOIN entrega_grupal eg ON eg.id_entrega = e.id_entrega
		 WHERE e.id_tarea = $1 AND eg.id_grupo = $2
		 ORDER BY e.fecha_entrega DESC, e.id_entrega DESC`, idTarea, idGrupo)
	if err != nil {
		return nil, errors.Wrap(err, "querying entregas")
	}
	return entregas, nil
}
