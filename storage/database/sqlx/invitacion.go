package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/invitacion"
)

type invitacionRepository struct {
	db core.DB
}

var _ invitacion.Repository = (*invitacionRepository)(nil) // interface compliance check

func NewInvitacionRepository(db core.DB) *invitacionRepository {
	return &invitacionRepository{db: db}
}

func (repo invitacionRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.db
}

func (repo invitacionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return invitacion.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo invitacionRepository) CreateInvitacion(ctx context.Context, inv invitacion.Invitacion, exec ...core.DBExecutor) (invitacion.Invitacion, error) {
	err := repo.getExec(exec).QueryRowxContext(ctx,
		`INSERT INTO invitacion (id_seccion, id_profesor, correo, token, estado, fecha_expiracion, fecha_creacion)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id_invitacion`,
		inv.SeccionID, inv.ProfesorID, inv.Correo, inv.Token, inv.Estado, inv.FechaExpiracion, inv.FechaCreacion,
	).Scan(&inv.ID)
	if err != nil {
		return invitacion.Invitacion{}, errors.Wrap(err, "inserting invitacion")
	}
	return inv, nil
}

func (repo invitacionRepository) GetInvitacion(ctx context.Context, id int) (invitacion.Invitacion, error) {
	var inv invitacion.Invitacion
	err := repo.db.GetContext(ctx, &inv,
		`SELECT id_invitacion, id_seccion, id_profesor, correo, token, estado, fecha_expiracion, fecha_creacion
		 FROM invitacion WHERE id_invitacion = $1`, id)
	if err != nil {
		return invitacion.Invitacion{}, repo.trapNoRowsErr(err, "getting invitacion")
	}
	return inv, nil
}

func (repo invitacionRepository) GetInvitacionByToken(ctx context.Context, token string) (invitacion.Invitacion, error) {
	var inv invitacion.Invitacion
	err := repo.db.GetContext(ctx, &inv,
		`SELECT id_invitacion, id_seccion, id_profesor, correo, token, estado, fecha_expiracion, fecha_creacion
		 FROM invitacion WHERE token = $1`, token)
	if err != nil {
		return invitacion.Invitacion{}, repo.trapNoRowsErr(err, "getting invitacion")
	}
	return inv, nil
}

func (repo invitacionRepository) QueryPendientesByCorreo(ctx context.Context, correo string) ([]invitacion.Invitacion, error) {
	invs := make([]invitacion.Invitacion, 0)
	err := repo.db.SelectContext(ctx, &invs,
		`SELECT id_invitacion, id_seccion, id_profesor, correo, token, estado, fecha_expiracion, fecha_creacion
		 FROM invitacion WHERE correo = $1 AND estado = $2 ORDER BY fecha_creacion DESC`,
		correo, invitacion.EstadoPendiente)
	if err != nil {
		return nil, errors.Wrap(err, "querying invitaciones")
	}
	return invs, nil
}

func (repo invitacionRepository) SetToken(ctx context.Context, id int, token string, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE invitacion SET token = $1 WHERE id_invitacion = $2`, token, id)
	return errors.Wrap(err, "storing token")
}

func (repo invitacionRepository) SetEstado(ctx context.Context, id int, estado string, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE invitacion SET estado = $1 WHERE id_invitacion = $2`, estado, id)
	return errors.Wrap(err, "updating estado")
}
