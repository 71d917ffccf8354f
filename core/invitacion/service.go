package invitacion

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("invitacion not found")
	ErrExpirada      = core.NewConflictError("the invitation has expired")
	ErrYaResuelta    = core.NewConflictError("the invitation has already been accepted or rejected")
	ErrYaMatriculado = core.NewConflictError("the student is already enrolled in this section")
)

type (
	Repository interface {
		CreateInvitacion(ctx context.Context, inv Invitacion, exec ...core.DBExecutor) (Invitacion, error)
		GetInvitacion(ctx context.Context, id int) (Invitacion, error)
		GetInvitacionByToken(ctx context.Context, token string) (Invitacion, error)
		QueryPendientesByCorreo(ctx context.Context, correo string) ([]Invitacion, error)
		SetToken(ctx context.Context, id int, token string, exec ...core.DBExecutor) error
		SetEstado(ctx context.Context, id int, estado string, exec ...core.DBExecutor) error
	}

	// RosterRepository is the slice of the section-membership store this
	// service needs to enroll accepted students.
	RosterRepository interface {
		ExistsMembership(ctx context.Context, idAlumno, idSeccion int) (bool, error)
		CreateMembership(ctx context.Context, m seccion.Membership, exec ...core.DBExecutor) error
	}

	Service interface {
		Crear(ctx context.Context, ni NewInvitacion) (Invitacion, error)
		// PorToken resolves and verifies a token, returning the invitation
		// with its section details filled in.
		PorToken(ctx context.Context, token string) (Invitacion, error)
		Aceptar(ctx context.Context, token string, idPersona int) (Invitacion, error)
		Rechazar(ctx context.Context, token string) (Invitacion, error)
		PendientesPorCorreo(ctx context.Context, correo string) ([]Invitacion, error)
	}

	service struct {
		db          core.DB
		repo        Repository
		seccionRepo seccion.Repository
		personRepo  person.Repository
		rosterRepo  RosterRepository
		mailSvc     core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(
	db core.DB,
	repo Repository,
	seccionRepo seccion.Repository,
	personRepo person.Repository,
	rosterRepo RosterRepository,
	mailSvc core.EmailService,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		seccionRepo: seccionRepo,
		personRepo:  personRepo,
		rosterRepo:  rosterRepo,
		mailSvc:     mailSvc,
	}
}

func (svc *service) Crear(ctx context.Context, ni NewInvitacion) (Invitacion, error) {
	s, err := svc.seccionRepo.GetSeccion(ctx, ni.SeccionID)
	if err != nil {
		return Invitacion{}, err
	}

	now := NowFunc().UTC()
	inv, err := svc.repo.CreateInvitacion(ctx, Invitacion{
		SeccionID:       s.ID,
		ProfesorID:      s.ProfesorID,
		Correo:          core.CleanString(ni.Correo, true),
		Estado:          EstadoPendiente,
		FechaExpiracion: now.Add(core.Conf.InvitationExpirationDelta),
		FechaCreacion:   now,
	})
	if err != nil {
		return Invitacion{}, errors.Wrap(err, "creating invitacion")
	}

	// the token binds to the persisted row's ID, so it is generated and
	// stored after the insert
	token, err := MakeToken(inv)
	if err != nil {
		return Invitacion{}, errors.Wrap(err, "generating token")
	}
	if err = svc.repo.SetToken(ctx, inv.ID, token); err != nil {
		return Invitacion{}, errors.Wrap(err, "storing token")
	}
	inv.Token = token
	inv.NombreCurso = s.NombreCurso
	inv.Anio = s.Anio

	svc.mailSvc.SendMessages(invitationEmail(inv))
	return inv, nil
}

func invitationEmail(inv Invitacion) *core.EmailMessage {
	link := fmt.Sprintf("%s/login?invitacion=%s", core.Conf.FrontendBaseURL, url.QueryEscape(inv.Token))
	body := fmt.Sprintf(
		"Has sido invitado a unirte a la sección %q (%d).\n\n"+
			"Acepta la invitación aquí: %s\n\n"+
			"La invitación expira el %s.",
		inv.NombreCurso, inv.Anio, link, inv.FechaExpiracion.Format("2006-01-02"),
	)
	return &core.EmailMessage{
		To:      []mail.Address{{Address: inv.Correo}},
		Subject: fmt.Sprintf("Invitación a %s", inv.NombreCurso),
		BodyStr: body,
	}
}

// resolve looks an invitation up by token, verifies the signature and the
// expiry, and fills in the section details.
func (svc *service) resolve(ctx context.Context, token string) (Invitacion, error) {
	inv, err := svc.repo.GetInvitacionByToken(ctx, token)
	if err != nil {
		return Invitacion{}, err
	}
	if err = VerifyToken(inv, token); err != nil {
		return Invitacion{}, err
	}
	if inv.Expirada() {
		return Invitacion{}, ErrExpirada
	}

	s, err := svc.seccionRepo.GetSeccion(ctx, inv.SeccionID)
	if err != nil {
		return Invitacion{}, err
	}
	inv.NombreCurso = s.NombreCurso
	inv.Anio = s.Anio
	return inv, nil
}

func (svc *service) PorToken(ctx context.Context, token string) (Invitacion, error) {
	return svc.resolve(ctx, token)
}

func (svc *service) Aceptar(ctx context.Context, token string, idPersona int) (Invitacion, error) {
	inv, err := svc.resolve(ctx, token)
	if err != nil {
		return Invitacion{}, err
	}
	if inv.Resuelta() {
		return Invitacion{}, ErrYaResuelta
	}

	alumno, err := svc.personRepo.FindAlumnoByPersona(ctx, idPersona)
	if err != nil {
		return Invitacion{}, err
	}
	enrolled, err := svc.rosterRepo.ExistsMembership(ctx, alumno.ID, inv.SeccionID)
	if err != nil {
		return Invitacion{}, errors.Wrap(err, "checking enrollment")
	}
	if enrolled {
		return Invitacion{}, ErrYaMatriculado
	}

	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		err := svc.rosterRepo.CreateMembership(ctx, seccion.Membership{
			AlumnoID:  alumno.ID,
			SeccionID: inv.SeccionID,
		}, tx)
		if err != nil {
			return errors.Wrap(err, "enrolling alumno")
		}
		return errors.Wrap(svc.repo.SetEstado(ctx, inv.ID, EstadoAceptada, tx), "updating estado")
	})
	if err != nil {
		return Invitacion{}, err
	}
	inv.Estado = EstadoAceptada
	return inv, nil
}

func (svc *service) Rechazar(ctx context.Context, token string) (Invitacion, error) {
	inv, err := svc.resolve(ctx, token)
	if err != nil {
		return Invitacion{}, err
	}
	if inv.Resuelta() {
		return Invitacion{}, ErrYaResuelta
	}
	if err = svc.repo.SetEstado(ctx, inv.ID, EstadoRechazada); err != nil {
		return Invitacion{}, errors.Wrap(err, "updating estado")
	}
	inv.Estado = EstadoRechazada
	return inv, nil
}

func (svc *service) PendientesPorCorreo(ctx context.Context, correo string) ([]Invitacion, error) {
	invs, err := svc.repo.QueryPendientesByCorreo(ctx, core.CleanString(correo, true))
	if err != nil {
		return nil, errors.Wrap(err, "querying invitaciones")
	}
	for i := range invs {
		s, err := svc.seccionRepo.GetSeccion(ctx, invs[i].SeccionID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		invs[i].NombreCurso = s.NombreCurso
		invs[i].Anio = s.Anio
	}
	return invs, nil
}
