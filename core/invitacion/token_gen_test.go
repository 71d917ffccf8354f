package invitacion

import (
	"testing"
	"time"

	"github.com/unmsm/scorely/core"
)

func TestMakeVerifyToken(t *testing.T) {
	core.Conf.SecretKey = []byte("secret")

	now := time.Now().UTC()
	inv := Invitacion{
		ID:              1,
		SeccionID:       7,
		ProfesorID:      3,
		Correo:          "alumno@test.pe",
		Estado:          EstadoPendiente,
		FechaExpiracion: now.Add(7 * 24 * time.Hour),
		FechaCreacion:   now,
	}

	validToken, err := MakeToken(inv)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	// a token bound to different fields must not verify
	other := inv
	other.Correo = "otro@test.pe"
	foreignToken, err := MakeToken(other)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "no token", wantErr: errInvalidToken},
		{name: "invalid parts len", token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "tampered token", token: foreignToken, wantErr: errInvalidToken},
		{name: "valid token", token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VerifyToken(inv, tt.token); err != tt.wantErr {
				t.Errorf("VerifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
