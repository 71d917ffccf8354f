package invitacion

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/unmsm/scorely/core"
)

var (
	salt    = []byte("scorely.core.invitacion.token_gen")
	NowFunc = time.Now // mockable

	errInvalidToken = core.NewNotFoundError("invalid invitation token")
)

// MakeToken generates an opaque signed token for an invitation. The token is
// self-verifying; tampering with any of the bound fields invalidates it.
func MakeToken(inv Invitacion) (string, error) {
	return makeTokenWithTimestamp(inv, int(NowFunc().UTC().Unix()))
}

// VerifyToken checks that a token matches the invitation it claims to open.
func VerifyToken(inv Invitacion, token string) error {
	if token == "" {
		return errInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return errInvalidToken
	}

	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[0])
	if err != nil {
		return errInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return errInvalidToken
	}

	// check that token has not been tampered with
	newToken, err := makeTokenWithTimestamp(inv, ts)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(newToken), []byte(token)) == 0 {
		return errInvalidToken
	}
	return nil
}

func makeTokenWithTimestamp(inv Invitacion, ts int) (string, error) {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	sig, err := sign(hashValue(inv, ts))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", tsB32, sig), nil
}

func sign(val []byte) (string, error) {
	key := sha256.Sum256(append(salt, core.Conf.SecretKey...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(val); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

func hashValue(inv Invitacion, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(strconv.Itoa(inv.ID))
	val.WriteString(inv.Correo)
	val.WriteString(strconv.Itoa(inv.SeccionID))
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}
