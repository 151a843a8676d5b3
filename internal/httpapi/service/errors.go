package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds surfaced to the presentation layer. Messages are the
// user-facing text; handlers map kinds to HTTP status codes. Comparison is
// always through errors.Is so wrapped detail survives.
var (
	ErrValidation    = errors.New("dados inválidos")
	ErrNotFound      = errors.New("registro não encontrado")
	ErrPermission    = errors.New("sem permissão para salvar, verifique a configuração do servidor")
	ErrTransient     = errors.New("falha temporária de conexão, tente novamente")
	ErrConfiguration = errors.New("serviço não configurado, verifique o servidor")
)

// Auth-specific failures, kept as their own sentinels so handlers can keep
// credential errors indistinguishable from each other where that matters.
var (
	ErrEmailInUse         = errors.New("este email já está em uso")
	ErrInvalidCredentials = errors.New("email ou senha incorretos")
	ErrWeakPassword       = errors.New("senha muito fraca, use pelo menos 6 caracteres")
	ErrInvalidToken       = errors.New("token inválido")
	ErrExpiredToken       = errors.New("token expirado")
)

// ErrDuplicateSubmission marks a replayed idempotency key: the original
// write already committed, so the retry is acknowledged without applying.
var ErrDuplicateSubmission = errors.New("progresso já registrado")

// classifyStoreErr folds driver-level failures into the error taxonomy.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTransient
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501": // insufficient_privilege
			return ErrPermission
		case pgErr.Code == "3D000" || pgErr.Code == "3F000": // database/schema missing
			return ErrConfiguration
		case strings.HasPrefix(pgErr.Code, "08"): // connection exceptions
			return ErrTransient
		}
	}
	if pgconn.Timeout(err) {
		return ErrTransient
	}

	return err
}
