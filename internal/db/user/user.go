package user

import (
	"context"
	"database/sql"
	"errors"
	c "userkit/internal/core/domain/common"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/user"
	"userkit/internal/db"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const IDENTIFIER_CONSTRAINT_NAME = "user_identifier_idx"

const userColumns = `id, identifier, email, password_hash, roles, reset_secret, is_enabled, created_at`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(db db.DBTX) *PgxUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (identifier, email, password_hash, roles, is_enabled, created_at)
		 VALUES ($1, $2, $3, $4, TRUE, $5)
		 RETURNING `+userColumns,
		string(input.Identifier),
		encodeEmail(input.Email),
		string(input.PasswordHash),
		encodeRoles(input.Roles),
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var errUniqueConstraint *pgconn.PgError
	if errors.As(err, &errUniqueConstraint) {
		if errUniqueConstraint.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE &&
			errUniqueConstraint.ConstraintName == IDENTIFIER_CONSTRAINT_NAME {
			return u, user.ErrIdentifierAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	err = u.Validate()
	if err != nil {
		return u, err
	}
	return u, nil
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE id = $1`,
		int64(id),
	)
	return r.getOne(row)
}

func (r *PgxUserRepository) GetByIdentifier(ctx context.Context, identifier user.Identifier) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE identifier = $1`,
		string(identifier),
	)
	return r.getOne(row)
}

func (r *PgxUserRepository) GetByIdentifierAndResetSecret(
	ctx context.Context,
	identifier user.Identifier,
	secret user.ResetSecret,
) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE identifier = $1 AND reset_secret = $2`,
		string(identifier),
		string(secret),
	)
	return r.getOne(row)
}

func (r *PgxUserRepository) SetResetSecret(ctx context.Context, id user.ID, secret user.ResetSecret) error {
	commandTag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET reset_secret = $2 WHERE id = $1`,
		int64(id),
		string(secret),
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) SetPassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	commandTag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET password_hash = $2 WHERE id = $1`,
		int64(id),
		string(password),
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) SetPasswordAndClearResetSecret(
	ctx context.Context,
	id user.ID,
	password user.PasswordHash,
) error {
	commandTag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET password_hash = $2, reset_secret = NULL WHERE id = $1`,
		int64(id),
		string(password),
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) getOne(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	err = u.Validate()
	if err != nil {
		return u, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id           int64
		identifier   string
		email        sql.NullString
		passwordHash string
		roles        pgtype.TextArray
		resetSecret  sql.NullString
	)
	err = row.Scan(
		&id,
		&identifier,
		&email,
		&passwordHash,
		&roles,
		&resetSecret,
		&u.IsEnabled,
		&u.CreatedAt,
	)
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.Identifier = user.Identifier(identifier)
	u.Email = c.NewOptional(c.Email(email.String), email.Valid)
	u.PasswordHash = user.PasswordHash(passwordHash)
	u.Roles = decodeRoles(roles)
	u.ResetSecret = c.NewOptional(user.ResetSecret(resetSecret.String), resetSecret.Valid)
	return u, nil
}

func encodeEmail(email c.Optional[c.Email]) sql.NullString {
	return sql.NullString{String: string(email.Value), Valid: email.IsPresent}
}

func encodeRoles(roles []user.Role) []string {
	encoded := make([]string, 0, len(roles))
	for _, role := range roles {
		encoded = append(encoded, string(role))
	}
	return encoded
}

func decodeRoles(roles pgtype.TextArray) []user.Role {
	decoded := make([]user.Role, 0, len(roles.Elements))
	for _, element := range roles.Elements {
		if element.Status == pgtype.Present {
			decoded = append(decoded, user.Role(element.String))
		}
	}
	return decoded
}
