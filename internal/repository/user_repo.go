package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresUserRepository) Create(user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO usuarios (nombre, email, password, telefono, direccion, ciudad)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, tipo, created_at`

	r.log.Debugf("Creating user with email %s", user.Email)

	err := r.db.QueryRow(query,
		user.Name,
		user.Email,
		user.PasswordHash,
		nullString(user.Phone),
		nullString(user.Address),
		user.City,
	).Scan(&user.ID, &user.Role, &user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to register duplicate email %s", user.Email)
			return nil, domain.ErrEmailTaken
		}
		r.log.Errorf("Failed to create user %s: %v", user.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	user.Active = true
	r.log.Infof("User created with ID %d, email %s", user.ID, user.Email)
	return user, nil
}

const userColumns = `id, nombre, email, password, COALESCE(telefono, ''), COALESCE(direccion, ''),
        COALESCE(ciudad, ''), COALESCE(codigo_postal, ''), tipo, activo, created_at`

func (r *postgresUserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Address,
		&user.City,
		&user.PostalCode,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) GetByEmail(email string) (*domain.User, error) {
	user, err := r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM usuarios WHERE email = $1 AND activo = TRUE`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("User with email %s not found", email)
			return nil, fmt.Errorf("usuario %s: %w", email, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get user by email %s: %v", email, err)
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByID(id int64) (*domain.User, error) {
	user, err := r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("User with ID %d not found", id)
			return nil, fmt.Errorf("usuario %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) UpdateProfile(id int64, update domain.ProfileUpdate) error {
	query := `
        UPDATE usuarios
        SET nombre = COALESCE($1, nombre),
            telefono = COALESCE($2, telefono),
            direccion = COALESCE($3, direccion),
            ciudad = COALESCE($4, ciudad),
            codigo_postal = COALESCE($5, codigo_postal)
        WHERE id = $6`

	result, err := r.db.Exec(query, update.Name, update.Phone, update.Address, update.City, update.PostalCode, id)
	if err != nil {
		r.log.Errorf("Failed to update profile for user %d: %v", id, err)
		return fmt.Errorf("could not update profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm profile update: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("User %d not found for profile update", id)
		return fmt.Errorf("usuario %d: %w", id, domain.ErrNotFound)
	}

	r.log.Infof("Profile updated for user %d", id)
	return nil
}

func (r *postgresUserRepository) TouchLastAccess(id int64) error {
	if _, err := r.db.Exec(`UPDATE usuarios SET ultimo_acceso = NOW() WHERE id = $1`, id); err != nil {
		r.log.Warnf("Failed to update last access for user %d: %v", id, err)
		return fmt.Errorf("could not update last access: %w", err)
	}
	return nil
}
