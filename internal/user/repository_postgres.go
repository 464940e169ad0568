package user

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

// SQLSTATE for a unique-constraint violation.
const uniqueViolationCode = "23505"

const (
	listUsersQuery = `
		SELECT id, username, password, phone_number, gender, modified_by, modified_on
		FROM users
		ORDER BY id
	`
	getUserByIDQuery = `
		SELECT id, username, password, phone_number, gender, modified_by, modified_on
		FROM users
		WHERE id = $1
	`
	getUserByUsernameQuery = `
		SELECT id, username, password, phone_number, gender, modified_by, modified_on
		FROM users
		WHERE username = $1
	`

	insertUserQuery = `
		INSERT INTO users (username, password, phone_number, gender, modified_by, modified_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	updateUserQuery = `
		UPDATE users
		SET username = $1,
			phone_number = $2,
			gender = $3,
			modified_by = $4,
			modified_on = $5
		WHERE id = $6
	`
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]User, error) {
	rows, err := r.db.Query(listUsersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(getUserByIDQuery, id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(username string) (User, error) {
	row := r.db.QueryRow(getUserByUsernameQuery, username)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

// Create inserts the user and relies on the unique constraint to resolve
// concurrent inserts of the same username; there is deliberately no
// existence pre-check.
func (r *PostgresRepository) Create(user User) (User, error) {
	var id int
	err := r.db.QueryRow(
		insertUserQuery,
		user.Username,
		user.Password,
		user.PhoneNumber,
		user.Gender,
		user.ModifiedBy,
		user.ModifiedOn,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUsernameExists
		}
		return User{}, err
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) Update(id int, userUpdate User) (User, error) {
	result, err := r.db.Exec(
		updateUserQuery,
		userUpdate.Username,
		userUpdate.PhoneNumber,
		userUpdate.Gender,
		userUpdate.ModifiedBy,
		userUpdate.ModifiedOn,
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUsernameExists
		}
		return User{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}

	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteUserQuery, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var modifiedBy sql.NullString

	if err := scanner.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.PhoneNumber,
		&user.Gender,
		&modifiedBy,
		&user.ModifiedOn,
	); err != nil {
		return User{}, err
	}

	if modifiedBy.Valid {
		user.ModifiedBy = &modifiedBy.String
	}

	return user, nil
}
