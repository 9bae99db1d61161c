package repositories

import (
	"database/sql"
	"strings"

	"golang.org/x/crypto/bcrypt"

	intconfig "fleetadmin/internal/config"
	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/utils"
)

// UserRepository manages admin accounts. Passwords are stored as bcrypt
// hashes and never leave this package.
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id,
	       COALESCE(username,''),
	       COALESCE(full_name,''),
	       COALESCE(role,'viewer'),
	       COALESCE(active,1),
	       created_at,
	       updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u         models.User
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FullName,
		&u.Role,
		&u.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return u, err
	}
	if createdAt.Valid {
		u.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.Time
	}
	return u, nil
}

func (r UserRepository) List() ([]models.User, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db is not initialized"}
	}

	rows, err := db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) GetByUsername(username string) (models.User, error) {
	db := r.db()
	if db == nil {
		return models.User{}, domain.InternalError{Msg: "db is not initialized"}
	}
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username=?`, strings.TrimSpace(username)))
	if err == sql.ErrNoRows {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) Create(u models.User, password string) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db is not initialized"}
	}
	if strings.TrimSpace(u.Username) == "" {
		return 0, domain.ValidationError{Field: "username", Msg: "must not be empty"}
	}
	if len(password) < 8 {
		return 0, domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, domain.InternalError{Msg: "hash password", Err: err}
	}

	now := utils.NowUTC()
	res, err := db.Exec(`INSERT INTO users
		(username, full_name, role, password_hash, active, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?)`,
		strings.TrimSpace(u.Username), u.FullName, u.Role, string(hash), u.Active, now, now)
	if err != nil {
		return 0, domain.RemoteWriteError{Op: "insert user", Err: err}
	}
	return res.LastInsertId()
}

func (r UserRepository) Update(u models.User) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}

	res, err := db.Exec(`UPDATE users SET full_name=?, role=?, active=?, updated_at=? WHERE id=?`,
		u.FullName, u.Role, u.Active, utils.NowUTC(), u.ID)
	if err != nil {
		return domain.RemoteWriteError{Op: "update user", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if qerr := db.QueryRow(`SELECT 1 FROM users WHERE id=?`, u.ID).Scan(&exists); qerr != nil {
			return domain.NotFoundError{Resource: "user"}
		}
	}
	return nil
}

// SetPassword replaces a user's password hash.
func (r UserRepository) SetPassword(id int64, password string) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}
	if len(password) < 8 {
		return domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Msg: "hash password", Err: err}
	}

	res, err := db.Exec(`UPDATE users SET password_hash=?, updated_at=? WHERE id=?`, string(hash), utils.NowUTC(), id)
	if err != nil {
		return domain.RemoteWriteError{Op: "update user password", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

// VerifyPassword compares a candidate password against the stored hash.
func (r UserRepository) VerifyPassword(username, password string) (models.User, error) {
	db := r.db()
	if db == nil {
		return models.User{}, domain.InternalError{Msg: "db is not initialized"}
	}

	var hash string
	err := db.QueryRow(`SELECT COALESCE(password_hash,'') FROM users WHERE username=? AND active=1`,
		strings.TrimSpace(username)).Scan(&hash)
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "password does not match"}
	}
	return r.GetByUsername(username)
}

func (r UserRepository) Delete(id int64) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}
	res, err := db.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return domain.RemoteWriteError{Op: "delete user", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}
