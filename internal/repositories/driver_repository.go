package repositories

import (
	"database/sql"
	"strings"

	intconfig "fleetadmin/internal/config"
	intdb "fleetadmin/internal/db"
	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/utils"
)

type DriverRepository struct {
	DB *sql.DB
}

func (r DriverRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const driverColumns = `id,
	       COALESCE(name,''),
	       COALESCE(phone,''),
	       COALESCE(license_no,''),
	       COALESCE(bank_name,''),
	       COALESCE(bank_account_number,''),
	       COALESCE(active,1),
	       created_at,
	       updated_at`

func scanDriver(row interface{ Scan(...any) error }) (models.Driver, error) {
	var (
		d         models.Driver
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Phone,
		&d.LicenseNo,
		&d.BankName,
		&d.BankAccountNumber,
		&d.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return d, err
	}
	if createdAt.Valid {
		d.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		d.UpdatedAt = updatedAt.Time
	}
	return d, nil
}

func (r DriverRepository) List(search string) ([]models.Driver, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db is not initialized"}
	}

	where := "1=1"
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		where = "(name LIKE ? OR phone LIKE ?)"
		like := "%" + s + "%"
		args = append(args, like, like)
	}

	rows, err := db.Query(`SELECT `+driverColumns+` FROM drivers WHERE `+where+` ORDER BY name ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r DriverRepository) GetByID(id int64) (models.Driver, error) {
	db := r.db()
	if db == nil {
		return models.Driver{}, domain.InternalError{Msg: "db is not initialized"}
	}
	d, err := scanDriver(db.QueryRow(`SELECT `+driverColumns+` FROM drivers WHERE id=?`, id))
	if err == sql.ErrNoRows {
		return d, domain.NotFoundError{Resource: "driver"}
	}
	return d, err
}

func (r DriverRepository) Create(d models.Driver) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db is not initialized"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return 0, domain.ValidationError{Field: "name", Msg: "must not be empty"}
	}

	now := utils.NowUTC()
	res, err := db.Exec(`INSERT INTO drivers
		(name, phone, license_no, bank_name, bank_account_number, active, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		strings.TrimSpace(d.Name), intdb.NullIfEmpty(d.Phone), intdb.NullIfEmpty(d.LicenseNo),
		intdb.NullIfEmpty(d.BankName), intdb.NullIfEmpty(d.BankAccountNumber), d.Active, now, now)
	if err != nil {
		return 0, domain.RemoteWriteError{Op: "insert driver", Err: err}
	}
	return res.LastInsertId()
}

func (r DriverRepository) Update(d models.Driver) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "must not be empty"}
	}

	res, err := db.Exec(`UPDATE drivers SET
		name=?, phone=?, license_no=?,
		bank_name=?, bank_account_number=?, active=?, updated_at=?
		WHERE id=?`,
		strings.TrimSpace(d.Name), intdb.NullIfEmpty(d.Phone), intdb.NullIfEmpty(d.LicenseNo),
		intdb.NullIfEmpty(d.BankName), intdb.NullIfEmpty(d.BankAccountNumber), d.Active, utils.NowUTC(), d.ID)
	if err != nil {
		return domain.RemoteWriteError{Op: "update driver", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(d.ID); gerr != nil {
			return domain.NotFoundError{Resource: "driver"}
		}
	}
	return nil
}

func (r DriverRepository) Delete(id int64) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}
	res, err := db.Exec(`DELETE FROM drivers WHERE id=?`, id)
	if err != nil {
		return domain.RemoteWriteError{Op: "delete driver", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "driver"}
	}
	return nil
}
