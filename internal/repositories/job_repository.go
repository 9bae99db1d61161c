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

// JobRepository manages the driver_jobs assignment table. Stops link back to
// a job through the shared reference.
type JobRepository struct {
	DB *sql.DB
}

func (r JobRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const jobColumns = `id,
	       COALESCE(reference,''),
	       COALESCE(shipment_no,''),
	       COALESCE(drivers,''),
	       COALESCE(status,''),
	       COALESCE(trip_ended,0),
	       created_at,
	       updated_at`

func scanJob(row interface{ Scan(...any) error }) (models.Job, error) {
	var (
		j         models.Job
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&j.ID,
		&j.Reference,
		&j.ShipmentNo,
		&j.Drivers,
		&j.Status,
		&j.TripEnded,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return j, err
	}
	if createdAt.Valid {
		j.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		j.UpdatedAt = updatedAt.Time
	}
	return j, nil
}

func (r JobRepository) List(search string, limit int) ([]models.Job, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db is not initialized"}
	}
	if limit <= 0 {
		limit = 200
	}

	where := "1=1"
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		where = "(reference LIKE ? OR shipment_no LIKE ? OR drivers LIKE ?)"
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	args = append(args, limit)

	rows, err := db.Query(`SELECT `+jobColumns+` FROM driver_jobs WHERE `+where+` ORDER BY created_at DESC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return out, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r JobRepository) GetByReference(reference string) (models.Job, error) {
	db := r.db()
	if db == nil {
		return models.Job{}, domain.InternalError{Msg: "db is not initialized"}
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.Job{}, domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}

	j, err := scanJob(db.QueryRow(`SELECT `+jobColumns+` FROM driver_jobs WHERE reference=? LIMIT 1`, reference))
	if err == sql.ErrNoRows {
		return j, domain.NotFoundError{Resource: "job " + reference}
	}
	return j, err
}

func (r JobRepository) Create(j models.Job) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db is not initialized"}
	}
	if strings.TrimSpace(j.Reference) == "" {
		return 0, domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}

	now := utils.NowUTC()
	res, err := db.Exec(`INSERT INTO driver_jobs
		(reference, shipment_no, drivers, status, trip_ended, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?)`,
		strings.TrimSpace(j.Reference), intdb.NullIfEmpty(j.ShipmentNo),
		intdb.NullIfEmpty(j.Drivers), intdb.NullIfEmpty(j.Status), j.TripEnded, now, now)
	if err != nil {
		return 0, domain.RemoteWriteError{Op: "insert job", Err: err}
	}
	return res.LastInsertId()
}

func (r JobRepository) Update(j models.Job) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}
	if strings.TrimSpace(j.Reference) == "" {
		return domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}

	res, err := db.Exec(`UPDATE driver_jobs SET
		shipment_no=?, drivers=?, status=?, trip_ended=?, updated_at=?
		WHERE reference=?`,
		intdb.NullIfEmpty(j.ShipmentNo), intdb.NullIfEmpty(j.Drivers),
		intdb.NullIfEmpty(j.Status), j.TripEnded, utils.NowUTC(), strings.TrimSpace(j.Reference))
	if err != nil {
		return domain.RemoteWriteError{Op: "update job", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByReference(j.Reference); gerr != nil {
			return domain.NotFoundError{Resource: "job " + j.Reference}
		}
	}
	return nil
}

func (r JobRepository) Delete(reference string) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}
	res, err := db.Exec(`DELETE FROM driver_jobs WHERE reference=?`, reference)
	if err != nil {
		return domain.RemoteWriteError{Op: "delete job", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "job " + reference}
	}
	return nil
}

// ListVehicles returns the distinct vehicle descriptions seen on stops,
// used by admin dropdowns.
func (r JobRepository) ListVehicles() ([]string, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db is not initialized"}
	}
	rows, err := db.Query(`SELECT DISTINCT vehicle_desc FROM stops
		WHERE vehicle_desc IS NOT NULL AND vehicle_desc != '' ORDER BY vehicle_desc ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
