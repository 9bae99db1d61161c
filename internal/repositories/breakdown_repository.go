package repositories

import (
	"database/sql"
	"strings"

	intconfig "fleetadmin/internal/config"
	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/utils"
)

type BreakdownRepository struct {
	DB *sql.DB
}

func (r BreakdownRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const breakdownColumns = `id,
	       COALESCE(reference,''),
	       COALESCE(vehicle_desc,''),
	       COALESCE(drivers,''),
	       COALESCE(description,''),
	       COALESCE(status,'reported'),
	       COALESCE(assigned_vehicle,''),
	       COALESCE(admin_notes,''),
	       COALESCE(request_new_vehicle,0),
	       COALESCE(request_close_trip,0),
	       resolved_at,
	       created_at,
	       updated_at`

func scanBreakdown(row interface{ Scan(...any) error }) (models.BreakdownReport, error) {
	var (
		b          models.BreakdownReport
		resolvedAt sql.NullTime
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.VehicleDesc,
		&b.Drivers,
		&b.Description,
		&b.Status,
		&b.AssignedVehicle,
		&b.AdminNotes,
		&b.RequestNewVehicle,
		&b.RequestCloseTrip,
		&resolvedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return b, err
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		b.ResolvedAt = &t
	}
	if createdAt.Valid {
		b.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		b.UpdatedAt = updatedAt.Time
	}
	return b, nil
}

func (r BreakdownRepository) List(status string) ([]models.BreakdownReport, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db is not initialized"}
	}

	where := "1=1"
	args := []any{}
	if s := strings.TrimSpace(status); s != "" {
		where = "status=?"
		args = append(args, s)
	}

	rows, err := db.Query(`SELECT `+breakdownColumns+` FROM breakdown_reports WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BreakdownReport{}
	for rows.Next() {
		b, err := scanBreakdown(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BreakdownRepository) GetByID(id int64) (models.BreakdownReport, error) {
	db := r.db()
	if db == nil {
		return models.BreakdownReport{}, domain.InternalError{Msg: "db is not initialized"}
	}
	b, err := scanBreakdown(db.QueryRow(`SELECT `+breakdownColumns+` FROM breakdown_reports WHERE id=?`, id))
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "breakdown report"}
	}
	return b, err
}

// SetStatus moves a report between reported, in_progress and resolved.
// Resolving stamps resolved_at and requires admin notes; moving back clears
// the stamp.
func (r BreakdownRepository) SetStatus(id int64, status, notes string) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}

	switch status {
	case models.BreakdownReported, models.BreakdownInProgress, models.BreakdownResolved:
	default:
		return domain.ValidationError{Field: "status", Msg: "unknown breakdown status " + status}
	}

	now := utils.NowUTC()
	var res sql.Result
	var err error
	if status == models.BreakdownResolved {
		if strings.TrimSpace(notes) == "" {
			return domain.ValidationError{Field: "admin_notes", Msg: "required when resolving"}
		}
		res, err = db.Exec(`UPDATE breakdown_reports SET status=?, admin_notes=?, resolved_at=?, updated_at=? WHERE id=?`,
			status, strings.TrimSpace(notes), now, now, id)
	} else {
		res, err = db.Exec(`UPDATE breakdown_reports SET status=?, resolved_at=NULL, updated_at=? WHERE id=?`, status, now, id)
	}
	if err != nil {
		return domain.RemoteWriteError{Op: "update breakdown report", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(id); gerr != nil {
			return domain.NotFoundError{Resource: "breakdown report"}
		}
	}
	return nil
}

// AssignVehicle answers a replacement-vehicle request and moves the report
// to in_progress.
func (r BreakdownRepository) AssignVehicle(id int64, vehicle string) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db is not initialized"}
	}
	vehicle = strings.TrimSpace(vehicle)
	if vehicle == "" {
		return domain.ValidationError{Field: "assigned_vehicle", Msg: "must not be empty"}
	}

	res, err := db.Exec(`UPDATE breakdown_reports SET assigned_vehicle=?, status=?, updated_at=? WHERE id=?`,
		vehicle, models.BreakdownInProgress, utils.NowUTC(), id)
	if err != nil {
		return domain.RemoteWriteError{Op: "assign breakdown vehicle", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(id); gerr != nil {
			return domain.NotFoundError{Resource: "breakdown report"}
		}
	}
	return nil
}
