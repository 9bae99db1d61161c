package repositories

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	intconfig "fleetadmin/internal/config"
	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/stream"
)

// StopFilter narrows a stops query. Zero values mean "no constraint".
type StopFilter struct {
	Reference  string
	References []string
	ClosedOnly bool
	DateFrom   string // inclusive, on job_closed_at (YYYY-MM-DD)
	DateTo     string // exclusive upper bound, on job_closed_at
	Driver     string
	Vehicle    string
	Search     string // matches reference, destination or driver list

	// StatusBucket mirrors the admin screen tabs:
	// pending | ready | paid | rejected | processing | transfer_pending
	StatusBucket string

	HolidayOnly bool
	Limit       int
}

// allowed trip-level patch columns. Writes outside this list are a
// programming error, not operator input.
var stopPatchColumns = map[string]bool{
	"incentive_approved":       true,
	"incentive_approved_by":    true,
	"incentive_approved_at":    true,
	"incentive_rate":           true,
	"incentive_amount":         true,
	"incentive_distance":       true,
	"incentive_stops":          true,
	"incentive_notes":          true,
	"payment_status":           true,
	"payment_notes":            true,
	"paid_at":                  true,
	"holiday_work_approved":    true,
	"holiday_work_approved_by": true,
	"holiday_work_approved_at": true,
	"holiday_work_notes":       true,
	"updated_at":               true,
}

// StopRepository is the gateway to the append-style stops table. Trip-level
// fields are only ever written scoped by reference, which is what keeps the
// denormalized copies in step.
type StopRepository struct {
	DB   *sql.DB
	Feed stream.Publisher
}

func (r StopRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const stopColumns = `id,
	       COALESCE(reference,''),
	       COALESCE(seq,0),
	       COALESCE(ship_to,''),
	       COALESCE(ship_to_name,''),
	       COALESCE(destination,''),
	       checkin_time,
	       checkout_time,
	       COALESCE(checkin_odo,0),
	       COALESCE(checkout_odo,0),
	       COALESCE(end_odo,0),
	       COALESCE(distance_km,0),
	       COALESCE(vehicle_desc,''),
	       COALESCE(drivers,''),
	       COALESCE(driver_count,0),
	       job_closed_at,
	       COALESCE(trip_ended,0),
	       incentive_approved,
	       COALESCE(incentive_approved_by,''),
	       incentive_approved_at,
	       COALESCE(incentive_rate,0),
	       COALESCE(incentive_amount,0),
	       COALESCE(incentive_distance,0),
	       COALESCE(incentive_stops,0),
	       COALESCE(incentive_notes,''),
	       COALESCE(payment_status,''),
	       COALESCE(payment_notes,''),
	       paid_at,
	       COALESCE(is_holiday_work,0),
	       holiday_work_approved,
	       COALESCE(holiday_work_approved_by,''),
	       holiday_work_approved_at,
	       COALESCE(holiday_work_notes,''),
	       COALESCE(bank_name,''),
	       COALESCE(bank_account_number,''),
	       COALESCE(materials,''),
	       COALESCE(total_qty,0),
	       COALESCE(receiver_name,''),
	       created_at,
	       updated_at`

func scanStop(rows interface{ Scan(...any) error }) (models.StopRecord, error) {
	var (
		s            models.StopRecord
		checkin      sql.NullTime
		checkout     sql.NullTime
		closedAt     sql.NullTime
		approved     sql.NullBool
		approvedAt   sql.NullTime
		paidAt       sql.NullTime
		hwApproved   sql.NullBool
		hwApprovedAt sql.NullTime
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	err := rows.Scan(
		&s.ID,
		&s.Reference,
		&s.Seq,
		&s.ShipTo,
		&s.ShipToName,
		&s.Destination,
		&checkin,
		&checkout,
		&s.CheckinOdo,
		&s.CheckoutOdo,
		&s.EndOdo,
		&s.DistanceKm,
		&s.VehicleDesc,
		&s.Drivers,
		&s.DriverCount,
		&closedAt,
		&s.TripEnded,
		&approved,
		&s.IncentiveApprovedBy,
		&approvedAt,
		&s.IncentiveRate,
		&s.IncentiveAmount,
		&s.IncentiveDistance,
		&s.IncentiveStops,
		&s.IncentiveNotes,
		&s.PaymentStatus,
		&s.PaymentNotes,
		&paidAt,
		&s.IsHolidayWork,
		&hwApproved,
		&s.HolidayWorkApprovedBy,
		&hwApprovedAt,
		&s.HolidayWorkNotes,
		&s.BankName,
		&s.BankAccountNumber,
		&s.Materials,
		&s.TotalQty,
		&s.ReceiverName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return s, err
	}

	if checkin.Valid {
		t := checkin.Time
		s.CheckinTime = &t
	}
	if checkout.Valid {
		t := checkout.Time
		s.CheckoutTime = &t
	}
	if closedAt.Valid {
		t := closedAt.Time
		s.JobClosedAt = &t
	}
	if approved.Valid {
		b := approved.Bool
		s.IncentiveApproved = &b
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		s.IncentiveApprovedAt = &t
	}
	if paidAt.Valid {
		t := paidAt.Time
		s.PaidAt = &t
	}
	if hwApproved.Valid {
		b := hwApproved.Bool
		s.HolidayWorkApproved = &b
	}
	if hwApprovedAt.Valid {
		t := hwApprovedAt.Time
		s.HolidayWorkApprovedAt = &t
	}
	if createdAt.Valid {
		s.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		s.UpdatedAt = updatedAt.Time
	}
	return s, nil
}

func (f StopFilter) whereClause() (string, []any) {
	where := []string{"1=1"}
	args := []any{}

	if strings.TrimSpace(f.Reference) != "" {
		where = append(where, "reference=?")
		args = append(args, strings.TrimSpace(f.Reference))
	}
	if len(f.References) > 0 {
		where = append(where, "reference IN ("+placeholders(len(f.References))+")")
		for _, ref := range f.References {
			args = append(args, ref)
		}
	}
	if f.ClosedOnly {
		where = append(where, "job_closed_at IS NOT NULL")
	}
	if strings.TrimSpace(f.DateFrom) != "" {
		where = append(where, "job_closed_at>=?")
		args = append(args, strings.TrimSpace(f.DateFrom))
	}
	if strings.TrimSpace(f.DateTo) != "" {
		where = append(where, "job_closed_at<?")
		args = append(args, strings.TrimSpace(f.DateTo))
	}
	if strings.TrimSpace(f.Driver) != "" {
		// drivers is a comma-joined display list, so match inside it.
		where = append(where, "drivers LIKE ?")
		args = append(args, "%"+strings.TrimSpace(f.Driver)+"%")
	}
	if strings.TrimSpace(f.Vehicle) != "" {
		where = append(where, "vehicle_desc=?")
		args = append(args, strings.TrimSpace(f.Vehicle))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(reference LIKE ? OR destination LIKE ? OR drivers LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	if f.HolidayOnly {
		where = append(where, "is_holiday_work=1")
	}

	switch f.StatusBucket {
	case "pending":
		where = append(where, "incentive_approved IS NULL")
	case "ready":
		where = append(where, "incentive_approved=1", "payment_status IS NULL")
	case "paid":
		where = append(where, "payment_status='paid'")
	case "rejected":
		where = append(where, "(incentive_approved=0 OR payment_status='correction_needed')")
	case "processing":
		where = append(where, "payment_status='processing'")
	case "transfer_pending":
		where = append(where, "payment_status='transfer_pending'")
	}

	return strings.Join(where, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// List returns stop rows matching the filter, newest closed trips first.
func (r StopRepository) List(f StopFilter) ([]models.StopRecord, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db is not initialized"}
	}

	clause, args := f.whereClause()
	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}

	query := fmt.Sprintf(`SELECT %s FROM stops WHERE %s ORDER BY job_closed_at DESC, reference ASC, seq ASC LIMIT %d`,
		stopColumns, clause, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.StopRecord{}
	for rows.Next() {
		rec, err := scanStop(rows)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListByReference returns every stop of one trip in seq order.
func (r StopRepository) ListByReference(reference string) ([]models.StopRecord, error) {
	db := r.db()
	if db == nil {
		return nil, domain.InternalError{Msg: "db is not initialized"}
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}

	query := fmt.Sprintf(`SELECT %s FROM stops WHERE reference=? ORDER BY seq ASC`, stopColumns)
	rows, err := db.Query(query, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.StopRecord{}
	for rows.Next() {
		rec, err := scanStop(rows)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (r StopRepository) firstByReference(q rowQuerier, reference string) (models.StopRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM stops WHERE reference=? ORDER BY seq ASC LIMIT 1`, stopColumns)
	return scanStop(q.QueryRow(query, reference))
}

func buildSet(patch map[string]any) (string, []any, error) {
	if len(patch) == 0 {
		return "", nil, domain.ValidationError{Field: "patch", Msg: "must not be empty"}
	}

	cols := make([]string, 0, len(patch))
	for col := range patch {
		if !stopPatchColumns[col] {
			return "", nil, domain.InternalError{Msg: "refusing to patch column " + col}
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		sets = append(sets, col+"=?")
		args = append(args, patch[col])
	}
	return strings.Join(sets, ","), args, nil
}

// UpdateByReference applies patch to every row of one trip. A reference
// matching zero rows surfaces as NotFoundError. The write is one statement;
// the store gives no stronger atomicity than that.
func (r StopRepository) UpdateByReference(reference string, patch map[string]any) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db is not initialized"}
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return 0, domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}

	set, args, err := buildSet(patch)
	if err != nil {
		return 0, err
	}

	old, _ := r.firstByReference(db, reference)

	res, err := db.Exec("UPDATE stops SET "+set+" WHERE reference=?", append(args, reference)...)
	if err != nil {
		return 0, domain.RemoteWriteError{Op: "update stops", Err: err}
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		// MySQL reports 0 when values did not change; distinguish a missing
		// trip from an idempotent write.
		if _, ferr := r.firstByReference(db, reference); ferr != nil {
			return 0, domain.NotFoundError{Resource: "trip " + reference}
		}
	}

	r.publishUpdate(reference, &old)
	return affected, nil
}

// UpdateByReferenceSet is the bulk variant: one multi-row write inside a
// transaction so a failure applies to none of the references. Returns the
// number of affected trips, not rows.
func (r StopRepository) UpdateByReferenceSet(references []string, patch map[string]any) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db is not initialized"}
	}
	if len(references) == 0 {
		return 0, domain.ValidationError{Field: "references", Msg: "must not be empty"}
	}

	set, args, err := buildSet(patch)
	if err != nil {
		return 0, err
	}

	refs := make([]string, 0, len(references))
	refArgs := make([]any, 0, len(references))
	for _, ref := range references {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return 0, domain.ValidationError{Field: "references", Msg: "contains an empty reference"}
		}
		refs = append(refs, ref)
		refArgs = append(refArgs, ref)
	}

	// Pre-write snapshots feed the per-reference change events once the
	// write commits.
	var olds map[string]models.StopRecord
	if r.Feed != nil {
		olds = make(map[string]models.StopRecord, len(refs))
		for _, ref := range refs {
			if old, err := r.firstByReference(db, ref); err == nil {
				olds[ref] = old
			}
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, domain.RemoteWriteError{Op: "begin bulk update", Err: err}
	}

	var matched int64
	countQuery := "SELECT COUNT(DISTINCT reference) FROM stops WHERE reference IN (" + placeholders(len(references)) + ")"
	if err := tx.QueryRow(countQuery, refArgs...).Scan(&matched); err != nil {
		_ = tx.Rollback()
		return 0, domain.RemoteWriteError{Op: "count bulk references", Err: err}
	}
	if matched < int64(len(references)) {
		_ = tx.Rollback()
		return 0, domain.NotFoundError{Resource: "one or more trips in selection"}
	}

	query := "UPDATE stops SET " + set + " WHERE reference IN (" + placeholders(len(references)) + ")"
	if _, err := tx.Exec(query, append(args, refArgs...)...); err != nil {
		_ = tx.Rollback()
		return 0, domain.RemoteWriteError{Op: "bulk update stops", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.RemoteWriteError{Op: "commit bulk update", Err: err}
	}

	for _, ref := range refs {
		if old, ok := olds[ref]; ok {
			r.publishUpdate(ref, &old)
		} else {
			r.publishUpdate(ref, nil)
		}
	}
	return matched, nil
}

// UpdateHolidayWork applies patch to a trip's holiday-work rows only. The
// extra is_holiday_work scope keeps the flag's lifecycle independent of the
// incentive fields living on the same rows.
func (r StopRepository) UpdateHolidayWork(reference string, patch map[string]any) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db is not initialized"}
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return 0, domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}

	set, args, err := buildSet(patch)
	if err != nil {
		return 0, err
	}

	old, _ := r.firstByReference(db, reference)

	res, err := db.Exec("UPDATE stops SET "+set+" WHERE reference=? AND is_holiday_work=1", append(args, reference)...)
	if err != nil {
		return 0, domain.RemoteWriteError{Op: "update holiday work", Err: err}
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		var n int
		if qerr := db.QueryRow("SELECT COUNT(*) FROM stops WHERE reference=? AND is_holiday_work=1", reference).Scan(&n); qerr != nil || n == 0 {
			return 0, domain.NotFoundError{Resource: "holiday work trip " + reference}
		}
	}

	r.publishUpdate(reference, &old)
	return affected, nil
}

// DeleteByReference removes every stop of a trip; the trip ceases to exist.
func (r StopRepository) DeleteByReference(reference string) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db is not initialized"}
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return 0, domain.ValidationError{Field: "reference", Msg: "must not be empty"}
	}

	old, _ := r.firstByReference(db, reference)

	res, err := db.Exec("DELETE FROM stops WHERE reference=?", reference)
	if err != nil {
		return 0, domain.RemoteWriteError{Op: "delete stops", Err: err}
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return 0, domain.NotFoundError{Resource: "trip " + reference}
	}

	if r.Feed != nil {
		o := old
		_ = r.Feed.PublishChange(stream.ChangeEvent{Type: stream.EventDelete, Table: "stops", Old: &o})
	}
	return affected, nil
}

// publishUpdate emits one UPDATE event for a reference, with the first row
// before and after the write standing in for the trip-level fields.
func (r StopRepository) publishUpdate(reference string, old *models.StopRecord) {
	if r.Feed == nil {
		return
	}
	db := r.db()
	if db == nil {
		return
	}

	now, err := r.firstByReference(db, reference)
	if err != nil {
		return
	}
	_ = r.Feed.PublishChange(stream.ChangeEvent{
		Type:  stream.EventUpdate,
		Table: "stops",
		Old:   old,
		New:   &now,
	})
}
