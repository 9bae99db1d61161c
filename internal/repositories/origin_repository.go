package repositories

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	intconfig "fleetadmin/internal/config"
	intdb "fleetadmin/internal/db"
	"fleetadmin/internal/utils"
)

const originCacheTTL = 5 * time.Minute

// OriginRepository serves the set of origin (depot) location keys. Stops at
// an origin never count as delivery stops. The set changes rarely, so reads
// go through a short-lived in-memory cache.
type OriginRepository struct {
	DB *sql.DB

	mu      sync.Mutex
	keys    map[string]bool
	loaded  time.Time
	missing bool // origins table absent, treat the set as empty
}

func (r *OriginRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Keys returns the current origin key set. Failures fall back to the last
// loaded set so a flaky read never turns every origin into a delivery stop.
func (r *OriginRepository) Keys() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.keys != nil && time.Since(r.loaded) < originCacheTTL {
		return r.keys
	}
	if r.missing {
		return map[string]bool{}
	}

	conn := r.db()
	if conn == nil {
		return r.keysOrEmpty()
	}

	if !intdb.HasTable(conn, "origins") {
		r.missing = true
		r.keys = map[string]bool{}
		r.loaded = utils.NowUTC()
		return r.keys
	}

	// Older deployments carry only ship_to; the name column came later.
	query := `SELECT COALESCE(ship_to,''), '' FROM origins`
	if intdb.HasColumn(conn, "origins", "name") {
		query = `SELECT COALESCE(ship_to,''), COALESCE(name,'') FROM origins`
	}

	rows, err := conn.Query(query)
	if err != nil {
		return r.keysOrEmpty()
	}
	defer rows.Close()

	keys := map[string]bool{}
	for rows.Next() {
		var shipTo, name string
		if err := rows.Scan(&shipTo, &name); err != nil {
			return r.keysOrEmpty()
		}
		if k := strings.TrimSpace(shipTo); k != "" {
			keys[k] = true
		}
		if k := strings.TrimSpace(name); k != "" {
			keys[k] = true
		}
	}
	if err := rows.Err(); err != nil {
		return r.keysOrEmpty()
	}

	r.keys = keys
	r.loaded = utils.NowUTC()
	return r.keys
}

func (r *OriginRepository) keysOrEmpty() map[string]bool {
	if r.keys != nil {
		return r.keys
	}
	return map[string]bool{}
}
