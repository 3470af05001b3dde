package store

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Property is one rentable unit.
type Property struct {
	ID             int64
	Name           string
	AreaSqm        float64
	NightlyRateEUR float64
	MaxGuests      int
}

// ActiveProperties returns all active properties ordered by name.
func (db *DB) ActiveProperties(ctx context.Context) ([]Property, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, area_sqm, nightly_rate_eur, max_guests
		 FROM properties WHERE active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.Name, &p.AreaSqm, &p.NightlyRateEUR, &p.MaxGuests); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// BookedPropertyIDs returns the IDs of properties with a confirmed booking
// overlapping [checkIn, checkOut). Dates are ISO "2006-01-02" strings, which
// compare correctly as text.
func (db *DB) BookedPropertyIDs(ctx context.Context, checkIn, checkOut string) (map[int64]bool, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT property_id FROM bookings
		 WHERE status = 'confirmed' AND check_in < ? AND check_out > ?`,
		checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	booked := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		booked[id] = true
	}
	return booked, rows.Err()
}

// ChatRequestLog is one relay request outcome for the request log.
type ChatRequestLog struct {
	ClientID   string
	Language   string
	MessageLen int
	Status     string
	ToolCalls  int
	Duration   time.Duration
}

// LogChatRequest records a completed relay request. Logging is best-effort;
// the returned trace ID is stable even when the insert fails.
func (db *DB) LogChatRequest(ctx context.Context, rec ChatRequestLog) string {
	traceID := ulid.Make().String()
	_, _ = db.ExecContext(ctx,
		`INSERT INTO chat_requests(trace_id, ts, client_id, language, message_len, status, tool_calls, duration_ms)
		 VALUES(?,?,?,?,?,?,?,?)`,
		traceID,
		float64(time.Now().UnixNano())/1e9,
		rec.ClientID, rec.Language, rec.MessageLen, rec.Status, rec.ToolCalls,
		float64(rec.Duration.Microseconds())/1000.0,
	)
	return traceID
}
