// Package provider pkg/provider/sqlite.go
package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/monitocorp/servicedash/pkg/models"
)

const (
	dbOperationTimeout = 5 * time.Second

	sqliteSchema = `
        CREATE TABLE IF NOT EXISTS services (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            type TEXT NOT NULL,
            status TEXT NOT NULL,
            url TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            last_checked TIMESTAMP NOT NULL,
            response_time INTEGER
        );
        CREATE TABLE IF NOT EXISTS service_events (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            service_id TEXT NOT NULL,
            status TEXT NOT NULL,
            timestamp TIMESTAMP NOT NULL,
            message TEXT NOT NULL,
            duration INTEGER,
            FOREIGN KEY (service_id) REFERENCES services(id)
        );
        CREATE INDEX IF NOT EXISTS idx_events_service_time
            ON service_events(service_id, timestamp DESC);
    `
)

// SQLiteProvider is a Provider persisted to a local SQLite database.
// Every status-changing write appends a history event, so the event
// feed reflects real transitions instead of generated fixtures.
type SQLiteProvider struct {
	db     *sql.DB
	now    func() time.Time
	logger zerolog.Logger
}

// NewSQLiteProvider opens (and if needed initializes) the database at
// dbPath.
func NewSQLiteProvider(dbPath string, logger zerolog.Logger) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errOpenDatabase, err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", errInitSchema, err)
	}

	return &SQLiteProvider{
		db:     db,
		now:    time.Now,
		logger: logger.With().Str("component", "sqlite_provider").Logger(),
	}, nil
}

// Close releases the underlying database handle.
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

func (p *SQLiteProvider) ListServices(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
        SELECT id, name, type, status, url, description, last_checked, response_time
        FROM services
        ORDER BY CAST(id AS INTEGER), id
    `

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errQueryServices, err)
	}
	defer rows.Close()

	services := make([]models.Service, 0)

	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}

		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errQueryServices, err)
	}

	return services, nil
}

func (p *SQLiteProvider) ListServiceStatuses(ctx context.Context) ([]models.StatusUpdate, error) {
	services, err := p.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	updates := make([]models.StatusUpdate, 0, len(services))
	for i := range services {
		updates = append(updates, models.StatusUpdate{
			ID:           services[i].ID,
			Status:       services[i].Status,
			LastChecked:  services[i].LastChecked,
			ResponseTime: services[i].ResponseTime,
		})
	}

	return updates, nil
}

func (p *SQLiteProvider) GetService(ctx context.Context, id string) (models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
        SELECT id, name, type, status, url, description, last_checked, response_time
        FROM services
        WHERE id = ?
    `

	svc, err := scanService(p.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Service{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err != nil {
		return models.Service{}, err
	}

	return svc, nil
}

func (p *SQLiteProvider) ListServiceEvents(ctx context.Context, id string, page int) ([]models.ServiceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
        SELECT id, service_id, status, timestamp, message, duration
        FROM service_events
        WHERE service_id = ?
        ORDER BY timestamp DESC, id DESC
        LIMIT ? OFFSET ?
    `

	rows, err := p.db.QueryContext(ctx, query, id, models.EventPageSize, page*models.EventPageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errQueryEvents, err)
	}
	defer rows.Close()

	events := make([]models.ServiceEvent, 0, models.EventPageSize)

	for rows.Next() {
		var (
			event    models.ServiceEvent
			rowID    int64
			duration sql.NullInt64
		)

		if err := rows.Scan(&rowID, &event.ServiceID, &event.Status,
			&event.Timestamp, &event.Message, &duration); err != nil {
			return nil, fmt.Errorf("%w: %w", errScanRow, err)
		}

		event.ID = fmt.Sprintf("%d", rowID)
		if duration.Valid {
			event.Duration = &duration.Int64
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errQueryEvents, err)
	}

	return events, nil
}

func (p *SQLiteProvider) CreateService(ctx context.Context, fields models.ServiceFields) (models.Service, error) {
	if err := fields.Validate(); err != nil {
		return models.Service{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	now := p.now()
	id := fmt.Sprintf("%d", now.UnixNano())

	const query = `
        INSERT INTO services (id, name, type, status, url, description, last_checked)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	_, err := p.db.ExecContext(ctx, query,
		id, fields.Name, string(fields.Type), string(fields.Status),
		fields.URL, fields.Description, now)
	if err != nil {
		return models.Service{}, fmt.Errorf("%w: %w", errCreateService, err)
	}

	svc := models.Service{
		ID:          id,
		Name:        fields.Name,
		Type:        fields.Type,
		Status:      fields.Status,
		URL:         fields.URL,
		Description: fields.Description,
		LastChecked: now,
	}

	p.appendEvent(ctx, id, fields.Status, "Service registered")

	return svc, nil
}

func (p *SQLiteProvider) UpdateService(ctx context.Context, id string, patch models.ServicePatch) (models.Service, error) {
	if err := patch.Validate(); err != nil {
		return models.Service{}, err
	}

	svc, err := p.GetService(ctx, id)
	if err != nil {
		return models.Service{}, err
	}

	previous := svc.Status
	patch.Apply(&svc)
	svc.LastChecked = p.now()

	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
        UPDATE services
        SET name = ?, type = ?, status = ?, url = ?, description = ?, last_checked = ?
        WHERE id = ?
    `

	if _, err := p.db.ExecContext(ctx, query,
		svc.Name, string(svc.Type), string(svc.Status),
		svc.URL, svc.Description, svc.LastChecked, id); err != nil {
		return models.Service{}, fmt.Errorf("%w: %w", errUpdateService, err)
	}

	if svc.Status != previous {
		p.appendEvent(ctx, id, svc.Status,
			fmt.Sprintf("Service status changed to %s", svc.Status))
	}

	return svc, nil
}

func (p *SQLiteProvider) DeleteService(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	result, err := p.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %w", errDeleteService, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", errDeleteService, err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	_, err = p.db.ExecContext(ctx, "DELETE FROM service_events WHERE service_id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %w", errDeleteService, err)
	}

	return nil
}

// appendEvent records a history row; event write failures are logged
// rather than failing the mutation that triggered them.
func (p *SQLiteProvider) appendEvent(ctx context.Context, serviceID string, status models.ServiceStatus, message string) {
	const query = `
        INSERT INTO service_events (service_id, status, timestamp, message)
        VALUES (?, ?, ?, ?)
    `

	if _, err := p.db.ExecContext(ctx, query, serviceID, string(status), p.now(), message); err != nil {
		p.logger.Error().Err(err).Str("service_id", serviceID).Msg("Failed to append service event")
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (models.Service, error) {
	var (
		svc          models.Service
		serviceType  string
		status       string
		responseTime sql.NullInt64
	)

	err := row.Scan(&svc.ID, &svc.Name, &serviceType, &status,
		&svc.URL, &svc.Description, &svc.LastChecked, &responseTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Service{}, err
		}

		return models.Service{}, fmt.Errorf("%w: %w", errScanRow, err)
	}

	svc.Type = models.ServiceType(serviceType)
	svc.Status = models.ServiceStatus(status)

	if responseTime.Valid {
		svc.ResponseTime = &responseTime.Int64
	}

	return svc, nil
}
