package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Vehicle struct {
	ID           int64
	Name         string
	CurrentOdoKm int64
}

type Maintenance struct {
	ID               int64
	TypeID           string
	TypeName         string
	IntervalKm       int64
	OdoAtMaintenance int64
	ServiceDate      string
	PartCost         int64
	ServiceCost      int64
	TotalCost        int64
}

const getVehicle = `-- name: GetVehicle :one
SELECT id, name, current_odo_km FROM vehicle WHERE id = 1
`

func (q *Queries) GetVehicle(ctx context.Context) (Vehicle, error) {
	row := q.db.QueryRowContext(ctx, getVehicle)
	var i Vehicle
	err := row.Scan(&i.ID, &i.Name, &i.CurrentOdoKm)
	return i, err
}

const upsertVehicle = `-- name: UpsertVehicle :exec
INSERT INTO vehicle (id, name, current_odo_km, updated_at)
VALUES (1, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    current_odo_km = excluded.current_odo_km,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertVehicleParams struct {
	Name         string
	CurrentOdoKm int64
}

func (q *Queries) UpsertVehicle(ctx context.Context, arg UpsertVehicleParams) error {
	_, err := q.db.ExecContext(ctx, upsertVehicle, arg.Name, arg.CurrentOdoKm)
	return err
}

const insertMaintenance = `-- name: InsertMaintenance :exec
INSERT INTO maintenance (
    id, type_id, type_name, interval_km, odo_at_maintenance,
    service_date, part_cost, service_cost, total_cost
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertMaintenance(ctx context.Context, arg Maintenance) error {
	_, err := q.db.ExecContext(ctx, insertMaintenance,
		arg.ID,
		arg.TypeID,
		arg.TypeName,
		arg.IntervalKm,
		arg.OdoAtMaintenance,
		arg.ServiceDate,
		arg.PartCost,
		arg.ServiceCost,
		arg.TotalCost,
	)
	return err
}

const deleteMaintenance = `-- name: DeleteMaintenance :execrows
DELETE FROM maintenance WHERE id = ?
`

func (q *Queries) DeleteMaintenance(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMaintenance, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const maintenanceColumns = `id, type_id, type_name, interval_km, odo_at_maintenance,
    service_date, part_cost, service_cost, total_cost`

const listMaintenance = `-- name: ListMaintenance :many
SELECT ` + maintenanceColumns + ` FROM maintenance ORDER BY id ASC
`

func (q *Queries) ListMaintenance(ctx context.Context) ([]Maintenance, error) {
	return q.queryMaintenance(ctx, listMaintenance)
}

const listMaintenanceByType = `-- name: ListMaintenanceByType :many
SELECT ` + maintenanceColumns + ` FROM maintenance WHERE type_id = ? ORDER BY id ASC
`

func (q *Queries) ListMaintenanceByType(ctx context.Context, typeID string) ([]Maintenance, error) {
	return q.queryMaintenance(ctx, listMaintenanceByType, typeID)
}

const listMaintenanceBetween = `-- name: ListMaintenanceBetween :many
SELECT ` + maintenanceColumns + ` FROM maintenance
WHERE service_date >= ? AND service_date <= ?
ORDER BY service_date ASC, id ASC
`

func (q *Queries) ListMaintenanceBetween(ctx context.Context, from, to string) ([]Maintenance, error) {
	return q.queryMaintenance(ctx, listMaintenanceBetween, from, to)
}

func (q *Queries) queryMaintenance(ctx context.Context, query string, args ...interface{}) ([]Maintenance, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Maintenance
	for rows.Next() {
		var i Maintenance
		if err := rows.Scan(
			&i.ID,
			&i.TypeID,
			&i.TypeName,
			&i.IntervalKm,
			&i.OdoAtMaintenance,
			&i.ServiceDate,
			&i.PartCost,
			&i.ServiceCost,
			&i.TotalCost,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
