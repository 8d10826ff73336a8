package uom

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists units in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetUnit(ctx context.Context, id string) (Unit, error) {
	var u Unit
	err := r.pool.QueryRow(ctx, `SELECT id, uom_name, symbol, uom_category, is_base_unit, conversion_factor, decimal_precision, status, created_at
FROM uoms WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Symbol, &u.Category, &u.IsBaseUnit, &u.ConversionFactor, &u.DecimalPrecision, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Unit{}, ErrUnitNotFound
		}
		return Unit{}, err
	}
	return u, nil
}

func (r *Repository) ListUnits(ctx context.Context) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, uom_name, symbol, uom_category, is_base_unit, conversion_factor, decimal_precision, status, created_at
FROM uoms ORDER BY uom_category, uom_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	units := []Unit{}
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Symbol, &u.Category, &u.IsBaseUnit, &u.ConversionFactor, &u.DecimalPrecision, &u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return units, nil
}

func (r *Repository) InsertUnit(ctx context.Context, unit Unit) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO uoms (id, uom_name, symbol, uom_category, is_base_unit, conversion_factor, decimal_precision, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		unit.ID, unit.Name, unit.Symbol, string(unit.Category), unit.IsBaseUnit, unit.ConversionFactor, unit.DecimalPrecision, unit.Status, unit.CreatedAt)
	return err
}

func (r *Repository) UpdateUnit(ctx context.Context, unit Unit) error {
	tag, err := r.pool.Exec(ctx, `UPDATE uoms SET uom_name=$2, symbol=$3, uom_category=$4, is_base_unit=$5, conversion_factor=$6, decimal_precision=$7, status=$8
WHERE id=$1`,
		unit.ID, unit.Name, unit.Symbol, string(unit.Category), unit.IsBaseUnit, unit.ConversionFactor, unit.DecimalPrecision, unit.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnitNotFound
	}
	return nil
}
