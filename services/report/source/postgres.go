// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AleutianAI/deployreport/pkg/validation"
	"github.com/AleutianAI/deployreport/services/report/deployment"
)

// DefaultTable is the table read when PostgresOptions.Table is empty.
const DefaultTable = "deployments"

// connectTimeout bounds the initial ping.
const connectTimeout = 12 * time.Second

// Filter narrows the records read from Postgres. Zero fields do not filter.
type Filter struct {
	Units          []string  `yaml:"units,omitempty"`
	TimeCategories []string  `yaml:"time_categories,omitempty"`
	OperativeNames []string  `yaml:"operative_names,omitempty"`
	From           time.Time `yaml:"from,omitempty"`
	To             time.Time `yaml:"to,omitempty"`
	Limit          uint64    `yaml:"limit,omitempty"`
}

// PostgresOptions configures a PostgresSource.
type PostgresOptions struct {
	// Table is the (optionally schema-qualified) records table.
	Table string

	// Filter is applied to every query.
	Filter Filter

	// SkipInvalid drops invalid rows instead of failing.
	SkipInvalid bool

	// Logger receives warnings for skipped rows. Nil discards.
	Logger *slog.Logger
}

// PostgresSource reads records from a Postgres table.
//
// Null strings and counts are coalesced in SQL, so a row decodes exactly like
// a JSON record with missing fields.
//
// # Thread Safety
//
// Safe for concurrent use; the pool is shared.
type PostgresSource struct {
	pool *pgxpool.Pool
	opts PostgresOptions
}

var _ Source = (*PostgresSource)(nil)

// NewPostgresSource connects to dsn and verifies the connection.
func NewPostgresSource(ctx context.Context, dsn string, opts PostgresOptions) (*PostgresSource, error) {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if err := validation.ValidateTableName(opts.Table); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	opts.Logger = orDiscard(opts.Logger)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresSource{pool: pool, opts: opts}, nil
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// Records implements Source.
func (s *PostgresSource) Records(ctx context.Context) ([]deployment.Record, error) {
	query, args, err := BuildQuery(s.opts.Table, s.opts.Filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []deployment.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	return filterValid(records, s.opts.SkipInvalid, s.opts.Logger)
}

// recordColumns lists the selected columns in scan order.
var recordColumns = []string{
	"id::text",
	"COALESCE(unit, '')",
	"COALESCE(operative_type, '')",
	"COALESCE(operative_name, '')",
	"COALESCE(time_category, '')",
	"starts_at",
	"ends_at",
	"COALESCE(order_type, '')",
	"COALESCE(order_number, '')",
	"COALESCE(sectors, '{}')",
	"COALESCE(neighborhoods, '{}')",
	"COALESCE(vehicles, 0)",
	"COALESCE(officers_in_vehicle, 0)",
	"COALESCE(supervisors, 0)",
	"COALESCE(motorcycles, 0)",
	"COALESCE(two_rider_motorcycles, 0)",
	"COALESCE(mounted_units, 0)",
	"COALESCE(canine_units, 0)",
	"COALESCE(foot_patrol, 0)",
	"COALESCE(drones, 0)",
	"COALESCE(riot_squad_posted, 0)",
	"COALESCE(riot_squad_alert, 0)",
	"COALESCE(special_ops_posted, 0)",
	"COALESCE(special_ops_alert, 0)",
}

// BuildQuery renders the SELECT for table and f with $n placeholders.
//
// The time window keeps records that overlap [From, To]: records starting
// after To or ending before From are excluded; records without an end are
// open-ended.
func BuildQuery(table string, f Filter) (string, []any, error) {
	if err := validation.ValidateTableName(table); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}

	q := sq.Select(recordColumns...).
		From(table).
		PlaceholderFormat(sq.Dollar).
		OrderBy("starts_at", "id")

	if len(f.Units) > 0 {
		q = q.Where(sq.Eq{"unit": f.Units})
	}
	if len(f.TimeCategories) > 0 {
		q = q.Where(sq.Eq{"time_category": f.TimeCategories})
	}
	if len(f.OperativeNames) > 0 {
		q = q.Where(sq.Eq{"operative_name": f.OperativeNames})
	}
	if !f.To.IsZero() {
		q = q.Where(sq.LtOrEq{"starts_at": f.To})
	}
	if !f.From.IsZero() {
		q = q.Where(sq.Or{sq.GtOrEq{"ends_at": f.From}, sq.Eq{"ends_at": nil}})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build records query: %w", err)
	}
	return query, args, nil
}

// rowScanner is the subset of pgx.Rows used by scanRecord.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (deployment.Record, error) {
	var (
		r       deployment.Record
		start   *time.Time
		end     *time.Time
		sectors []int32
		res     = &r.Resources
	)
	err := row.Scan(
		&r.ID,
		&r.Unit,
		&r.OperativeType,
		&r.OperativeName,
		&r.TimeCategory,
		&start,
		&end,
		&r.OrderType,
		&r.OrderNumber,
		&sectors,
		&r.Neighborhoods,
		&res.Vehicles,
		&res.OfficersInVehicle,
		&res.Supervisors,
		&res.Motorcycles,
		&res.TwoRiderMotorcycles,
		&res.MountedUnits,
		&res.CanineUnits,
		&res.FootPatrol,
		&res.Drones,
		&res.RiotSquadPosted,
		&res.RiotSquadAlert,
		&res.SpecialOpsPosted,
		&res.SpecialOpsAlert,
	)
	if err != nil {
		return deployment.Record{}, err
	}
	if start != nil {
		r.Start = *start
	}
	if end != nil {
		r.End = *end
	}
	for _, s := range sectors {
		r.Sectors = append(r.Sectors, int(s))
	}
	return r, nil
}
