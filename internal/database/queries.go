package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// SaveImportantDomain stores a runtime important domain. Saving an existing
// domain is a no-op.
func (db *DB) SaveImportantDomain(ctx context.Context, domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return fmt.Errorf("domain is required")
	}

	_, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO important_domains (domain, created_at)
		VALUES (?, ?)
	`, domain, time.Now().UTC())
	return err
}

// ListImportantDomains returns runtime important domains, oldest first
func (db *DB) ListImportantDomains(ctx context.Context) ([]ImportantDomain, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT domain, created_at FROM important_domains
		ORDER BY created_at ASC, domain ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []ImportantDomain
	for rows.Next() {
		var d ImportantDomain
		if err := rows.Scan(&d.Domain, &d.CreatedAt); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}

	return domains, rows.Err()
}

// ImportantDomainNames returns just the domain names
func (db *DB) ImportantDomainNames(ctx context.Context) ([]string, error) {
	domains, err := db.ListImportantDomains(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = d.Domain
	}
	return names, nil
}

// RecordBulkOperation stores the outcome of a bulk mutation
func (db *DB) RecordBulkOperation(ctx context.Context, result email.BulkResult) error {
	_, err := db.CreateBulkOperation(ctx, result)
	return err
}

// CreateBulkOperation inserts a bulk result and returns the stored record
func (db *DB) CreateBulkOperation(ctx context.Context, result email.BulkResult) (*BulkOperation, error) {
	op := &BulkOperation{
		ID:        uuid.New().String(),
		Action:    result.Action,
		Requested: result.Requested,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		FailedIDs: result.FailedIDs,
		CreatedAt: time.Now().UTC(),
	}
	if op.FailedIDs == nil {
		op.FailedIDs = []string{}
	}

	failedIDs, err := encodeIDs(op.FailedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode failed ids: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO bulk_operations (
			id, action, requested, succeeded, failed, failed_ids, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		op.ID, op.Action, op.Requested, op.Succeeded, op.Failed, failedIDs, op.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return op, nil
}

// GetBulkOperation retrieves a bulk operation by ID
func (db *DB) GetBulkOperation(ctx context.Context, id string) (*BulkOperation, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, action, requested, succeeded, failed, failed_ids, created_at
		FROM bulk_operations WHERE id = ?
	`, id)

	op, err := scanBulkOperation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return op, nil
}

// ListBulkOperations returns recorded bulk operations, newest first
func (db *DB) ListBulkOperations(ctx context.Context, opts HistoryOptions) ([]BulkOperation, error) {
	query := `
		SELECT id, action, requested, succeeded, failed, failed_ids, created_at
		FROM bulk_operations WHERE 1=1
	`
	args := []interface{}{}

	if opts.Action != "" {
		query += " AND action = ?"
		args = append(args, opts.Action)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []BulkOperation
	for rows.Next() {
		op, err := scanBulkOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, *op)
	}

	return ops, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBulkOperation(s scanner) (*BulkOperation, error) {
	op := &BulkOperation{}
	var failedIDs string

	err := s.Scan(
		&op.ID, &op.Action, &op.Requested, &op.Succeeded, &op.Failed, &failedIDs, &op.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	op.FailedIDs, err = decodeIDs(failedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode failed ids for %s: %w", op.ID, err)
	}
	return op, nil
}
