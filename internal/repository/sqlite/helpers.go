package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/eartune/internal/logger"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

func encodePattern(pattern []float64) (string, error) {
	if pattern == nil {
		pattern = []float64{}
	}
	b, err := json.Marshal(pattern)
	if err != nil {
		return "", fmt.Errorf("encode pattern: %w", err)
	}
	return string(b), nil
}

func decodePattern(raw string) ([]float64, error) {
	if raw == "" {
		return nil, nil
	}
	var pattern []float64
	if err := json.Unmarshal([]byte(raw), &pattern); err != nil {
		return nil, fmt.Errorf("decode pattern: %w", err)
	}
	if len(pattern) == 0 {
		return nil, nil
	}
	return pattern, nil
}

func pageBounds(limit, offset, fallback int) (uint64, uint64) {
	if limit <= 0 {
		limit = fallback
	}
	if offset < 0 {
		offset = 0
	}
	return uint64(limit), uint64(offset)
}
