package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, owner_id, description, amount, type, occurred_at, notes, category_id, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO transactions (owner_id, description, amount, type, occurred_at, notes, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+transactionColumns,
		uuidToPg(transaction.OwnerID),
		transaction.Description,
		amount,
		string(transaction.Type),
		pgtype.Timestamptz{Time: transaction.OccurredAt, Valid: true},
		stringPtrToPgText(transaction.Notes),
		int32PtrToPgInt4(transaction.CategoryID),
	)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, mapTransactionError(err)
	}
	return created, nil
}

// GetByID retrieves a transaction by its ID within an owner's data
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID uuid.UUID, id int32) (*domain.Transaction, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE owner_id = $1 AND id = $2`,
		uuidToPg(ownerID), id)
	return scanTransaction(row)
}

// Update replaces every editable field of a transaction
func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE transactions
		SET description = $3, amount = $4, type = $5, occurred_at = $6,
		    notes = $7, category_id = $8, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		uuidToPg(transaction.OwnerID),
		transaction.ID,
		transaction.Description,
		amount,
		string(transaction.Type),
		pgtype.Timestamptz{Time: transaction.OccurredAt, Valid: true},
		stringPtrToPgText(transaction.Notes),
		int32PtrToPgInt4(transaction.CategoryID),
	)
	updated, err := scanTransaction(row)
	if err != nil {
		return nil, mapTransactionError(err)
	}
	return updated, nil
}

// Delete permanently removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, ownerID uuid.UUID, id int32) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM transactions WHERE owner_id = $1 AND id = $2`,
		uuidToPg(ownerID), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// List retrieves one page of transactions matching the filters, newest first
func (r *TransactionRepository) List(ctx context.Context, ownerID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	where, args := transactionFilterClause(ownerID, filters)
	db := conn(ctx, r.pool)

	var total int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	pageArgs := append(args, filters.PageSize, offset)
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE %s
		ORDER BY occurred_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		transactionColumns, where, len(args)+1, len(args)+2)

	rows, err := db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, err
	}
	data, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// ListInRange retrieves every transaction with occurred_at in [start, end]
func (r *TransactionRepository) ListInRange(ctx context.Context, ownerID uuid.UUID, start, end *time.Time) ([]*domain.Transaction, error) {
	where, args := transactionFilterClause(ownerID, &domain.TransactionFilters{StartDate: start, EndDate: end})
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE `+where+` ORDER BY occurred_at, id`,
		args...)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// SumByType totals the amounts of one type with occurred_at in [start, end]
func (r *TransactionRepository) SumByType(ctx context.Context, ownerID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::NUMERIC(19,2)
		FROM transactions
		WHERE owner_id = $1 AND type = $2 AND occurred_at >= $3 AND occurred_at <= $4`,
		uuidToPg(ownerID), string(txType),
		pgtype.Timestamptz{Time: start, Valid: true},
		pgtype.Timestamptz{Time: end, Valid: true},
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// CountByCategory counts the owner's transactions per referenced category
func (r *TransactionRepository) CountByCategory(ctx context.Context, ownerID uuid.UUID) (map[int32]int64, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT category_id, COUNT(*)
		FROM transactions
		WHERE owner_id = $1 AND category_id IS NOT NULL
		GROUP BY category_id`,
		uuidToPg(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int32]int64)
	for rows.Next() {
		var (
			categoryID int32
			count      int64
		)
		if err := rows.Scan(&categoryID, &count); err != nil {
			return nil, err
		}
		counts[categoryID] = count
	}
	return counts, rows.Err()
}

// transactionFilterClause builds the WHERE clause shared by List and ListInRange
func transactionFilterClause(ownerID uuid.UUID, filters *domain.TransactionFilters) (string, []any) {
	conds := []string{"owner_id = $1"}
	args := []any{uuidToPg(ownerID)}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filters != nil {
		if filters.StartDate != nil {
			add("occurred_at >= $%d", pgtype.Timestamptz{Time: *filters.StartDate, Valid: true})
		}
		if filters.EndDate != nil {
			add("occurred_at <= $%d", pgtype.Timestamptz{Time: *filters.EndDate, Valid: true})
		}
		if filters.Type != nil {
			add("type = $%d", string(*filters.Type))
		}
		if filters.CategoryID != nil {
			add("category_id = $%d", *filters.CategoryID)
		}
	}
	return strings.Join(conds, " AND "), args
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t          domain.Transaction
		ownerID    pgtype.UUID
		amount     pgtype.Numeric
		txType     string
		occurredAt pgtype.Timestamptz
		notes      pgtype.Text
		categoryID pgtype.Int4
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	err := row.Scan(&t.ID, &ownerID, &t.Description, &amount, &txType, &occurredAt, &notes, &categoryID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	t.OwnerID = pgToUUID(ownerID)
	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	t.OccurredAt = occurredAt.Time
	t.Notes = pgTextToStringPtr(notes)
	t.CategoryID = pgInt4ToInt32Ptr(categoryID)
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}

func mapTransactionError(err error) error {
	switch pgErrorCode(err) {
	case pgForeignKeyViolation:
		return domain.ErrCategoryNotFound
	case pgCheckViolation:
		return domain.ErrInvalidInput
	}
	return err
}
