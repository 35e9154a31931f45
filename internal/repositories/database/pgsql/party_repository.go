package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/bluestar-trading/erp_backend/internal/models"
	"github.com/bluestar-trading/erp_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPartyRepository struct {
	BaseRepository
}

func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

const partyColumns = `party_id, code, name, party_type, email, phone, gstin, address,
	credit_limit, current_balance, status, created_at, created_by, last_updated_at, last_updated_by`

func scanParty(row pgx.Row) (models.Party, error) {
	var m models.Party
	err := row.Scan(
		&m.PartyID, &m.Code, &m.Name, &m.PartyType, &m.Email, &m.Phone, &m.GSTIN, &m.Address,
		&m.CreditLimit, &m.CurrentBalance, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1;`
	m, err := scanParty(r.Pool.QueryRow(ctx, query, partyID))
	if err != nil {
		return nil, translateError(err, "party "+partyID)
	}
	p := mapping.ToDomainParty(m)
	return &p, nil
}

func (r *PgxPartyRepository) ListParties(ctx context.Context, partyType *domain.PartyType, limit int, offset int) ([]domain.Party, error) {
	limit, offset = normalizePage(limit, offset)
	var filter *string
	if partyType != nil {
		s := string(*partyType)
		filter = &s
	}
	query := `
		SELECT ` + partyColumns + `
		FROM parties
		WHERE ($1::text IS NULL OR party_type = $1)
		ORDER BY name ASC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	parties := []domain.Party{}
	for rows.Next() {
		m, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		parties = append(parties, mapping.ToDomainParty(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating party rows: %w", err)
	}
	return parties, nil
}

func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PartyID, m.Code, m.Name, m.PartyType, m.Email, m.Phone, m.GSTIN, m.Address,
		m.CreditLimit, m.CurrentBalance, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return translateError(err, "save party "+m.Code)
}

func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `
		UPDATE parties
		SET name = $1, email = $2, phone = $3, gstin = $4, address = $5,
		    credit_limit = $6, status = $7, last_updated_at = $8, last_updated_by = $9
		WHERE party_id = $10;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name, m.Email, m.Phone, m.GSTIN, m.Address,
		m.CreditLimit, m.Status, m.LastUpdatedAt, m.LastUpdatedBy, m.PartyID,
	)
	if err != nil {
		return translateError(err, "update party "+m.PartyID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("party %s: %w", m.PartyID, apperrors.ErrNotFound)
	}
	return nil
}

// ApplyBalanceDeltaInTx increments the balance in one statement so concurrent
// ledger writes never lose an update.
func (r *PgxPartyRepository) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, partyID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE parties
		SET current_balance = current_balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE party_id = $4;
	`
	cmdTag, err := tx.Exec(ctx, query, delta, now, userID, partyID)
	if err != nil {
		return translateError(err, "apply balance delta to party "+partyID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("party %s: %w", partyID, apperrors.ErrNotFound)
	}
	return nil
}
