package repositories

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// VoucherReader defines read operations for vouchers. Vouchers are returned with their items.
type VoucherReader interface {
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchers orders by created_at descending, optionally filtered by type.
	ListVouchers(ctx context.Context, voucherType *domain.VoucherType, limit int, offset int) ([]domain.Voucher, error)

	// FindIssuedWithoutLedgerEntry returns issued invoices and bills with a positive
	// total that have no linked transaction. Items are not loaded.
	FindIssuedWithoutLedgerEntry(ctx context.Context) ([]domain.Voucher, error)
}

// VoucherWriter defines write operations for vouchers
type VoucherWriter interface {
	// SaveVoucherInTx inserts the header and all items using tx.
	SaveVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error
}

// VoucherTransactionSupport defines the locked read-modify-write path used by status changes.
type VoucherTransactionSupport interface {
	// FindVoucherByIDForUpdate loads the voucher and locks its row until tx ends.
	FindVoucherByIDForUpdate(ctx context.Context, tx pgx.Tx, voucherID string) (*domain.Voucher, error)

	// UpdateVoucherInTx persists status, notes, approver and header totals.
	UpdateVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error

	// UpdateVoucherItemAmountsInTx persists recomputed line amounts.
	UpdateVoucherItemAmountsInTx(ctx context.Context, tx pgx.Tx, items []domain.VoucherItem) error
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
	VoucherTransactionSupport
}

// VoucherRepositoryWithTx extends VoucherRepositoryFacade with transaction capabilities
type VoucherRepositoryWithTx interface {
	VoucherRepositoryFacade
	TransactionManager
}
