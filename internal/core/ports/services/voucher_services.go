package services

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/dto"
)

// VoucherReaderSvc defines read operations for vouchers
type VoucherReaderSvc interface {
	// GetVoucher returns the voucher with its items.
	GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchers returns vouchers newest first, optionally filtered by type.
	ListVouchers(ctx context.Context, voucherType *domain.VoucherType, limit int, offset int) ([]domain.Voucher, error)
}

// VoucherWriterSvc defines the lifecycle operations. Leaving draft applies the
// ledger and stock impact exactly once.
type VoucherWriterSvc interface {
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error)
	UpdateVoucher(ctx context.Context, voucherID string, req dto.UpdateVoucherRequest, userID string) (*domain.Voucher, error)
}

// VoucherSvcFacade combines all voucher-related service interfaces
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
