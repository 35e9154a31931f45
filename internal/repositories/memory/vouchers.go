package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func cloneVoucher(v domain.Voucher) domain.Voucher {
	v.Items = slices.Clone(v.Items)
	return v
}

func (s *Store) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vouchers[voucherID]
	if !ok {
		return nil, notFound("voucher", voucherID)
	}
	v = cloneVoucher(v)
	return &v, nil
}

// FindVoucherByIDForUpdate relies on the transaction lock already held by tx.
func (s *Store) FindVoucherByIDForUpdate(ctx context.Context, tx pgx.Tx, voucherID string) (*domain.Voucher, error) {
	if _, err := s.txFrom(tx); err != nil {
		return nil, err
	}
	return s.FindVoucherByID(ctx, voucherID)
}

func (s *Store) ListVouchers(ctx context.Context, voucherType *domain.VoucherType, limit int, offset int) ([]domain.Voucher, error) {
	s.mu.RLock()
	out := []domain.Voucher{}
	for i := len(s.voucherOrder) - 1; i >= 0; i-- {
		v := s.vouchers[s.voucherOrder[i]]
		if voucherType == nil || v.VoucherType == *voucherType {
			out = append(out, cloneVoucher(v))
		}
	}
	s.mu.RUnlock()
	return page(out, limit, offset), nil
}

func (s *Store) FindIssuedWithoutLedgerEntry(ctx context.Context) ([]domain.Voucher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	linked := map[string]bool{}
	for _, t := range s.transactions {
		if t.VoucherID != nil {
			linked[*t.VoucherID] = true
		}
	}
	out := []domain.Voucher{}
	for _, id := range s.voucherOrder {
		v := s.vouchers[id]
		if (v.VoucherType == domain.VoucherInvoice || v.VoucherType == domain.VoucherBill) &&
			v.Status == domain.VoucherIssued && v.GrandTotal.IsPositive() && !linked[id] {
			v.Items = nil
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) SaveVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	mt, err := s.txFrom(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vouchers {
		if v.VoucherID == voucher.VoucherID || v.VoucherNumber == voucher.VoucherNumber {
			return fmt.Errorf("%w: voucher %s", apperrors.ErrDuplicate, voucher.VoucherNumber)
		}
	}
	if _, ok := s.parties[voucher.PartyID]; !ok {
		return notFound("party", voucher.PartyID)
	}
	for _, line := range voucher.Items {
		if _, ok := s.items[line.ItemID]; !ok {
			return notFound("item", line.ItemID)
		}
	}
	id := voucher.VoucherID
	s.vouchers[id] = cloneVoucher(voucher)
	s.voucherOrder = append(s.voucherOrder, id)
	mt.undo = append(mt.undo, func() {
		delete(s.vouchers, id)
		s.voucherOrder = slices.DeleteFunc(s.voucherOrder, func(x string) bool { return x == id })
	})
	return nil
}

func (s *Store) UpdateVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	mt, err := s.txFrom(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.vouchers[voucher.VoucherID]
	if !ok {
		return notFound("voucher", voucher.VoucherID)
	}
	before := cloneVoucher(cur)
	cur.Status = voucher.Status
	cur.Notes = voucher.Notes
	cur.ApprovedBy = voucher.ApprovedBy
	cur.TotalAmount = voucher.TotalAmount
	cur.TaxAmount = voucher.TaxAmount
	cur.GrandTotal = voucher.GrandTotal
	cur.LastUpdatedAt = voucher.LastUpdatedAt
	cur.LastUpdatedBy = voucher.LastUpdatedBy
	s.vouchers[voucher.VoucherID] = cur
	mt.undo = append(mt.undo, func() { s.vouchers[before.VoucherID] = before })
	return nil
}

func (s *Store) UpdateVoucherItemAmountsInTx(ctx context.Context, tx pgx.Tx, items []domain.VoucherItem) error {
	mt, err := s.txFrom(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	amounts := make(map[string]domain.VoucherItem, len(items))
	for _, it := range items {
		amounts[it.VoucherItemID] = it
	}
	for id, v := range s.vouchers {
		changed := false
		before := cloneVoucher(v)
		v = cloneVoucher(v)
		for i := range v.Items {
			if upd, ok := amounts[v.Items[i].VoucherItemID]; ok {
				v.Items[i].Amount = upd.Amount
				changed = true
			}
		}
		if changed {
			s.vouchers[id] = v
			mt.undo = append(mt.undo, func() { s.vouchers[id] = before })
		}
	}
	return nil
}
