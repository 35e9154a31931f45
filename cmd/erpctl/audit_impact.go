package main

import (
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/repositories/database/pgsql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var auditImpactCmd = &cobra.Command{
	Use:   "audit-impact",
	Short: "List issued invoices and bills that never reached the ledger",
	Long: `Reports issued invoices and bills with a positive total and no linked
transaction. Every voucher listed is missing its sale or purchase row.`,
	RunE: runAuditImpact,
}

func init() {
	rootCmd.AddCommand(auditImpactCmd)
	auditImpactCmd.Flags().Bool("fail-on-findings", false, "Exit non-zero when any voucher is reported")
}

func runAuditImpact(cmd *cobra.Command, args []string) error {
	failOnFindings, _ := cmd.Flags().GetBool("fail-on-findings")

	cfg, err := loadDatabaseConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos := pgsql.NewRepositoryProvider(pool)
	vouchers, err := repos.VoucherRepo.FindIssuedWithoutLedgerEntry(ctx)
	if err != nil {
		return fmt.Errorf("query vouchers: %w", err)
	}

	for _, v := range vouchers {
		log.Warn().
			Str("voucher_id", v.VoucherID).
			Str("voucher_number", v.VoucherNumber).
			Str("voucher_type", string(v.VoucherType)).
			Str("grand_total", v.GrandTotal.String()).
			Time("voucher_date", v.VoucherDate).
			Msg("Issued voucher has no ledger entry")
	}
	log.Info().Int("count", len(vouchers)).Msg("Audit finished")

	if failOnFindings && len(vouchers) > 0 {
		return fmt.Errorf("%d vouchers without ledger entry", len(vouchers))
	}
	return nil
}
