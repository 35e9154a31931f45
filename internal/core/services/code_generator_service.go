package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
)

// codeGeneratorService derives codes from row counts. Two concurrent callers can
// compute the same code; unique indexes turn that into apperrors.ErrDuplicate.
type codeGeneratorService struct {
	BaseService
	sequenceRepo portsrepo.SequenceRepository
}

// CodeGeneratorOption is a functional option for configuring the code generator
type CodeGeneratorOption func(*codeGeneratorService)

// WithCodeGeneratorClock fixes the clock used for daily codes.
func WithCodeGeneratorClock(clock func() time.Time) CodeGeneratorOption {
	return func(s *codeGeneratorService) {
		s.Clock = clock
	}
}

// NewCodeGeneratorService creates a new code generator
func NewCodeGeneratorService(repo portsrepo.SequenceRepository, options ...CodeGeneratorOption) portssvc.CodeGeneratorSvc {
	svc := &codeGeneratorService{sequenceRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CodeGeneratorSvc = (*codeGeneratorService)(nil)

// Next returns "{prefix}-{NNN}" or, when daily, "{prefix}-{YYYYMMDD}-{NNN}".
// The counter is the number of rows already in scope (created today for daily codes) plus one.
func (s *codeGeneratorService) Next(ctx context.Context, prefix string, scope domain.CodeScope, daily bool) (string, error) {
	if !scope.IsValid() {
		return "", fmt.Errorf("%w: unknown code scope %q", apperrors.ErrValidation, scope)
	}

	if !daily {
		count, err := s.sequenceRepo.CountInScope(ctx, scope)
		if err != nil {
			s.LogError(ctx, err, "Failed to count rows for code", slog.String("scope", string(scope)))
			return "", fmt.Errorf("failed to generate %s code: %w", prefix, err)
		}
		return fmt.Sprintf("%s-%03d", prefix, count+1), nil
	}

	today := s.Now()
	count, err := s.sequenceRepo.CountInScopeOn(ctx, scope, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to count today's rows for code", slog.String("scope", string(scope)))
		return "", fmt.Errorf("failed to generate %s code: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, today.Format("20060102"), count+1), nil
}
