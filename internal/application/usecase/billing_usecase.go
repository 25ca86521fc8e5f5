package usecase

import (
	"context"
	"fmt"

	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/diillson/bigrivercalc-go/internal/domain/repository"
	"github.com/diillson/bigrivercalc-go/internal/domain/service"
	"github.com/diillson/bigrivercalc-go/internal/shared/types"
)

// BillingUseCase orquestra a resolução de escopo, a consulta e o parse dos custos.
type BillingUseCase struct {
	awsRepo repository.AWSRepository
	logger  types.Logger
}

// NewBillingUseCase creates a new billing use case.
func NewBillingUseCase(awsRepo repository.AWSRepository, logger types.Logger) *BillingUseCase {
	return &BillingUseCase{
		awsRepo: awsRepo,
		logger:  logger,
	}
}

// FetchBilling returns the line items for the period, scoped to a single
// account or to the active accounts of an OU. Passing both is an input error.
func (uc *BillingUseCase) FetchBilling(ctx context.Context, period *entity.Period, accountID, ouID string) ([]entity.LineItem, error) {
	if accountID != "" && ouID != "" {
		return nil, entity.NewInputError("specify either account_id or ou_id, not both")
	}

	var filter entity.AccountFilter
	switch {
	case ouID != "":
		accountIDs, err := uc.awsRepo.ListAccountIDs(ctx, ouID)
		if err != nil {
			return nil, err
		}
		if len(accountIDs) == 0 {
			return nil, entity.NewInputError(fmt.Sprintf("no active accounts in organizational unit %s", ouID))
		}
		uc.logger.LogInfo("Resolved %d active account(s) in %s", len(accountIDs), ouID)
		filter = entity.AccountFilter(accountIDs)
	case accountID != "":
		filter = entity.AccountFilter{accountID}
	}

	return uc.queryAndParse(ctx, period, filter)
}

// FetchBillingByOU consulta cada OU filha da raiz, sequencialmente, mantendo a ordem da API.
// OUs sem contas ativas aparecem com uma lista vazia.
func (uc *BillingUseCase) FetchBillingByOU(ctx context.Context, period *entity.Period) ([]entity.OUResult, error) {
	rootID, err := uc.awsRepo.RootID(ctx)
	if err != nil {
		return nil, err
	}

	ous, err := uc.awsRepo.ListOrganizationalUnits(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if len(ous) == 0 {
		return nil, entity.NewInputError("no organizational units found")
	}

	results := make([]entity.OUResult, 0, len(ous))
	for _, ou := range ous {
		accountIDs, err := uc.awsRepo.ListAccountIDs(ctx, ou.ID)
		if err != nil {
			return nil, err
		}
		if len(accountIDs) == 0 {
			uc.logger.LogWarning("Organizational unit %s (%s) has no active accounts", ou.Name, ou.ID)
			results = append(results, entity.OUResult{OU: ou, Items: []entity.LineItem{}})
			continue
		}

		items, err := uc.queryAndParse(ctx, period, entity.AccountFilter(accountIDs))
		if err != nil {
			return nil, err
		}
		results = append(results, entity.OUResult{OU: ou, Items: items})
	}
	return results, nil
}

// ResolveAccountID troca o alias "self" pela conta das credenciais atuais.
func (uc *BillingUseCase) ResolveAccountID(ctx context.Context, accountID string) (string, error) {
	if accountID != "self" {
		return accountID, nil
	}
	return uc.awsRepo.GetCallerAccountID(ctx)
}

func (uc *BillingUseCase) queryAndParse(ctx context.Context, period *entity.Period, filter entity.AccountFilter) ([]entity.LineItem, error) {
	resp, err := uc.awsRepo.GetCostAndUsage(ctx, period, filter)
	if err != nil {
		return nil, err
	}
	return service.ParseCostResponse(resp), nil
}

// PeriodLabel escolhe o rótulo exibido no cabeçalho: o período do primeiro item,
// senão o período resolvido, senão vazio.
func PeriodLabel(items []entity.LineItem, period *entity.Period) string {
	if len(items) > 0 && items[0].Period != "" {
		return items[0].Period
	}
	if period != nil {
		return period.Label()
	}
	return ""
}

// OUPeriodLabel applies PeriodLabel to the first OU that has line items.
func OUPeriodLabel(results []entity.OUResult, period *entity.Period) string {
	for _, result := range results {
		if len(result.Items) > 0 {
			return PeriodLabel(result.Items, period)
		}
	}
	return PeriodLabel(nil, period)
}
