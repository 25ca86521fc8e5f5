package repository

import (
	"context"

	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
)

// AWSRepository defines the interface for AWS API interactions.
type AWSRepository interface {
	BillingRepository
	OrganizationRepository

	// Identity Operations
	GetCallerAccountID(ctx context.Context) (string, error)
}

// BillingRepository issues Cost Explorer queries.
type BillingRepository interface {
	// GetCostAndUsage consulta custos mensais agrupados por serviço. Um período nil
	// significa o mês corrente (UTC); um filtro nil significa todas as contas.
	GetCostAndUsage(ctx context.Context, period *entity.Period, filter entity.AccountFilter) (*entity.CostResponse, error)
}

// OrganizationRepository resolves accounts and organizational units.
type OrganizationRepository interface {
	RootID(ctx context.Context) (string, error)
	ListOrganizationalUnits(ctx context.Context, parentID string) ([]entity.OrgUnitInfo, error)
	ListAccountIDs(ctx context.Context, ouID string) ([]string, error)
}
