package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgTypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/bigrivercalc-go/internal/clock"
	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/diillson/bigrivercalc-go/internal/domain/repository"
	"github.com/diillson/bigrivercalc-go/internal/domain/service"
)

// Cost Explorer e Organizations são endpoints globais servidos a partir de us-east-1.
const globalRegion = "us-east-1"

const (
	serviceCostExplorer  = "costexplorer"
	serviceOrganizations = "organizations"
	serviceSTS           = "sts"
)

// CostExplorerAPI is the subset of the Cost Explorer client used here.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// OrganizationsAPI is the subset of the Organizations client used here.
type OrganizationsAPI interface {
	organizations.ListRootsAPIClient
	organizations.ListOrganizationalUnitsForParentAPIClient
	organizations.ListAccountsForParentAPIClient
}

// STSAPI is the subset of the STS client used here.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Options configures an AWSRepositoryImpl. Zero values fall back to the
// default credential chain and the real clock.
type Options struct {
	Profile string
	Region  string
	Clock   clock.Clock

	// Clientes pré-construídos, usados nos testes.
	CostExplorer  CostExplorerAPI
	Organizations OrganizationsAPI
	STS           STSAPI
}

// AWSRepositoryImpl implementa o AWSRepository com cache de clientes.
// Uma instância atende uma única invocação.
type AWSRepositoryImpl struct {
	profile     string
	region      string
	clock       clock.Clock
	cfg         *aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação do AWSRepository.
func NewAWSRepository(opts Options) repository.AWSRepository {
	r := &AWSRepositoryImpl{
		profile:     opts.Profile,
		region:      opts.Region,
		clock:       opts.Clock,
		clientCache: make(map[string]interface{}),
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if opts.CostExplorer != nil {
		r.clientCache[serviceCostExplorer] = opts.CostExplorer
	}
	if opts.Organizations != nil {
		r.clientCache[serviceOrganizations] = opts.Organizations
	}
	if opts.STS != nil {
		r.clientCache[serviceSTS] = opts.STS
	}
	return r
}

// getAWSConfig carrega a configuração padrão e garante que existam credenciais.
func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg != nil {
		return *r.cfg, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if r.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(r.profile))
	}
	if r.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(r.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%w: failed to load AWS config: %v", entity.ErrCredentials, err)
	}
	if cfg.Credentials == nil {
		return aws.Config{}, entity.ErrCredentials
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return aws.Config{}, fmt.Errorf("%w: %v", entity.ErrCredentials, err)
	}

	r.cfg = &cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, name string) (interface{}, error) {
	r.mu.Lock()
	if client, ok := r.clientCache[name]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	var client interface{}
	switch name {
	case serviceCostExplorer:
		regionalCfg.Region = globalRegion
		client = costexplorer.NewFromConfig(regionalCfg)
	case serviceOrganizations:
		regionalCfg.Region = globalRegion
		client = organizations.NewFromConfig(regionalCfg)
	case serviceSTS:
		if regionalCfg.Region == "" {
			regionalCfg.Region = globalRegion
		}
		client = sts.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", name)
	}

	r.mu.Lock()
	r.clientCache[name] = client
	r.mu.Unlock()

	return client, nil
}

func (r *AWSRepositoryImpl) getCostExplorerClient(ctx context.Context) (CostExplorerAPI, error) {
	client, err := r.getServiceClient(ctx, serviceCostExplorer)
	if err != nil {
		return nil, err
	}
	return client.(CostExplorerAPI), nil
}

func (r *AWSRepositoryImpl) getOrganizationsClient(ctx context.Context) (OrganizationsAPI, error) {
	client, err := r.getServiceClient(ctx, serviceOrganizations)
	if err != nil {
		return nil, err
	}
	return client.(OrganizationsAPI), nil
}

// GetCostAndUsage busca custos mensais (Blended e Unblended) agrupados por serviço.
func (r *AWSRepositoryImpl) GetCostAndUsage(ctx context.Context, period *entity.Period, filter entity.AccountFilter) (*entity.CostResponse, error) {
	ceClient, err := r.getCostExplorerClient(ctx)
	if err != nil {
		return nil, err
	}

	if period == nil {
		current := service.CurrentMonth(r.clock.Now())
		period = &current
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(period.StartDate()),
			End:   aws.String(period.EndDate()),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{"BlendedCost", "UnblendedCost"},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
		Filter: linkedAccountFilter(filter),
	}

	result, err := ceClient.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, classifyError(serviceCostExplorer, err)
	}
	return toCostResponse(result), nil
}

func linkedAccountFilter(filter entity.AccountFilter) *ceTypes.Expression {
	if filter == nil {
		return nil
	}
	return &ceTypes.Expression{
		Dimensions: &ceTypes.DimensionValues{
			Key:    ceTypes.DimensionLinkedAccount,
			Values: []string(filter),
		},
	}
}

// toCostResponse copia a resposta do SDK para o modelo de domínio sem processá-la.
func toCostResponse(out *costexplorer.GetCostAndUsageOutput) *entity.CostResponse {
	resp := &entity.CostResponse{}
	if out == nil {
		return resp
	}

	for _, result := range out.ResultsByTime {
		bucket := entity.ResultByTime{Estimated: result.Estimated}
		if result.TimePeriod != nil {
			bucket.TimePeriod = &entity.DateInterval{
				Start: result.TimePeriod.Start,
				End:   result.TimePeriod.End,
			}
		}
		for _, group := range result.Groups {
			g := entity.CostGroup{Keys: group.Keys}
			if group.Metrics != nil {
				g.Metrics = make(map[string]entity.MetricValue, len(group.Metrics))
				for name, metric := range group.Metrics {
					g.Metrics[name] = entity.MetricValue{Amount: metric.Amount, Unit: metric.Unit}
				}
			}
			bucket.Groups = append(bucket.Groups, g)
		}
		resp.ResultsByTime = append(resp.ResultsByTime, bucket)
	}
	return resp
}

// RootID returns the identifier of the organization's root container.
func (r *AWSRepositoryImpl) RootID(ctx context.Context) (string, error) {
	orgClient, err := r.getOrganizationsClient(ctx)
	if err != nil {
		return "", err
	}

	result, err := orgClient.ListRoots(ctx, &organizations.ListRootsInput{})
	if err != nil {
		return "", classifyError(serviceOrganizations, err)
	}
	if len(result.Roots) == 0 || result.Roots[0].Id == nil {
		return "", entity.NewInputError("no organization root found")
	}
	return *result.Roots[0].Id, nil
}

// ListOrganizationalUnits lista as OUs filhas imediatas, na ordem da API, percorrendo todas as páginas.
func (r *AWSRepositoryImpl) ListOrganizationalUnits(ctx context.Context, parentID string) ([]entity.OrgUnitInfo, error) {
	orgClient, err := r.getOrganizationsClient(ctx)
	if err != nil {
		return nil, err
	}

	ous := []entity.OrgUnitInfo{}
	paginator := organizations.NewListOrganizationalUnitsForParentPaginator(orgClient, &organizations.ListOrganizationalUnitsForParentInput{
		ParentId: aws.String(parentID),
	})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(serviceOrganizations, err)
		}
		for _, ou := range output.OrganizationalUnits {
			ous = append(ous, entity.OrgUnitInfo{
				ID:   aws.ToString(ou.Id),
				Name: aws.ToString(ou.Name),
			})
		}
	}
	return ous, nil
}

// ListAccountIDs lists the ACTIVE accounts directly under the given OU.
func (r *AWSRepositoryImpl) ListAccountIDs(ctx context.Context, ouID string) ([]string, error) {
	orgClient, err := r.getOrganizationsClient(ctx)
	if err != nil {
		return nil, err
	}

	accountIDs := []string{}
	paginator := organizations.NewListAccountsForParentPaginator(orgClient, &organizations.ListAccountsForParentInput{
		ParentId: aws.String(ouID),
	})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(serviceOrganizations, err)
		}
		for _, account := range output.Accounts {
			if account.Status == orgTypes.AccountStatusActive {
				accountIDs = append(accountIDs, aws.ToString(account.Id))
			}
		}
	}
	return accountIDs, nil
}

// GetCallerAccountID returns the account of the current credentials.
func (r *AWSRepositoryImpl) GetCallerAccountID(ctx context.Context) (string, error) {
	client, err := r.getServiceClient(ctx, serviceSTS)
	if err != nil {
		return "", err
	}
	stsClient := client.(STSAPI)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", classifyError(serviceSTS, err)
	}
	return aws.ToString(result.Account), nil
}
