package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgTypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/diillson/bigrivercalc-go/internal/clock"
	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCostExplorer struct {
	mock.Mock
}

func (m *mockCostExplorer) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*costexplorer.GetCostAndUsageOutput)
	return out, args.Error(1)
}

// fakeOrganizations serve páginas indexadas pelo NextToken recebido.
type fakeOrganizations struct {
	roots       []orgTypes.Root
	ouPages     map[string][]orgTypes.OrganizationalUnit
	accountPage map[string][]orgTypes.Account
	err         error
	calls       int
}

func pageToken(token *string) string {
	if token == nil {
		return ""
	}
	return *token
}

func nextToken(pages int, current string) *string {
	order := []string{"", "page-2", "page-3"}
	for i, token := range order {
		if token == current && i+1 < pages {
			return aws.String(order[i+1])
		}
	}
	return nil
}

func (f *fakeOrganizations) ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &organizations.ListRootsOutput{Roots: f.roots}, nil
}

func (f *fakeOrganizations) ListOrganizationalUnitsForParent(ctx context.Context, params *organizations.ListOrganizationalUnitsForParentInput, optFns ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	token := pageToken(params.NextToken)
	return &organizations.ListOrganizationalUnitsForParentOutput{
		OrganizationalUnits: f.ouPages[token],
		NextToken:           nextToken(len(f.ouPages), token),
	}, nil
}

func (f *fakeOrganizations) ListAccountsForParent(ctx context.Context, params *organizations.ListAccountsForParentInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsForParentOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	token := pageToken(params.NextToken)
	return &organizations.ListAccountsForParentOutput{
		Accounts:  f.accountPage[token],
		NextToken: nextToken(len(f.accountPage), token),
	}, nil
}

type fakeSTS struct {
	account string
	err     error
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(f.account)}, nil
}

func account(id string, status orgTypes.AccountStatus) orgTypes.Account {
	return orgTypes.Account{Id: aws.String(id), Status: status}
}

var fixedNow = clock.Fixed(time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC))

func sampleOutput() *costexplorer.GetCostAndUsageOutput {
	return &costexplorer.GetCostAndUsageOutput{
		ResultsByTime: []ceTypes.ResultByTime{{
			TimePeriod: &ceTypes.DateInterval{Start: aws.String("2025-12-01"), End: aws.String("2026-01-01")},
			Estimated:  true,
			Groups: []ceTypes.Group{{
				Keys: []string{"Amazon EC2"},
				Metrics: map[string]ceTypes.MetricValue{
					"BlendedCost": {Amount: aws.String("12.50"), Unit: aws.String("USD")},
				},
			}},
		}},
	}
}

func TestGetCostAndUsage_DefaultPeriodAndNoFilter(t *testing.T) {
	ce := &mockCostExplorer{}
	ce.On("GetCostAndUsage", mock.Anything, mock.MatchedBy(func(in *costexplorer.GetCostAndUsageInput) bool {
		return aws.ToString(in.TimePeriod.Start) == "2025-12-01" &&
			aws.ToString(in.TimePeriod.End) == "2026-01-01" &&
			in.Granularity == ceTypes.GranularityMonthly &&
			len(in.Metrics) == 2 && in.Metrics[0] == "BlendedCost" && in.Metrics[1] == "UnblendedCost" &&
			len(in.GroupBy) == 1 && aws.ToString(in.GroupBy[0].Key) == "SERVICE" &&
			in.GroupBy[0].Type == ceTypes.GroupDefinitionTypeDimension &&
			in.Filter == nil
	})).Return(sampleOutput(), nil).Once()

	repo := NewAWSRepository(Options{CostExplorer: ce, Clock: fixedNow})
	resp, err := repo.GetCostAndUsage(context.Background(), nil, nil)

	require.NoError(t, err)
	ce.AssertExpectations(t)
	require.Len(t, resp.ResultsByTime, 1)
	bucket := resp.ResultsByTime[0]
	assert.True(t, bucket.Estimated)
	assert.Equal(t, "2025-12-01", *bucket.TimePeriod.Start)
	require.Len(t, bucket.Groups, 1)
	assert.Equal(t, []string{"Amazon EC2"}, bucket.Groups[0].Keys)
	assert.Equal(t, "12.50", *bucket.Groups[0].Metrics["BlendedCost"].Amount)
}

func TestGetCostAndUsage_ExplicitPeriodAndAccountFilter(t *testing.T) {
	ce := &mockCostExplorer{}
	ce.On("GetCostAndUsage", mock.Anything, mock.MatchedBy(func(in *costexplorer.GetCostAndUsageInput) bool {
		return aws.ToString(in.TimePeriod.Start) == "2025-02-01" &&
			aws.ToString(in.TimePeriod.End) == "2025-03-01" &&
			in.Filter != nil && in.Filter.Dimensions != nil &&
			in.Filter.Dimensions.Key == ceTypes.DimensionLinkedAccount &&
			assert.ObjectsAreEqual([]string{"111111111111", "222222222222"}, in.Filter.Dimensions.Values)
	})).Return(&costexplorer.GetCostAndUsageOutput{}, nil).Once()

	period := entity.MonthPeriod(2025, time.February)
	repo := NewAWSRepository(Options{CostExplorer: ce, Clock: fixedNow})
	resp, err := repo.GetCostAndUsage(context.Background(), &period, entity.AccountFilter{"111111111111", "222222222222"})

	require.NoError(t, err)
	assert.Empty(t, resp.ResultsByTime)
	ce.AssertExpectations(t)
}

func TestGetCostAndUsage_UpstreamErrorKeepsMessage(t *testing.T) {
	ce := &mockCostExplorer{}
	apiErr := &smithy.GenericAPIError{Code: "LimitExceededException", Message: "throttled"}
	ce.On("GetCostAndUsage", mock.Anything, mock.Anything).Return(nil, apiErr)

	repo := NewAWSRepository(Options{CostExplorer: ce, Clock: fixedNow})
	_, err := repo.GetCostAndUsage(context.Background(), nil, nil)

	var upstream *entity.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "throttled", upstream.Message)
	assert.Equal(t, "costexplorer", upstream.Service)
	assert.ErrorIs(t, err, apiErr)
}

func TestListAccountIDs_FiltersInactiveAcrossPages(t *testing.T) {
	org := &fakeOrganizations{accountPage: map[string][]orgTypes.Account{
		"": {
			account("111111111111", orgTypes.AccountStatusActive),
			account("333333333333", orgTypes.AccountStatusSuspended),
		},
		"page-2": {
			account("222222222222", orgTypes.AccountStatusActive),
			account("444444444444", orgTypes.AccountStatusPendingClosure),
		},
	}}

	repo := NewAWSRepository(Options{Organizations: org})
	ids, err := repo.ListAccountIDs(context.Background(), "ou-abc-12345")

	require.NoError(t, err)
	assert.Equal(t, []string{"111111111111", "222222222222"}, ids)
	assert.Equal(t, 2, org.calls)
}

func TestListAccountIDs_Empty(t *testing.T) {
	org := &fakeOrganizations{accountPage: map[string][]orgTypes.Account{"": {}}}

	repo := NewAWSRepository(Options{Organizations: org})
	ids, err := repo.ListAccountIDs(context.Background(), "ou-abc-12345")

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListOrganizationalUnits_KeepsAPIOrderAcrossPages(t *testing.T) {
	org := &fakeOrganizations{ouPages: map[string][]orgTypes.OrganizationalUnit{
		"":       {{Id: aws.String("ou-2"), Name: aws.String("Marketing")}},
		"page-2": {{Id: aws.String("ou-1"), Name: aws.String("Engineering")}},
		"page-3": {{Id: aws.String("ou-3"), Name: aws.String("Finance")}},
	}}

	repo := NewAWSRepository(Options{Organizations: org})
	ous, err := repo.ListOrganizationalUnits(context.Background(), "r-root")

	require.NoError(t, err)
	assert.Equal(t, []entity.OrgUnitInfo{
		{ID: "ou-2", Name: "Marketing"},
		{ID: "ou-1", Name: "Engineering"},
		{ID: "ou-3", Name: "Finance"},
	}, ous)
}

func TestRootID(t *testing.T) {
	org := &fakeOrganizations{roots: []orgTypes.Root{{Id: aws.String("r-abcd")}, {Id: aws.String("r-other")}}}

	repo := NewAWSRepository(Options{Organizations: org})
	id, err := repo.RootID(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "r-abcd", id)
}

func TestRootID_NoRoots(t *testing.T) {
	repo := NewAWSRepository(Options{Organizations: &fakeOrganizations{}})
	_, err := repo.RootID(context.Background())

	var inputErr *entity.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestOrganizations_ErrorPropagates(t *testing.T) {
	org := &fakeOrganizations{err: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not allowed"}}
	repo := NewAWSRepository(Options{Organizations: org})

	_, err := repo.ListAccountIDs(context.Background(), "ou-1")
	var upstream *entity.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "not allowed", upstream.Message)

	_, err = repo.ListOrganizationalUnits(context.Background(), "r-1")
	require.ErrorAs(t, err, &upstream)

	_, err = repo.RootID(context.Background())
	require.ErrorAs(t, err, &upstream)
}

func TestGetCallerAccountID(t *testing.T) {
	repo := NewAWSRepository(Options{STS: &fakeSTS{account: "123456789012"}})
	id, err := repo.GetCallerAccountID(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "123456789012", id)
}

func TestClassifyError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classifyError("costexplorer", nil))
	})

	t.Run("signing failure is a credentials error", func(t *testing.T) {
		err := classifyError("costexplorer", &v4.SigningError{Err: errors.New("failed to retrieve credentials")})
		assert.ErrorIs(t, err, entity.ErrCredentials)
	})

	t.Run("credentials error passes through", func(t *testing.T) {
		err := classifyError("sts", entity.ErrCredentials)
		assert.Equal(t, entity.ErrCredentials, err)
	})

	t.Run("api error without message uses code", func(t *testing.T) {
		err := classifyError("organizations", &smithy.GenericAPIError{Code: "AWSOrganizationsNotInUseException"})
		var upstream *entity.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "AWSOrganizationsNotInUseException", upstream.Message)
	})

	t.Run("transport error", func(t *testing.T) {
		err := classifyError("costexplorer", errors.New("dial tcp: connection refused"))
		var upstream *entity.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "dial tcp: connection refused", upstream.Message)
	})
}
