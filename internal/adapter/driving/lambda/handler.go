package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/diillson/bigrivercalc-go/internal/adapter/driving/formatter"
	"github.com/diillson/bigrivercalc-go/internal/application/usecase"
	"github.com/diillson/bigrivercalc-go/internal/clock"
	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/diillson/bigrivercalc-go/internal/domain/service"
	"github.com/diillson/bigrivercalc-go/internal/shared/types"
)

const (
	noDataMessage      = "No billing data found."
	credentialsMessage = "AWS credentials not configured."
)

// Event is the invocation payload. Every field is optional.
type Event struct {
	Format    string `json:"format"`
	AccountID string `json:"account_id"`
	Period    string `json:"period"`
	OUID      string `json:"ou_id"`
	ByOU      bool   `json:"by_ou"`
}

// Response is returned to the invoker.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// BillingService é implementado por usecase.BillingUseCase.
type BillingService interface {
	FetchBilling(ctx context.Context, period *entity.Period, accountID, ouID string) ([]entity.LineItem, error)
	FetchBillingByOU(ctx context.Context, period *entity.Period) ([]entity.OUResult, error)
}

// ServiceFactory builds a fresh BillingService for each invocation.
type ServiceFactory func() BillingService

// Handler processes one event per invocation.
type Handler struct {
	newService ServiceFactory
	clock      clock.Clock
	logger     types.Logger
}

// NewHandler creates a new Handler.
func NewHandler(newService ServiceFactory, clk clock.Clock, logger types.Logger) *Handler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Handler{newService: newService, clock: clk, logger: logger}
}

// Handle runs the report for the event. Failures are reported through the
// status code; the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, event Event) (Response, error) {
	requestID := "-"
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}
	h.logger.LogInfo("request %s: format=%q account_id=%q ou_id=%q period=%q by_ou=%t",
		requestID, event.Format, event.AccountID, event.OUID, event.Period, event.ByOU)

	body, err := h.render(ctx, event)
	if err != nil {
		resp := h.errorResponse(err)
		h.logger.LogError("request %s failed with status %d: %v", requestID, resp.StatusCode, err)
		return resp, nil
	}
	return Response{StatusCode: http.StatusOK, Body: body}, nil
}

func (h *Handler) render(ctx context.Context, event Event) (string, error) {
	period := service.ResolvePeriod(event.Period, h.clock.Now())
	if period == nil && strings.TrimSpace(event.Period) != "" {
		h.logger.LogWarning("unrecognized period %q, using the current month", event.Period)
	}

	// Lambda nunca escreve em um TTY, então o terminal fica sem cor.
	var f formatter.Formatter = formatter.NewMarkdown()
	if strings.EqualFold(strings.TrimSpace(event.Format), types.FormatTerminal) {
		f = formatter.NewTerminal(false)
	}

	billing := h.newService()

	if event.ByOU {
		if event.AccountID != "" || event.OUID != "" {
			return "", entity.NewInputError("by_ou cannot be combined with account_id or ou_id")
		}
		results, err := billing.FetchBillingByOU(ctx, period)
		if err != nil {
			return "", err
		}
		if !hasItems(results) {
			return jsonBody(map[string]string{"message": noDataMessage}), nil
		}
		return f.FormatByOU(results, usecase.OUPeriodLabel(results, period)), nil
	}

	items, err := billing.FetchBilling(ctx, period, event.AccountID, event.OUID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return jsonBody(map[string]string{"message": noDataMessage}), nil
	}
	return f.Format(items, event.AccountID, usecase.PeriodLabel(items, period)), nil
}

func (h *Handler) errorResponse(err error) Response {
	var upstreamErr *entity.UpstreamError
	var inputErr *entity.InputError

	switch {
	case errors.Is(err, entity.ErrCredentials):
		return errorBody(http.StatusInternalServerError, credentialsMessage)
	case errors.As(err, &upstreamErr):
		return errorBody(http.StatusBadGateway, upstreamErr.Message)
	case errors.As(err, &inputErr):
		return errorBody(http.StatusBadRequest, inputErr.Message)
	default:
		return errorBody(http.StatusInternalServerError, "internal error")
	}
}

func hasItems(results []entity.OUResult) bool {
	for _, result := range results {
		if len(result.Items) > 0 {
			return true
		}
	}
	return false
}

func errorBody(status int, message string) Response {
	return Response{StatusCode: status, Body: jsonBody(map[string]string{"error": message})}
}

func jsonBody(v map[string]string) string {
	data, _ := json.Marshal(v)
	return string(data)
}
