package aws

import (
	"errors"
	"fmt"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/smithy-go"
	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
)

// classifyError traduz erros do SDK para os erros de domínio: falhas de
// assinatura viram ErrCredentials, o resto vira UpstreamError.
func classifyError(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrCredentials) {
		return err
	}

	var signingErr *v4.SigningError
	if errors.As(err, &signingErr) {
		return fmt.Errorf("%w: %v", entity.ErrCredentials, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.ErrorMessage()
		if message == "" {
			message = apiErr.ErrorCode()
		}
		return &entity.UpstreamError{Service: service, Message: message, Err: err}
	}

	return &entity.UpstreamError{Service: service, Message: err.Error(), Err: err}
}
