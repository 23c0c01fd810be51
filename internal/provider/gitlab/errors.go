package gitlab

import (
	"context"
	"errors"
	"net/url"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/gitpulse/internal/model"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// classify maps a client error to model.APIError, canceled requests are only wrapped
func classify(err error, resp *gitlab.Response, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errm.Wrap(err, message)
	}

	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return model.NewStatusError(errResp.Response.StatusCode, message, err)
	}
	if resp != nil && resp.Response != nil {
		return model.NewStatusError(resp.StatusCode, message, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return model.NewNetworkError(err)
	}

	return errm.Wrap(err, message)
}
