package forum

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"coursehub/backend/internal/metrics"
	apperrors "coursehub/backend/pkg/errors"
)

const maxIDLength = 128

// classify maps a gocql failure onto the error taxonomy. Connectivity
// failures become ErrStoreUnavailable; everything else is a query failure.
func classify(operation string, err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return apperrors.NewStoreUnavailable(metrics.StoreCassandra, operation, err)
	}
	return apperrors.NewStoreQueryFailed(metrics.StoreCassandra, operation, err)
}

func isUnavailable(err error) bool {
	switch {
	case errors.Is(err, gocql.ErrNoConnections),
		errors.Is(err, gocql.ErrSessionClosed),
		errors.Is(err, gocql.ErrConnectionClosed),
		errors.Is(err, gocql.ErrTimeoutNoResponse),
		errors.Is(err, gocql.ErrNoHosts),
		errors.Is(err, gocql.ErrNoConnectionsStarted),
		errors.Is(err, gocql.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	var unavailable *gocql.RequestErrUnavailable
	var writeTimeout *gocql.RequestErrWriteTimeout
	var readTimeout *gocql.RequestErrReadTimeout
	return errors.As(err, &unavailable) || errors.As(err, &writeTimeout) || errors.As(err, &readTimeout)
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidation(field, "must not be empty")
	}
	if utf8.RuneCountInString(value) > maxIDLength {
		return apperrors.NewValidation(field, "too long")
	}
	return nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidation(field, "must not be empty")
	}
	return nil
}

func parseThreadID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, apperrors.NewValidation("thread_id", "must be a UUID")
	}
	return id, nil
}

func checkLimit(limit, max int) error {
	if limit < 1 || limit > max {
		return apperrors.NewValidation("limit", fmt.Sprintf("must be between 1 and %d", max))
	}
	return nil
}
