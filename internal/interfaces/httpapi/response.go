package httpapi

import (
	"context"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "last-man-standing"

	maxRequestBodyBytes = 1 << 20
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// preconditionReasons is checked in order; the first match wins.
var preconditionReasons = []struct {
	err    error
	reason string
}{
	{usecase.ErrGameweekSettled, "gameweekSettled"},
	{usecase.ErrGameweekNotReady, "gameweekNotReady"},
	{usecase.ErrEntryEliminated, "entryEliminated"},
	{usecase.ErrEntryNotEliminated, "entryNotEliminated"},
	{usecase.ErrAttemptUsed, "attemptUsed"},
	{usecase.ErrDeadlinePassed, "deadlinePassed"},
	{usecase.ErrTeamAlreadyUsed, "teamAlreadyUsed"},
	{usecase.ErrExactoUsed, "exactoUsed"},
	{usecase.ErrPickLocked, "selectionLocked"},
	{usecase.ErrTiebreakNotOpen, "tiebreakNotOpen"},
	{usecase.ErrRoundInTiebreak, "roundInTiebreak"},
	{usecase.ErrCompetitionInactive, "competitionInactive"},
}

// decodeJSON reads at most maxRequestBodyBytes into a pooled buffer and
// unmarshals it into dst.
func decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	ctx, span := startSpan(ctx, "httpapi.decodeJSON")
	defer span.End()
	_ = ctx

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(r.Body, maxRequestBodyBytes+1)); err != nil {
		return errors.Wrapf(usecase.ErrInvalidInput, "read request body: %v", err)
	}
	if buf.Len() > maxRequestBodyBytes {
		return errors.Wrap(usecase.ErrInvalidInput, "request body too large")
	}
	if buf.Len() == 0 {
		return errors.Wrap(usecase.ErrInvalidInput, "request body is empty")
	}
	if err := sonic.Unmarshal(buf.Bytes(), dst); err != nil {
		return errors.Wrapf(usecase.ErrInvalidInput, "invalid JSON body: %v", err)
	}
	return nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		logging.Default().ErrorContext(ctx, "encode response failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()
	_ = ctx

	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, pick.ErrTeamNotInFixture):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{
			HTTPStatus: http.StatusUnauthorized,
			Reason:     "unauthorized",
			Status:     "UNAUTHENTICATED",
		}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "dependencyUnavailable",
			Status:     "UNAVAILABLE",
		}
	case errors.Is(err, usecase.ErrPrecondition):
		reason := "failedPrecondition"
		for _, candidate := range preconditionReasons {
			if errors.Is(err, candidate.err) {
				reason = candidate.reason
				break
			}
		}
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     reason,
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, round.ErrDuplicateNumber):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "alreadyExists",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, usecase.ErrConsistency):
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "inconsistentState",
			Status:     "INTERNAL",
		}
	case errors.Is(err, context.DeadlineExceeded):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "deadlineExceeded",
			Status:     "DEADLINE_EXCEEDED",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
