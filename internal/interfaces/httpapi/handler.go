package httpapi

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

type Handler struct {
	competitionService *usecase.CompetitionService
	pickService        *usecase.PickService
	exactoService      *usecase.ExactoService
	settlementService  *usecase.SettlementService
	roundService       *usecase.RoundService
	tiebreakService    *usecase.TiebreakService
	resultsService     *usecase.ResultsService
	leaderboardService *usecase.LeaderboardService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	competitionService *usecase.CompetitionService,
	pickService *usecase.PickService,
	exactoService *usecase.ExactoService,
	settlementService *usecase.SettlementService,
	roundService *usecase.RoundService,
	tiebreakService *usecase.TiebreakService,
	resultsService *usecase.ResultsService,
	leaderboardService *usecase.LeaderboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		competitionService: competitionService,
		pickService:        pickService,
		exactoService:      exactoService,
		settlementService:  settlementService,
		roundService:       roundService,
		tiebreakService:    tiebreakService,
		resultsService:     resultsService,
		leaderboardService: leaderboardService,
		logger:             logger,
		validator:          newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration fails only on an empty tag or a nil func.
	_ = v.RegisterValidation("fixture_status", func(fl validator.FieldLevel) bool {
		_, err := fixture.ParseStatus(fl.Field().String())
		return err == nil
	})
	return v
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate decodes the body into payload and runs struct tags.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, payload any) error {
	if err := decodeJSON(ctx, r, payload); err != nil {
		return err
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return errors.Wrapf(usecase.ErrInvalidInput, "validation failed: %v", err)
	}
	return nil
}

// fail logs at warn for caller mistakes and at error for everything else.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}
