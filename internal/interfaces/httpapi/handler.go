package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/riskibarqy/golf-handicap/internal/usecase"
)

// DateParser resolves the date text of a submitted round.
type DateParser interface {
	Parse(input string) (round.Date, error)
}

type Handler struct {
	roundService    *usecase.RoundService
	handicapService *usecase.HandicapService
	dates           DateParser
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	roundService *usecase.RoundService,
	handicapService *usecase.HandicapService,
	dates DateParser,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		roundService:    roundService,
		handicapService: handicapService,
		dates:           dates,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequest(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRounds")
	defer span.End()

	items, err := h.roundService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list rounds failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundsToDTO(items))
}

func (h *Handler) RefreshRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshRounds")
	defer span.End()

	items, err := h.roundService.Refresh(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh rounds failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundsToDTO(items))
}

func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRound")
	defer span.End()

	var req createRoundRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	in, err := req.toInput(h.dates)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.Create(ctx, in)
	if err != nil {
		h.logger.WarnContext(ctx, "create round failed", "course", in.Course, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(item))
}

func (h *Handler) UpdateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRound")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	var req updateRoundRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.SetIncludeInHandicap(ctx, roundID, *req.IncludeInHandicap)
	if err != nil {
		h.logger.WarnContext(ctx, "update round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRound")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	if err := h.roundService.Delete(ctx, roundID); err != nil {
		h.logger.WarnContext(ctx, "delete round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": roundID})
}

func (h *Handler) GetHandicap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHandicap")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, summaryToDTO(h.handicapService.Summary(ctx)))
}
