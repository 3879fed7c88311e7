package slot

import (
	"net/http"
	"parking/infras/otel"
	"parking/internal/domains/slot/service"
	"parking/shared/constant"
	"parking/shared/failure"
	"parking/transport/http/response"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Slot
	otel    otel.Otel
}

func New(service service.Slot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/slots", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetSlots)
		routerGroup.Get("/{id}", handler.GetSlotByID)
	})
}

// GetSlots resolves candidate slots in the order given.
// @Summary Resolve slots
// @Description Resolve slot ids returned by the proximity lookup. Unknown ids are dropped.
// @Tags Slot
// @Produce json
// @Param ids query string true "Comma separated slot ids, nearest first"
// @Success 200 {object} response.Data[dto.GetSlotsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/slots [get]
// @Security BearerAuth
func (handler *Handler) GetSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	ids := splitIDs(request.URL.Query().Get(constant.RequestParamIDs))
	if len(ids) == 0 {
		err := failure.BadRequestFromString("ids is required")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Nearby(ctx, ids)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve slots")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetSlotByID returns one slot.
// @Summary Get slot
// @Tags Slot
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Data[dto.SlotResponse]
// @Failure 404 {object} response.Error
// @Router /v1/slots/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetSlotByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("slot_id", id).Msg("failed to get slot")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

func splitIDs(raw string) []string {
	ids := make([]string, 0)

	for _, id := range strings.Split(raw, constant.Comma) {
		if id = strings.TrimSpace(id); id != constant.Empty {
			ids = append(ids, id)
		}
	}

	return ids
}
