package booking

import (
	"net/http"
	"parking/infras/otel"
	"parking/internal/domains/booking/model/dto"
	"parking/internal/domains/booking/service"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/logger"
	"parking/shared/timezone"
	"parking/shared/validator"
	"parking/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const bookingIDRule = "required,max=64"

type Handler struct {
	service    service.Booking
	reconciler service.Reconciler
	otel       otel.Otel
}

func New(service service.Booking, reconciler service.Reconciler, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		reconciler: reconciler,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/current", handler.GetBookingStatus)
		routerGroup.Post("/current/extend", handler.ExtendBooking)
		routerGroup.Delete("/current", handler.CancelBooking)
		routerGroup.Get("/live", handler.ListLiveBookings)
		routerGroup.Get("/no-shows", handler.ListNoShowBookings)
		routerGroup.Post("/reconcile", handler.Reconcile)
		routerGroup.Post("/{id}/arrive", handler.MarkArrived)
		routerGroup.Get("/{id}/events", handler.GetBookingEvents)
	})
}

// CreateBooking reserves a slot for the caller.
// @Summary Book a slot
// @Description Reserve a parking slot. A driver holds at most one live booking and a slot carries at most one.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	userID := userFromContext(request)

	booking, err := handler.service.Create(ctx, userID, req, timezone.Now())
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created by user " + userID)

	res := dto.BookingResponse{}
	res.FromModel(booking, handler.service.GracePeriodMinutes())

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBookingStatus reports the caller's live booking, if any.
// @Summary Current booking
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[dto.StatusResponse]
// @Failure 503 {object} response.Error
// @Router /v1/bookings/current [get]
// @Security BearerAuth
func (handler *Handler) GetBookingStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingStatus")
	defer scope.End()

	res, err := handler.service.Status(ctx, userFromContext(request))
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to get booking status")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// MarkArrived records the driver's arrival at the slot.
// @Summary Confirm arrival
// @Description Confirm arrival before the grace deadline. Repeating the call on an arrived booking succeeds.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.ArrivalResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings/{id}/arrive [post]
// @Security BearerAuth
func (handler *Handler) MarkArrived(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkArrived")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	if err := validator.ValidateVar(id, bookingIDRule); err != nil {
		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.MarkArrived(ctx, id, userFromContext(request), timezone.Now())
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Str("booking_id", id).Msg("failed to mark arrival")

		response.WithError(writer, err)

		return
	}

	res := dto.ArrivalResponse{Status: booking.Status}
	if booking.ArrivedAt != nil {
		res.ArrivedAt = timezone.Format(*booking.ArrivedAt, constant.DateFormat)
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ExtendBooking lengthens the caller's live booking.
// @Summary Extend booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.ExtendBookingRequest true "Extend Booking Request"
// @Success 200 {object} response.Data[dto.ExtendResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/current/extend [post]
// @Security BearerAuth
func (handler *Handler) ExtendBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExtendBooking")
	defer scope.End()

	req := dto.ExtendBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	now := timezone.Now()

	expiry, err := handler.service.ExtendCurrent(ctx, userFromContext(request), req.ExtraMinutes, now)
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to extend booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, dto.ExtendResponse{
		ExpiryTimestamp: timezone.Format(expiry, constant.DateFormat),
	})
}

// CancelBooking frees the caller's live booking. Holding none is not an error.
// @Summary Cancel booking
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Error
// @Router /v1/bookings/current [delete]
// @Security BearerAuth
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	if err := handler.service.Cancel(ctx, userFromContext(request), timezone.Now()); err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Booking cancelled successfully")
}

// ListLiveBookings lists bookings that currently hold a slot.
// @Summary Live bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 403 {object} response.Error
// @Router /v1/bookings/live [get]
// @Security BearerAuth
func (handler *Handler) ListLiveBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListLiveBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	res, err := handler.service.ListLive(ctx, roleFromContext(request), queryParams)
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to list live bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ListNoShowBookings lists bookings whose driver never arrived.
// @Summary No-show bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 403 {object} response.Error
// @Router /v1/bookings/no-shows [get]
// @Security BearerAuth
func (handler *Handler) ListNoShowBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListNoShowBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	res, err := handler.service.ListNoShow(ctx, roleFromContext(request), queryParams)
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to list no-show bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookingEvents returns the audit trail of one booking.
// @Summary Booking events
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[any] "Events oldest first"
// @Failure 403 {object} response.Error
// @Router /v1/bookings/{id}/events [get]
// @Security BearerAuth
func (handler *Handler) GetBookingEvents(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingEvents")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	if err := validator.ValidateVar(id, bookingIDRule); err != nil {
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Events(ctx, roleFromContext(request), id)
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Str("booking_id", id).Msg("failed to get booking events")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Reconcile runs one sweep over overdue bookings on demand.
// @Summary Reconcile bookings
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[dto.ReconcileResponse]
// @Failure 403 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings/reconcile [post]
// @Security BearerAuth
func (handler *Handler) Reconcile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reconcile")
	defer scope.End()

	if role := roleFromContext(request); role != constant.RoleStaff && role != constant.RoleAdmin {
		response.WithError(writer, failure.ForbiddenError)

		return
	}

	res, err := handler.reconciler.Reconcile(ctx, timezone.Now())
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("failed to reconcile bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

func userFromContext(request *http.Request) string {
	userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)

	return userID
}

func roleFromContext(request *http.Request) string {
	role, _ := request.Context().Value(constant.ContextKeyUserRole).(string)

	return role
}
