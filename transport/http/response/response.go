package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"parking/shared/constant"
	"parking/shared/failure"
	"parking/shared/logger"
)

// Data is the success envelope.
type Data[T any] struct {
	Data T `json:"data"`
}

// Error is the failure envelope. Kind is the stable machine-readable outcome.
type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: payload})
}

// WithError renders err as an error envelope. Errors that are not a Failure never reach the
// client verbatim; they are logged and answered with the generic status text.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	body := Error{Error: err.Error(), Kind: string(failure.GetKind(err))}

	var fail *failure.Failure
	if !errors.As(err, &fail) {
		logger.ErrorWithStack(err)

		body.Error = http.StatusText(code)
	}

	write(writer, code, body)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown answers health probes during the shutdown grace period.
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy answers health probes when a backing store is down.
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

// write encodes before touching the writer so an encoding failure can still become a 500.
func write(writer http.ResponseWriter, code int, payload any) {
	var buf bytes.Buffer

	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err := writer.Write(buf.Bytes()); err != nil {
		logger.ErrorWithStack(err)
	}
}
