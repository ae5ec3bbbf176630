package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/micronstore/storefront/pkg/enums"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/types"
)

// Fields are endpoint specific keys written next to the storefront envelope.
type Fields map[string]any

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := typedError(err)
	meta := pkgerrors.MetadataFor(typed.Code())

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: pkgerrors.PublicMessage(typed),
		},
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	logError(ctx, logg, err)
	writeJSON(w, meta.HTTPStatus, payload)
}

// WriteStorefront writes the flat storefront body: the envelope fields first,
// then extra.
func WriteStorefront(w http.ResponseWriter, status int, env types.StorefrontResponse, extra Fields) {
	body := make(map[string]any, len(extra)+4)
	for k, v := range extra {
		body[k] = v
	}
	body["success"] = env.Success
	if env.Message != "" {
		body["message"] = env.Message
	}
	if env.MessageType != "" {
		body["message_type"] = env.MessageType
	}
	if env.Error != "" {
		body["error"] = env.Error
	}
	writeJSON(w, status, body)
}

// WriteStorefrontSuccess answers a completed storefront action.
func WriteStorefrontSuccess(w http.ResponseWriter, message string, extra Fields) {
	env := types.StorefrontResponse{Success: true, Message: message}
	if message != "" {
		env.MessageType = enums.MessageSuccess.String()
	}
	WriteStorefront(w, http.StatusOK, env, extra)
}

// WriteRejection answers a storefront action that failed. Shopper facing
// failures (stock, unknown product, invalid coupon) are 200 with
// success=false so the page can show the message; infrastructure failures keep
// their HTTP status.
func WriteRejection(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error, extra Fields) {
	typed := typedError(err)
	status := http.StatusOK
	switch typed.Code() {
	case pkgerrors.CodeInternal, pkgerrors.CodeDependency, pkgerrors.CodeRateLimit, pkgerrors.CodeUnauthorized, pkgerrors.CodeForbidden:
		status = pkgerrors.MetadataFor(typed.Code()).HTTPStatus
		logError(ctx, logg, err)
	default:
		if logg != nil {
			logg.Info(logg.WithField(ctx, "error_code", typed.Code()), "request.rejected")
		}
	}

	WriteStorefront(w, status, types.StorefrontResponse{
		Success:     false,
		Message:     pkgerrors.PublicMessage(typed),
		MessageType: enums.MessageError.String(),
	}, extra)
}

func typedError(err error) *pkgerrors.Error {
	if err == nil {
		err = errors.New("unknown error")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
}

func logError(ctx context.Context, logg *logger.Logger, err error) {
	if logg == nil || err == nil {
		return
	}
	ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
	logg.Error(ctx, "request.error", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
