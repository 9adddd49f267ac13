package handler

import (
	"reflect"
	"time"

	"github.com/deppfellow/monitoria-backend/internal/middleware"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/deppfellow/monitoria-backend/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
// Concrete handlers embed it to reach config, logger, DB and Redis.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Generic typed handler plumbing -----------------------------------------

// Request is the constraint for request payloads: a pointer to a struct type
// Req that validates itself. A fresh Req is allocated for every request.
type Request[Req any] interface {
	*Req
	validation.Validatable
}

// HandlerFunc is a typed endpoint: it receives a bound, validated payload and
// returns the response body or an error.
type HandlerFunc[Req any, PReq Request[Req], Res any] func(c echo.Context, req PReq) (Res, error)

// HandlerFuncNoContent is a typed endpoint whose success has no body.
type HandlerFuncNoContent[Req any, PReq Request[Req]] func(c echo.Context, req PReq) error

// ResponseHandler writes a successful result and describes it for logs and traces.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error

	// GetOperation names the handler kind in structured logs.
	GetOperation() string

	AddAttributes(txn *newrelic.Transaction, result any)
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if txn == nil || result == nil {
		return
	}
	if v := reflect.ValueOf(result); v.Kind() == reflect.Slice {
		txn.AddAttribute("response.items", v.Len())
	}
}

// NoContentResponseHandler writes a bodiless response, typically 204.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, _ any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(*newrelic.Transaction, any) {
	// http.status_code is already set by tracing middleware
}

// handleRequest is the shared execution pipeline for all typed handlers:
// bind and validate, run the endpoint, log and trace both phases, write the
// response. Errors are returned untouched for the global error handler.
func handleRequest[Req any, PReq Request[Req]](
	c echo.Context,
	handler func(c echo.Context, req PReq) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	req := PReq(new(Req))
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler into an echo.HandlerFunc that answers with
// status and the JSON-encoded result.
//
//	g.POST("", handler.Handle(h, h.CreateMonitoria, http.StatusCreated))
func Handle[Req any, PReq Request[Req], Res any](
	h Handler,
	handler HandlerFunc[Req, PReq, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest[Req, PReq](c, func(c echo.Context, req PReq) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent is Handle for endpoints that answer with an empty body.
func HandleNoContent[Req any, PReq Request[Req]](
	h Handler,
	handler HandlerFuncNoContent[Req, PReq],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest[Req, PReq](c, func(c echo.Context, req PReq) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}
