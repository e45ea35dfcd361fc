// Package api defines the spritepad HTTP API: wire types, the ServerInterface
// implemented by internal/server, and a chi router that binds query
// parameters before dispatching to it.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Values reported in HealthResponse.Status
const (
	Healthy   HealthResponseStatus = "healthy"
	Unhealthy HealthResponseStatus = "unhealthy"
)

// Error codes returned in ErrorResponse.Error.
const (
	CodeInvalidParameter  = "INVALID_PARAMETER"
	CodeInvalidDimensions = "INVALID_DIMENSIONS"
	CodeCountMismatch     = "COUNT_MISMATCH"
	CodeInvalidImage      = "INVALID_IMAGE"
	CodeTooLarge          = "REQUEST_TOO_LARGE"
	CodeTimeout           = "TIMEOUT"
	CodeInternal          = "INTERNAL_ERROR"
)

// HealthResponseStatus is the coarse service state
type HealthResponseStatus string

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    HealthResponseStatus `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
	Uptime    *int                 `json:"uptime,omitempty"`
	Version   *string              `json:"version,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx reply
type ErrorResponse struct {
	Error     string                  `json:"error"`
	Message   string                  `json:"message"`
	RequestId *string                 `json:"request_id,omitempty"`
	Details   *map[string]interface{} `json:"details,omitempty"`
}

// PlaceSpriteParams holds the query of POST /place
type PlaceSpriteParams struct {
	Width  int     `form:"width" json:"width"`
	Height int     `form:"height" json:"height"`
	Align  *string `form:"align,omitempty" json:"align,omitempty"`
	Scale  *string `form:"scale,omitempty" json:"scale,omitempty"`
}

// AssembleSheetParams holds the query of POST /sheet
type AssembleSheetParams struct {
	TileWidth   int  `form:"tile_width" json:"tile_width"`
	TileHeight  int  `form:"tile_height" json:"tile_height"`
	SheetWidth  int  `form:"sheet_width" json:"sheet_width"`
	SheetHeight int  `form:"sheet_height" json:"sheet_height"`
	Count       *int `form:"count,omitempty" json:"count,omitempty"`
}

// ServerInterface is implemented by internal/server
type ServerInterface interface {
	// GET /health
	GetHealth(w http.ResponseWriter, r *http.Request)
	// POST /place, body is the encoded sprite
	PlaceSprite(w http.ResponseWriter, r *http.Request, params PlaceSpriteParams)
	// POST /sheet, body is multipart with ordered "tile" parts
	AssembleSheet(w http.ResponseWriter, r *http.Request, params AssembleSheetParams)
}

// MiddlewareFunc wraps a handler
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper binds query parameters and calls the handler
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetHealth)
}

func (siw *ServerInterfaceWrapper) PlaceSprite(w http.ResponseWriter, r *http.Request) {
	var params PlaceSpriteParams
	query := r.URL.Query()

	for _, p := range []struct {
		name     string
		required bool
		dest     interface{}
	}{
		{"width", true, &params.Width},
		{"height", true, &params.Height},
		{"align", false, &params.Align},
		{"scale", false, &params.Scale},
	} {
		if err := runtime.BindQueryParameter("form", true, p.required, p.name, query, p.dest); err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: p.name, Err: err})
			return
		}
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PlaceSprite(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) AssembleSheet(w http.ResponseWriter, r *http.Request) {
	var params AssembleSheetParams
	query := r.URL.Query()

	for _, p := range []struct {
		name     string
		required bool
		dest     interface{}
	}{
		{"tile_width", true, &params.TileWidth},
		{"tile_height", true, &params.TileHeight},
		{"sheet_width", true, &params.SheetWidth},
		{"sheet_height", true, &params.SheetHeight},
		{"count", false, &params.Count},
	} {
		if err := runtime.BindQueryParameter("form", true, p.required, p.name, query, p.dest); err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: p.name, Err: err})
			return
		}
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.AssembleSheet(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	var handler http.Handler = fn
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// InvalidParamFormatError is passed to ErrorHandlerFunc when a query
// parameter is missing or malformed
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ChiServerOptions configures HandlerWithOptions
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts si on a new chi router
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions mounts si using the given router, base URL and middlewares
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health", wrapper.GetHealth)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/place", wrapper.PlaceSprite)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/sheet", wrapper.AssembleSheet)
	})

	return r
}
