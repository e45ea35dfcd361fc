package server

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kiesman99/spritepad/internal/api"
	"github.com/kiesman99/spritepad/internal/compose"
	"github.com/kiesman99/spritepad/internal/logging"
	"github.com/kiesman99/spritepad/pkg/sprite"
)

// MaxUploadBytes caps the request body of the image endpoints
const MaxUploadBytes = 32 << 20

// Server implements api.ServerInterface
type Server struct {
	startTime time.Time
	version   string
	composer  *compose.Composer
	logger    *log.Logger
}

// NewServer creates a new server instance
func NewServer(version string, composer *compose.Composer, logger *log.Logger) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
		composer:  composer,
		logger:    logger,
	}
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := int(time.Since(s.startTime).Seconds())

	response := api.HealthResponse{
		Status:    api.Healthy,
		Timestamp: time.Now(),
		Uptime:    &uptime,
		Version:   &s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("encoding health response", "err", err)
	}
}

// PlaceSprite places the image in the request body on a transparent canvas
func (s *Server) PlaceSprite(w http.ResponseWriter, r *http.Request, params api.PlaceSpriteParams) {
	requestID := uuid.NewString()
	ctx := s.requestContext(r.Context(), requestID)

	opts := &compose.PlaceOptions{
		Canvas: sprite.Size{W: params.Width, H: params.Height},
	}
	var err error
	if params.Align != nil {
		if opts.Align, err = sprite.ParseAlignment(*params.Align); err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, api.CodeInvalidParameter, err.Error(), &requestID, nil)
			return
		}
	}
	if params.Scale != nil {
		if opts.Scale, err = sprite.ParseScaleMode(*params.Scale); err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, api.CodeInvalidParameter, err.Error(), &requestID, nil)
			return
		}
	}

	body := http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	result, err := s.composer.PlaceReader(ctx, body, opts)
	if err != nil {
		s.handleError(ctx, w, err, &requestID)
		return
	}

	w.Header().Set("X-Sprite-Offset", strconv.Itoa(result.Offset.X)+","+strconv.Itoa(result.Offset.Y))
	s.writeImage(w, result, requestID)
}

// AssembleSheet packs the multipart "tile" parts, in request order, into a sheet
func (s *Server) AssembleSheet(w http.ResponseWriter, r *http.Request, params api.AssembleSheetParams) {
	requestID := uuid.NewString()
	ctx := s.requestContext(r.Context(), requestID)

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, api.CodeInvalidParameter,
			"expected a multipart/form-data body", &requestID, nil)
		return
	}

	var tiles []image.Image
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.handleError(ctx, w, errors.Wrap(err, "read multipart body"), &requestID)
			return
		}
		if part.FormName() != "tile" {
			part.Close()
			continue
		}
		img, err := sprite.Decode(part)
		part.Close()
		if err != nil {
			if le := (*sprite.LoadError)(nil); errors.As(err, &le) {
				le.Path = part.FileName()
			}
			s.handleError(ctx, w, err, &requestID)
			return
		}
		tiles = append(tiles, img)
	}

	count := len(tiles)
	if params.Count != nil {
		count = *params.Count
	}
	result, err := s.composer.AssembleImages(ctx, tiles, &compose.SheetOptions{
		Tile:  sprite.Size{W: params.TileWidth, H: params.TileHeight},
		Sheet: sprite.Size{W: params.SheetWidth, H: params.SheetHeight},
		Count: count,
	})
	if err != nil {
		s.handleError(ctx, w, err, &requestID)
		return
	}

	w.Header().Set("X-Tiles-Per-Row", strconv.Itoa(result.TilesPerRow))
	s.writeImage(w, result, requestID)
}

// ParamError reports query parameter binding failures
func (s *Server) ParamError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorResponse(w, http.StatusBadRequest, api.CodeInvalidParameter, err.Error(), nil, nil)
}

func (s *Server) requestContext(ctx context.Context, requestID string) context.Context {
	return logging.WithLogger(ctx, s.logger.With("request_id", requestID))
}

func (s *Server) writeImage(w http.ResponseWriter, result *compose.Result, requestID string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.ImageData)))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.ImageData); err != nil {
		s.logger.Error("writing response", "request_id", requestID, "err", err)
	}
}

// handleError maps composition errors to API error responses
func (s *Server) handleError(ctx context.Context, w http.ResponseWriter, err error, requestID *string) {
	var (
		countErr *sprite.CountMismatchError
		dimErr   *sprite.DimensionError
		loadErr  *sprite.LoadError
		sizeErr  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &sizeErr):
		s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, api.CodeTooLarge,
			"request body too large", requestID, map[string]interface{}{
				"limit_bytes": sizeErr.Limit,
			})
	case errors.As(err, &countErr):
		s.writeErrorResponse(w, http.StatusBadRequest, api.CodeCountMismatch, err.Error(), requestID,
			map[string]interface{}{
				"expected": countErr.Expected,
				"actual":   countErr.Actual,
			})
	case errors.As(err, &dimErr):
		s.writeErrorResponse(w, http.StatusBadRequest, api.CodeInvalidDimensions, err.Error(), requestID, nil)
	case errors.As(err, &loadErr):
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, api.CodeInvalidImage, err.Error(), requestID, nil)
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, http.StatusGatewayTimeout, api.CodeTimeout,
			"request timed out", requestID, nil)
	default:
		logging.FromContext(ctx).Error("request failed", "err", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, api.CodeInternal,
			"Internal server error", requestID, nil)
	}
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string, requestID *string, details map[string]interface{}) {
	response := api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestId: requestID,
	}

	if details != nil {
		response.Details = &details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("encoding error response", "err", err)
	}
}
