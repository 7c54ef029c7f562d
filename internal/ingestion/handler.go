package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/kiddraughts-lab/draughts-telemetry/internal/api/v1"
	httperr "github.com/kiddraughts-lab/draughts-telemetry/internal/core/errors"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/rules"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/storage"
	"github.com/kiddraughts-lab/draughts-telemetry/internal/metrics"
)

// ingestionError carries the HTTP shape of a failed step back to the
// orchestrating handler. Helpers return this instead of writing to
// gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	code       string
	message    string
}

func (e *ingestionError) Error() string {
	return e.message
}

// RecordEventHandler handles POST /roblox/events.
func (s *Service) RecordEventHandler(c *gin.Context) {
	evt, payloadSize, err := s.parseEvent(c)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Received event",
		"event_id", evt.EventID,
		"user_id", evt.UserID,
		"event_type", evt.Type,
		"payload_size", payloadSize)

	deduped, err := s.persistEvent(c.Request.Context(), evt)
	if err != nil {
		writeError(c, err)
		return
	}

	if deduped {
		metrics.EventsDeduped.Inc()
		c.JSON(http.StatusOK, httperr.OKDeduped())
		return
	}

	metrics.EventsIngested.Inc()

	// Best-effort side update: the event is durable regardless of whether
	// the aggregate bump lands.
	s.mergePlayer(c.Request.Context(), evt)

	c.JSON(http.StatusOK, httperr.OK())
}

// parseEvent reads the raw request body and binds it into a validated,
// fully-defaulted Event. Returns the raw payload size for logging upstream.
func (s *Service) parseEvent(c *gin.Context) (*v1.Event, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		// A torn read is the client's transport failing, not our storage.
		slog.Warn("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusBadRequest,
			code:       httperr.CodeInvalidJSON,
			message:    "failed to read request body",
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			code:       httperr.CodeInvalidJSON,
			message:    "request body exceeds maximum allowed size",
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var evt v1.Event
	if err := c.ShouldBindJSON(&evt); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			code:       httperr.CodeInvalidJSON,
			message:    "invalid JSON body",
		}
	}

	if err := evt.Validate(); err != nil {
		slog.Warn("Event validation failed", "error", err, "event_id", evt.EventID)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			code:       httperr.CodeMissingFields,
			message:    err.Error(),
		}
	}

	// set ReceivedAt to the time we accepted the request
	evt.ReceivedAt = time.Now().UTC()
	return &evt, len(bodyBytes), nil
}

// persistEvent saves the event, folding an exact eventId collision into a
// successful no-op.
func (s *Service) persistEvent(ctx context.Context, evt *v1.Event) (bool, *ingestionError) {
	if err := s.events.SaveEvent(ctx, evt); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("Duplicate event folded into success", "event_id", evt.EventID, "user_id", evt.UserID)
			return true, nil
		}

		slog.Error("Failed to persist event", "error", err, "event_id", evt.EventID)
		return false, &ingestionError{
			statusCode: http.StatusInternalServerError,
			code:       httperr.CodeDBError,
			message:    "failed to persist event",
		}
	}

	return false, nil
}

// mergePlayer applies the event to the player aggregate. Failures are
// logged and swallowed so telemetry ingestion never fails on the side update.
func (s *Service) mergePlayer(ctx context.Context, evt *v1.Event) {
	merge := storage.PlayerMerge{
		UserID:    evt.UserID,
		EventType: evt.Type,
		EventTS:   evt.TS,
		SeenAt:    evt.ReceivedAt,
	}

	if counter, ok := s.counters.CounterFor(evt.Type); ok {
		switch counter {
		case rules.CounterGames:
			merge.GamesDelta = 1
		case rules.CounterLessonSteps:
			merge.LessonStepsDelta = 1
		}
	}

	if err := s.players.ApplyEvent(ctx, merge); err != nil {
		metrics.PlayerMergeFailures.Inc()
		slog.Error("Player aggregate update failed (event still recorded)",
			"error", err,
			"event_id", evt.EventID,
			"user_id", evt.UserID)
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.Fail(err.code))
}
