// Package natsrpc serves department retrieval as NATS request/reply.
package natsrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kirillkom/department-assistant/internal/core/domain"
	"github.com/kirillkom/department-assistant/internal/core/ports"
	"github.com/kirillkom/department-assistant/internal/observability/logging"
)

const (
	interactionWriteTimeout = 2 * time.Second
	defaultRequestTimeout   = 15 * time.Second
)

// Observer receives one observation per handled request.
type Observer interface {
	ObserveRetrieval(department, status string, chunks int, duration time.Duration)
}

// Options configure a Handler. Timeout bounds one retrieval, including the
// query embedding call; zero means 15s.
type Options struct {
	Defaults     domain.RetrievalLimits
	Timeout      time.Duration
	RateLimitRPS float64
	RateBurst    int
	Interactions ports.InteractionLog
	Metrics      Observer
	Logger       *slog.Logger
}

type Handler struct {
	retriever    ports.Retriever
	defaults     domain.RetrievalLimits
	timeout      time.Duration
	limiter      *rate.Limiter
	interactions ports.InteractionLog
	metrics      Observer
	logger       *slog.Logger
}

func NewHandler(retriever ports.Retriever, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = max(1, int(opts.RateLimitRPS))
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}
	return &Handler{
		retriever:    retriever,
		defaults:     opts.Defaults,
		timeout:      timeout,
		limiter:      limiter,
		interactions: opts.Interactions,
		metrics:      opts.Metrics,
		logger:       logger,
	}
}

// Handle decodes one request and always returns an encoded response.
func (h *Handler) Handle(ctx context.Context, data []byte) []byte {
	start := time.Now()

	var req RetrievalRequest
	decodeErr := json.Unmarshal(data, &req)
	req.RequestID = strings.TrimSpace(req.RequestID)
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	ctx = logging.WithRequestID(ctx, req.RequestID)
	logger := logging.FromContext(ctx, h.logger)

	var (
		result *domain.RetrievalResult
		err    error
	)
	switch {
	case decodeErr != nil:
		err = domain.WrapError(domain.ErrInvalidInput, "decode request", decodeErr)
	case h.limiter != nil && !h.limiter.Allow():
		err = domain.WrapError(domain.ErrRateLimited, "retrieve", errors.New("too many requests"))
	default:
		retrieveCtx, cancel := context.WithTimeout(ctx, h.timeout)
		result, err = h.retriever.Retrieve(retrieveCtx, req.Department, req.Query, req.Limits.apply(h.defaults))
		cancel()
	}

	resp := RetrievalResponse{
		RequestID:  req.RequestID,
		Department: req.Department,
		Chunks:     []ChunkView{},
	}
	status := "ok"
	if err != nil {
		status = mapErrorToCode(err)
		resp.Error = err.Error()
		resp.ErrorCode = status
		if status == codeInternal || status == codeEmbeddingUnavailable {
			logger.Error("retrieval_failed", "department", req.Department, "code", status, "error", err)
		} else {
			logger.Warn("retrieval_rejected", "department", req.Department, "code", status, "error", err)
		}
	} else {
		resp.Context = result.Context
		for _, c := range result.Chunks {
			resp.Chunks = append(resp.Chunks, ChunkView{ID: c.ID, Text: c.Text, Source: c.Source, OriginPath: c.OriginPath})
		}
	}

	duration := time.Since(start)
	if h.metrics != nil {
		h.metrics.ObserveRetrieval(req.Department, status, len(resp.Chunks), duration)
	}
	h.record(ctx, logger, req, resp, status, duration)
	logger.Info("retrieval_served",
		"department", req.Department,
		"status", status,
		"chunks", len(resp.Chunks),
		"duration_ms", float64(duration.Microseconds())/1000.0,
	)

	out, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		logger.Error("encode_response_failed", "error", marshalErr)
		return []byte(fmt.Sprintf(`{"request_id":%q,"error":"encode response","error_code":%q}`, req.RequestID, codeInternal))
	}
	return out
}

func (h *Handler) record(ctx context.Context, logger *slog.Logger, req RetrievalRequest, resp RetrievalResponse, status string, duration time.Duration) {
	if h.interactions == nil {
		return
	}
	ids := make([]int, 0, len(resp.Chunks))
	for _, c := range resp.Chunks {
		ids = append(ids, c.ID)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), interactionWriteTimeout)
	defer cancel()
	err := h.interactions.RecordInteraction(writeCtx, domain.Interaction{
		ID:         uuid.NewString(),
		RequestID:  req.RequestID,
		User:       req.User,
		Department: req.Department,
		Query:      req.Query,
		ChunkIDs:   ids,
		Status:     status,
		Error:      resp.Error,
		DurationMS: float64(duration.Microseconds()) / 1000.0,
	})
	if err != nil {
		logger.Warn("interaction_log_failed", "error", err)
	}
}
