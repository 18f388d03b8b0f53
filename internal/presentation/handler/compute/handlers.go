package compute

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/computebench/backend/internal/domain"
	"github.com/computebench/backend/internal/infrastructure/json"
	"github.com/computebench/backend/internal/infrastructure/tracing"
	"github.com/computebench/backend/internal/infrastructure/workerpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	pool   *workerpool.Pool
	tracer trace.Tracer
}

func NewHandler(pool *workerpool.Pool) *Handler {
	return &Handler{
		pool:   pool,
		tracer: tracing.GetTracer("compute"),
	}
}

func (h *Handler) ComputeFibonacciHandler(w http.ResponseWriter, r *http.Request) {
	n := domain.DefaultFibonacciN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			json.WriteBadRequestError(w, "query parameter n must be an unsigned integer")
			return
		}
		n = uint32(parsed)
	}
	n = domain.ClampFibonacciN(n)

	ctx, span := h.tracer.Start(r.Context(), "fibonacci.compute",
		trace.WithAttributes(attribute.Int64("fibonacci.n", int64(n))))
	defer span.End()

	// Hand off to the worker pool; the serving goroutine suspends here so the
	// computation never runs on the connection-handling path.
	var result uint64
	if err := h.pool.Do(ctx, func() { result = domain.Fibonacci(n) }); err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, fibonacciResponse{
		N:       n,
		Result:  result,
		Message: fmt.Sprintf("Fibonacci number at position %d", n),
	})
}
