package home

import (
	"io"
	"net/http"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, landingPage)
}

// Embedded so the binary has no runtime file dependencies besides TLS material.
const landingPage = `<!DOCTYPE html>
<html>
<head>
    <title>Rust Backend - Benchmark</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background: #f5f5f5; }
        .container { background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #333; }
        code { background: #f4f4f4; padding: 2px 6px; border-radius: 3px; }
        .endpoint { margin: 15px 0; padding: 10px; background: #f9f9f9; border-left: 3px solid #007bff; }
    </style>
</head>
<body>
    <div class="container">
        <h1>🦀 Rust Backend API</h1>
        <p>This is a high-performance Rust backend with compute-intensive endpoints for benchmarking.</p>

        <h2>Available Endpoints:</h2>
        <div class="endpoint">
            <strong>GET /api/health</strong> - Health check
        </div>
        <div class="endpoint">
            <strong>GET /api/compute/fibonacci?n=30</strong> - Compute Fibonacci number (default n=30)
        </div>
    </div>
</body>
</html>
`
