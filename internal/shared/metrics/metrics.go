package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	generationStartedTotal   atomic.Uint64
	generationCompletedTotal atomic.Uint64
	generationFailedTotal    atomic.Uint64
	generationCancelledTotal atomic.Uint64

	uploadAcceptedTotal atomic.Uint64
	uploadRejectedTotal atomic.Uint64

	handlesCreatedTotal atomic.Uint64
	handlesRevokedTotal atomic.Uint64

	generationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 8000, 9000, 10000, 15000})
)

// IncGenerationStarted increments the started counter.
func IncGenerationStarted() {
	generationStartedTotal.Add(1)
}

// IncGenerationCompleted increments the completed counter.
func IncGenerationCompleted() {
	generationCompletedTotal.Add(1)
}

// IncGenerationFailed increments the failed counter.
func IncGenerationFailed() {
	generationFailedTotal.Add(1)
}

// IncGenerationCancelled increments the cancelled counter.
func IncGenerationCancelled() {
	generationCancelledTotal.Add(1)
}

// IncUploadAccepted counts files that passed validation.
func IncUploadAccepted() {
	uploadAcceptedTotal.Add(1)
}

// IncUploadRejected counts files rejected by validation.
func IncUploadRejected() {
	uploadRejectedTotal.Add(1)
}

// IncHandleCreated counts minted blob handles.
func IncHandleCreated() {
	handlesCreatedTotal.Add(1)
}

// IncHandleRevoked counts revoked blob handles.
func IncHandleRevoked() {
	handlesRevokedTotal.Add(1)
}

// ObserveGenerationDurationMs records a generation duration in milliseconds.
func ObserveGenerationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	generationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "generation_started_total", "Total generation jobs started", generationStartedTotal.Load())
	writeCounter(&buf, "generation_completed_total", "Total generation jobs completed", generationCompletedTotal.Load())
	writeCounter(&buf, "generation_failed_total", "Total generation jobs failed", generationFailedTotal.Load())
	writeCounter(&buf, "generation_cancelled_total", "Total generation jobs cancelled", generationCancelledTotal.Load())
	writeCounter(&buf, "upload_accepted_total", "Total uploads accepted", uploadAcceptedTotal.Load())
	writeCounter(&buf, "upload_rejected_total", "Total uploads rejected", uploadRejectedTotal.Load())
	writeCounter(&buf, "blob_handles_created_total", "Total blob handles minted", handlesCreatedTotal.Load())
	writeCounter(&buf, "blob_handles_revoked_total", "Total blob handles revoked", handlesRevokedTotal.Load())
	writeHistogram(&buf, "generation_duration_ms", "Generation duration in milliseconds", generationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already counts into every bucket at or above the value.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
