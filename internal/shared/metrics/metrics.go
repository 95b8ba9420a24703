package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	submissionsAcceptedTotal atomic.Uint64
	submissionsRejectedTotal atomic.Uint64
	previewsTotal            atomic.Uint64
	exportsTotal             atomic.Uint64
	loginFailuresTotal       atomic.Uint64

	eventsReceivedTotal      atomic.Uint64
	eventsCompletedTotal     atomic.Uint64
	eventsFailedTotal        atomic.Uint64
	eventsUnrecoverableTotal atomic.Uint64

	recommendationsByCourse = newLabeledCounter("course")

	recommendationConfidence = newHistogram([]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100})
	submitDuration           = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500})
)

// IncSubmissionAccepted counts a stored submission and its recommended course.
func IncSubmissionAccepted(course string, confidence int) {
	submissionsAcceptedTotal.Add(1)
	recommendationsByCourse.Inc(course)
	recommendationConfidence.Observe(float64(confidence))
}

// IncSubmissionRejected counts a submission refused for invalid or incomplete input.
func IncSubmissionRejected() {
	submissionsRejectedTotal.Add(1)
}

// IncPreview counts a preview computation.
func IncPreview() {
	previewsTotal.Add(1)
}

// IncExport counts a generated dashboard export.
func IncExport() {
	exportsTotal.Add(1)
}

// IncLoginFailure counts a rejected staff login.
func IncLoginFailure() {
	loginFailuresTotal.Add(1)
}

// IncEventReceived counts a queue event picked up by the worker.
func IncEventReceived() {
	eventsReceivedTotal.Add(1)
}

// IncEventCompleted counts a queue event processed and deleted.
func IncEventCompleted() {
	eventsCompletedTotal.Add(1)
}

// IncEventFailed counts a queue event left for redelivery.
func IncEventFailed() {
	eventsFailedTotal.Add(1)
}

// IncEventUnrecoverable counts a malformed queue event deleted without processing.
func IncEventUnrecoverable() {
	eventsUnrecoverableTotal.Add(1)
}

// ObserveSubmitDurationMs records how long storing a submission took in milliseconds.
func ObserveSubmitDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	submitDuration.Observe(value)
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
	writeCounter(&buf, "submissions_accepted_total", "Total questionnaire submissions stored", submissionsAcceptedTotal.Load())
	writeCounter(&buf, "submissions_rejected_total", "Total questionnaire submissions rejected", submissionsRejectedTotal.Load())
	writeCounter(&buf, "recommendation_previews_total", "Total recommendation previews computed", previewsTotal.Load())
	writeCounter(&buf, "result_exports_total", "Total dashboard exports generated", exportsTotal.Load())
	writeCounter(&buf, "staff_login_failures_total", "Total rejected staff logins", loginFailuresTotal.Load())
	writeCounter(&buf, "worker_events_received_total", "Total submission events received by the worker", eventsReceivedTotal.Load())
	writeCounter(&buf, "worker_events_completed_total", "Total submission events processed", eventsCompletedTotal.Load())
	writeCounter(&buf, "worker_events_failed_total", "Total submission events that failed processing", eventsFailedTotal.Load())
	writeCounter(&buf, "worker_events_deleted_unrecoverable_total", "Total malformed submission events deleted", eventsUnrecoverableTotal.Load())
	writeLabeledCounter(&buf, "recommendations_total", "Stored recommendations by course", recommendationsByCourse)
	writeHistogram(&buf, "recommendation_confidence", "Overall confidence of stored recommendations", recommendationConfidence.Snapshot())
	writeHistogram(&buf, "submission_store_duration_ms", "Submission persistence duration in milliseconds", submitDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	label  string
	values map[string]uint64
}

func newLabeledCounter(label string) *labeledCounter {
	return &labeledCounter{label: label, values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[value]++
}

func (l *labeledCounter) snapshot() ([]string, map[string]uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	keys := make([]string, 0, len(l.values))
	for k, v := range l.values {
		out[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, out
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
			break
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
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, counter *labeledCounter) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := counter.snapshot()
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, counter.label, k, values[k])
	}
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
