package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics counts cart and booking activity on the API.
type StorefrontMetrics struct {
	cartMutations   *prometheus.CounterVec
	schedules       *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on reg. A nil
// registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	m := &StorefrontMetrics{
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedules_submitted_total",
			Help:      "Booking requests submitted through checkout.",
		}, []string{"kind"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_status_changes_total",
			Help:      "Back-office schedule status transitions by target status.",
		}, []string{"status"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_rejections_total",
			Help:      "Rental selections refused because a date was taken.",
		}, []string{"stage"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.cartMutations, m.schedules, m.statusChanges, m.rejections, m.requestDuration)
	return m
}

// CartMutation counts one cart write.
func (m *StorefrontMetrics) CartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ScheduleSubmitted counts a checkout, split by quote-only vs priced carts.
func (m *StorefrontMetrics) ScheduleSubmitted(quoteOnly bool) {
	if m == nil || m.schedules == nil {
		return
	}
	kind := "priced"
	if quoteOnly {
		kind = "quote"
	}
	m.schedules.WithLabelValues(kind).Inc()
}

func (m *StorefrontMetrics) ScheduleStatusChanged(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

// AvailabilityRejected counts an UNAVAILABLE_DATE answer at stage (cart or checkout).
func (m *StorefrontMetrics) AvailabilityRejected(stage string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(stage)).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *StorefrontMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(duration.Seconds())
}
