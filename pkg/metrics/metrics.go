// Package metrics provides Prometheus counters for the USB notifier.
//
// Labels are bounded enums (event names, statuses, reasons, uevent words);
// nothing device-specific such as serial numbers is ever used as a label.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usbnotify"

// HWParam names a hardware parameter counter.
type HWParam string

const (
	HWParamReverseBypass       HWParam = "reverse_bypass"
	HWParamOverAudioDescriptor HWParam = "over_audio_descriptor"
	HWParamSecureBlock         HWParam = "secure_block"
	HWParamAbnormalResetPopup  HWParam = "abnormal_reset_popup"
)

// Metrics holds the notifier counters. A nil *Metrics discards updates.
type Metrics struct {
	Transitions    *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	Uevents        *prometheus.CounterVec
	UeventsLimited prometheus.Counter
	Overcurrent    prometheus.Counter
	HWParams       *prometheus.CounterVec
	QueueDropped   prometheus.Counter
}

// New registers the notifier counters on reg. A nil reg selects the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Committed cable transitions, by event and status.",
		}, []string{"event", "status"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Requests blocked, deferred or skipped, by reason.",
		}, []string{"reason"}),
		Uevents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uevents_total",
			Help:      "Uevents sent, by type and words.",
		}, []string{"type", "words"}),
		UeventsLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uevents_rate_limited_total",
			Help:      "Warm-reset uevents dropped by the rate limit.",
		}),
		Overcurrent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overcurrent_total",
			Help:      "Host port overcurrent conditions.",
		}),
		HWParams: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hw_param_total",
			Help:      "Hardware parameter counters, by parameter.",
		}, []string{"param"}),
		QueueDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_dropped_total",
			Help:      "State events dropped because the work queue was full.",
		}),
	}
}

// Transition counts a committed transition.
func (m *Metrics) Transition(event, status string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(event, status).Inc()
}

// Reject counts a refused request.
func (m *Metrics) Reject(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()
}

// Uevent counts a sent uevent.
func (m *Metrics) Uevent(typ, words string) {
	if m == nil {
		return
	}
	m.Uevents.WithLabelValues(typ, words).Inc()
}

// UeventLimited counts a rate-limited uevent.
func (m *Metrics) UeventLimited() {
	if m == nil {
		return
	}
	m.UeventsLimited.Inc()
}

// OvercurrentDetected counts an overcurrent condition.
func (m *Metrics) OvercurrentDetected() {
	if m == nil {
		return
	}
	m.Overcurrent.Inc()
}

// IncHWParam increments a hardware parameter counter.
func (m *Metrics) IncHWParam(p HWParam) {
	if m == nil {
		return
	}
	m.HWParams.WithLabelValues(string(p)).Inc()
}

// Dropped counts a state event dropped by a full queue.
func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.QueueDropped.Inc()
}
