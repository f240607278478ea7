// Package metrics defines and registers all custom Prometheus metrics for
// the SIMS API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sims"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRotationsTotal counts refresh-token rotations.
// Label:
//   - result: "success" or "failure"
var TokenRotationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rotations_total",
		Help:      "Total number of refresh-token rotations, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts password-reset completions.
// Label:
//   - result: "success" or "failure"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password-reset attempts, by result.",
	},
	[]string{"result"},
)

// ── Tenant metrics ────────────────────────────────────────────────────────────

// SchoolsRegisteredTotal counts newly registered school tenants.
var SchoolsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schools_registered_total",
		Help:      "Total number of school tenants registered.",
	},
)

// StudentsOnboardedTotal counts newly onboarded students.
var StudentsOnboardedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "students_onboarded_total",
		Help:      "Total number of student records created.",
	},
)

// ── Mailer metrics ────────────────────────────────────────────────────────────

// EmailsTotal counts transactional email deliveries.
// Labels:
//   - kind: "welcome" or "reset_password"
//   - result: "sent" or "failed"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of transactional emails attempted, by kind and result.",
	},
	[]string{"kind", "result"},
)

// MailerQueueDepth tracks the number of emails waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mailer_queue_depth",
		Help:      "Current number of emails pending in each mailer worker channel.",
	},
	[]string{"worker_id"},
)
