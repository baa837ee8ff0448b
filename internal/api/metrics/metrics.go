// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts admin login attempts by terminal state.
// Label:
//   - outcome: "rejected" (missing fields), "denied" (mismatch), "issued", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of admin login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// GateRejectionsTotal counts requests refused by the route gate in enforce mode.
var GateRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of requests rejected by the admin route gate.",
	},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts upload requests.
// Label:
//   - result: "ok", "invalid" (rejected before forwarding), or "failed" (media host error)
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image upload requests, by result.",
	},
	[]string{"result"},
)

// UploadBytesTotal sums the size of every file successfully hosted.
var UploadBytesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_bytes_total",
		Help:      "Total bytes of images forwarded to the media host.",
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ProductTypesCreatedTotal counts newly created product types.
var ProductTypesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_types_created_total",
		Help:      "Total number of product types created.",
	},
)
