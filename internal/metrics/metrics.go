package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoplux_notifications_created_total",
		Help: "Total number of in-app notifications persisted, by notification type.",
	},
		[]string{"type"},
	)

	NotificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoplux_notification_failures_total",
		Help: "Total number of notify calls that could not create the in-app record.",
	},
		[]string{"reason"},
	)

	PushBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoplux_push_batches_total",
		Help: "Total number of push gateway batch calls, by result.",
	},
		[]string{"result"},
	)

	PushMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoplux_push_messages_total",
		Help: "Total number of per-device push messages handed to the gateway.",
	})

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoplux_lifecycle_transitions_total",
		Help: "Total number of persisted lifecycle transitions, by subject kind and new status.",
	},
		[]string{"subject", "status"},
	)

	TransitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoplux_lifecycle_transitions_rejected_total",
		Help: "Total number of rejected lifecycle transitions, by subject kind and reason.",
	},
		[]string{"subject", "reason"},
	)

	TrackingEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoplux_tracking_events_total",
		Help: "Total number of tracking events appended, by subject type.",
	},
		[]string{"subject_type"},
	)

	OutboxPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoplux_outbox_published_total",
		Help: "Total number of outbox tasks handed to the producer, by result.",
	},
		[]string{"result"},
	)

	TokenCacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoplux_token_cache_requests_total",
		Help: "Device token cache lookups, by result (hit, miss, error).",
	},
		[]string{"result"},
	)
)
