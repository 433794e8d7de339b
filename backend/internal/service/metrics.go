package service

import (
	"github.com/campusnet/campusnet/shared/middleware/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "forum_mirror_writes_total",
			Help:      "Vector index mirror writes by operation and result",
		},
		[]string{"op", "result"},
	)

	cascadeDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "forum_cascade_deleted_total",
			Help:      "Content entities removed from the document store by delete operations",
		},
		[]string{"kind"},
	)

	notificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "forum_notifications_total",
			Help:      "Notification records written by event",
		},
		[]string{"event"},
	)

	reconcileRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "forum_reconcile_repairs_total",
			Help:      "Mirror records repaired by the reconciler",
		},
		[]string{"action"},
	)
)
