package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_booking_transitions_total",
		Help: "Booking lifecycle transitions grouped by the status entered.",
	}, []string{"to"})

	reconcileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_reconcile_duration_seconds",
		Help:    "Time spent on one reconciliation sweep.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	reconcileOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_reconcile_bookings_total",
		Help: "Overdue bookings seen by the reconciler grouped by outcome.",
	}, []string{"outcome"})
)
