package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	receiptsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_processed_total",
		Help: "Number of receipts accepted, scored and stored.",
	})

	receiptsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_rejected_total",
		Help: "Number of submissions rejected by validation.",
	})
)
