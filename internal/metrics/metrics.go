package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 同步相关指标
var (
	// SyncRunsTotal 同步运行次数，按结果分类
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safenotes_sync_runs_total",
		Help: "Total sync runs by outcome",
	}, []string{"outcome"})

	// TransfersWrittenTotal 同步写入的转账条数
	TransfersWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safenotes_transfers_written_total",
		Help: "Total transfers written by sync",
	})

	// TransfersSkippedTotal 同步跳过的已存在转账条数
	TransfersSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safenotes_transfers_skipped_total",
		Help: "Total transfers skipped by sync because they already existed",
	})
)
