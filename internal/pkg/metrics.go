package pkg

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// 门禁判定次数，result=allow/deny/error
	GateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_gate_decisions_total",
			Help: "Enforcement gate decisions by action and result",
		},
		[]string{"action", "result", "ban_type"},
	)

	BansCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_bans_created_total",
			Help: "Bans created by type",
		},
		[]string{"ban_type"},
	)

	// 级联删除结果，outcome=deleted/skipped/failed
	CascadeOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_ban_cascade_total",
			Help: "Outcome of content deletion triggered by report-linked bans",
		},
		[]string{"outcome"},
	)

	Votes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_votes_total",
			Help: "Vote ledger writes by target kind and action",
		},
		[]string{"kind", "action"},
	)

	OutboxRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_moderation_outbox_total",
			Help: "Moderation events relayed to kafka by result",
		},
		[]string{"result"},
	)
)

// RegisterMetrics 注册到指定 registry，重复注册忽略
func RegisterMetrics(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{GateDecisions, BansCreated, CascadeOutcomes, Votes, OutboxRelayed} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
}
