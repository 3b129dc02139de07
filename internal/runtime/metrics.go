package runtime

import (
	"github.com/prometheus/client_golang/prometheus"

	"shellpane/internal/shell"
)

var (
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shellpane",
		Name:      "commands_total",
		Help:      "Command lines executed, labeled by outcome.",
	}, []string{"outcome"})

	CommandDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shellpane",
		Name:      "command_duration_seconds",
		Help:      "Wall time from interpreter start to exit.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 4, 10),
	})
)

// Collectors returns the engine's metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{CommandsTotal, CommandDuration}
}

const (
	outcomeOK          = "ok"
	outcomeNonZero     = "exit_nonzero"
	outcomeLaunch      = "launch_failed"
	outcomeUndecodable = "undecodable"
)

func outcome(res shell.Result) string {
	switch {
	case res.LaunchFailed:
		return outcomeLaunch
	case res.ExitCode != 0:
		return outcomeNonZero
	default:
		return outcomeOK
	}
}
