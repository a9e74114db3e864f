package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "reconbf"
)

var (
	Debug                bool = true
	validStatuses             = []string{"pass", "fail", "skip"}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "checks_total",
		Help:      "Count of executed checks",
	}, []string{
		"run_id",
		"name",
		"status",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_total",
		Help:      "Count of check runs",
	}, []string{
		"run_id",
		"status",
	})

	runCheckTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_check_total",
		Help:      "Total number of checks that produced a result in a run",
	}, []string{
		"run_id",
	})

	runCheckPassed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_check_passed",
		Help:      "Number of passed checks in a run",
	}, []string{
		"run_id",
	})

	runCheckFailed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_check_failed",
		Help:      "Number of failed checks in a run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration",
		Help:      "Duration of a check run in seconds",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

func RecordCheck(runID string, checkName string, status string) {
	if !isValidStatus(status) {
		log.Error("RecordCheck - invalid status", "status", status)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "checks_total",
			"run_id", runID,
			"check", checkName,
			"status", status)
	}
	checksTotal.WithLabelValues(runID, checkName, status).Inc()
}

func RecordRun(
	runID string,
	status string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	runsTotal.WithLabelValues(runID, status).Inc()
	runCheckTotal.WithLabelValues(runID).Set(float64(total))
	runCheckPassed.WithLabelValues(runID).Set(float64(passed))
	runCheckFailed.WithLabelValues(runID).Set(float64(failed))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isValidStatus(status string) bool {
	return slices.Contains(validStatuses, status)
}
