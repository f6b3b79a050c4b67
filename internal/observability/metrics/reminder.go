// Package metrics exposes Prometheus instrumentation for the reminder
// scheduler and the HTTP layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	FireResultOK      = "ok"
	FireResultError   = "error"
	FireResultSkipped = "skipped"

	MailKindReminder     = "reminder"
	MailKindConfirmation = "confirmation"
	MailKindDistribution = "distribution"
)

var (
	reminderJobsScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispoplan_reminder_jobs_scheduled_total",
		Help: "Reminder jobs registered or rescheduled.",
	})
	reminderJobsCanceled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispoplan_reminder_jobs_canceled_total",
		Help: "Reminder jobs canceled.",
	})
	reminderJobsRestored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispoplan_reminder_jobs_restored_total",
		Help: "Persisted reminder jobs restored at startup.",
	})
	reminderJobsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispoplan_reminder_jobs_fired_total",
		Help: "Reminder job firings by result.",
	}, []string{"result"})
	reminderJobsMisfired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispoplan_reminder_jobs_misfired_total",
		Help: "Reminder jobs fired after the misfire grace window elapsed.",
	})
	reminderFireDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispoplan_reminder_fire_duration_seconds",
		Help:    "Duration of reminder job callbacks.",
		Buckets: prometheus.DefBuckets,
	})
	mailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispoplan_mails_sent_total",
		Help: "Outbound notification mails by kind.",
	}, []string{"kind"})
	mailErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispoplan_mail_errors_total",
		Help: "Failed notification mails by kind.",
	}, []string{"kind"})
)

func IncJobScheduled() { reminderJobsScheduled.Inc() }
func IncJobCanceled()  { reminderJobsCanceled.Inc() }
func IncJobMisfired()  { reminderJobsMisfired.Inc() }

func AddJobsRestored(count int) {
	if count > 0 {
		reminderJobsRestored.Add(float64(count))
	}
}

func IncJobFired(result string) {
	reminderJobsFired.WithLabelValues(result).Inc()
}

func ObserveFireDuration(d time.Duration) {
	reminderFireDuration.Observe(d.Seconds())
}

func IncMailSent(kind string)  { mailsSent.WithLabelValues(kind).Inc() }
func IncMailError(kind string) { mailErrors.WithLabelValues(kind).Inc() }
