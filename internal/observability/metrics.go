package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	usersCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "users",
		Name:      "created_total",
		Help:      "Number of users created.",
	})
	exercisesRecordedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "exercises",
		Name:      "recorded_total",
		Help:      "Number of exercises recorded.",
	})
	exercisePersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_tracker",
		Subsystem: "persistence",
		Name:      "last_exercise_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise persisted to the store.",
	})
)

func init() {
	prometheus.MustRegister(usersCreatedCounter, exercisesRecordedCounter, exercisePersistGauge)
}

// RecordUserCreated increments the user creation counter.
func RecordUserCreated(ts time.Time) {
	if ts.IsZero() {
		return
	}
	usersCreatedCounter.Inc()
}

// RecordExercisePersisted updates the persistence watermark gauge.
func RecordExercisePersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	exercisesRecordedCounter.Inc()
	exercisePersistGauge.Set(float64(ts.Unix()))
}
