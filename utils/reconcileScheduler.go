package utils

import (
	"lms/database"
	enrollmentService "lms/services/enrollment"
	"log"

	"github.com/robfig/cron/v3"
)

// InitializeReconcileScheduler sets up the daily enrollment counter
// reconciliation job. The enroll/unenroll dual write is transactional, but
// counters can still drift through out-of-band data changes; this job
// recomputes them from the enrollment table.
func InitializeReconcileScheduler() {
	log.Println("[RECONCILE-SCHEDULER] Initializing counter reconciliation scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[RECONCILE-SCHEDULER] Running daily enrollment counter check...")
		ReconcileEnrollmentCounters()
	})

	c.Start()
	log.Println("[RECONCILE-SCHEDULER] Scheduler started - runs daily at 3 AM")
}

// ReconcileEnrollmentCounters recomputes every course's enrolled_students
// counter and logs what was fixed
func ReconcileEnrollmentCounters() {
	fixed, err := enrollmentService.ReconcileCounters(database.Database.Db)
	if err != nil {
		log.Printf("[RECONCILE-SCHEDULER] Error reconciling counters: %v", err)
		return
	}
	if fixed > 0 {
		log.Printf("[RECONCILE-SCHEDULER] Corrected enrollment counters on %d courses", fixed)
	}
}
