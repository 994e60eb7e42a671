// Package automation schedules recurring pipeline runs. A Manager polls on
// a fixed interval and fires the daily, weekly, and monthly cadences when
// their configured times come due, exporting each run's report as JSON.
//
// Scheduled runs are deliberately conservative: duplicates found during
// automation are reported or quarantined for review, never deleted.
package automation
