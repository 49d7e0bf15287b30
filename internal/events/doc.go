// Package events decouples the course synchronizer from the external
// notifier. The synchronizer emits a course-created event after its
// transaction commits; handlers deliver it out of band. Event handling is
// advisory: no handler failure ever propagates back into a course write.
package events
