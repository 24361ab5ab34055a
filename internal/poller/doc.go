// Package poller runs the appointment availability loop.
//
// Each iteration walks LAUNCH, NAVIGATE_CHECK and, when the department list is
// on screen, AVAILABILITY_CHECK. The decide function alone maps a check's
// outcome (including any failure, classified through services.Classify) to
// the next state. WAIT sleeps for the poll interval and starts over;
// NOTIFY_AND_STOP sends one notification and ends the loop. No failure inside
// an iteration stops the loop; the next iteration is the only retry.
package poller
