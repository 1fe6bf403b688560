// Package schedule provides implementations of core.Scheduler.
//
// Real runs callbacks on wall-clock timers and can cancel everything it still
// holds on teardown. Manual keeps its own clock and only fires callbacks when
// told to Advance, which makes retry and dismissal sequences deterministic in
// tests.
package schedule
