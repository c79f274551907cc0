package engine

import "testing"

func TestSchedulerUpsertIsUniquePerKey(t *testing.T) {
	s := NewScheduler()
	s.Upsert(JobCampfireTick, "camp-1", 1000, 0)
	s.Upsert(JobCampfireTick, "camp-1", 2000, 0)

	due := s.DueJobs(5000)
	count := 0
	for _, j := range due {
		if j.Kind == JobCampfireTick && j.Key == "camp-1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected at most one job per (kind, key), got %d", count)
	}
	if due[0].FireAt != 2000 {
		t.Errorf("Expected the upsert to reschedule to 2000, got %d", due[0].FireAt)
	}
}

func TestSchedulerOneShotRemovedAfterFiring(t *testing.T) {
	s := NewScheduler()
	s.Upsert(JobCorpseDespawn, "corpse-1", 1000, 0)

	if len(s.DueJobs(1000)) != 1 {
		t.Fatalf("Expected the one-shot to fire at its time")
	}
	if s.Has(JobCorpseDespawn, "corpse-1") {
		t.Errorf("Expected the one-shot removed after firing")
	}
	if len(s.DueJobs(10_000)) != 0 {
		t.Errorf("Expected no repeat of a one-shot job")
	}
}

func TestSchedulerRepeatingJobReschedules(t *testing.T) {
	s := NewScheduler()
	s.Upsert(JobEffectTick, "global", 1000, 1000)

	if len(s.DueJobs(1000)) != 1 {
		t.Fatalf("Expected the first firing")
	}
	if !s.Has(JobEffectTick, "global") {
		t.Fatalf("Expected the repeating job re-pushed")
	}
	due := s.DueJobs(2000)
	if len(due) != 1 || due[0].FireAt != 2000 {
		t.Errorf("Expected the next firing at FireAt+Interval, got %+v", due)
	}
}

func TestSchedulerDueJobsOrdered(t *testing.T) {
	s := NewScheduler()
	s.Upsert(JobCampfireTick, "late", 3000, 0)
	s.Upsert(JobCampfireTick, "early", 1000, 0)
	s.Upsert(JobCampfireTick, "mid", 2000, 0)

	due := s.DueJobs(5000)
	if len(due) != 3 {
		t.Fatalf("Expected all three due, got %d", len(due))
	}
	if due[0].Key != "early" || due[1].Key != "mid" || due[2].Key != "late" {
		t.Errorf("Expected jobs popped in FireAt order, got %s, %s, %s", due[0].Key, due[1].Key, due[2].Key)
	}
}

func TestSchedulerDelete(t *testing.T) {
	s := NewScheduler()
	s.Upsert(JobBrothPotTick, "pot-1", 1000, 1000)
	s.Delete(JobBrothPotTick, "pot-1")

	if s.Has(JobBrothPotTick, "pot-1") {
		t.Errorf("Expected the job gone after Delete")
	}
	if len(s.DueJobs(10_000)) != 0 {
		t.Errorf("Expected a deleted job never to fire")
	}
	// Deleting a job that does not exist is a no-op.
	s.Delete(JobBrothPotTick, "pot-1")
}
