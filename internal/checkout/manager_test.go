package checkout

import (
	"testing"
	"time"
)

func TestManagerLifecycle(t *testing.T) {
	mgr := NewManager()

	machine := NewMachine(Params{
		Entry:    EntryContext{Mode: ModeCampaign, CampaignID: "camp_water"},
		DonorKey: "donor_1",
	})
	id := mgr.Put(machine)
	if id == "" {
		t.Fatal("Put() returned an empty session ID")
	}

	got, err := mgr.Get(id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != machine {
		t.Error("Get() returned a different machine")
	}

	if _, err := mgr.Get("unknown"); err != ErrSessionNotFound {
		t.Errorf("Get(unknown) error = %v, want ErrSessionNotFound", err)
	}

	mgr.Delete(id)
	if _, err := mgr.Get(id); err != ErrSessionNotFound {
		t.Errorf("Get() after Delete() error = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerExpireIdle(t *testing.T) {
	mgr := NewManager()
	current := time.Now().UTC()
	mgr.now = func() time.Time { return current }

	machine := NewMachine(Params{
		Entry:    EntryContext{Mode: ModeCampaign, CampaignID: "camp_water"},
		DonorKey: "donor_1",
	})
	oldID := mgr.Put(machine)

	current = current.Add(30 * time.Minute)
	freshID := mgr.Put(NewMachine(Params{
		Entry:    EntryContext{Mode: ModeCampaign, CampaignID: "camp_water"},
		DonorKey: "donor_2",
	}))

	current = current.Add(20 * time.Minute)
	removed := mgr.ExpireIdle(45 * time.Minute)
	if removed != 1 {
		t.Fatalf("ExpireIdle() removed %d sessions, want 1", removed)
	}

	if _, err := mgr.Get(oldID); err != ErrSessionNotFound {
		t.Error("idle session should have been expired")
	}
	if _, err := mgr.Get(freshID); err != nil {
		t.Errorf("fresh session should survive, got error: %v", err)
	}
}

func TestManagerGetRefreshesIdleTimer(t *testing.T) {
	mgr := NewManager()
	current := time.Now().UTC()
	mgr.now = func() time.Time { return current }

	id := mgr.Put(NewMachine(Params{
		Entry:    EntryContext{Mode: ModeCampaign, CampaignID: "camp_water"},
		DonorKey: "donor_1",
	}))

	current = current.Add(40 * time.Minute)
	if _, err := mgr.Get(id); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	current = current.Add(40 * time.Minute)
	if removed := mgr.ExpireIdle(45 * time.Minute); removed != 0 {
		t.Errorf("touched session expired, removed = %d", removed)
	}
	if mgr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", mgr.Len())
	}
}
