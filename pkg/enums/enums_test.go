package enums

import "testing"

func TestParseScheduleStatus(t *testing.T) {
	for _, raw := range []string{"pending", "apConfirmed", "confirmed", "completed", "cancelled"} {
		status, err := ParseScheduleStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if status.String() != raw {
			t.Fatalf("round trip mismatch for %q", raw)
		}
	}
	if _, err := ParseScheduleStatus("Confirmed"); err == nil {
		t.Fatal("status parsing must be case sensitive")
	}
}

func TestScheduleStatusBlocksAvailability(t *testing.T) {
	if !ScheduleStatusConfirmed.BlocksAvailability() {
		t.Fatal("confirmed bookings must block dates")
	}
	for _, s := range []ScheduleStatus{ScheduleStatusPending, ScheduleStatusAppointmentConfirmed, ScheduleStatusCompleted, ScheduleStatusCancelled} {
		if s.BlocksAvailability() {
			t.Fatalf("%s should not block dates", s)
		}
	}
}

func TestLineKindPriced(t *testing.T) {
	if !LineKindRental.Priced() || !LineKindPurchase.Priced() {
		t.Fatal("rental and purchase lines are priced")
	}
	if LineKindQuote.Priced() {
		t.Fatal("quote lines are never priced")
	}
	if _, err := ParseLineKind("gift"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseSiteImagePlacement(t *testing.T) {
	if p, err := ParseSiteImagePlacement("about"); err != nil || p != PlacementAbout {
		t.Fatalf("unexpected result %q %v", p, err)
	}
	if PlacementBanner.IsValid() == false {
		t.Fatal("banner should be valid")
	}
	if SiteImagePlacement("footer").IsValid() {
		t.Fatal("footer is not a placement")
	}
}

func TestParseOutboxDLQErrorReason(t *testing.T) {
	reason, err := ParseOutboxDLQErrorReason("max_attempts")
	if err != nil || reason != OutboxDLQReasonMaxAttempts {
		t.Fatalf("expected max_attempts, got %q (%v)", reason, err)
	}
	if _, err := ParseOutboxDLQErrorReason("timeout"); err == nil {
		t.Fatal("expected error for unknown reason")
	}
	if OutboxDLQErrorReason("").IsValid() {
		t.Fatal("empty reason must be invalid")
	}
}
