package booking

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
)

func TestListBookings_ForUserResolvesServiceNames(t *testing.T) {
	repo, _, create := newCreateFixture()

	in := salonInput(at(monday, 9))
	in.ServiceIDs = []uint{serviceS1, serviceS2}
	if _, err := create.Execute(context.Background(), in); err != nil {
		t.Fatalf("create: %v", err)
	}

	uc := NewListBookings(repo, time.UTC)
	got, err := uc.ForUser(context.Background(), userU)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(got))
	}
	if got[0].Slot != "09:00" {
		t.Fatalf("expected slot 09:00, got %q", got[0].Slot)
	}
	if len(got[0].Services) != 2 || got[0].Services[0] != "Cut" || got[0].Services[1] != "Colour" {
		t.Fatalf("unexpected services %v", got[0].Services)
	}
}

func TestListBookings_ForStylistDay(t *testing.T) {
	repo, _, create := newCreateFixture()

	for _, h := range []int{9, 15} {
		if _, err := create.Execute(context.Background(), salonInput(at(monday, h))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := create.Execute(context.Background(), salonInput(at("2025-01-07", 9))); err != nil {
		t.Fatalf("create: %v", err)
	}

	uc := NewListBookings(repo, time.UTC)
	got, err := uc.ForStylistDay(context.Background(), stylistX, monday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 monday bookings, got %d", len(got))
	}

	if _, err := uc.ForStylistDay(context.Background(), stylistX, "monday"); !httperr.IsBusiness(err, domain.CodeInvalidRequest) {
		t.Fatalf("expected invalid_request, got %v", err)
	}
}

func TestListBookings_ForPeriodValidation(t *testing.T) {
	repo, _, _ := newCreateFixture()
	uc := NewListBookings(repo, time.UTC)

	cases := [][3]string{
		{"2025-01-07", "2025-01-06", ""},
		{"bad", "2025-01-06", ""},
		{"2025-01-06", "2025-01-07", "archived"},
	}
	for _, c := range cases {
		if _, err := uc.ForPeriod(context.Background(), c[0], c[1], c[2]); !httperr.IsBusiness(err, domain.CodeInvalidRequest) {
			t.Fatalf("%v: expected invalid_request, got %v", c, err)
		}
	}

	if _, err := uc.ForPeriod(context.Background(), "2025-01-06", "2025-01-12", "pending"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
