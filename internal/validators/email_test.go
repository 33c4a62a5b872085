package validators

import (
	"context"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Salon.Example "); got != "ana@salon.example" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestIsEmailDomainValidRejectsMalformed(t *testing.T) {
	for _, email := range []string{"", "no-at-sign", "@salon.example", "ana@"} {
		if IsEmailDomainValid(context.Background(), email) {
			t.Fatalf("expected %q to be rejected", email)
		}
	}
}
