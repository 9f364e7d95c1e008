package names_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/utmget/pkg/utils/names"
)

func TestRandom(t *testing.T) {
	for i := 0; i < 32; i++ {
		name := names.Random()
		parts := strings.Split(name, "-")
		if len(parts) != 2 {
			t.Fatalf("expected <adjective>-<noun>, got %q", name)
		}
		if parts[0] == "" || parts[1] == "" {
			t.Fatalf("empty word in %q", name)
		}
		if name != strings.ToLower(name) {
			t.Errorf("expected lowercase name, got %q", name)
		}
	}
}
