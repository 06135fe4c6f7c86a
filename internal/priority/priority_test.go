package priority

import "testing"

func TestCurrentRoundtrips(t *testing.T) {
	if _, err := Current(); err != nil {
		t.Fatalf("Current: %v", err)
	}
}
