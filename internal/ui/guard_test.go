package ui

import (
	"testing"

	"github.com/google/uuid"

	"github.com/halvden/adminboard/internal/client"
	"github.com/halvden/adminboard/internal/session"
)

func TestResolveRoute(t *testing.T) {
	user := &client.AuthUser{ID: uuid.New(), Email: "a@b.com", Role: client.RoleUser}

	cases := []struct {
		name string
		snap session.Snapshot
		want Route
	}{
		{"no credential", session.Snapshot{}, RouteLogin},
		{"startup fetch outstanding", session.Snapshot{Token: "tok123", Loading: true}, RouteLoading},
		{"credential without profile", session.Snapshot{Token: "tok123"}, RouteLogin},
		{"profile without credential", session.Snapshot{User: user}, RouteLogin},
		{"signed in", session.Snapshot{Token: "tok123", User: user}, RouteProtected},
		{"loading wins over signed in", session.Snapshot{Token: "tok123", User: user, Loading: true}, RouteLoading},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveRoute(tc.snap); got != tc.want {
				t.Errorf("resolveRoute(%+v) = %v, want %v", tc.snap, got, tc.want)
			}
		})
	}
}
