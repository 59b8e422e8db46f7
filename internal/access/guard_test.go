package access

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
)

func TestEvaluate(t *testing.T) {
	staff := []models.Role{models.RoleAdmin, models.RoleTeamMember}

	tests := []struct {
		name      string
		principal Principal
		allowed   []models.Role
		want      Decision
	}{
		{
			name:      "signed out",
			principal: Principal{},
			allowed:   staff,
			want:      Decision{Outcome: Unauthorized, Reason: NotSignedIn},
		},
		{
			name:      "signed out beats unresolved",
			principal: Principal{SignedIn: false, Resolved: false},
			want:      Decision{Outcome: Unauthorized, Reason: NotSignedIn},
		},
		{
			name:      "role still loading",
			principal: Principal{SignedIn: true},
			allowed:   staff,
			want:      Decision{Outcome: Loading},
		},
		{
			name:      "any signed in user",
			principal: Principal{SignedIn: true, Resolved: true, Role: models.RoleClient},
			want:      Decision{Outcome: Authorized},
		},
		{
			name:      "allowed role",
			principal: Principal{SignedIn: true, Resolved: true, Role: models.RoleTeamMember},
			allowed:   staff,
			want:      Decision{Outcome: Authorized},
		},
		{
			name:      "client on staff page",
			principal: Principal{SignedIn: true, Resolved: true, Role: models.RoleClient},
			allowed:   staff,
			want:      Decision{Outcome: Unauthorized, Reason: RoleNotAllowed},
		},
		{
			name:      "team member on admin page",
			principal: Principal{SignedIn: true, Resolved: true, Role: models.RoleTeamMember},
			allowed:   []models.Role{models.RoleAdmin},
			want:      Decision{Outcome: Unauthorized, Reason: RoleNotAllowed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.principal, tt.allowed...)
			if got != tt.want {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
