package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/storyreel/storyreel-api/internal/dto"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestInvitationHandler_CreateAndAccept(t *testing.T) {
	env := setupAccessTestEnv(t)

	w := env.do(t, env.owner, http.MethodPost, "/api/teamspaces/studio/invitations", map[string]string{
		"email": "invitee@example.com",
		"role":  "editor",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var invite struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invite))
	require.NotEmpty(t, invite.Token)

	// The token is never persisted; only its digest is.
	var count int64
	require.NoError(t, env.db.Model(&models.Invitation{}).Where("token_hash = ?", invite.Token).Count(&count).Error)
	require.Zero(t, count)

	accept := env.do(t, env.outsider, http.MethodPost, "/api/invitations/accept", map[string]string{
		"token":    invite.Token,
		"name":     "Invitee",
		"password": "a long and sturdy passphrase",
	})
	require.Equal(t, http.StatusOK, accept.Code)

	var user dto.UserDTO
	require.NoError(t, json.Unmarshal(accept.Body.Bytes(), &user))
	require.Equal(t, "invitee@example.com", user.Email)
	require.NotNil(t, sessionCookie(accept))

	// A second acceptance of the same token fails generically.
	again := env.do(t, env.outsider, http.MethodPost, "/api/invitations/accept", map[string]string{
		"token":    invite.Token,
		"name":     "Invitee",
		"password": "a long and sturdy passphrase",
	})
	require.Equal(t, http.StatusBadRequest, again.Code)
}

func TestInvitationHandler_CreateRequiresOwner(t *testing.T) {
	env := setupAccessTestEnv(t)

	w := env.do(t, env.editor, http.MethodPost, "/api/teamspaces/studio/invitations", map[string]string{
		"email": "invitee@example.com",
		"role":  "editor",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvitationHandler_CreateRecordsAudit(t *testing.T) {
	env := setupAccessTestEnv(t)

	w := env.do(t, env.owner, http.MethodPost, "/api/teamspaces/studio/invitations", map[string]string{
		"email": "invitee@example.com",
		"role":  "viewer",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	audit := env.get(t, env.owner, "/api/teamspaces/studio/audit-log")
	require.Equal(t, http.StatusOK, audit.Code)

	var listing struct {
		Entries []models.AuditLogEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(audit.Body.Bytes(), &listing))
	require.Len(t, listing.Entries, 1)
	require.Equal(t, "invitation.created", listing.Entries[0].Action)
	require.Equal(t, env.owner.ID, listing.Entries[0].ActorID)

	// The entry never carries the recipient address or the token.
	require.NotContains(t, listing.Entries[0].Detail, "invitee@example.com")
}

func TestInvitationHandler_AuditLogRequiresAdmin(t *testing.T) {
	env := setupAccessTestEnv(t)

	w := env.get(t, env.editor, "/api/teamspaces/studio/audit-log")
	require.Equal(t, http.StatusForbidden, w.Code)
}
