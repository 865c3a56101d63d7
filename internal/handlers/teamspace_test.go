package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/storyreel/storyreel-api/internal/dto"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestTeamspaceHandler_List(t *testing.T) {
	env := setupAccessTestEnv(t)

	w := env.get(t, env.editor, "/api/teamspaces")
	require.Equal(t, http.StatusOK, w.Code)

	var listing []dto.TeamspaceWithRoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	require.Equal(t, "studio", listing[0].Slug)
	require.Equal(t, models.TeamspaceRoleEditor, listing[0].Role)

	// A user with no memberships sees an empty listing, not an error.
	empty := env.get(t, env.outsider, "/api/teamspaces")
	require.Equal(t, http.StatusOK, empty.Code)

	var none []dto.TeamspaceWithRoleDTO
	require.NoError(t, json.Unmarshal(empty.Body.Bytes(), &none))
	require.Empty(t, none)
}

func TestTeamspaceHandler_Create(t *testing.T) {
	env := setupAccessTestEnv(t)

	w := env.do(t, env.outsider, http.MethodPost, "/api/teamspaces", map[string]string{
		"name": "Second Studio",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.TeamspaceDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "second-studio", created.Slug)

	// The creator owns the new teamspace and it carries a default project.
	var membership models.TeamspaceUser
	require.NoError(t, env.db.Where("teamspace_id = ? AND user_id = ?", created.ID, env.outsider.ID).First(&membership).Error)
	require.Equal(t, models.TeamspaceRoleOwner, membership.Role)

	var project models.Project
	require.NoError(t, env.db.Where("teamspace_id = ?", created.ID).First(&project).Error)
	require.Equal(t, "general", project.Slug)
}

func TestTeamspaceHandler_CreateSlugConflict(t *testing.T) {
	env := setupAccessTestEnv(t)

	w := env.do(t, env.outsider, http.MethodPost, "/api/teamspaces", map[string]string{
		"name": "Whatever",
		"slug": "studio",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTeamspaceHandler_Get(t *testing.T) {
	env := setupAccessTestEnv(t)

	w := env.get(t, env.owner, "/api/teamspaces/studio")
	require.Equal(t, http.StatusOK, w.Code)

	var detail dto.TeamspaceDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Equal(t, "studio", detail.Slug)
	require.Equal(t, models.TeamspaceRoleOwner, detail.YourRole)
	require.Len(t, detail.Members, 2)
}
