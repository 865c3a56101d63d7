package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storyreel/storyreel-api/internal/dto"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/stretchr/testify/require"
)

func (env accessTestEnv) createVideoAndDocument(t *testing.T) (uint64, dto.DocumentDTO) {
	t.Helper()

	w := env.do(t, env.owner, http.MethodPost, "/api/teamspaces/studio/projects/channel/videos", map[string]string{
		"title": "Episode 1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var video models.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &video))

	w = env.do(t, env.owner, http.MethodPost, "/api/teamspaces/studio/projects/channel/documents", map[string]interface{}{
		"video_id": video.ID,
		"title":    "Script",
		"content":  "first draft",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var doc dto.DocumentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Equal(t, 1, doc.Version)
	return video.ID, doc
}

func (env accessTestEnv) updateDocument(t *testing.T, docID uint64, expectedVersion int, content string) *httptest.ResponseRecorder {
	t.Helper()
	return env.do(t, env.owner, http.MethodPut,
		fmt.Sprintf("/api/teamspaces/studio/projects/channel/documents/%d", docID),
		map[string]interface{}{
			"expected_version": expectedVersion,
			"title":            "Script",
			"content":          content,
		})
}

func TestDocumentHandler_Update(t *testing.T) {
	env := setupAccessTestEnv(t)
	_, doc := env.createVideoAndDocument(t)

	w := env.updateDocument(t, doc.ID, 1, "second draft")
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.DocumentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, 2, updated.Version)
	require.Equal(t, "second draft", updated.Content)
}

func TestDocumentHandler_UpdateConflict(t *testing.T) {
	env := setupAccessTestEnv(t)
	_, doc := env.createVideoAndDocument(t)

	require.Equal(t, http.StatusOK, env.updateDocument(t, doc.ID, 1, "second draft").Code)

	// A stale expected_version yields CONFLICT carrying the server's current
	// state so the client can reconcile.
	w := env.updateDocument(t, doc.ID, 1, "conflicting draft")
	require.Equal(t, http.StatusConflict, w.Code)

	var response struct {
		Code    string                  `json:"code"`
		Details dto.DocumentConflictDTO `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "CONFLICT", response.Code)
	require.Equal(t, 2, response.Details.CurrentVersion)
	require.Equal(t, "second draft", response.Details.CurrentContent)
}

func TestDocumentHandler_RevisionsAndRestore(t *testing.T) {
	env := setupAccessTestEnv(t)
	_, doc := env.createVideoAndDocument(t)

	require.Equal(t, http.StatusOK, env.updateDocument(t, doc.ID, 1, "second draft").Code)
	require.Equal(t, http.StatusOK, env.updateDocument(t, doc.ID, 2, "third draft").Code)

	w := env.get(t, env.owner, fmt.Sprintf("/api/teamspaces/studio/projects/channel/documents/%d/revisions", doc.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Revisions []dto.RevisionDTO `json:"revisions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Revisions, 2)
	require.Equal(t, 2, listing.Revisions[0].Version)
	require.Equal(t, 1, listing.Revisions[1].Version)

	restore := env.do(t, env.owner, http.MethodPost,
		fmt.Sprintf("/api/teamspaces/studio/projects/channel/documents/%d/revisions/%d/restore", doc.ID, listing.Revisions[1].ID), nil)
	require.Equal(t, http.StatusOK, restore.Code)

	var restored dto.DocumentDTO
	require.NoError(t, json.Unmarshal(restore.Body.Bytes(), &restored))
	require.Equal(t, 4, restored.Version)
	require.Equal(t, "first draft", restored.Content)
}

func TestDocumentHandler_CreateRejectsForeignVideo(t *testing.T) {
	env := setupAccessTestEnv(t)

	// A video in another project reads as missing.
	otherProject := &models.Project{TeamspaceID: env.teamspace.ID, Name: "Other", Slug: "other"}
	require.NoError(t, env.db.Create(otherProject).Error)
	foreign := &models.Video{ProjectID: otherProject.ID, Title: "Foreign", Status: models.VideoStatusIdea, CreatorID: env.owner.ID}
	require.NoError(t, env.db.Create(foreign).Error)

	w := env.do(t, env.owner, http.MethodPost, "/api/teamspaces/studio/projects/channel/documents", map[string]interface{}{
		"video_id": foreign.ID,
		"title":    "Script",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}
