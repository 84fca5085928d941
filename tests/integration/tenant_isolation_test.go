package integration

import (
	"net/http"
	"testing"

	"github.com/derbent/backend/internal/application/project"
	"github.com/derbent/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantIsolation(t *testing.T) {
	s := NewTestServer(t)
	otherID := s.Seed(t, "HARBOUR")
	require.NotEqual(t, s.CompanyID, otherID)

	derbent, _ := s.Login(t, companyCode, "admin", adminPassword)
	harbour, _ := s.Login(t, "HARBOUR", "admin", adminPassword)

	res := derbent.Do(t, http.MethodGet, "/api/v1/projects", nil)
	testutil.RequireStatus(t, res, http.StatusOK)
	projects := testutil.Decode[[]project.ProjectResponse](t, res)
	require.Len(t, projects, 1)
	hcr := projects[0]

	t.Run("foreign project is not found", func(t *testing.T) {
		res := harbour.Do(t, http.MethodGet, "/api/v1/projects/"+hcr.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, res.Code, "body: %s", res.Body)
	})

	t.Run("foreign project cannot be changed", func(t *testing.T) {
		res := harbour.Do(t, http.MethodPut, "/api/v1/projects/"+hcr.ID.String(), map[string]any{
			"name": "Hijacked",
		})
		assert.Equal(t, http.StatusNotFound, res.Code, "body: %s", res.Body)

		res = derbent.Do(t, http.MethodGet, "/api/v1/projects/"+hcr.ID.String(), nil)
		testutil.RequireStatus(t, res, http.StatusOK)
		assert.Equal(t, hcr.Name, testutil.Decode[project.ProjectResponse](t, res).Name)
	})

	t.Run("listings only show own items", func(t *testing.T) {
		res := harbour.Do(t, http.MethodGet, "/api/v1/activities?project_id="+hcr.ID.String(), nil)
		require.Less(t, res.Code, 500)
		if res.Code == http.StatusOK {
			require.NotNil(t, res.Envelope.Meta)
			assert.Zero(t, res.Envelope.Meta.Total)
		}

		res = harbour.Do(t, http.MethodGet, "/api/v1/projects", nil)
		testutil.RequireStatus(t, res, http.StatusOK)
		own := testutil.Decode[[]project.ProjectResponse](t, res)
		require.Len(t, own, 1)
		assert.NotEqual(t, hcr.ID, own[0].ID)
	})

	t.Run("comments need an own record", func(t *testing.T) {
		body := map[string]any{"entity_type": "project", "entity_id": hcr.ID, "text": "Looks good"}
		res := harbour.Do(t, http.MethodPost, "/api/v1/comments", body)
		assert.Equal(t, http.StatusNotFound, res.Code, "body: %s", res.Body)

		res = derbent.Do(t, http.MethodPost, "/api/v1/comments", body)
		assert.Equal(t, http.StatusCreated, res.Code, "body: %s", res.Body)
	})

	t.Run("same username logs into its own company", func(t *testing.T) {
		_, login := s.Login(t, "HARBOUR", "ckim", "member-pass-123")
		assert.Equal(t, otherID, login.User.TenantID)
	})
}
