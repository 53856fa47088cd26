//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/olegsavin/taskboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testAccount holds the credentials of an account created through the API.
type testAccount struct {
	ID       string
	Email    string
	Name     string
	Password string
}

// createTestUser signs up a fresh account and returns its credentials.
func createTestUser(t *testing.T, client *testutil.Client, name string) testAccount {
	t.Helper()

	account := testAccount{
		Email:    testutil.RandomEmail(),
		Name:     name,
		Password: "password-" + testutil.RandomString(4),
	}

	resp, err := client.POST("/api/auth/signup", map[string]string{
		"email":    account.Email,
		"name":     account.Name,
		"password": account.Password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.UserID)

	account.ID = result.UserID
	return account
}

// promoteToAdmin elevates an account directly in the database. The API
// itself only lets existing admins change roles, so the first admin in a
// fresh database has to come from outside it.
func promoteToAdmin(t *testing.T, userID string) {
	t.Helper()

	tag, err := testDB.Exec(context.Background(),
		"UPDATE users SET role = 'admin' WHERE id = $1", userID)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

// loginAsAdmin creates a fresh account, promotes it and returns a client
// logged in as that admin.
func loginAsAdmin(t *testing.T) (*testutil.Client, testAccount) {
	t.Helper()

	client := newTestClient()
	account := createTestUser(t, client, "Admin "+testutil.RandomString(3))
	promoteToAdmin(t, account.ID)
	client.LoginAs(t, account.Email, account.Password)
	return client, account
}

// createTask creates a task through the API and returns its id.
func createTask(t *testing.T, client *testutil.Client, payload map[string]string) string {
	t.Helper()

	resp, err := client.POST("/api/tasks", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Message string `json:"message"`
		TaskID  string `json:"taskId"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.TaskID)
	return result.TaskID
}

// deleteTaskCleanup registers deletion of a task after the test.
func deleteTaskCleanup(t *testing.T, client *testutil.Client, taskID string) {
	t.Helper()
	t.Cleanup(func() {
		resp, err := client.DELETE("/api/tasks/" + taskID)
		if err == nil {
			_ = resp.Body.Close()
		}
	})
}
