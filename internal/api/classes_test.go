package api_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wannazaw/classroom-client/internal/api"
	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/transport"
)

func TestCreateAndListClasses(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	teacher := e.signUpAndLogin(t, "Tanya", "tanya@x.com", "secret1")

	created, err := e.client.Classes.Create(ctx, api.CreateClassRequest{
		UserID:  teacher.User.ID,
		Name:    "Algebra 101",
		Section: "A",
		Subject: "Math",
		Room:    "204",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.ClassCode)

	classes, err := e.client.Classes.ListByUser(ctx, teacher.User.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Algebra 101", classes[0].Name)
	assert.Equal(t, model.RoleTeacher, classes[0].Role)
	assert.False(t, classes[0].IsDeleted)
}

func TestArchiveAndRestoreClass(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	teacher := e.signUpAndLogin(t, "Tanya", "tanya@x.com", "secret1")

	created, err := e.client.Classes.Create(ctx, api.CreateClassRequest{UserID: teacher.User.ID, Name: "History"})
	require.NoError(t, err)

	require.NoError(t, e.client.Classes.Archive(ctx, created.ID))

	classes, err := e.client.Classes.ListByUser(ctx, teacher.User.ID)
	require.NoError(t, err)
	active, archived := model.PartitionByArchived(classes)
	assert.Empty(t, active)
	require.Len(t, archived, 1)
	assert.Equal(t, created.ID, archived[0].ID)

	require.NoError(t, e.client.Classes.Restore(ctx, created.ID))

	classes, err = e.client.Classes.ListByUser(ctx, teacher.User.ID)
	require.NoError(t, err)
	active, archived = model.PartitionByArchived(classes)
	require.Len(t, active, 1)
	assert.Empty(t, archived)
}

func TestEnrollByClassCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	teacher := e.signUpAndLogin(t, "Tanya", "tanya@x.com", "secret1")
	created, err := e.client.Classes.Create(ctx, api.CreateClassRequest{UserID: teacher.User.ID, Name: "Physics"})
	require.NoError(t, err)

	student := e.signUpAndLogin(t, "Sam", "sam@x.com", "secret1")
	res, err := e.client.Classes.Enroll(ctx, created.ClassCode, student.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Enrolled successfully", res.Message)

	classes, err := e.client.Classes.ListByUser(ctx, student.User.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, created.ID, classes[0].ID)
	assert.Equal(t, model.RoleStudent, classes[0].Role)

	// joining twice is a conflict
	_, err = e.client.Classes.Enroll(ctx, created.ClassCode, student.User.ID)
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Already enrolled in this class", apiErr.Message)
}

func TestEnrollRejectsMalformedCodeLocally(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Not signed in: a request that reached the server would come back as
	// unauthorized. The malformed codes never get that far.
	for _, code := range []string{"", "ab", "with space", "waytoolongcode", "abc-12"} {
		_, err := e.client.Classes.Enroll(ctx, code, 1)
		assert.ErrorIs(t, err, api.ErrInvalidClassCode, "code %q", code)
	}

	// an unknown but well-formed code does reach the server
	_, err := e.client.Classes.Enroll(ctx, "ABC123", 1)
	assert.ErrorIs(t, err, transport.ErrUnauthorized)
}

func TestEnrollArchivedClass(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	teacher := e.signUpAndLogin(t, "Tanya", "tanya@x.com", "secret1")
	created, err := e.client.Classes.Create(ctx, api.CreateClassRequest{UserID: teacher.User.ID, Name: "Biology"})
	require.NoError(t, err)
	require.NoError(t, e.client.Classes.Archive(ctx, created.ID))

	student := e.signUpAndLogin(t, "Sam", "sam@x.com", "secret1")
	_, err = e.client.Classes.Enroll(ctx, created.ClassCode, student.User.ID)
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Cannot join an archived class", apiErr.Message)
}

func TestParticipantsAndUnenroll(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	teacher := e.signUpAndLogin(t, "Tanya", "tanya@x.com", "secret1")
	created, err := e.client.Classes.Create(ctx, api.CreateClassRequest{UserID: teacher.User.ID, Name: "Chemistry"})
	require.NoError(t, err)

	student := e.signUpAndLogin(t, "Sam", "sam@x.com", "secret1")
	_, err = e.client.Classes.Enroll(ctx, created.ClassCode, student.User.ID)
	require.NoError(t, err)

	roster, err := e.client.Classes.Participants(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, model.RoleTeacher, roster[0].Role)
	assert.Equal(t, "Tanya", roster[0].Name)
	assert.Equal(t, model.RoleStudent, roster[1].Role)
	assert.Equal(t, "Sam", roster[1].Name)

	// back to the owner to manage the roster
	_, err = e.client.Auth.Login(ctx, api.LoginRequest{Email: "tanya@x.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, e.client.Classes.Unenroll(ctx, created.ID, student.User.ID))

	roster, err = e.client.Classes.Participants(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, teacher.User.ID, roster[0].UserID)

	// the owner cannot be removed from their own class
	err = e.client.Classes.Unenroll(ctx, created.ID, teacher.User.ID)
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "The class owner cannot be removed", apiErr.Message)
}

func TestUpdateClassByNonOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	teacher := e.signUpAndLogin(t, "Tanya", "tanya@x.com", "secret1")
	created, err := e.client.Classes.Create(ctx, api.CreateClassRequest{UserID: teacher.User.ID, Name: "Geometry"})
	require.NoError(t, err)

	student := e.signUpAndLogin(t, "Sam", "sam@x.com", "secret1")
	_, err = e.client.Classes.Enroll(ctx, created.ClassCode, student.User.ID)
	require.NoError(t, err)

	_, err = e.client.Classes.Update(ctx, created.ID, api.UpdateClassRequest{Name: "Hijacked"})
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
	assert.Equal(t, "Only the class owner can update a class", apiErr.Message)
}
