package util_test

import (
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-test-only-secret-long-enough-for-hs256"

func testUser() *model.User {
	return &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Email:     "learner@example.com",
		Role:      model.Student,
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := util.GenerateJWT(testUser(), testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, "learner@example.com", claims.Email)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := util.GenerateJWT(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = util.ParseJWT(token, "a-different-secret-entirely-wrong-here")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	token, err := util.GenerateJWT(testUser(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = util.ParseJWT(token, testSecret)
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := util.ParseJWT("not.a.token", testSecret)
	assert.Error(t, err)
}
