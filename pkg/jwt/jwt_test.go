package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/commerce-invoicing/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "user_01", pkgjwt.ActorAdmin, "test", 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user_01", claims.UserID)
	assert.Equal(t, pkgjwt.ActorAdmin, claims.ActorType)
	assert.Equal(t, "test", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "user_01", pkgjwt.ActorAdmin, "test", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "user_01", pkgjwt.ActorAdmin, "test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "user_01", pkgjwt.ActorAdmin, "test", 5)
	assert.Error(t, err)
}
