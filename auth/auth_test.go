package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/yearbookbackend/apperrors"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"valid", "Bearer abc123", "abc123", true},
		{"lowercase scheme", "bearer abc123", "", false},
		{"leading space", "  Bearer abc123", "", false},
		{"extra space kept", "Bearer  abc123", " abc123", true},
		{"trailing space kept", "Bearer abc123 ", "abc123 ", true},
		{"empty header", "", "", false},
		{"scheme only", "Bearer", "", false},
		{"scheme with empty token", "Bearer ", "", false},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", false},
		{"no scheme", "abc123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBearer(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokensEqual(t *testing.T) {
	assert.True(t, TokensEqual("secret", "secret"))
	assert.False(t, TokensEqual("secret", "Secret"))
	assert.False(t, TokensEqual("secret", "secret "))
	assert.False(t, TokensEqual("secret", ""))
	assert.True(t, TokensEqual("", ""))
}

func TestAdminGuard_Authorize(t *testing.T) {
	t.Run("no secret configured never allows", func(t *testing.T) {
		g := NewAdminGuard("")
		assert.False(t, g.Configured())

		for _, header := range []string{"", "Bearer ", "Bearer anything"} {
			err := g.Authorize(header)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrServerMisconfigured), "header %q", header)
		}
	})

	g := NewAdminGuard("hunter2")
	tests := []struct {
		name     string
		header   string
		wantKind apperrors.Kind
		wantErr  bool
	}{
		{"missing header", "", apperrors.KindUnauthenticated, true},
		{"malformed header", "hunter2", apperrors.KindUnauthenticated, true},
		{"wrong scheme", "Token hunter2", apperrors.KindUnauthenticated, true},
		{"wrong secret", "Bearer hunter3", apperrors.KindForbidden, true},
		{"prefix of secret", "Bearer hunter", apperrors.KindForbidden, true},
		{"double space before secret", "Bearer  hunter2", apperrors.KindForbidden, true},
		{"trailing space after secret", "Bearer hunter2 ", apperrors.KindForbidden, true},
		{"correct secret", "Bearer hunter2", "", false},
	}

	t.Run("secret with surrounding space matches verbatim", func(t *testing.T) {
		spaced := NewAdminGuard(" hunter2 ")
		assert.NoError(t, spaced.Authorize("Bearer  hunter2 "))
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(spaced.Authorize("Bearer hunter2")))
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Authorize(tt.header)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
		})
	}
}

func TestMintEditToken(t *testing.T) {
	t.Run("entropy and encoding", func(t *testing.T) {
		token, err := MintEditToken(32)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("rejects short tokens", func(t *testing.T) {
		_, err := MintEditToken(MinEditTokenBytes - 1)
		assert.Error(t, err)
	})

	t.Run("no collisions", func(t *testing.T) {
		seen := make(map[string]struct{}, 5000)
		for i := 0; i < 5000; i++ {
			token, err := MintEditToken(MinEditTokenBytes)
			require.NoError(t, err)
			_, dup := seen[token]
			require.False(t, dup, "duplicate token after %d mints", i)
			seen[token] = struct{}{}
		}
	})
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsAdmin(ctx))
	_, ok := EditTokenFromContext(ctx)
	assert.False(t, ok)

	ctx = WithAdmin(ctx)
	assert.True(t, IsAdmin(ctx))

	ctx = WithEditToken(ctx, "tok")
	token, ok := EditTokenFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	_, ok = EditTokenFromContext(WithEditToken(context.Background(), ""))
	assert.False(t, ok)
}
