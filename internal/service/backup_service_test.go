package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackupService(env *testEnv) *BackupService {
	return NewBackupService(env.db, env.userRepo, env.gameRepo, env.scoreRepo)
}

func TestBackupRoundTrip(t *testing.T) {
	src := newTestEnv(t)
	ctx := context.Background()

	won := setupGame(t, src, 2, 3, 5)
	_, err := src.games.GuessWord(ctx, won, "cat")
	require.NoError(t, err)
	active := setupGame(t, src, 3, 4, 6)
	_, err = src.games.GuessLetter(ctx, active, "e")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, newBackupService(src).Export(ctx, path))

	dst := newTestEnv(t)
	require.NoError(t, newBackupService(dst).Import(ctx, path))

	user, err := dst.users.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	restored, err := dst.games.GetGame(ctx, active)
	require.NoError(t, err)
	original, err := src.games.GetGame(ctx, active)
	require.NoError(t, err)
	assert.Equal(t, original.GuessState, restored.GuessState)
	assert.Equal(t, original.GuessHistory, restored.GuessHistory)
	assert.Equal(t, original.AttemptsRemaining, restored.AttemptsRemaining)

	scores, err := dst.scores.ListUserScores(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.True(t, scores[0].Won)

	// Play continues on the restored copy
	_, err = dst.games.GuessLetter(ctx, active, "z")
	require.NoError(t, err)

	// New users get fresh ids after the restored ones
	_, err = dst.users.CreateUser(ctx, "newcomer", "")
	require.NoError(t, err)
}

func TestImportIntoPopulatedDatabaseFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	setupGame(t, env, 2, 3, 5)

	var buf bytes.Buffer
	require.NoError(t, newBackupService(env).ExportToWriter(ctx, &buf))

	err := newBackupService(env).ImportFromReader(ctx, &buf)
	assert.Error(t, err)

	games, err := env.games.ListUserGames(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestImportRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		backup  BackupData
		wantErr string
	}{
		{
			name:    "wrong version",
			backup:  BackupData{Version: "0.1"},
			wantErr: "unsupported backup version",
		},
		{
			name: "guess state length mismatch",
			backup: BackupData{
				Version: BackupVersion,
				Users:   []UserBackup{{ID: 1, Name: "alice"}},
				Games:   []GameBackup{{ID: "g1", UserID: 1, Target: "cat", GuessState: "__", AttemptsBudget: 5, AttemptsRemaining: 5, Version: 1}},
			},
			wantErr: "guess state length",
		},
		{
			name: "attempts out of range",
			backup: BackupData{
				Version: BackupVersion,
				Users:   []UserBackup{{ID: 1, Name: "alice"}},
				Games:   []GameBackup{{ID: "g1", UserID: 1, Target: "cat", GuessState: "___", AttemptsBudget: 5, AttemptsRemaining: 9, Version: 1}},
			},
			wantErr: "attempts remaining",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.backup)
			require.NoError(t, err)
			err = newBackupService(env).ImportFromReader(ctx, bytes.NewReader(data))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	err := newBackupService(env).ImportFromReader(ctx, strings.NewReader("{not json"))
	assert.ErrorContains(t, err, "failed to decode backup")
}
