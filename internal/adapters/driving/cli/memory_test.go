package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCmd_Use(t *testing.T) {
	assert.Equal(t, "memory", memoryCmd.Use)
	assert.Equal(t, "stats", memoryStatsCmd.Use)
	assert.Equal(t, "prune", memoryPruneCmd.Use)
	assert.Equal(t, "clear", memoryClearCmd.Use)
}

func TestMemoryStatsCmd_PrintsCounts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"memory", "stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "6 turns across 2 users")
	assert.Contains(t, buf.String(), "alice")
}

func TestMemoryPruneCmd_PassesPolicy(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := memoryService.(*mockMemoryAdmin)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"memory", "prune", "-u", "alice", "--max-turns", "10", "--max-age", "720h"})
	defer func() {
		rootCmd.SetArgs(nil)
		memoryPruneUser = ""
		memoryPruneMaxTurns = 0
		memoryPruneMaxAge = 0
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "alice", mock.lastPolicy.UserID)
	assert.Equal(t, 10, mock.lastPolicy.MaxTurns)
	assert.Equal(t, 720*time.Hour, mock.lastPolicy.MaxAge)
	assert.Contains(t, buf.String(), "Pruned 4 turns.")
}

func TestMemoryClearCmd_RequiresTarget(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"memory", "clear"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--user or --all")
}

func TestMemoryClearCmd_SingleUser(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"memory", "clear", "-u", "alice"})
	defer func() {
		rootCmd.SetArgs(nil)
		memoryClearUser = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Removed 2 turns.")
}

func TestMemoryClearCmd_AllUsers(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"memory", "clear", "--all"})
	defer func() {
		rootCmd.SetArgs(nil)
		memoryClearAll = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Removed 7 turns.")
}

func TestMemoryClearCmd_UserAndAllConflict(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"memory", "clear", "-u", "alice", "--all"})
	defer func() {
		rootCmd.SetArgs(nil)
		memoryClearUser = ""
		memoryClearAll = false
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
