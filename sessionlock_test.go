package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockSession_WritesCurrentPID(t *testing.T) {
	t.Parallel()

	tokenPath := filepath.Join(t.TempDir(), "cookies.txt")

	release, err := lockSession(tokenPath)
	require.NoError(t, err)
	require.NotNil(t, release)

	defer release()

	data, err := os.ReadFile(tokenPath + ".lock")
	require.NoError(t, err)

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestLockSession_SecondLockFails(t *testing.T) {
	t.Parallel()

	tokenPath := filepath.Join(t.TempDir(), "cookies.txt")

	release1, err := lockSession(tokenPath)
	require.NoError(t, err)

	defer release1()

	release2, err := lockSession(tokenPath)
	require.Error(t, err)
	assert.Nil(t, release2)
	assert.Contains(t, err.Error(), "another nookvault process")
}

func TestLockSession_ReleaseRemovesFileAndAllowsRelock(t *testing.T) {
	t.Parallel()

	tokenPath := filepath.Join(t.TempDir(), "cookies.txt")

	release, err := lockSession(tokenPath)
	require.NoError(t, err)
	release()

	_, err = os.Stat(tokenPath + ".lock")
	assert.True(t, os.IsNotExist(err))

	release, err = lockSession(tokenPath)
	require.NoError(t, err)
	release()
}

func TestLockSession_EmptyPathReturnsError(t *testing.T) {
	t.Parallel()

	release, err := lockSession("")
	assert.Error(t, err)
	assert.Nil(t, release)
	assert.Contains(t, err.Error(), "empty")
}

func TestLockSession_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	tokenPath := filepath.Join(t.TempDir(), "nested", "dir", "cookies.txt")

	release, err := lockSession(tokenPath)
	require.NoError(t, err)

	defer release()

	info, err := os.Stat(filepath.Dir(tokenPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
