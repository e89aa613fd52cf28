package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runChat(t, binaryPath, home,
		"login",
		"--id", "user-1",
		"--email", "u@example.com",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runChat(t, binaryPath, home, "whoami")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "id: user-1")

	stdout, stderr, err = runChat(t, binaryPath, home, "list")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "sessions: 1")
	assert.Contains(t, stdout, "New Chat")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "chat-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/chat")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build chat binary: %s", string(output))
	return binaryPath
}

func runChat(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "CHAT_APP_HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
