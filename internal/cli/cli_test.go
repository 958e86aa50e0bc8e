package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeJSONFixture(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"run", "verify", "demo"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestDemo_TextGolden(t *testing.T) {
	out, err := execute(t, "", "demo")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "demo_text", []byte(out))
}

func TestDemo_ClosingTimestampChangesWinner(t *testing.T) {
	out, err := execute(t, "", "demo", "--closing-timestamp", "2025-01-01T10:06:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Winner:            user-3 (ticket 3, index 2)")
}

func TestRun_JSONFromStdin(t *testing.T) {
	input, err := json.Marshal(DemoInput(defaultDemoClosing))
	require.NoError(t, err)

	out, err := execute(t, string(input), "run", "--input", "-", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			WinnerParticipantID string `json:"winner_participant_id"`
			ResultHash          string `json:"result_hash"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "user-1", resp.Data.WinnerParticipantID)
	assert.Equal(t, "5b36e6b2ee7d2c03dbdc4451b6b96689403de502673592a7f4b50b4e138928f2", resp.Data.ResultHash)
}

func TestRun_InvalidInputExitCode(t *testing.T) {
	_, err := execute(t, `{"session_id":"s"}`, "run", "--input", "-")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "", "run", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeJSONFixture(t, dir, "input.json", DemoInput(defaultDemoClosing))

	resultJSON, err := execute(t, "", "run", "--input", inputPath, "--format", "json")
	require.NoError(t, err)
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON), &envelope))
	resultPath := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(resultPath, envelope.Data, 0o600))

	out, err := execute(t, "", "verify", "--input", inputPath, "--result", resultPath)
	require.NoError(t, err)
	assert.Contains(t, out, "VALID: user-1 won session demo-session-1")

	tampered := strings.Replace(string(envelope.Data), `"winner_participant_id": "user-1"`, `"winner_participant_id": "user-3"`, 1)
	require.NotEqual(t, string(envelope.Data), tampered)
	require.NoError(t, os.WriteFile(resultPath, []byte(tampered), 0o600))

	out, err = execute(t, "", "verify", "--input", inputPath, "--result", resultPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "MISMATCH: winner_participant_id")
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "", "demo", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
