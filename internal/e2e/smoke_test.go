package e2e

import (
	"bytes"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/yolka/internal/testutil"
)

func TestSmokeFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	fixture := testutil.WriteFixture(t, 12)
	binaryPath := buildBinary(t)

	stdout, stderr, err := runYolka(t, binaryPath, fixture.ConfigPath, "pages", "--picked", "k01")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "picked: Name 01")

	out := filepath.Join(t.TempDir(), "tree.png")
	_, stderr, err = runYolka(t, binaryPath, fixture.ConfigPath,
		"render", "--quiet", "--out", out,
		"k01", "k02", "k03", "k04", "k05", "k06", "k07",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "yolka-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/yolka")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build yolka binary: %s", string(output))
	return binaryPath
}

func runYolka(t *testing.T, binaryPath, configPath string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "YOLKA_CONFIG="+configPath)

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
