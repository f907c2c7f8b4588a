package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixture is a throwaway bot installation: a catalog, an asset directory and
// a config.toml pointing at both.
type Fixture struct {
	Dir        string
	ConfigPath string
	AssetsDir  string
}

// WriteFixture creates a fixture with candidates k01..kNN named "Name NN".
// Every candidate gets a solid ornament image.
func WriteFixture(t *testing.T, candidates int) Fixture {
	t.Helper()

	dir := t.TempDir()
	assetsDir := filepath.Join(dir, "img")
	require.NoError(t, os.MkdirAll(assetsDir, 0o755))

	var catalog strings.Builder
	catalog.WriteString("version = 1\n")
	for i := 1; i <= candidates; i++ {
		fmt.Fprintf(&catalog, "\n[[candidates]]\nid = \"k%02d\"\nname = \"Name %02d\"\n", i, i)
		writeSolidPNG(t, filepath.Join(assetsDir, fmt.Sprintf("k%02d.png", i)), 32, 24, color.RGBA{R: uint8(i * 10), B: 200, A: 255})
	}
	catalogPath := filepath.Join(dir, "candidates.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalog.String()), 0o644))

	writeSolidPNG(t, filepath.Join(assetsDir, "tree.png"), 256, 400, color.RGBA{G: 140, A: 255})
	writeSolidPNG(t, filepath.Join(assetsDir, "final_santa.png"), 40, 40, color.RGBA{R: 220, A: 255})
	writeSolidPNG(t, filepath.Join(assetsDir, "santa.png"), 16, 16, color.RGBA{R: 255, G: 255, A: 255})
	writeSolidPNG(t, filepath.Join(assetsDir, "processing.png"), 16, 16, color.RGBA{B: 255, A: 255})

	configPath := filepath.Join(dir, "config.toml")
	config := fmt.Sprintf(`[catalog]
path = %q

[assets]
dir = %q

[session]
store = "sqlite"
sqlite_path = %q

[log]
level = "error"
format = "text"
`, catalogPath, assetsDir, filepath.Join(dir, "yolka.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	return Fixture{Dir: dir, ConfigPath: configPath, AssetsDir: assetsDir}
}

func writeSolidPNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()
	require.NoError(t, png.Encode(f, img))
}
