package xmljson_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-xmljson"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

func TestGolden(t *testing.T) {
	cfg := xmljson.DefaultConfig()
	cfg.Pretty = true
	c, err := xmljson.New(cfg)
	require.NoError(t, err)

	var files []string
	for _, pattern := range []string{"testdata/*.xml", "testdata/*.json"} {
		matches, err := filepath.Glob(pattern)
		require.NoError(t, err)
		files = append(files, matches...)
	}
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			src, err := os.ReadFile(file)
			require.NoError(t, err)

			res := c.ConvertBytes(src)

			// Inputs that are expected to fail keep the error message in
			// their golden file.
			actual := res.Output
			if !res.Success {
				actual = res.Message()
			}

			goldenFile := strings.TrimSuffix(file, filepath.Ext(file)) + ".golden"
			if *update {
				err := os.WriteFile(goldenFile, []byte(actual+"\n"), 0o644)
				require.NoError(t, err)
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")

			// Golden files end with a newline; JSON output does not.
			require.Equal(t,
				strings.TrimSuffix(string(expected), "\n"),
				strings.TrimSuffix(actual, "\n"),
				"Conversion output does not match golden file.")
		})
	}
}
