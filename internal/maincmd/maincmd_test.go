package maincmd_test

import (
	"bytes"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/mna/wisp/internal/filetest"
	"github.com/mna/wisp/internal/maincmd"
)

var testUpdateRunTests = flag.Bool("test.update-run-tests", false, "If set, replace expected run test results with actual results.")

func TestRunFiles(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".wisp") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

			if err := maincmd.RunFiles(stdio, filepath.Join(srcDir, fi.Name())); err != nil {
				t.Fatalf("unexpected error: %s (stderr: %s)", err, ebuf.String())
			}
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateRunTests)
		})
	}
}
