package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestLoadBuiltinDefaults(t *testing.T) {
	// point the lookup at an empty directory
	wd, err := os.Getwd()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, os.Chdir(t.TempDir()), test.ShouldBeNil)
	defer func() {
		test.That(t, os.Chdir(wd), test.ShouldBeNil)
	}()

	cfg, err := Load("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Capture.OutDir, test.ShouldEqual, "outdir")
	test.That(t, cfg.Capture.ConfidenceThreshold, test.ShouldEqual, 100.0)
	test.That(t, cfg.View.WaitSec, test.ShouldEqual, 1.0)
	test.That(t, cfg.View.VMax, test.ShouldEqual, 5000.0)
	test.That(t, cfg.View.Palette, test.ShouldEqual, "jet")
}

func TestLoadOverrides(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "zedview.yml")
	body := `
capture:
  outdir: /data/captures
  resolution: HD720
view:
  vmax: 8000
  palette: inferno
`
	test.That(t, os.WriteFile(fn, []byte(body), 0o644), test.ShouldBeNil)

	cfg, err := Load(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Capture.OutDir, test.ShouldEqual, "/data/captures")
	test.That(t, cfg.Capture.Resolution, test.ShouldEqual, "HD720")
	// untouched values keep their defaults
	test.That(t, cfg.Capture.ConfidenceThreshold, test.ShouldEqual, 100.0)
	test.That(t, cfg.View.VMax, test.ShouldEqual, 8000.0)
	test.That(t, cfg.View.VMin, test.ShouldEqual, 0.0)
	test.That(t, cfg.View.Palette, test.ShouldEqual, "inferno")
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadMalformed(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "zedview.yml")
	test.That(t, os.WriteFile(fn, []byte("capture: ["), 0o644), test.ShouldBeNil)

	_, err := Load(fn)
	test.That(t, err, test.ShouldNotBeNil)
}
