package media

import (
	"path/filepath"
	"testing"

	"bilicrawl/internal/model"
)

func TestNames(t *testing.T) {
	title := `Ep 1: "Start"/Intro?`
	if got, want := StreamFileName(title, model.KindVideo), `Ep 1   Start  Intro _video.m4s`; got != want {
		t.Errorf("StreamFileName video = %q, want %q", got, want)
	}
	if got, want := StreamFileName(title, model.KindAudio), `Ep 1   Start  Intro _audio.m4s`; got != want {
		t.Errorf("StreamFileName audio = %q, want %q", got, want)
	}
	if got, want := OutputFileName(title), `Ep 1   Start  Intro .mp4`; got != want {
		t.Errorf("OutputFileName = %q, want %q", got, want)
	}
}

func TestPathsStayInsideDir(t *testing.T) {
	dir := t.TempDir()
	p := StreamPath(dir, "../../etc/passwd", model.KindVideo)
	if filepath.Dir(p) != dir {
		t.Errorf("StreamPath escaped dir: %q", p)
	}
	o := OutputPath(dir, "a/b")
	if filepath.Dir(o) != dir {
		t.Errorf("OutputPath escaped dir: %q", o)
	}
}
