package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(3)
	r.Update(1, Step{Kind: KindListing, Name: "all", Path: "index.html"})
	r.Update(2, Step{Kind: KindPost, Name: "a", Path: "p/a.html"})
	r.Update(3, Step{Kind: KindPost, Name: "gone", Path: "p/gone.html", Missing: true})
	r.Finish()

	out := buf.String()
	for _, want := range []string{
		"Building 3 pages",
		"[1/3] listing all -> index.html",
		"[2/3] post a -> p/a.html",
		"[3/3] post gone (body missing) -> p/gone.html",
		"Site build complete: 1 listing(s), 2 post(s), 1 missing body",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStepString(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{Step{Kind: KindListing, Name: "dev"}, "listing dev"},
		{Step{Kind: KindPost, Name: "a"}, "post a"},
		{Step{Kind: KindPost, Name: "a", Missing: true}, "post a (body missing)"},
	}
	for _, tt := range tests {
		if got := tt.step.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Errorf("expected CIReporter when CI is set")
	}
}
