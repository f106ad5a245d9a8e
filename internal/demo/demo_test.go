package demo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pavanmanishd/safemem"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestScenariosPass(t *testing.T) {
	for _, sc := range Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			tr := safemem.NewTracker(nil, 0)
			res := sc.Run(tr)
			if res.Scenario != sc.Name {
				t.Errorf("Scenario = %q, want %q", res.Scenario, sc.Name)
			}
			if !res.Passed() {
				for _, s := range res.Failures() {
					t.Errorf("step %q: want %s, got %s (%s)", s.Name, s.Want, s.Got, s.Detail)
				}
			}
			if !tr.Balanced() {
				t.Errorf("tracker not balanced: %+v", tr.Metrics())
			}
		})
	}
}

func TestScenariosShareTracker(t *testing.T) {
	tr := safemem.NewTracker(nil, 0)
	for _, sc := range Scenarios() {
		if res := sc.Run(tr); !res.Passed() {
			t.Errorf("%s failed with shared tracker", sc.Name)
		}
	}
	if m := tr.Metrics(); m.Allocs == 0 || !tr.Balanced() {
		t.Errorf("shared tracker = %+v", m)
	}
}

func TestSpatialRefusesOutOfBounds(t *testing.T) {
	res := Spatial(safemem.NewTracker(nil, 0))
	refused := 0
	for _, s := range res.Steps {
		if strings.HasPrefix(s.Name, "get ") && s.Got == safemem.KindIndexOutOfRange {
			refused++
		}
	}
	if refused != 3 {
		t.Errorf("refused %d out-of-bounds reads, want 3", refused)
	}
}

func TestScenarioAllocationFailure(t *testing.T) {
	// A limit too small for any storage makes the first step fail.
	tr := safemem.NewTracker(nil, 1)
	for _, sc := range Scenarios() {
		res := sc.Run(tr)
		if res.Passed() {
			t.Errorf("%s passed with no storage available", sc.Name)
		}
		if got := res.Steps[0].Got; got != safemem.KindAllocation {
			t.Errorf("%s first step got %s, want allocation", sc.Name, got)
		}
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("temporal"); !ok {
		t.Error("Lookup(temporal) not found")
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) found")
	}
}

func TestResultFailures(t *testing.T) {
	res := Result{Steps: []Step{{Name: "a", Passed: true}, {Name: "b"}}}
	if res.Passed() {
		t.Error("Passed() = true with a failing step")
	}
	if f := res.Failures(); len(f) != 1 || f[0].Name != "b" {
		t.Errorf("Failures() = %+v", f)
	}
}

func TestReport(t *testing.T) {
	tr := safemem.NewTracker(nil, 0)
	results := []Result{Spatial(tr), Temporal(tr)}

	st, err := Report(results)
	if err != nil {
		t.Fatal(err)
	}
	if !st.GetFields()["passed"].GetBoolValue() {
		t.Error("report passed = false")
	}
	list := st.GetFields()["scenarios"].GetListValue().GetValues()
	if len(list) != 2 {
		t.Fatalf("report has %d scenarios, want 2", len(list))
	}
	first := list[0].GetStructValue().GetFields()
	if first["scenario"].GetStringValue() != "spatial" {
		t.Errorf("first scenario = %q", first["scenario"].GetStringValue())
	}

	data, err := MarshalReport(results)
	if err != nil {
		t.Fatal(err)
	}
	var back structpb.Struct
	if err := protojson.Unmarshal(data, &back); err != nil {
		t.Fatalf("report is not valid protojson: %v", err)
	}
	if len(back.GetFields()["scenarios"].GetListValue().GetValues()) != 2 {
		t.Error("decoded report lost scenarios")
	}
}

func TestWriteText(t *testing.T) {
	res := Result{Scenario: "x", Steps: []Step{
		{Name: "good", Passed: true},
		{Name: "bad", Want: safemem.KindIndexOutOfRange, Got: safemem.KindNone},
	}}

	var buf bytes.Buffer
	WriteText(&buf, res, false)
	out := buf.String()
	if !strings.HasPrefix(out, "FAIL x\n") || !strings.Contains(out, "good") || !strings.Contains(out, "bad") {
		t.Errorf("WriteText = %q", out)
	}

	buf.Reset()
	WriteText(&buf, res, true)
	if strings.Contains(buf.String(), "good") {
		t.Errorf("quiet WriteText listed a passing step: %q", buf.String())
	}
}

func TestReuseReadsSecondOwnersValue(t *testing.T) {
	res := Reuse(safemem.NewTracker(nil, 0))
	for _, s := range res.Steps {
		if s.Name != "second holds its own value" {
			continue
		}
		if !s.Passed || s.Detail != "data=7" {
			t.Errorf("step = %+v, want passed with data=7", s)
		}
		return
	}
	t.Error("reuse scenario has no second-owner read")
}
