// Package demo runs the demonstration scenarios behind the safemem command.
//
// Each scenario replays one historical memory-safety bug against the safe
// primitives and records whether every hazardous step was refused with the
// expected named error.
package demo

import (
	"fmt"

	"github.com/pavanmanishd/safemem"
)

// Step is one checked operation within a scenario.
type Step struct {
	Name   string
	Want   safemem.Kind
	Got    safemem.Kind
	Detail string
	Passed bool
}

// Result is the outcome of one scenario run.
type Result struct {
	Scenario string
	Steps    []Step
}

// Passed reports whether every step passed.
func (r Result) Passed() bool {
	for _, s := range r.Steps {
		if !s.Passed {
			return false
		}
	}
	return true
}

// Failures returns the steps that did not pass.
func (r Result) Failures() []Step {
	var out []Step
	for _, s := range r.Steps {
		if !s.Passed {
			out = append(out, s)
		}
	}
	return out
}

// Scenario is a named, runnable demonstration.
type Scenario struct {
	Name        string
	Description string
	Run         func(t *safemem.Tracker) Result
}

var scenarios = []Scenario{
	{"spatial", "out-of-bounds reads on a 6-element array", Spatial},
	{"temporal", "use of a heap box after it was freed", Temporal},
	{"reuse", "reading a released buffer through a new owner", Reuse},
}

// Scenarios returns every scenario in run order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// Lookup returns the scenario called name.
func Lookup(name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

type recorder struct {
	res Result
}

// expect records a step whose error must be of kind want.
func (r *recorder) expect(name string, want safemem.Kind, err error) {
	got := safemem.KindOf(err)
	detail := "ok"
	if err != nil {
		detail = err.Error()
	}
	r.res.Steps = append(r.res.Steps, Step{
		Name:   name,
		Want:   want,
		Got:    got,
		Detail: detail,
		Passed: got == want,
	})
}

// check records a step that passes when ok holds.
func (r *recorder) check(name string, ok bool, format string, args ...interface{}) {
	r.res.Steps = append(r.res.Steps, Step{
		Name:   name,
		Want:   safemem.KindNone,
		Got:    safemem.KindNone,
		Detail: fmt.Sprintf(format, args...),
		Passed: ok,
	})
}

func (r *recorder) balanced(t *safemem.Tracker) {
	m := t.Metrics()
	r.check("tracker balanced", t.Balanced(), "allocs=%d frees=%d live=%d double-frees=%d",
		m.Allocs, m.Frees, m.Live, m.DoubleFrees)
}

// Spatial replays the out-of-bounds example: a six-element array summed,
// then read at index 6, 100 and 1234.
func Spatial(t *safemem.Tracker) Result {
	r := &recorder{res: Result{Scenario: "spatial"}}

	s, err := safemem.NewSequence[int32](6, safemem.WithAllocator(t))
	r.expect("create capacity 6", safemem.KindNone, err)
	if err != nil {
		return r.res
	}
	for v := int32(1); v <= 6; v++ {
		r.expect(fmt.Sprintf("append %d", v), safemem.KindNone, s.Append(v))
	}

	before, err := safemem.Sum(s)
	r.expect("sum", safemem.KindNone, err)
	r.check("sum before is 21", before == 21, "sum=%d", before)

	for _, i := range []int{6, 100, 1234} {
		_, err := s.Get(i)
		r.expect(fmt.Sprintf("get %d", i), safemem.KindIndexOutOfRange, err)
	}
	r.expect("set 6", safemem.KindIndexOutOfRange, s.Set(6, 99))
	r.expect("append 7", safemem.KindCapacityExceeded, s.Append(7))

	after, _ := safemem.Sum(s)
	r.check("sum after is 21", after == 21, "sum=%d", after)

	r.expect("destroy", safemem.KindNone, s.Destroy())
	_, err = s.Get(0)
	r.expect("get after destroy", safemem.KindUseAfterRelease, err)
	r.balanced(t)
	return r.res
}

// Temporal replays the use-after-free example: a boxed 42 is freed and then
// read through the stale owner.
func Temporal(t *safemem.Tracker) Result {
	r := &recorder{res: Result{Scenario: "temporal"}}

	c, err := safemem.NewCell(42, safemem.WithAllocator(t))
	r.expect("create cell 42", safemem.KindNone, err)
	if err != nil {
		return r.res
	}
	view, err := c.Borrow()
	r.expect("borrow", safemem.KindNone, err)

	v, err := c.Get()
	r.expect("get", safemem.KindNone, err)
	r.check("value is 42", v == 42, "value=%d", v)

	released, err := c.Release()
	r.expect("release", safemem.KindNone, err)
	r.check("release returns 42", released == 42, "value=%d", released)

	_, err = c.Get()
	r.expect("get after release", safemem.KindUseAfterRelease, err)
	_, err = c.Replace(7)
	r.expect("replace after release", safemem.KindUseAfterRelease, err)
	_, err = view.Get()
	r.expect("view after release", safemem.KindUseAfterRelease, err)

	_, err = c.Release()
	r.expect("second release", safemem.KindNone, err)
	r.check("cell stays released", !c.Alive(), "alive=%v", c.Alive())
	r.balanced(t)
	return r.res
}

// Reuse replays the buffer-reuse example: storage released by one owner is
// never observable through another.
func Reuse(t *safemem.Tracker) Result {
	type aStruct struct {
		Data uint32
	}
	r := &recorder{res: Result{Scenario: "reuse"}}

	reg := safemem.NewRegion(t)
	first, err := safemem.NewCell(aStruct{Data: 42}, safemem.InRegion(reg))
	r.expect("create first", safemem.KindNone, err)
	if err != nil {
		return r.res
	}
	r.expect("reset region", safemem.KindNone, reg.Reset())
	_, err = first.Get()
	r.expect("first after reset", safemem.KindUseAfterRelease, err)

	second, err := safemem.NewCell(aStruct{Data: 7}, safemem.InRegion(reg))
	r.expect("create second", safemem.KindNone, err)
	if err == nil {
		v, err := second.Get()
		r.expect("read second", safemem.KindNone, err)
		r.check("second holds its own value", v.Data == 7, "data=%d", v.Data)
	}

	r.expect("release region", safemem.KindNone, reg.Release())
	_, err = safemem.NewCell(aStruct{}, safemem.InRegion(reg))
	r.expect("create in released region", safemem.KindUseAfterRelease, err)
	r.balanced(t)
	return r.res
}
