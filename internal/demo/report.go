package demo

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Report converts results into a protobuf Struct.
func Report(results []Result) (*structpb.Struct, error) {
	scenarios := make([]interface{}, 0, len(results))
	passed := true
	for _, res := range results {
		steps := make([]interface{}, 0, len(res.Steps))
		for _, s := range res.Steps {
			steps = append(steps, map[string]interface{}{
				"name":   s.Name,
				"want":   s.Want.String(),
				"got":    s.Got.String(),
				"detail": s.Detail,
				"passed": s.Passed,
			})
		}
		scenarios = append(scenarios, map[string]interface{}{
			"scenario": res.Scenario,
			"passed":   res.Passed(),
			"steps":    steps,
		})
		passed = passed && res.Passed()
	}

	st, err := structpb.NewStruct(map[string]interface{}{
		"passed":    passed,
		"scenarios": scenarios,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build report")
	}
	return st, nil
}

// MarshalReport renders results as indented protojson.
func MarshalReport(results []Result) ([]byte, error) {
	st, err := Report(results)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
}

// WriteText prints a human-readable summary of res to w. With quiet set only
// failing steps are listed.
func WriteText(w io.Writer, res Result, quiet bool) {
	status := "PASS"
	if !res.Passed() {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s %s\n", status, res.Scenario)
	for _, s := range res.Steps {
		if quiet && s.Passed {
			continue
		}
		mark := "ok"
		if !s.Passed {
			mark = "!!"
		}
		fmt.Fprintf(w, "  %s %-28s want=%-18s got=%-18s %s\n", mark, s.Name, s.Want, s.Got, s.Detail)
	}
}
