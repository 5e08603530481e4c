package types

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseEventKind(t *testing.T) {
	tests := map[string]EventKind{
		"SCENARIO_RUN":        EventScenarioRun,
		"scenario_run_result": EventScenarioRunResult,
		"Value_Publish":       EventValuePublish,
		" refresh ":           EventRefresh,
		"START":               EventStart,
		"SOMETHING_NEW":       EventUndefined,
		"":                    EventUndefined,
	}

	for name, expected := range tests {
		if k := ParseEventKind(name); k != expected {
			t.Logf("expected %v for %q, got %v", expected, name, k)
			t.FailNow()
		}
	}
}

func TestEventKindNames(t *testing.T) {
	for _, k := range EventKinds() {
		if ParseEventKind(k.String()) != k {
			t.Logf("kind %v does not round trip through its name", k)
			t.FailNow()
		}
	}

	if !EventScenarioRunResult.IsResult() || EventScenarioRun.IsResult() {
		t.Log("unexpected IsResult")
		t.FailNow()
	}
}

var eventLog = `{"kind":"MIDDLEWARE_RUN","ts":0,"middleware":"middleware_0"}
{"kind":"scenario_run","ts":1.5,"scenario":"scenario_0"}

{"kind":"VALUE_PUBLISH","ts":2,"thing":"basic_thing_0","value":3.5}
{"kind":"NEW_FANCY_EVENT","ts":2.25}
{"kind":"SCENARIO_RUN_RESULT","ts":3,"scenario":"scenario_0","errorCode":-4}
`

func TestReadTimeline(t *testing.T) {
	timeline, err := ReadTimeline(strings.NewReader(eventLog))
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(timeline) != 5 {
		t.Logf("expected 5 events, got %d", len(timeline))
		t.FailNow()
	}

	if timeline[1].Kind != EventScenarioRun || timeline[1].Timestamp != 1500*time.Millisecond {
		t.Logf("unexpected event %+v", timeline[1])
		t.FailNow()
	}

	if timeline[3].Kind != EventUndefined {
		t.Log("expected unknown kind to decode as undefined")
		t.FailNow()
	}

	if timeline[4].ErrorCode != -4 {
		t.Log("expected error code to decode")
		t.FailNow()
	}

	if timeline.Span() != 3*time.Second {
		t.Logf("unexpected span %v", timeline.Span())
		t.FailNow()
	}

	runs := timeline.Filter(EventScenarioRun, EventScenarioRunResult)
	if len(runs) != 2 || runs[0].Kind != EventScenarioRun {
		t.Log("unexpected filter result")
		t.FailNow()
	}

	window := timeline.Window(1500*time.Millisecond, 2*time.Second)
	if len(window) != 2 {
		t.Logf("expected 2 events in window, got %d", len(window))
		t.FailNow()
	}

	var buf bytes.Buffer

	if _, err := timeline.WriteTo(&buf); err != nil {
		t.Log(err)
		t.FailNow()
	}

	again, err := ReadTimeline(&buf)
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(again) != len(timeline) || again[2].Value != 3.5 {
		t.Log("timeline did not survive rewrite")
		t.FailNow()
	}
}

func TestReadTimelineMalformed(t *testing.T) {
	if _, err := ReadTimeline(strings.NewReader("{\"kind\":\n")); err == nil {
		t.Log("expected malformed line to fail")
		t.FailNow()
	}
}
