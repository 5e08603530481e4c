package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventKind tags a protocol event captured from the middleware network.
type EventKind int

const (
	EventUndefined EventKind = iota

	EventStart
	EventEnd
	EventDelay

	EventMiddlewareRun
	EventMiddlewareKill

	EventThingRun
	EventThingKill
	EventThingRegister
	EventThingRegisterResult
	EventThingUnregister
	EventThingUnregisterResult
	EventThingRegisterWait

	EventFunctionExecute
	EventFunctionExecuteResult
	EventSuperFunctionExecute
	EventSuperFunctionExecuteResult
	EventSubFunctionExecute
	EventSubFunctionExecuteResult

	EventSubSchedule
	EventSubScheduleResult
	EventSuperSchedule
	EventSuperScheduleResult

	EventValuePublish

	EventScenarioVerify
	EventScenarioVerifyResult
	EventScenarioAdd
	EventScenarioAddResult
	EventScenarioRun
	EventScenarioRunResult
	EventScenarioStop
	EventScenarioStopResult
	EventScenarioUpdate
	EventScenarioUpdateResult
	EventScenarioDelete
	EventScenarioDeleteResult
	EventScenarioAddCheck
	EventScenarioRunCheck

	EventRefresh
)

var eventNames = map[EventKind]string{
	EventUndefined: "UNDEFINED",

	EventStart: "START",
	EventEnd:   "END",
	EventDelay: "DELAY",

	EventMiddlewareRun:  "MIDDLEWARE_RUN",
	EventMiddlewareKill: "MIDDLEWARE_KILL",

	EventThingRun:              "THING_RUN",
	EventThingKill:             "THING_KILL",
	EventThingRegister:         "THING_REGISTER",
	EventThingRegisterResult:   "THING_REGISTER_RESULT",
	EventThingUnregister:       "THING_UNREGISTER",
	EventThingUnregisterResult: "THING_UNREGISTER_RESULT",
	EventThingRegisterWait:     "THING_REGISTER_WAIT",

	EventFunctionExecute:            "FUNCTION_EXECUTE",
	EventFunctionExecuteResult:      "FUNCTION_EXECUTE_RESULT",
	EventSuperFunctionExecute:       "SUPER_FUNCTION_EXECUTE",
	EventSuperFunctionExecuteResult: "SUPER_FUNCTION_EXECUTE_RESULT",
	EventSubFunctionExecute:         "SUB_FUNCTION_EXECUTE",
	EventSubFunctionExecuteResult:   "SUB_FUNCTION_EXECUTE_RESULT",

	EventSubSchedule:         "SUB_SCHEDULE",
	EventSubScheduleResult:   "SUB_SCHEDULE_RESULT",
	EventSuperSchedule:       "SUPER_SCHEDULE",
	EventSuperScheduleResult: "SUPER_SCHEDULE_RESULT",

	EventValuePublish: "VALUE_PUBLISH",

	EventScenarioVerify:       "SCENARIO_VERIFY",
	EventScenarioVerifyResult: "SCENARIO_VERIFY_RESULT",
	EventScenarioAdd:          "SCENARIO_ADD",
	EventScenarioAddResult:    "SCENARIO_ADD_RESULT",
	EventScenarioRun:          "SCENARIO_RUN",
	EventScenarioRunResult:    "SCENARIO_RUN_RESULT",
	EventScenarioStop:         "SCENARIO_STOP",
	EventScenarioStopResult:   "SCENARIO_STOP_RESULT",
	EventScenarioUpdate:       "SCENARIO_UPDATE",
	EventScenarioUpdateResult: "SCENARIO_UPDATE_RESULT",
	EventScenarioDelete:       "SCENARIO_DELETE",
	EventScenarioDeleteResult: "SCENARIO_DELETE_RESULT",
	EventScenarioAddCheck:     "SCENARIO_ADD_CHECK",
	EventScenarioRunCheck:     "SCENARIO_RUN_CHECK",

	EventRefresh: "REFRESH",
}

var eventKinds = func() map[string]EventKind {
	kinds := make(map[string]EventKind, len(eventNames))

	for k, n := range eventNames {
		kinds[n] = k
	}

	return kinds
}()

// ParseEventKind looks up an event kind by name, ignoring case. Unknown names
// map to EventUndefined.
func ParseEventKind(name string) EventKind {
	if k, ok := eventKinds[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return k
	}

	return EventUndefined
}

// EventKinds returns every defined kind, EventUndefined excluded, in
// declaration order.
func EventKinds() []EventKind {
	kinds := make([]EventKind, 0, len(eventNames)-1)

	for k := EventStart; k <= EventRefresh; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

func (this EventKind) String() string {
	if n, ok := eventNames[this]; ok {
		return n
	}

	return fmt.Sprintf("EventKind(%d)", int(this))
}

// IsResult reports whether the kind is the result half of a request/result
// pair.
func (this EventKind) IsResult() bool {
	return strings.HasSuffix(this.String(), "_RESULT")
}

func (this EventKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(this.String())
}

func (this *EventKind) UnmarshalJSON(data []byte) error {
	var name string

	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("unmarshaling event kind: %w", err)
	}

	*this = ParseEventKind(name)
	return nil
}
