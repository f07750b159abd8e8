package command

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/nhle/planboard/internal/model"
)

func TestCommandJSONRoundTrip(t *testing.T) {
	at := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	cases := []Command{
		{At: at, Details: CreateTeam{Name: "Dev"}},
		{At: at, Details: CreateTask{ID: 7, Ticket: "PB-7", Title: "Codec", Duration: model.Duration{Days: 1, Fraction: 25}}},
		{At: at, Details: SetWorklog{ID: 7, Date: model.MakeDate(2026, time.August, 24), Resource: "Alice", Fraction: 50}},
		{At: at, Details: SetAbsence{Resource: "Bob", Start: model.MakeDate(2026, time.August, 31), Duration: model.Duration{Fraction: 50}}},
		{At: at, Details: NoOp{}},
		{At: at, Details: Compound{Commands: []Command{
			{At: at, Details: CreateLabel{Name: "backend"}},
			{At: at, Details: AddLabelToTask{ID: 7, Label: "backend"}},
		}}},
	}
	for _, cmd := range cases {
		data, err := json.Marshal(cmd)
		if err != nil {
			t.Fatalf("marshal %T: %v", cmd.Details, err)
		}
		var back Command
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %T: %v", cmd.Details, err)
		}
		if !reflect.DeepEqual(cmd, back) {
			t.Errorf("round trip changed command:\n%+v\n%+v", cmd, back)
		}
	}
}

func TestCommandJSONUnknownType(t *testing.T) {
	var cmd Command
	err := json.Unmarshal([]byte(`{"type":"explode","at":"2026-08-24T00:00:00Z","details":{}}`), &cmd)
	if err == nil {
		t.Fatalf("unknown type tag accepted")
	}
}

func TestEveryVariantHasATypeTag(t *testing.T) {
	variants := []Details{
		CreateTeam{}, RenameTeam{}, DeleteTeam{},
		CreateResource{}, RenameResource{}, DeleteResource{}, SwitchTeam{},
		CreateTask{}, UpdateTask{}, DeleteTask{},
		AssignTask{}, UnassignTask{},
		ChangeTaskPriority{}, PrioritizeTask{}, DeprioritizeTask{},
		AddWatcher{}, RemoveWatcher{},
		CreateLabel{}, RenameLabel{}, DeleteLabel{},
		AddLabelToTask{}, RemoveLabelFromTask{},
		CreateModifyFilter{}, RenameFilter{}, DeleteFilter{},
		SetWorklog{}, SetAbsence{},
		AddMilestone{}, RemoveMilestone{},
		Compound{}, NoOp{},
	}
	for _, v := range variants {
		name, err := typeName(v)
		if err != nil {
			t.Errorf("%T has no type tag: %v", v, err)
			continue
		}
		if _, ok := decoders[name]; !ok {
			t.Errorf("%T tag %q has no decoder", v, name)
		}
	}
}
