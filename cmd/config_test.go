package cmd

import "testing"

func TestConfigKindArgsValidator(t *testing.T) {
	single := configKindArgsValidator(false, false)

	if err := single(nil, []string{"topology/campus"}); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if err := single(nil, []string{"experiment/foo"}); err == nil {
		t.Log("expected error for unknown kind")
		t.FailNow()
	}

	if err := single(nil, []string{"topology/a", "topology/b"}); err == nil {
		t.Log("expected error for multiple args")
		t.FailNow()
	}

	multi := configKindArgsValidator(true, true)

	if err := multi(nil, []string{"all/configs", "simulation/small"}); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if err := multi(nil, nil); err == nil {
		t.Log("expected error without args")
		t.FailNow()
	}
}
