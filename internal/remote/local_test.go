package remote

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sopiot/scheduling-framework-sub001/types"
)

func TestLocalSendCommand(t *testing.T) {
	ch, err := LocalDialer{}.Dial(context.Background(), &types.MiddlewareNode{Name: "middleware_0"})
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	defer ch.Close()

	out, err := ch.SendCommand(context.Background(), "echo one; echo two")
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(out) != 2 || out[1] != "two" {
		t.Logf("unexpected output %v", out)
		t.FailNow()
	}

	_, err = ch.SendCommand(context.Background(), "echo failed; exit 4")

	var exit *ExitError

	if !errors.As(err, &exit) {
		t.Logf("expected exit error, got %v", err)
		t.FailNow()
	}

	if exit.Status != 4 || exit.Output[0] != "failed" {
		t.Logf("unexpected exit error %+v", exit)
		t.FailNow()
	}
}

func TestLocalSendFileAndDir(t *testing.T) {
	src, _ := ioutil.TempDir("", "schedbench-src")
	dst, _ := ioutil.TempDir("", "schedbench-dst")

	defer os.RemoveAll(src)
	defer os.RemoveAll(dst)

	os.MkdirAll(filepath.Join(src, "bin"), 0755)
	ioutil.WriteFile(filepath.Join(src, "bin", "middleware"), []byte("#!/bin/sh\n"), 0755)
	ioutil.WriteFile(filepath.Join(src, "policy.cc"), []byte("// policy\n"), 0644)

	ch := &Local{}

	if err := ch.SendDir(context.Background(), src, filepath.Join(dst, "bundle")); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if _, err := os.Stat(filepath.Join(dst, "bundle", "bin", "middleware")); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if err := ch.SendFile(context.Background(), filepath.Join(src, "policy.cc"), filepath.Join(dst, "policy", "policy.cc")); err != nil {
		t.Log(err)
		t.FailNow()
	}

	data, err := ioutil.ReadFile(filepath.Join(dst, "policy", "policy.cc"))
	if err != nil || string(data) != "// policy\n" {
		t.Logf("policy not copied: %v", err)
		t.FailNow()
	}
}

func TestQuoteAndLines(t *testing.T) {
	if Quote("it's") != `'it'\''s'` {
		t.Logf("unexpected quoting %s", Quote("it's"))
		t.FailNow()
	}

	if l := Lines([]byte("a\r\nb\n\n")); len(l) != 2 || l[1] != "b" {
		t.Logf("unexpected lines %q", l)
		t.FailNow()
	}

	if Lines(nil) != nil {
		t.Log("expected no lines")
		t.FailNow()
	}
}
