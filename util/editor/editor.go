package editor

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"os/exec"
)

var ErrNoChange = errors.New("no changes made to file")

const DefaultEditor = "vi"

// OpenFileInEditor opens the file in $EDITOR, attached to the terminal.
func OpenFileInEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = DefaultEditor
	}

	executable, err := exec.LookPath(editor)
	if err != nil {
		return err
	}

	cmd := exec.Command(executable, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// EditData lets the operator edit data in a temporary file and returns the
// result. ErrNoChange is returned along with the original data if nothing
// changed.
func EditData(data []byte) ([]byte, error) {
	file, err := ioutil.TempFile("", "schedbench-*.yml")
	if err != nil {
		return nil, err
	}

	defer os.Remove(file.Name())

	if _, err := file.Write(data); err != nil {
		file.Close()
		return nil, err
	}

	if err := file.Close(); err != nil {
		return nil, err
	}

	if err := OpenFileInEditor(file.Name()); err != nil {
		return nil, err
	}

	edited, err := ioutil.ReadFile(file.Name())
	if err != nil {
		return nil, err
	}

	if bytes.Equal(data, edited) {
		return data, ErrNoChange
	}

	return edited, nil
}
