package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/stemsi/exstem-grader/internal/model"
)

// FilePlaceholder is replaced by the document path in configured commands.
const FilePlaceholder = "{file}"

var (
	ErrNoList       = errors.New("extractor output is not a list of questions")
	ErrInvalidItem  = errors.New("extracted question is not an object")
	ErrEmptyCommand = errors.New("extraction command is empty")
)

// Extractor turns a document on disk into question records.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) ([]model.QuestionItem, error)
}

// command is an external program invoked once per document.
type command struct {
	args    []string
	timeout time.Duration
}

func newCommand(line string, timeout time.Duration) (*command, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	return &command{args: args, timeout: timeout}, nil
}

// argv substitutes path for the placeholder, or appends it when there is none.
func (c *command) argv(path string) []string {
	out := make([]string, 0, len(c.args)+1)
	replaced := false
	for _, a := range c.args {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.ReplaceAll(a, FilePlaceholder, path)
			replaced = true
		}
		out = append(out, a)
	}
	if !replaced {
		out = append(out, path)
	}
	return out
}

func (c *command) run(ctx context.Context, path string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	argv := c.argv(path)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return nil, fmt.Errorf("run %s: %w: %s", argv[0], err, msg)
	}
	return stdout.Bytes(), nil
}

// CommandExtractor runs an extraction program that prints the questions as JSON.
type CommandExtractor struct {
	cmd *command
}

// NewCommandExtractor parses line (e.g. "python3 extract.py {file}").
func NewCommandExtractor(line string, timeout time.Duration) (*CommandExtractor, error) {
	cmd, err := newCommand(line, timeout)
	if err != nil {
		return nil, err
	}
	return &CommandExtractor{cmd: cmd}, nil
}

func (e *CommandExtractor) Extract(ctx context.Context, pdfPath string) ([]model.QuestionItem, error) {
	out, err := e.cmd.run(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	return ParseItems(out)
}

// ParseItems decodes extractor output: either a JSON array of objects or an
// object whose "questions" field is one. Numbers keep their literal form.
func ParseItems(data []byte) ([]model.QuestionItem, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoList, err)
	}

	if obj, ok := v.(map[string]any); ok {
		v = obj["questions"]
	}
	list, ok := v.([]any)
	if !ok {
		return nil, ErrNoList
	}

	items := make([]model.QuestionItem, 0, len(list))
	for i, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d", ErrInvalidItem, i)
		}
		items = append(items, model.QuestionItem(obj))
	}
	return items, nil
}
