package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed marks a dataset line that could not be parsed.
var ErrMalformed = errors.New("malformed record")

// Question is a single record from the line-delimited JSON dataset.
type Question struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

type rawQuestion struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
	Tags  *string `json:"tags"`
}

// ParseQuestion decodes one dataset line. All three fields must be present;
// tags arrive pipe-delimited.
func ParseQuestion(line []byte) (Question, error) {
	var raw rawQuestion
	if err := json.Unmarshal(line, &raw); err != nil {
		return Question{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case raw.Title == nil:
		return Question{}, fmt.Errorf("%w: missing title", ErrMalformed)
	case raw.Body == nil:
		return Question{}, fmt.Errorf("%w: missing body", ErrMalformed)
	case raw.Tags == nil:
		return Question{}, fmt.Errorf("%w: missing tags", ErrMalformed)
	}
	return Question{
		Title: *raw.Title,
		Body:  *raw.Body,
		Tags:  strings.Split(*raw.Tags, "|"),
	}, nil
}

// QuestionReader yields questions one line at a time. Lines have no length cap.
type QuestionReader struct {
	r    *bufio.Reader
	line int
}

func NewQuestionReader(r io.Reader) *QuestionReader {
	return &QuestionReader{r: bufio.NewReader(r)}
}

// Next returns the next question and its 1-based line number. Blank lines are
// skipped. It returns io.EOF once the input is exhausted.
func (r *QuestionReader) Next() (Question, int, error) {
	for {
		text, err := r.r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Question{}, r.line + 1, fmt.Errorf("line %d: read dataset: %w", r.line+1, err)
		}
		if len(text) == 0 {
			return Question{}, r.line, io.EOF
		}
		r.line++
		if len(bytes.TrimSpace(text)) == 0 {
			continue
		}
		q, perr := ParseQuestion(text)
		if perr != nil {
			return Question{}, r.line, fmt.Errorf("line %d: %w", r.line, perr)
		}
		return q, r.line, nil
	}
}
