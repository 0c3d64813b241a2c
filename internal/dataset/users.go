package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// User is one row of the users CSV: username,email,password. The file has no
// header row and no quoting; fields are split on every comma.
type User struct {
	Username string
	Email    string
	Password string
}

func splitLine(line string, want int) ([]string, error) {
	fields := strings.Split(line, ",")
	if len(fields) < want {
		return nil, fmt.Errorf("%w: want at least %d fields, got %d", ErrMalformed, want, len(fields))
	}
	return fields, nil
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// ParseUser splits a raw CSV line. Fields past the third are ignored and the
// trailing line terminator is dropped from the password.
func ParseUser(line string) (User, error) {
	fields, err := splitLine(line, 3)
	if err != nil {
		return User{}, err
	}
	return User{
		Username: fields[0],
		Email:    fields[1],
		Password: trimNewline(fields[2]),
	}, nil
}

// ParseEmail pulls only the email column, which is all verification needs.
func ParseEmail(line string) (string, error) {
	fields, err := splitLine(line, 2)
	if err != nil {
		return "", err
	}
	return trimNewline(fields[1]), nil
}

// LineReader hands out raw CSV lines, terminator included, with their 1-based
// line numbers.
type LineReader struct {
	r    *bufio.Reader
	line int
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Next skips blank lines and returns io.EOF at the end of input.
func (l *LineReader) Next() (string, int, error) {
	for {
		text, err := l.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", l.line, fmt.Errorf("read csv: %w", err)
		}
		if text == "" {
			return "", l.line, io.EOF
		}
		l.line++
		if strings.TrimSpace(text) == "" {
			continue
		}
		return text, l.line, nil
	}
}

// UserReader yields parsed users.
type UserReader struct {
	lines *LineReader
}

func NewUserReader(r io.Reader) *UserReader {
	return &UserReader{lines: NewLineReader(r)}
}

func (u *UserReader) Next() (User, int, error) {
	text, line, err := u.lines.Next()
	if err != nil {
		return User{}, line, err
	}
	user, err := ParseUser(text)
	if err != nil {
		return User{}, line, fmt.Errorf("line %d: %w", line, err)
	}
	return user, line, nil
}

// EmailReader yields the email column of each CSV line.
type EmailReader struct {
	lines *LineReader
}

func NewEmailReader(r io.Reader) *EmailReader {
	return &EmailReader{lines: NewLineReader(r)}
}

func (e *EmailReader) Next() (string, int, error) {
	text, line, err := e.lines.Next()
	if err != nil {
		return "", line, err
	}
	email, err := ParseEmail(text)
	if err != nil {
		return "", line, fmt.Errorf("line %d: %w", line, err)
	}
	return email, line, nil
}
