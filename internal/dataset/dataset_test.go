package dataset

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestion_SplitsTags(t *testing.T) {
	q, err := ParseQuestion([]byte(`{"title":"T","body":"B","tags":"a|b|c"}`))
	require.NoError(t, err)

	payload, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"T","body":"B","tags":["a","b","c"]}`, string(payload))
	assert.Equal(t, `{"title":"T","body":"B","tags":["a","b","c"]}`, string(payload))
}

func TestParseQuestion_EmptyTags(t *testing.T) {
	q, err := ParseQuestion([]byte(`{"title":"T","body":"B","tags":""}`))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, q.Tags)
}

func TestParseQuestion_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"title":`,
		"missing tags": `{"title":"T","body":"B"}`,
		"missing body": `{"title":"T","tags":"a"}`,
		"wrong type":   `{"title":"T","body":"B","tags":["a"]}`,
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuestion([]byte(line))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestQuestionReader(t *testing.T) {
	input := `{"title":"one","body":"b1","tags":"go"}

{"title":"two","body":"b2","tags":"go|http"}
`
	r := NewQuestionReader(strings.NewReader(input))

	q, line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", q.Title)
	assert.Equal(t, 1, line)

	q, line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "two", q.Title)
	assert.Equal(t, []string{"go", "http"}, q.Tags)
	assert.Equal(t, 3, line)

	_, _, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestQuestionReader_ReportsLine(t *testing.T) {
	r := NewQuestionReader(strings.NewReader("{\"title\":\"a\",\"body\":\"b\",\"tags\":\"c\"}\nnope\n"))

	_, _, err := r.Next()
	require.NoError(t, err)

	_, line, err := r.Next()
	require.Error(t, err)
	assert.Equal(t, 2, line)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "line 2")
}

func TestQuestionReader_VeryLongLine(t *testing.T) {
	body := strings.Repeat("x", 17<<20)
	input := `{"title":"a","body":"b","tags":"c"}` + "\n" +
		`{"title":"big","body":"` + body + `","tags":"go"}` + "\n"
	r := NewQuestionReader(strings.NewReader(input))

	_, _, err := r.Next()
	require.NoError(t, err)

	q, line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, line)
	assert.Equal(t, "big", q.Title)
	assert.Len(t, q.Body, len(body))
}

func TestQuestionReader_ReadErrorNamesLine(t *testing.T) {
	input := io.MultiReader(
		strings.NewReader(`{"title":"a","body":"b","tags":"c"}`+"\n"),
		iotest.ErrReader(errors.New("disk gone")),
	)
	r := NewQuestionReader(input)

	_, _, err := r.Next()
	require.NoError(t, err)

	_, line, err := r.Next()
	require.Error(t, err)
	assert.Equal(t, 2, line)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "disk gone")
}

func TestParseUser(t *testing.T) {
	u, err := ParseUser("alice,alice@example.com,secret\n")
	require.NoError(t, err)
	assert.Equal(t, User{Username: "alice", Email: "alice@example.com", Password: "secret"}, u)

	u, err = ParseUser("bob,bob@example.com,hunter2\r\n")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", u.Password)

	// last line of a file may lack a terminator; the password stays whole
	u, err = ParseUser("carol,carol@example.com,pw")
	require.NoError(t, err)
	assert.Equal(t, "pw", u.Password)

	u, err = ParseUser("dave,dave@example.com,pw,extra\n")
	require.NoError(t, err)
	assert.Equal(t, "pw", u.Password)
}

func TestParseUser_TooFewFields(t *testing.T) {
	_, err := ParseUser("alice,alice@example.com\n")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseEmail(t *testing.T) {
	email, err := ParseEmail("alice,alice@example.com,secret\n")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	email, err = ParseEmail("bob,bob@example.com\n")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", email)

	_, err = ParseEmail("lonely\n")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestUserReader(t *testing.T) {
	r := NewUserReader(strings.NewReader("a,a@x.io,p1\n\nb,b@x.io,p2"))

	u, line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", u.Username)
	assert.Equal(t, 1, line)

	u, line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "p2", u.Password)
	assert.Equal(t, 3, line)

	_, _, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestEmailReader_Malformed(t *testing.T) {
	r := NewEmailReader(strings.NewReader("a,a@x.io,p1\nbroken\n"))

	email, _, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", email)

	_, line, err := r.Next()
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, 2, line)
}
