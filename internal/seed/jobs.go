package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/hetulpatel/stackseed/internal/dataset"
	"github.com/hetulpatel/stackseed/internal/models"
	"github.com/hetulpatel/stackseed/internal/stackapi"
)

// DefaultQuestionLimit is how many dataset lines a question run posts.
const DefaultQuestionLimit = 100

// QuestionPoster is satisfied by *stackapi.Client.
type QuestionPoster interface {
	AddQuestion(ctx context.Context, q dataset.Question) (*stackapi.Result, error)
}

type UserPoster interface {
	AddUser(ctx context.Context, u dataset.User) (*stackapi.Result, error)
}

type Verifier interface {
	Verify(ctx context.Context, email, key string) (*stackapi.Result, error)
}

// QuestionLimit resolves a configured limit: zero means DefaultQuestionLimit and
// a negative value means no cap, reported as -1.
func QuestionLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultQuestionLimit
	case limit < 0:
		return -1
	default:
		return limit
	}
}

// Questions posts the first opts.Limit questions of a line-delimited JSON dataset.
// The limit is resolved with QuestionLimit.
func Questions(ctx context.Context, data io.Reader, api QuestionPoster, opts Options) (Stats, error) {
	opts.Limit = QuestionLimit(opts.Limit)
	return Run[dataset.Question](ctx, models.KindQuestion, dataset.NewQuestionReader(data), api.AddQuestion, opts)
}

// Users registers every row of the users CSV.
func Users(ctx context.Context, csv io.Reader, api UserPoster, opts Options) (Stats, error) {
	return Run[dataset.User](ctx, models.KindUser, dataset.NewUserReader(csv), api.AddUser, opts)
}

// Verify confirms the email of every row of the users CSV with key.
func Verify(ctx context.Context, csv io.Reader, api Verifier, key string, opts Options) (Stats, error) {
	if key == "" {
		return Stats{}, fmt.Errorf("verify: key is required")
	}
	submit := func(ctx context.Context, email string) (*stackapi.Result, error) {
		return api.Verify(ctx, email, key)
	}
	return Run[string](ctx, models.KindVerify, dataset.NewEmailReader(csv), submit, opts)
}
