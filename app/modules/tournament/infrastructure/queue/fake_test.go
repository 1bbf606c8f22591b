package tournamentqueue

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// ------------------------
// Fake Inserter
// ------------------------

type FakeInserter struct {
	trace []string
	Args  []river.JobArgs
	Opts  []*river.InsertOpts

	InsertFunc func(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

var _ jobqueue.Inserter = (*FakeInserter)(nil)

func (f *FakeInserter) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	f.trace = append(f.trace, "Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, args, opts)
	}
	f.Args = append(f.Args, args)
	f.Opts = append(f.Opts, opts)
	return &rivertype.JobInsertResult{Job: &rivertype.JobRow{ID: int64(len(f.Args))}}, nil
}

func (f *FakeInserter) Trace() []string { return f.trace }

// ------------------------
// Fake Round Starter
// ------------------------

type FakeRoundStarter struct {
	trace []string

	StartRoundFunc func(ctx context.Context, id uuid.UUID, round int) (tournamentservice.RoundStartResult, error)
}

var _ RoundStarter = (*FakeRoundStarter)(nil)

func (f *FakeRoundStarter) StartRound(ctx context.Context, id uuid.UUID, round int) (tournamentservice.RoundStartResult, error) {
	f.trace = append(f.trace, "StartRound")
	if f.StartRoundFunc != nil {
		return f.StartRoundFunc(ctx, id, round)
	}
	return tournamentservice.RoundStartResult{}, errors.New("StartRound not stubbed")
}

func (f *FakeRoundStarter) Trace() []string { return f.trace }

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	Published map[string][]*message.Message

	PublishFunc func(topic string, msgs ...*message.Message) error
}

var _ message.Publisher = (*FakePublisher)(nil)

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: make(map[string][]*message.Message)}
}

func (f *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, msgs...)
	}
	f.Published[topic] = append(f.Published[topic], msgs...)
	return nil
}

func (f *FakePublisher) Close() error { return nil }
