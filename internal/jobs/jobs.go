// Package jobs runs the simulated classify and recreate requests. Every
// job completes with a fixed result after a delay.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindClassify Kind = "classify"
	KindRecreate Kind = "recreate"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// ClassifyLabel is the label every classification returns.
const ClassifyLabel = "Kambi Kolam"

var (
	ErrUnknownKind = errors.New("jobs: unknown job kind")
	ErrNeedUpload  = errors.New("jobs: an image upload is required")
	ErrNeedInput   = errors.New("jobs: an image upload or a prompt is required")
	ErrNotFound    = errors.New("jobs: no such job")
	ErrClosed      = errors.New("jobs: queue stopped")
)

// Input is what the user submitted.
type Input struct {
	Filename string
	Image    []byte
	Prompt   string
}

type Result struct {
	Label  string   `json:"label,omitempty"`
	Images []string `json:"images,omitempty"`
}

// Job is a snapshot; the queue never hands out its own copy.
type Job struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Status   Status    `json:"status"`
	Filename string    `json:"filename,omitempty"`
	Prompt   string    `json:"prompt,omitempty"`
	Result   *Result   `json:"result,omitempty"`
	Created  time.Time `json:"created"`
	Finished time.Time `json:"finished,omitempty"`
}

func (j *Job) clone() Job {
	c := *j
	if j.Result != nil {
		r := *j.Result
		r.Images = append([]string(nil), j.Result.Images...)
		c.Result = &r
	}
	return c
}

// Queue owns all job state on the goroutine running Run. Other methods
// hand closures to that goroutine.
type Queue struct {
	delay   time.Duration
	samples []string

	ops     chan func()
	stopped chan struct{}

	jobs   map[string]*Job
	subs   map[string][]chan Job
	timers map[string]*time.Timer
}

// New returns a queue completing jobs after delay. Recreate jobs return
// samples.
func New(delay time.Duration, samples []string) *Queue {
	return &Queue{
		delay:   delay,
		samples: append([]string(nil), samples...),
		ops:     make(chan func()),
		stopped: make(chan struct{}),
		jobs:    make(map[string]*Job),
		subs:    make(map[string][]chan Job),
		timers:  make(map[string]*time.Timer),
	}
}

// Run processes requests until ctx is done. Pending jobs never complete
// after that, and subscriptions are closed.
func (q *Queue) Run(ctx context.Context) {
	defer func() {
		for _, t := range q.timers {
			t.Stop()
		}
		for id, chans := range q.subs {
			for _, ch := range chans {
				close(ch)
			}
			delete(q.subs, id)
		}
		close(q.stopped)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-q.ops:
			op()
		}
	}
}

// do runs fn on the queue goroutine and waits for it.
func (q *Queue) do(fn func()) error {
	done := make(chan struct{})
	select {
	case q.ops <- func() { fn(); close(done) }:
	case <-q.stopped:
		return ErrClosed
	}
	<-done
	return nil
}

// post runs fn on the queue goroutine without waiting.
func (q *Queue) post(fn func()) {
	select {
	case q.ops <- fn:
	case <-q.stopped:
	}
}

// Submit validates in and starts a job of the given kind.
func (q *Queue) Submit(kind Kind, in Input) (Job, error) {
	switch kind {
	case KindClassify:
		if len(in.Image) == 0 {
			return Job{}, ErrNeedUpload
		}
	case KindRecreate:
		if len(in.Image) == 0 && strings.TrimSpace(in.Prompt) == "" {
			return Job{}, ErrNeedInput
		}
	default:
		return Job{}, ErrUnknownKind
	}

	j := &Job{
		ID:       uuid.NewString(),
		Kind:     kind,
		Status:   StatusPending,
		Filename: in.Filename,
		Prompt:   strings.TrimSpace(in.Prompt),
		Created:  time.Now(),
	}
	var snap Job
	err := q.do(func() {
		q.jobs[j.ID] = j
		id := j.ID
		q.timers[id] = time.AfterFunc(q.delay, func() {
			q.post(func() { q.complete(id) })
		})
		snap = j.clone()
	})
	if err != nil {
		return Job{}, err
	}
	slog.Info("job submitted", "id", snap.ID, "kind", kind, "image_bytes", len(in.Image))
	return snap, nil
}

func (q *Queue) complete(id string) {
	delete(q.timers, id)
	j, ok := q.jobs[id]
	if !ok || j.Status == StatusDone {
		return
	}
	switch j.Kind {
	case KindClassify:
		j.Result = &Result{Label: ClassifyLabel}
	case KindRecreate:
		j.Result = &Result{Images: append([]string(nil), q.samples...)}
	}
	j.Status = StatusDone
	j.Finished = time.Now()
	slog.Debug("job done", "id", id, "kind", j.Kind)

	for _, ch := range q.subs[id] {
		ch <- j.clone()
		close(ch)
	}
	delete(q.subs, id)
}

// Get returns a snapshot of job id.
func (q *Queue) Get(id string) (Job, error) {
	var (
		snap Job
		ok   bool
	)
	err := q.do(func() {
		var j *Job
		if j, ok = q.jobs[id]; ok {
			snap = j.clone()
		}
	})
	if err != nil {
		return Job{}, err
	}
	if !ok {
		return Job{}, ErrNotFound
	}
	return snap, nil
}

// Subscribe returns a channel that receives the job once it is done and
// is then closed. For a finished job the value is already there. Cancel
// releases the subscription early.
func (q *Queue) Subscribe(id string) (<-chan Job, func(), error) {
	ch := make(chan Job, 1)
	found := false
	err := q.do(func() {
		j, ok := q.jobs[id]
		if !ok {
			return
		}
		found = true
		if j.Status == StatusDone {
			ch <- j.clone()
			close(ch)
			return
		}
		q.subs[id] = append(q.subs[id], ch)
	})
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, ErrNotFound
	}
	cancel := func() {
		q.post(func() {
			chans := q.subs[id]
			for i, c := range chans {
				if c == ch {
					q.subs[id] = append(chans[:i], chans[i+1:]...)
					close(ch)
					return
				}
			}
		})
	}
	return ch, cancel, nil
}

// Len returns the number of jobs the queue knows about.
func (q *Queue) Len() int {
	n := 0
	if err := q.do(func() { n = len(q.jobs) }); err != nil {
		return 0
	}
	return n
}
