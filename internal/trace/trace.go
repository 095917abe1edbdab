// Package trace records engine runs to CSV and summarises them.
package trace

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/jakecoffman/rigid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BodySample is one row of bodies.csv.
type BodySample struct {
	Step            int     `csv:"step"`
	Timestamp       float64 `csv:"timestamp"`
	ID              int     `csv:"id"`
	Label           string  `csv:"label"`
	X               float64 `csv:"x"`
	Y               float64 `csv:"y"`
	Angle           float64 `csv:"angle"`
	VelocityX       float64 `csv:"vx"`
	VelocityY       float64 `csv:"vy"`
	AngularVelocity float64 `csv:"angular_velocity"`
	Speed           float64 `csv:"speed"`
	Sleeping        bool    `csv:"sleeping"`
}

// Event kinds written to events.csv.
const (
	CollisionStart = "collision_start"
	CollisionEnd   = "collision_end"
	SleepStart     = "sleep_start"
	SleepEnd       = "sleep_end"
)

// Event is one row of events.csv. Sleep events leave the B columns empty.
type Event struct {
	Step      int     `csv:"step"`
	Timestamp float64 `csv:"timestamp"`
	Kind      string  `csv:"kind"`
	BodyA     int     `csv:"body_a"`
	LabelA    string  `csv:"label_a"`
	BodyB     int     `csv:"body_b"`
	LabelB    string  `csv:"label_b"`
	Depth     float64 `csv:"depth"`
}

// Recorder observes an engine. Collision and sleep events are written as they happen;
// bodies are sampled after every Every-th step. Observer callbacks cannot fail, so the
// first write error is kept and returned by Flush and Close.
type Recorder struct {
	Every int

	engine *rigid.Engine
	logger *slog.Logger

	bodiesOut, eventsOut io.Writer
	closers              []io.Closer

	bodiesHeaderWritten bool
	eventsHeaderWritten bool

	step      int
	timestamp float64
	pending   []Event
	err       error

	speeds []float64
	depths []float64
	starts int
	ends   int
	sleeps int
	rows   int
}

// New writes samples to bodies and events. Either writer may be nil to skip that file.
func New(bodies, events io.Writer, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{
		Every:     every,
		bodiesOut: bodies,
		eventsOut: events,
		logger:    slog.Default(),
	}
}

// Create writes bodies.csv and events.csv into dir, creating it if needed.
func Create(dir string, every int) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	bodies, err := os.Create(filepath.Join(dir, "bodies.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating bodies.csv: %w", err)
	}
	events, err := os.Create(filepath.Join(dir, "events.csv"))
	if err != nil {
		bodies.Close()
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	r := New(bodies, events, every)
	r.closers = []io.Closer{bodies, events}
	return r, nil
}

// Attach starts observing engine. A recorder observes one engine at a time.
func (r *Recorder) Attach(engine *rigid.Engine) {
	if r.engine != nil {
		r.Detach()
	}
	r.engine = engine
	r.logger = engine.Logger()
	engine.Observe(r)
}

func (r *Recorder) Detach() {
	if r.engine == nil {
		return
	}
	r.engine.Forget(r)
	r.engine = nil
}

func (r *Recorder) BeforeUpdate(timestamp float64) {
	r.timestamp = timestamp
}

func (r *Recorder) AfterUpdate(timestamp float64) {
	r.timestamp = timestamp
	r.step++
	r.writeEvents()
	if r.step%r.Every == 0 && r.engine != nil {
		r.sample(r.engine.World().AllBodies())
	}
}

func (r *Recorder) CollisionStart(pairs []*rigid.Pair) {
	r.starts += len(pairs)
	r.collisionEvents(CollisionStart, pairs)
}

func (r *Recorder) CollisionActive(pairs []*rigid.Pair) {
	for _, pair := range pairs {
		if pair.IsSensor || pair.Collision == nil {
			continue
		}
		r.depths = append(r.depths, pair.Collision.Depth)
	}
}

func (r *Recorder) CollisionEnd(pairs []*rigid.Pair) {
	r.ends += len(pairs)
	r.collisionEvents(CollisionEnd, pairs)
}

func (r *Recorder) SleepStart(body *rigid.Body) {
	r.sleeps++
	r.pending = append(r.pending, r.sleepEvent(SleepStart, body))
}

func (r *Recorder) SleepEnd(body *rigid.Body) {
	r.pending = append(r.pending, r.sleepEvent(SleepEnd, body))
}

func (r *Recorder) sleepEvent(kind string, body *rigid.Body) Event {
	return Event{
		Step:      r.step + 1,
		Timestamp: r.timestamp,
		Kind:      kind,
		BodyA:     body.ID(),
		LabelA:    body.Label(),
	}
}

func (r *Recorder) collisionEvents(kind string, pairs []*rigid.Pair) {
	for _, pair := range pairs {
		a, b := pair.BodyA.Parent(), pair.BodyB.Parent()
		e := Event{
			Step:      r.step + 1,
			Timestamp: r.timestamp,
			Kind:      kind,
			BodyA:     a.ID(),
			LabelA:    a.Label(),
			BodyB:     b.ID(),
			LabelB:    b.Label(),
		}
		if pair.Collision != nil {
			e.Depth = pair.Collision.Depth
		}
		r.pending = append(r.pending, e)
	}
}

func (r *Recorder) writeEvents() {
	if len(r.pending) == 0 {
		return
	}
	events := r.pending
	r.pending = nil
	if r.eventsOut == nil {
		return
	}
	r.write(events, r.eventsOut, &r.eventsHeaderWritten, "events")
}

func (r *Recorder) sample(bodies []*rigid.Body) {
	if len(bodies) == 0 {
		return
	}
	samples := make([]BodySample, 0, len(bodies))
	for _, body := range bodies {
		if body.IsStatic() {
			continue
		}
		position, velocity := body.Position(), body.Velocity()
		samples = append(samples, BodySample{
			Step:            r.step,
			Timestamp:       r.timestamp,
			ID:              body.ID(),
			Label:           body.Label(),
			X:               position.X,
			Y:               position.Y,
			Angle:           body.Angle(),
			VelocityX:       velocity.X,
			VelocityY:       velocity.Y,
			AngularVelocity: body.AngularVelocity(),
			Speed:           body.Speed(),
			Sleeping:        body.IsSleeping(),
		})
		r.speeds = append(r.speeds, body.Speed())
	}
	r.rows += len(samples)
	if r.bodiesOut == nil || len(samples) == 0 {
		return
	}
	r.write(samples, r.bodiesOut, &r.bodiesHeaderWritten, "bodies")
}

func (r *Recorder) write(records any, w io.Writer, headerWritten *bool, name string) {
	if r.err != nil {
		return
	}
	var err error
	if !*headerWritten {
		err = gocsv.Marshal(records, w)
		*headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(records, w)
	}
	if err != nil {
		r.err = fmt.Errorf("writing %s: %w", name, err)
		r.logger.Error("trace write failed", "file", name, "err", err)
	}
}

// Flush writes events that arrived outside a step and reports the first write error.
func (r *Recorder) Flush() error {
	r.writeEvents()
	return r.err
}

// Close detaches the recorder and closes any files it created.
func (r *Recorder) Close() error {
	r.Detach()
	err := r.Flush()
	for _, c := range r.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	r.closers = nil
	return err
}

// Summary aggregates a run.
type Summary struct {
	Steps           int
	Samples         int
	CollisionStarts int
	CollisionEnds   int
	Sleeps          int

	SpeedMean   float64
	SpeedStdDev float64
	SpeedMax    float64

	DepthMean   float64
	DepthStdDev float64
	DepthMax    float64
}

// Summary describes everything recorded so far. Speeds come from the body samples and
// depths from the active collisions of every step.
func (r *Recorder) Summary() Summary {
	s := Summary{
		Steps:           r.step,
		Samples:         r.rows,
		CollisionStarts: r.starts,
		CollisionEnds:   r.ends,
		Sleeps:          r.sleeps,
	}
	if len(r.speeds) > 0 {
		s.SpeedMean, s.SpeedStdDev = meanStdDev(r.speeds)
		s.SpeedMax = floats.Max(r.speeds)
	}
	if len(r.depths) > 0 {
		s.DepthMean, s.DepthStdDev = meanStdDev(r.depths)
		s.DepthMax = floats.Max(r.depths)
	}
	return s
}

func meanStdDev(x []float64) (mean, std float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("steps", s.Steps),
		slog.Int("samples", s.Samples),
		slog.Int("collision_starts", s.CollisionStarts),
		slog.Int("collision_ends", s.CollisionEnds),
		slog.Int("sleeps", s.Sleeps),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStdDev),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("depth_mean", s.DepthMean),
		slog.Float64("depth_std", s.DepthStdDev),
		slog.Float64("depth_max", s.DepthMax),
	)
}
