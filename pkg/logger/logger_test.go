package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	level   string
	message string
	keyvals []any
}

type recorder struct {
	entries []entry
}

func (r *recorder) add(level, message string, keyvals []any) {
	r.entries = append(r.entries, entry{level: level, message: message, keyvals: keyvals})
}

func (r *recorder) Log(m string, kv ...any)   { r.add("log", m, kv) }
func (r *recorder) Debug(m string, kv ...any) { r.add("debug", m, kv) }
func (r *recorder) Info(m string, kv ...any)  { r.add("info", m, kv) }
func (r *recorder) Warn(m string, kv ...any)  { r.add("warn", m, kv) }
func (r *recorder) Error(m string, kv ...any) { r.add("error", m, kv) }
func (r *recorder) Fatal(m string, kv ...any) { r.add("fatal", m, kv) }

func TestFanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	t.Cleanup(func() { Init() })

	Info("corpus loaded", "entries", 3)
	Log("plain", "k", "v")

	for _, r := range []*recorder{a, b} {
		assert.Equal(t, []entry{
			{level: "info", message: "corpus loaded", keyvals: []any{"entries", 3}},
			{level: "log", message: "plain", keyvals: []any{"k", "v"}},
		}, r.entries)
	}
}

func TestWithPrependsKeyvals(t *testing.T) {
	r := &recorder{}
	Init(r)
	t.Cleanup(func() { Init() })

	reqLog := With("request_id", "abc")
	reqLog.Warn("degraded", "reason", "missing model")
	reqLog.With("stage", "rank").Debug("ranked")

	assert.Equal(t, []entry{
		{level: "warn", message: "degraded", keyvals: []any{"request_id", "abc", "reason", "missing model"}},
		{level: "debug", message: "ranked", keyvals: []any{"request_id", "abc", "stage", "rank"}},
	}, r.entries)
}

func TestUninitialisedIsNoop(t *testing.T) {
	singletonMu.Lock()
	singleton = nil
	singletonMu.Unlock()

	assert.NotPanics(t, func() {
		Info("nothing")
		With("k", "v").Error("still nothing")
	})
}
