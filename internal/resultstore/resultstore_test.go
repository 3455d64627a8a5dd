package resultstore

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultLine(t *testing.T) {
	res := Result{Index: 12, Code: "0_1__S0_H1", Verdict: "PASS"}
	line := res.Line()
	assert.Contains(t, line, "12")
	assert.Contains(t, line, "PASS")
	assert.Contains(t, line, "0_1__S0_H1")
	assert.NotContains(t, line, "trail=")

	res.Trail = "/tmp/x.trail"
	assert.Contains(t, res.Line(), "trail=/tmp/x.trail")
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	require.NoError(t, sink.Record(Result{Index: 1, Code: "a", Verdict: "PASS"}))
	require.NoError(t, sink.Record(Result{Index: 2, Code: "b", Verdict: "fail"}))
	require.NoError(t, sink.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "a")
	assert.Contains(t, lines[1], "b")
}

func TestWriterSinkConcurrent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = sink.Record(Result{Index: uint64(i), Code: "code", Verdict: "PASS"})
		}(i)
	}
	wg.Wait()

	// every record lands on its own intact line
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 16)
	for _, line := range lines {
		assert.Contains(t, line, "PASS")
	}
}

func TestTeeDuplicates(t *testing.T) {
	var a, b bytes.Buffer
	tee := NewTee(&a, &b)

	n, err := tee.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "hello\n", a.String())
	assert.Equal(t, "hello\n", b.String())
}

type failingSink struct{ err error }

func (f *failingSink) Record(Result) error { return f.err }
func (f *failingSink) Close() error        { return f.err }

func TestMultiStopsOnFailure(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	multi := NewMulti(&failingSink{err: boom}, NewWriterSink(&buf))

	err := multi.Record(Result{Code: "a", Verdict: "PASS"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, buf.String())
}

func TestMultiForwardsToAll(t *testing.T) {
	var a, b bytes.Buffer
	multi := NewMulti(NewWriterSink(&a), NewWriterSink(&b))

	require.NoError(t, multi.Record(Result{Index: 7, Code: "xyz", Verdict: "PASS"}))
	assert.Contains(t, a.String(), "xyz")
	assert.Contains(t, b.String(), "xyz")
	assert.NoError(t, multi.Close())
}
