package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExecutor_CapturesTrimmedOutput(t *testing.T) {
	e := NewExecutorWithStdin(nil)

	res, err := e.Run(context.Background(), []string{"sh", "-c", "echo '  hello  '; echo oops >&2"}, Options{})

	require.NoError(t, err)
	assert.Equal(t, "hello", res.Stdout)
	assert.Equal(t, "oops", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecutor_NonZeroExitIsNotAnError(t *testing.T) {
	e := NewExecutorWithStdin(nil)

	res, err := e.Run(context.Background(), []string{"sh", "-c", "echo 'parse error' >&2; exit 2"}, Options{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, "parse error", res.Stderr)
	assert.Empty(t, res.Stdout)
}

func TestExecutor_WorkingDirectoryAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0644))
	e := NewExecutorWithStdin(nil)

	res, err := e.Run(context.Background(), []string{"sh", "-c", "ls; printf %s \"$ACC_TEST_VALUE\" >&2"}, Options{
		Dir: dir,
		Env: map[string]string{"ACC_TEST_VALUE": "from-env"},
	})

	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "marker.txt")
	assert.Equal(t, "from-env", res.Stderr)
}

func TestExecutor_StdinIsForwarded(t *testing.T) {
	e := NewExecutorWithStdin(strings.NewReader("answer\n"))

	res, err := e.Run(context.Background(), []string{"sh", "-c", "read line; echo got:$line"}, Options{})

	require.NoError(t, err)
	assert.Equal(t, "got:answer", res.Stdout)
}

func TestExecutor_LargeOutputIsFullyDrained(t *testing.T) {
	e := NewExecutorWithStdin(nil)

	res, err := e.Run(context.Background(), []string{"sh", "-c", "i=0; while [ $i -lt 20000 ]; do echo line$i; i=$((i+1)); done"}, Options{})

	require.NoError(t, err)
	lines := strings.Split(res.Stdout, "\n")
	assert.Len(t, lines, 20000)
	assert.Equal(t, "line19999", lines[len(lines)-1])
}

func TestExecutor_WaitsForGrandchildOutput(t *testing.T) {
	e := NewExecutorWithStdin(nil)

	res, err := e.Run(context.Background(), []string{"sh", "-c", "(sleep 1; echo late) & echo early"}, Options{})

	require.NoError(t, err)
	assert.Equal(t, "early\nlate", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecutor_CancelAbandonsGrandchildPipes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewExecutorWithStdin(nil).Run(ctx, []string{"sh", "-c", "sleep 30 & echo started; wait"}, Options{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecutor_MissingBinary(t *testing.T) {
	e := NewExecutorWithStdin(nil)

	_, err := e.Run(context.Background(), []string{"acc-definitely-not-installed"}, Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting acc-definitely-not-installed")
}

func TestExecutor_EmptyArgs(t *testing.T) {
	_, err := NewExecutorWithStdin(nil).Run(context.Background(), nil, Options{})
	assert.EqualError(t, err, "command args required")
}

func TestExecutor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutorWithStdin(nil).Run(ctx, []string{"sh", "-c", "sleep 5"}, Options{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnvSlice_Sorted(t *testing.T) {
	got := envSlice(map[string]string{"B": "2", "A": "1"})
	assert.Equal(t, []string{"A=1", "B=2"}, got)
}
