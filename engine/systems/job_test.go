package systems

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
)

func TestNewJobSystemErrors(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("NewJobSystem(0, 1)\nhave %v\nwant %v", err, ErrNoWorkers)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Fatalf("NewJobSystem(1, -1)\nhave %v\nwant %v", err, ErrNegativeChannelSize)
	}
}

func TestJobSystemRunsJobs(t *testing.T) {
	js, err := NewJobSystem(3, 4)
	if err != nil {
		t.Fatalf("NewJobSystem: unexpected error %v", err)
	}

	var (
		mu        sync.Mutex
		completed []int
		failed    int32
		finished  int32
	)
	boom := errors.New("boom")
	for i := 0; i < 10; i++ {
		err := js.Submit(metadata.JobTask{
			JobType:     metadata.JOB_TYPE_GENERAL,
			InputParams: i,
			OnStart: func(params interface{}, out chan<- interface{}) error {
				n := params.(int)
				if n%5 == 0 {
					return boom
				}
				out <- n * n
				return nil
			},
			OnComplete: func(result interface{}) {
				mu.Lock()
				completed = append(completed, result.(int))
				mu.Unlock()
			},
			OnFailure: func(err error) {
				if errors.Is(err, boom) {
					atomic.AddInt32(&failed, 1)
				}
			},
			OnCompletionCallback: func() {
				atomic.AddInt32(&finished, 1)
			},
		})
		if err != nil {
			t.Fatalf("JobSystem.Submit: unexpected error %v", err)
		}
	}

	if err := js.Shutdown(); err != nil {
		t.Fatalf("JobSystem.Shutdown: unexpected error %v", err)
	}
	if len(completed) != 8 || failed != 2 || finished != 10 {
		t.Fatalf("jobs\nhave %d completed, %d failed, %d finished\nwant 8, 2, 10", len(completed), failed, finished)
	}

	if err := js.Submit(metadata.JobTask{OnStart: func(interface{}, chan<- interface{}) error { return nil }}); !errors.Is(err, ErrJobSystemClosed) {
		t.Fatalf("JobSystem.Submit after shutdown\nhave %v\nwant %v", err, ErrJobSystemClosed)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatalf("JobSystem.Shutdown twice: unexpected error %v", err)
	}
}
