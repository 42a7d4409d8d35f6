package arena

import (
	"math"
	"sync"
	"time"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// roundTimer counts down one round on a 1s tick. Remaining time is
// recomputed from the round's start on every tick, so dropped ticks or a
// slow broadcast never stretch the round past its wall-clock limit. Ticks
// surface through onTick on 10s boundaries, then every second inside the
// final 10s window. onExpire fires at most once; Cancel is safe to call
// from any goroutine and any number of times.
type roundTimer struct {
	stop     chan struct{}
	stopOnce sync.Once
}

func newRoundTimer(startedAt time.Time, seconds int, onTick func(remaining int), onExpire func()) *roundTimer {
	t := &roundTimer{stop: make(chan struct{})}
	go t.run(startedAt.Add(time.Duration(seconds)*time.Second), onTick, onExpire)
	return t
}

func (t *roundTimer) run(deadline time.Time, onTick func(int), onExpire func()) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			now := time.Now()
			if !now.Before(deadline) {
				onExpire()
				return
			}
			remaining := int(math.Ceil(deadline.Sub(now).Seconds()))
			if remaining%model.TimeUpdateCoarseSeconds == 0 || remaining <= model.TimeUpdateDenseWindow {
				onTick(remaining)
			}
		}
	}
}

func (t *roundTimer) Cancel() {
	t.stopOnce.Do(func() { close(t.stop) })
}
