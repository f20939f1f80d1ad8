package idoprogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage(t *testing.T) {
	const (
		start  = 1_000
		finish = 2_000
	)
	base := &Pool{GoalMin: 100, GoalMax: 500, TimeStart: start, TimeFinish: finish}

	tests := []struct {
		name           string
		now            int64
		collectedTotal uint64
		want           PoolStage
	}{
		{name: "before start", now: start - 1, collectedTotal: 0, want: StagePreparing},
		{name: "active, below goal max", now: start + 1, collectedTotal: 200, want: StageActive},
		{name: "sold out before finish", now: start + 1, collectedTotal: 500, want: StageSoldOut},
		{name: "sold out exactly at goal max, before finish", now: finish - 1, collectedTotal: 500, want: StageSoldOut},
		{name: "successful at finish, goal min met", now: finish, collectedTotal: 300, want: StageSuccessful},
		{name: "successful at finish, goal max met", now: finish, collectedTotal: 500, want: StageSuccessful},
		{name: "failed at finish, below goal min", now: finish, collectedTotal: 50, want: StageFailed},
		{name: "failed long after finish", now: finish + 10_000, collectedTotal: 0, want: StageFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := *base
			pool.CollectedTotal = tt.collectedTotal
			assert.Equal(t, tt.want, Stage(&pool, tt.now))
		})
	}
}

func TestPoolStageString(t *testing.T) {
	assert.Equal(t, "preparing", StagePreparing.String())
	assert.Equal(t, "active", StageActive.String())
	assert.Equal(t, "sold-out", StageSoldOut.String())
	assert.Equal(t, "successful", StageSuccessful.String())
	assert.Equal(t, "failed", StageFailed.String())
	assert.Equal(t, "unknown", PoolStage(99).String())
}
