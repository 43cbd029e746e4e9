package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/GangSheet/internal/model"
)

func deadlineTask(deadline time.Time) model.Task {
	t := task(model.ProductFullColour, "")
	t.Deadline = &deadline
	return t
}

func TestUrgency_DeadlineWindows(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, Urgency(task(model.ProductFullColour, ""), now), "no deadline scores baseline")
	assert.Equal(t, 100, Urgency(deadlineTask(now.Add(6*time.Hour)), now))
	assert.Equal(t, 100, Urgency(deadlineTask(now.Add(-2*time.Hour)), now), "past due is critical")
	assert.Equal(t, 50, Urgency(deadlineTask(now.Add(48*time.Hour)), now))
	assert.Equal(t, 25, Urgency(deadlineTask(now.Add(120*time.Hour)), now))
	assert.Equal(t, 0, Urgency(deadlineTask(now.Add(300*time.Hour)), now))
}

func TestIsCritical(t *testing.T) {
	now := time.Now()
	assert.True(t, IsCritical(deadlineTask(now.Add(12*time.Hour)), now))
	assert.False(t, IsCritical(deadlineTask(now.Add(48*time.Hour)), now))
	assert.False(t, IsCritical(task(model.ProductFullColour, ""), now))
}

func TestUrgencySumAndCombinationCritical(t *testing.T) {
	now := time.Now()
	tasks := []model.Task{
		deadlineTask(now.Add(12 * time.Hour)),
		deadlineTask(now.Add(48 * time.Hour)),
		task(model.ProductFullColour, ""),
	}
	assert.Equal(t, 150, UrgencySum(tasks, now))
	assert.True(t, CombinationCritical(tasks, now))
	assert.False(t, CombinationCritical(tasks[1:], now))
}
